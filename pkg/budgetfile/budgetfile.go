package budgetfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/budgetu/pkg/models"
)

// Default returns the budget a fresh session starts with: two empty income
// lines and a single selected expense.
func Default() models.BudgetData {
	return models.BudgetData{
		Incomes: []models.Income{
			{Name: "Income 1", Amount: 0},
			{Name: "Income 2", Amount: 0},
		},
		Expenses: []models.Expense{
			{Category: "", Planned: 0, Actual: models.Float(0), Selected: models.Bool(true)},
		},
	}
}

// Expand resolves a leading ~/ to the user's home directory.
func Expand(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads a budget from a YAML (.yaml, .yml) or JSON (.json) file.
func Load(fs afero.Fs, path string) (models.BudgetData, error) {
	path, err := Expand(path)
	if err != nil {
		return models.BudgetData{}, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return models.BudgetData{}, fmt.Errorf("failed to read budget file: %w", err)
	}

	d, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return models.BudgetData{}, fmt.Errorf("failed to parse budget file %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a budget document. ext selects the decoder: ".json" for
// JSON, anything else for YAML.
func Parse(data []byte, ext string) (models.BudgetData, error) {
	var d models.BudgetData
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return models.BudgetData{}, err
		}
	default:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return models.BudgetData{}, err
		}
	}

	if d.Incomes == nil {
		d.Incomes = []models.Income{}
	}
	if d.Expenses == nil {
		d.Expenses = []models.Expense{}
	}
	return d, nil
}

// Save writes d to path as YAML, creating parent directories as needed.
func Save(fs afero.Fs, path string, d models.BudgetData) error {
	path, err := Expand(path)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode budget: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write budget file: %w", err)
	}
	return nil
}
