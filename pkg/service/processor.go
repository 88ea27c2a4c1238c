package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/yurifrl/budgetu/pkg/budgetfile"
	"github.com/yurifrl/budgetu/pkg/download"
	"github.com/yurifrl/budgetu/pkg/export"
)

// Processor exports every budget file found in a directory. Each budget
// gets its own output folder named after the file, since the report
// filenames are fixed.
type Processor struct {
	fs     afero.Fs
	logger *log.Logger
	opts   export.Options
}

// NewProcessor creates a Processor reading and writing on fs.
func NewProcessor(fs afero.Fs, logger *log.Logger, opts export.Options) *Processor {
	return &Processor{
		fs:     fs,
		logger: logger,
		opts:   opts,
	}
}

// ProcessDirectory exports each budget file in dir. Files that fail are
// logged and skipped; the number of exported budgets is returned.
func (p *Processor) ProcessDirectory(dir, outputDir string, formats []export.Format) (int, error) {
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return 0, fmt.Errorf("error reading directory: %w", err)
	}

	done := 0
	for _, entry := range entries {
		if entry.IsDir() || !IsBudgetFile(entry.Name()) {
			continue
		}

		inputPath := filepath.Join(dir, entry.Name())
		if err := p.ProcessFile(inputPath, p.determineOutputDir(outputDir, entry.Name()), formats); err != nil {
			p.logger.Error("failed to process budget", "file", entry.Name(), "error", err)
			continue
		}
		done++
	}
	return done, nil
}

// ProcessFile exports a single budget file into outputDir.
func (p *Processor) ProcessFile(inputPath, outputDir string, formats []export.Format) error {
	data, err := budgetfile.Load(p.fs, inputPath)
	if err != nil {
		return err
	}

	exp := export.New(p.logger, &download.FileDownloader{Fs: p.fs, Dir: outputDir}, p.opts)
	for _, f := range formats {
		if err := exp.Export(f, data); err != nil {
			return err
		}
	}

	p.logger.Info("processed budget", "input", inputPath, "output", outputDir)
	return nil
}

func (p *Processor) determineOutputDir(outputDir, fileName string) string {
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.Join(outputDir, baseName)
}

// IsBudgetFile reports whether name has a budget file extension.
func IsBudgetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
