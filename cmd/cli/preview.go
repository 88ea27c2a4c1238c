package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/k0kubun/pp/v3"

	"github.com/yurifrl/budgetu/pkg/csv"
	"github.com/yurifrl/budgetu/pkg/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	incomeStyle  = cellStyle.Foreground(lipgloss.Color("10")) // green
	expenseStyle = cellStyle.Foreground(lipgloss.Color("11")) // yellow
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderPreview prints the flattened records the way they will be exported,
// followed by the budget totals.
func renderPreview(w io.Writer, data models.BudgetData) error {
	records := models.Flatten(data)

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		row, err := csv.Row(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(models.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < len(records) && records[row].Type == models.TypeIncome {
				return incomeStyle
			}
			return expenseStyle
		})

	fmt.Fprintln(w, t.Render())

	s := models.Summarize(data)
	fmt.Fprintf(w, "\nIncome: %.2f | Planned: %.2f | Actual: %.2f\n", s.Income, s.Planned, s.Actual)
	fmt.Fprintf(w, "Selected: %.2f | Savings: %.2f\n", s.SelectedPlanned, s.Savings)
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("budget is empty"))
	}
	return nil
}

// dumpRecords pretty-prints the raw records, nil fields included.
func dumpRecords(w io.Writer, records []models.UnifiedRecord) error {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(false)
	_, err := printer.Println(records)
	return err
}
