package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yurifrl/budgetu/pkg/csv"
	"github.com/yurifrl/budgetu/pkg/models"
)

type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

const (
	JSONFilename = "budget_report.json"
	CSVFilename  = "budget_report.csv"

	JSONMimeType = "application/json"
	CSVMimeType  = "text/csv;charset=utf-8;"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{JSON, CSV}

// Payload is an encoded export ready to be offered as a download.
type Payload struct {
	Bytes    []byte
	MimeType string
	Filename string
}

// Options carries format specific switches.
type Options struct {
	CSV csv.Options
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Export encodes data in the given format.
func Export(format Format, data models.BudgetData, opts Options) (Payload, error) {
	switch format {
	case JSON:
		return ExportJSON(data)
	case CSV:
		return exportCSV(data, opts.CSV)
	default:
		return Payload{}, fmt.Errorf("unknown export format %q", format)
	}
}

// ExportJSON encodes the flattened records as a 2-space indented JSON array.
// Unset fields are written as null and the output carries no trailing newline.
func ExportJSON(data models.BudgetData) (Payload, error) {
	records := models.Flatten(data)
	for i := range records {
		positiveZero(records[i].Amount, records[i].Planned, records[i].Actual)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return Payload{}, &SerializationError{Format: JSON, Err: err}
	}

	return Payload{
		Bytes:    bytes.TrimSuffix(buf.Bytes(), []byte("\n")),
		MimeType: JSONMimeType,
		Filename: JSONFilename,
	}, nil
}

// positiveZero rewrites -0 as 0 so JSON prints it the way the CSV does.
// Flattened records own their values, so the source budget is untouched.
func positiveZero(fs ...*float64) {
	for _, f := range fs {
		if f != nil && *f == 0 {
			*f = 0
		}
	}
}

// ExportCSV encodes the flattened records as unquoted CSV with CRLF line endings.
func ExportCSV(data models.BudgetData) (Payload, error) {
	return exportCSV(data, csv.Options{})
}

func exportCSV(data models.BudgetData, opts csv.Options) (Payload, error) {
	out, err := csv.Create(models.Flatten(data), opts)
	if err != nil {
		return Payload{}, &SerializationError{Format: CSV, Err: err}
	}
	return Payload{
		Bytes:    out,
		MimeType: CSVMimeType,
		Filename: CSVFilename,
	}, nil
}
