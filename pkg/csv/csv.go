package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yurifrl/budgetu/pkg/models"
)

const lineEnd = "\r\n"

// Header is the first line of every CSV export, without its line terminator.
var Header = strings.Join(models.Columns, ",")

// Options tweaks the CSV output. The zero value produces the plain format:
// fields joined by commas with no quoting at all.
type Options struct {
	// Quote enables RFC 4180 quoting of fields holding commas, quotes or
	// line breaks.
	Quote bool
}

// Create renders records as CSV with CRLF line endings. Nil fields render
// as empty strings. Text fields are written verbatim unless opts.Quote is set,
// so a comma inside a name or category shifts the columns of that line.
func Create(records []models.UnifiedRecord, opts Options) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		row, err := Row(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	if opts.Quote {
		return quoted(rows)
	}

	var buf bytes.Buffer
	buf.WriteString(Header + lineEnd)
	for _, row := range rows {
		buf.WriteString(strings.Join(row, ",") + lineEnd)
	}
	return buf.Bytes(), nil
}

func quoted(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := stdcsv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(models.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Row returns the seven text fields of r in column order.
func Row(r models.UnifiedRecord) ([]string, error) {
	amount, err := optNumber("amount", r.Amount)
	if err != nil {
		return nil, err
	}
	planned, err := optNumber("planned", r.Planned)
	if err != nil {
		return nil, err
	}
	actual, err := optNumber("actual", r.Actual)
	if err != nil {
		return nil, err
	}

	selected := ""
	if r.Selected != nil {
		selected = strconv.FormatBool(*r.Selected)
	}

	return []string{
		string(r.Type),
		optString(r.Name),
		amount,
		optString(r.Category),
		planned,
		actual,
		selected,
	}, nil
}

// FormatNumber renders f in its shortest round-trip decimal form, switching
// to exponent notation outside [1e-6, 1e21). Negative zero renders as "0".
func FormatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v", f)
	}
	if f == 0 {
		return "0", nil
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// strconv pads the exponent to two digits: 1e-07 -> 1e-7.
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func optNumber(field string, f *float64) (string, error) {
	if f == nil {
		return "", nil
	}
	s, err := FormatNumber(*f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return s, nil
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
