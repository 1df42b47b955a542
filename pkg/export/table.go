// Package export renders tabular reports such as course rosters.
package export

import (
	"fmt"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" (the default when empty) or "pdf", in any case.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Table is a titled grid of string cells. Every row must have len(Columns) cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (t Table) check() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Render encodes t in the requested format.
func Render(format Format, t Table) ([]byte, error) {
	switch format {
	case FormatCSV:
		return RenderCSV(t)
	case FormatPDF:
		return RenderPDF(t)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}
