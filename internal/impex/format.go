// Package impex holds the file format codecs for vocabulary import and
// export: parsing uploaded CSV/JSON/TXT/XLSX files into loose rows and
// serializing entries back out. No storage access happens here.
package impex

import (
	"fmt"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// Format is a supported file format name.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
	FormatXLSX Format = "xlsx"
)

// ParseImportFormat validates a caller-supplied import format name.
func ParseImportFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatTXT, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: unsupported import format %q", domain.ErrValidation, s)
}

// ParseExportFormat validates a caller-supplied export format name.
// xlsx is accepted here; the serializer returns a placeholder for it.
func ParseExportFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatTXT, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, s)
}

// Row is one loosely-typed record from an uploaded file: a field-name to
// string value mapping plus the 1-based line (or row) it came from, kept for
// failure reporting.
type Row struct {
	Line   int
	Fields map[string]string
}

// Field returns the named field, empty when absent.
func (r Row) Field(name string) string {
	return r.Fields[name]
}
