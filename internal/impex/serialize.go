package impex

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// DefaultExportFields is the field set used when the caller supplies no
// allow-list. Order is the column order of CSV and TXT output.
var DefaultExportFields = []string{
	"word", "language", "definition", "example", "status",
	"mastery_level", "review_count", "last_reviewed_at", "next_review_at",
	"source", "source_page", "notes", "tags", "created_at", "updated_at",
}

// xlsxPlaceholder is returned for xlsx exports; workbook generation is not
// implemented on this path.
const xlsxPlaceholder = "XLSX export is not yet available. Please use csv, json, or txt."

// Serialize renders entries in the requested format restricted to the given
// fields. Unknown field names are dropped; an empty field list falls back to
// DefaultExportFields.
func Serialize(format Format, entries []domain.Entry, fields []string) (string, error) {
	fields = selectFields(fields)

	switch format {
	case FormatCSV:
		return serializeCSV(entries, fields)
	case FormatJSON:
		return serializeJSON(entries, fields)
	case FormatTXT:
		return serializeTXT(entries, fields), nil
	case FormatXLSX:
		return xlsxPlaceholder, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, format)
}

// selectFields filters the caller's allow-list against the known field set,
// preserving the default order.
func selectFields(requested []string) []string {
	if len(requested) == 0 {
		return DefaultExportFields
	}

	want := make(map[string]bool, len(requested))
	for _, f := range requested {
		want[strings.ToLower(strings.TrimSpace(f))] = true
	}

	out := make([]string, 0, len(requested))
	for _, f := range DefaultExportFields {
		if want[f] {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return DefaultExportFields
	}
	return out
}

// serializeCSV writes a header row followed by one record per entry. The csv
// writer quote-escapes commas, quotes, and embedded newlines.
func serializeCSV(entries []domain.Entry, fields []string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(fields); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(fields))
	for i := range entries {
		for j, f := range fields {
			record[j] = fieldValue(&entries[i], f)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// serializeJSON renders a bare array of objects, one per entry, with only the
// selected fields. encoding/json escapes control characters in values.
func serializeJSON(entries []domain.Entry, fields []string) (string, error) {
	items := make([]map[string]string, len(entries))
	for i := range entries {
		item := make(map[string]string, len(fields))
		for _, f := range fields {
			item[f] = fieldValue(&entries[i], f)
		}
		items[i] = item
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return buf.String(), nil
}

// serializeTXT renders a human-readable itemized listing: a title line, then
// one numbered block per entry with "field: value" lines for non-empty fields.
func serializeTXT(entries []domain.Entry, fields []string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Vocabulary Export (%d items)\n", len(entries)))
	for i := range entries {
		b.WriteString(fmt.Sprintf("\nItem %d:\n", i+1))
		for _, f := range fields {
			v := fieldValue(&entries[i], f)
			if v == "" {
				continue
			}
			b.WriteString("  " + f + ": " + v + "\n")
		}
	}
	return b.String()
}

// fieldValue renders one entry field as a string. Nil optionals render empty,
// timestamps as RFC 3339, tags joined with semicolons.
func fieldValue(e *domain.Entry, field string) string {
	switch field {
	case "word":
		return e.Word
	case "language":
		return e.Language
	case "definition":
		return deref(e.Definition)
	case "example":
		return deref(e.Example)
	case "status":
		return string(e.Status)
	case "mastery_level":
		return strconv.Itoa(e.MasteryLevel)
	case "review_count":
		return strconv.Itoa(e.ReviewCount)
	case "last_reviewed_at":
		return formatTime(e.LastReviewedAt)
	case "next_review_at":
		return formatTime(e.NextReviewAt)
	case "source":
		return deref(e.Source)
	case "source_page":
		if e.SourcePage == nil {
			return ""
		}
		return strconv.Itoa(*e.SourcePage)
	case "notes":
		return deref(e.Notes)
	case "tags":
		return strings.Join(e.Tags, ";")
	case "created_at":
		return e.CreatedAt.UTC().Format(time.RFC3339)
	case "updated_at":
		return e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatFileSize renders a byte count as a human-readable size with one
// decimal place above the byte range.
func FormatFileSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
