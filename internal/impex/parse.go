package impex

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// txtColumns is the positional field order of the plain-text format.
var txtColumns = []string{"word", "language", "phonetic", "definition", "example"}

// Parse reads the whole file and dispatches to the codec for the format.
func Parse(format Format, r io.Reader) ([]Row, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatTXT:
		return ParseTXT(r)
	case FormatXLSX:
		return ParseXLSX(r)
	}
	return nil, fmt.Errorf("%w: unsupported import format %q", domain.ErrValidation, format)
}

// ParseCSV reads an RFC 4180 CSV file. The first record is the header; field
// names are matched case-insensitively. Quoted fields may contain commas,
// quotes, and newlines. Line numbers refer to the physical line a record
// starts on, so failures point at the right place even with multi-line fields.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, missing cells read as empty

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv header: %v", domain.ErrValidation, err)
	}
	for i := range header {
		header[i] = normalizeFieldName(header[i])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return rows, fmt.Errorf("%w: malformed csv at line %d: %v", domain.ErrValidation, pe.Line, err)
			}
			return rows, fmt.Errorf("%w: malformed csv: %v", domain.ErrValidation, err)
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				fields[name] = strings.TrimSpace(record[i])
			}
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	return rows, nil
}

// jsonEnvelope is the wrapped form: an object carrying an items array.
type jsonEnvelope struct {
	Items []map[string]any `json:"items"`
}

// ParseJSON accepts either a bare array of objects or an object with an
// `items` array. Values are stringified; non-string scalars come through via
// their default formatting. Line numbers are item ordinals, 1-based.
func ParseJSON(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var items []map[string]any
	trimmed := bytes.TrimLeftFunc(data, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env jsonEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrValidation, err)
		}
		items = env.Items
	} else {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrValidation, err)
		}
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		fields := make(map[string]string, len(item))
		for k, v := range item {
			name := normalizeFieldName(k)
			if name == "" || v == nil {
				continue
			}
			switch val := v.(type) {
			case string:
				fields[name] = strings.TrimSpace(val)
			case float64:
				fields[name] = strings.TrimSuffix(fmt.Sprintf("%v", val), ".0")
			default:
				fields[name] = fmt.Sprintf("%v", val)
			}
		}
		rows = append(rows, Row{Line: i + 1, Fields: fields})
	}
	return rows, nil
}

// ParseTXT reads the plain-text format: one entry per line with positional
// comma-separated fields word,language,phonetic,definition,example. Blank
// lines and lines starting with # are skipped and do not count as rows.
func ParseTXT(r io.Reader) ([]Row, error) {
	var rows []Row

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		parts := strings.Split(text, ",")
		fields := make(map[string]string, len(txtColumns))
		for i, name := range txtColumns {
			if i < len(parts) {
				fields[name] = strings.TrimSpace(parts[i])
			}
		}
		rows = append(rows, Row{Line: line, Fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return rows, fmt.Errorf("read txt: %w", err)
	}
	return rows, nil
}

// ParseXLSX reads the first sheet of a workbook. The first row is the header,
// matched case-insensitively like CSV. Line numbers are sheet row numbers.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed xlsx: %v", domain.ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read xlsx sheet: %v", domain.ErrValidation, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	for i := range header {
		header[i] = normalizeFieldName(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for rowIdx, record := range records[1:] {
		fields := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			if name == "" || i >= len(record) {
				continue
			}
			val := strings.TrimSpace(record[i])
			fields[name] = val
			if val != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, Row{Line: rowIdx + 2, Fields: fields})
	}
	return rows, nil
}

func normalizeFieldName(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}
