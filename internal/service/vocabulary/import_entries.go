package vocabulary

import (
	"bytes"
	"context"

	"github.com/readmemo/vocab-backend/internal/domain"
	"github.com/readmemo/vocab-backend/internal/impex"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 8. ImportEntries
// ---------------------------------------------------------------------------

// importRow pairs a prepared entry row with its origin in the uploaded file.
type importRow struct {
	line int
	raw  string
	row  domain.EntryRow
}

// ImportEntries parses an uploaded file and loads its rows into the caller's
// vocabulary. Words are pre-registered in the dictionary with conflict-
// tolerant bulk upserts, then entries are bulk-inserted with insert-if-absent
// semantics: rows the caller already has count as skipped, not failed. The
// reported failure list is capped; counts stay exact. A storage failure
// mid-import returns the counts accumulated so far instead of discarding
// them.
func (s *Service) ImportEntries(ctx context.Context, input ImportInput) (*ImportResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.ImportMaxFileSize); err != nil {
		return nil, err
	}
	format, err := impex.ParseImportFormat(input.Format)
	if err != nil {
		return nil, err
	}

	rows, parseErr := impex.Parse(format, bytes.NewReader(input.Data))
	if parseErr != nil && len(rows) == 0 {
		return nil, parseErr
	}
	if parseErr != nil {
		// Rows before the malformed point are still imported.
		s.log.WarnContext(ctx, "import file partially parsed", "format", string(format), "error", parseErr)
	}

	result := &ImportResult{TotalProcessed: len(rows)}

	ready := make([]importRow, 0, len(rows))
	for _, row := range rows {
		raw := row.Field("word")
		normalized := domain.NormalizeWord(raw)
		if normalized == "" {
			s.recordFailure(result, row.Line, raw, "word is blank")
			continue
		}

		language := domain.NormalizeWord(row.Field("language"))
		if language == "" {
			language = domain.DetectLanguage(normalized)
		}

		ready = append(ready, importRow{
			line: row.Line,
			raw:  raw,
			row: domain.EntryRow{
				Word:       normalized,
				Language:   language,
				Phonetic:   optional(row.Field("phonetic")),
				Definition: optional(row.Field("definition")),
				Example:    optional(row.Field("example")),
			},
		})
	}

	chunkSize := s.cfg.ImportChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}

	for start := 0; start < len(ready); start += chunkSize {
		end := start + chunkSize
		if end > len(ready) {
			end = len(ready)
		}
		chunk := ready[start:end]

		words := make([]domain.WordUpsert, len(chunk))
		entryRows := make([]domain.EntryRow, len(chunk))
		for i, r := range chunk {
			words[i] = domain.WordUpsert{Text: r.row.Word, Language: r.row.Language, Phonetic: r.row.Phonetic}
			entryRows[i] = r.row
		}

		if _, err := s.words.BulkUpsert(ctx, words); err != nil {
			s.abortImport(ctx, result, ready[start:], err)
			break
		}

		inserted, err := s.entries.BulkInsertIfAbsent(ctx, userID, entryRows)
		for _, ok := range inserted {
			if ok {
				result.Imported++
			} else {
				result.Skipped++
			}
		}
		if err != nil {
			s.abortImport(ctx, result, chunk[len(inserted):], err)
			if end < len(ready) {
				s.abortImport(ctx, result, ready[end:], err)
			}
			break
		}
	}

	s.log.InfoContext(ctx, "import finished",
		"format", string(format),
		"processed", result.TotalProcessed,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// recordFailure bumps the failed count and appends the detail while the
// failure list is under the configured cap.
func (s *Service) recordFailure(result *ImportResult, line int, word, reason string) {
	result.Failed++

	cap := s.cfg.ImportMaxFailures
	if cap <= 0 {
		cap = 100
	}
	if len(result.Failures) < cap {
		result.Failures = append(result.Failures, ImportFailure{Line: line, Word: word, Reason: reason})
	}
}

// abortImport marks every remaining row failed after a storage error. The
// partial counts gathered so far stay in the result.
func (s *Service) abortImport(ctx context.Context, result *ImportResult, remaining []importRow, cause error) {
	s.log.ErrorContext(ctx, "import aborted", "remaining", len(remaining), "error", cause)
	for _, r := range remaining {
		s.recordFailure(result, r.line, r.raw, "import aborted: "+cause.Error())
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
