package entry

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
)

const (
	defaultSortBy    = "created_at"
	defaultSortOrder = "DESC"
)

// sortColumns is the whitelist of ORDER BY targets. Anything else falls back
// to created_at so caller input never reaches the SQL text.
var sortColumns = map[string]string{
	"created_at":    "e.created_at",
	"updated_at":    "e.updated_at",
	"word":          "e.word",
	"status":        "e.status",
	"mastery_level": "e.mastery_level",
}

// applyFilter adds the WHERE predicate shared by the count and data queries.
// The tags filter is an AND membership test: the entry must carry every
// requested tag, checked with a grouped subquery on the binder table.
func applyFilter(b sq.SelectBuilder, userID uuid.UUID, f domain.EntryFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"e.user_id": userID})

	if f.Status != nil {
		b = b.Where(sq.Eq{"e.status": *f.Status})
	}
	if f.Language != nil {
		b = b.Where(sq.Eq{"e.language": *f.Language})
	}
	if f.Search != nil {
		pattern := "%" + *f.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"e.word": pattern},
			sq.ILike{"e.definition": pattern},
			sq.ILike{"e.notes": pattern},
		})
	}
	if len(f.Tags) > 0 {
		b = b.Where(sq.Expr(
			`e.id IN (
				SELECT et.entry_id FROM entry_tags et
				JOIN tags t ON t.id = et.tag_id
				WHERE t.name = ANY(?)
				GROUP BY et.entry_id
				HAVING count(DISTINCT t.name) = ?
			)`, f.Tags, len(f.Tags)))
	}

	return b
}

// orderBy resolves the whitelisted sort column and direction.
func orderBy(page domain.Page) string {
	col, ok := sortColumns[page.SortBy]
	if !ok {
		col = sortColumns[defaultSortBy]
	}
	dir := "DESC"
	if page.SortOrder == "asc" || page.SortOrder == "ASC" {
		dir = "ASC"
	}
	return col + " " + dir
}
