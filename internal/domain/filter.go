package domain

// EntryFilter selects a subset of one user's entries. All set fields must
// match: Tags is an AND membership test against the entry's bound tag names,
// Search is a substring match against word, definition, and notes.
type EntryFilter struct {
	Status   *LearningStatus
	Language *string
	Tags     []string
	Search   *string
}

// Page holds validated offset pagination and ordering parameters.
type Page struct {
	Number    int
	Size      int
	SortBy    string
	SortOrder string
}

// Offset returns the row offset of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages computes ceil(total/size) for pagination metadata.
func (p Page) TotalPages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
