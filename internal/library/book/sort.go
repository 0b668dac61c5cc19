package book

// SortKey enumerates the orderings the list view accepts. Values mirror
// the query-string tokens; anything outside the set falls back to the
// default, so raw client input never reaches SQL.
type SortKey string

const (
	SortUpdatedDesc  SortKey = "-updated_at"
	SortCreatedDesc  SortKey = "-created_at"
	SortTitleAsc     SortKey = "title"
	SortAuthorAsc    SortKey = "author"
	SortRatingDesc   SortKey = "-overall_rating"
	SortFinishedDesc SortKey = "-finished_at"
)

// ParseSortKey maps a raw sort token to a SortKey, defaulting to
// SortUpdatedDesc for absent or unrecognized input.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortCreatedDesc, SortTitleAsc, SortAuthorAsc, SortRatingDesc, SortFinishedDesc:
		return SortKey(raw)
	default:
		return SortUpdatedDesc
	}
}
