package quote

// SortKey enumerates the orderings the global quotes view accepts.
type SortKey string

const (
	SortNewest    SortKey = "-created_at"
	SortOldest    SortKey = "created_at"
	SortBookTitle SortKey = "book__title"
	SortPage      SortKey = "page_number"
)

// ParseSortKey maps a raw sort token to a SortKey, defaulting to
// SortNewest for absent or unrecognized input.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortOldest, SortBookTitle, SortPage:
		return SortKey(raw)
	default:
		return SortNewest
	}
}
