// Package shared holds filter types common to all catalog listings.
package shared

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool
	Category string
}

// Sort directions accepted by catalog listings.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
