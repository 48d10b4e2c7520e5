package models

import "time"

// SortOption selects the lead list sort key.
type SortOption string

const (
	SortByName      SortOption = "name"
	SortByCreatedAt SortOption = "created_at"
	SortByUpdatedAt SortOption = "updated_at"
	SortByPriority  SortOption = "priority"
	SortByStatus    SortOption = "status"
)

// Valid reports whether s is a known sort key.
func (s SortOption) Valid() bool {
	switch s {
	case SortByName, SortByCreatedAt, SortByUpdatedAt, SortByPriority, SortByStatus:
		return true
	}
	return false
}

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterAll is the sentinel meaning "no status/priority constraint".
const FilterAll = "all"

// DateRange is an inclusive created_at window. Nil bounds are unconstrained.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterState is the active filter and sort configuration for the lead view.
// Pure configuration: it has no lifecycle of its own and resets to defaults
// on "clear filters" (the sort settings survive a clear, matching the board UI).
type FilterState struct {
	SearchQuery    string     `json:"search_query"`
	StatusFilter   string     `json:"status_filter"`   // LeadStatus or "all"
	PriorityFilter string     `json:"priority_filter"` // LeadPriority or "all"
	DateRange      DateRange  `json:"date_range"`
	SortBy         SortOption `json:"sort_by"`
	SortOrder      SortOrder  `json:"sort_order"`
}

// DefaultFilterState returns the initial filter configuration.
func DefaultFilterState() FilterState {
	return FilterState{
		StatusFilter:   FilterAll,
		PriorityFilter: FilterAll,
		SortBy:         SortByUpdatedAt,
		SortOrder:      SortDesc,
	}
}
