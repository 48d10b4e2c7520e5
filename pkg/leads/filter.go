package leads

import (
	"sort"
	"strings"

	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/phone"
)

// Rank maps for the non-lexicographic sort keys.
var (
	priorityRank = map[models.LeadPriority]int{
		models.PriorityLow:    1,
		models.PriorityMedium: 2,
		models.PriorityHigh:   3,
	}
	statusRank = map[models.LeadStatus]int{
		models.StatusLead:              1,
		models.StatusQualified:         2,
		models.StatusAppointmentBooked: 3,
		models.StatusDisqualified:      4,
	}
)

// DeriveView filters and sorts leads according to the active configuration.
// Pure function: the input slice is never mutated and the result is always a
// fresh slice. Predicates are conjunctive; a lead survives only if it passes
// every active filter.
//
// Ties under the configured key are broken by lead id, so ordering is fully
// deterministic regardless of insertion order and desc is the exact reverse
// of asc.
func DeriveView(leads []models.Lead, f models.FilterState) []models.Lead {
	filtered := make([]models.Lead, 0, len(leads))

	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))
	queryDigits := phone.Digits(query)

	for _, l := range leads {
		if query != "" && !matchesSearch(l, query, queryDigits) {
			continue
		}
		if f.StatusFilter != models.FilterAll && string(l.Status) != f.StatusFilter {
			continue
		}
		if f.PriorityFilter != models.FilterAll && string(l.Priority) != f.PriorityFilter {
			continue
		}
		if f.DateRange.Start != nil && l.CreatedAt.Before(*f.DateRange.Start) {
			continue
		}
		if f.DateRange.End != nil && l.CreatedAt.After(*f.DateRange.End) {
			continue
		}
		filtered = append(filtered, l)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		c := compare(filtered[i], filtered[j], f.SortBy)
		if c == 0 {
			c = strings.Compare(filtered[i].ID, filtered[j].ID)
		}
		if f.SortOrder == models.SortDesc {
			return c > 0
		}
		return c < 0
	})

	return filtered
}

// matchesSearch reports whether the lead matches the trimmed lowercase query
// on name, email, phone digits, notes or source.
func matchesSearch(l models.Lead, query, queryDigits string) bool {
	if strings.Contains(strings.ToLower(l.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Email), query) {
		return true
	}
	if l.Phone != "" && queryDigits != "" && strings.Contains(phone.Digits(l.Phone), queryDigits) {
		return true
	}
	if l.Notes != "" && strings.Contains(strings.ToLower(l.Notes), query) {
		return true
	}
	if l.Source != "" && strings.Contains(strings.ToLower(l.Source), query) {
		return true
	}
	return false
}

// compare orders two leads under the configured key in ascending direction.
// The direction flip happens on the comparison result, never by reversing
// the input.
func compare(a, b models.Lead, key models.SortOption) int {
	switch key {
	case models.SortByName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case models.SortByPriority:
		return priorityRank[a.Priority] - priorityRank[b.Priority]
	case models.SortByStatus:
		return statusRank[a.Status] - statusRank[b.Status]
	}
	return 0
}
