package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadflow/pkg/models"
)

func lead(id, name string, overrides ...func(*models.Lead)) models.Lead {
	l := models.Lead{
		ID:        id,
		Name:      name,
		Email:     name + "@example.com",
		Status:    models.StatusLead,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, fn := range overrides {
		fn(&l)
	}
	return l
}

func ids(leads []models.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func TestDeriveView_DefaultFilters(t *testing.T) {
	early := lead("a", "Alice", func(l *models.Lead) {
		l.UpdatedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	})
	late := lead("b", "Bob", func(l *models.Lead) {
		l.UpdatedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	})

	view := DeriveView([]models.Lead{early, late}, models.DefaultFilterState())

	// updated_at desc by default
	assert.Equal(t, []string{"b", "a"}, ids(view))
}

func TestDeriveView_SearchMatchesAllFields(t *testing.T) {
	leads := []models.Lead{
		lead("name", "Francesca Hill"),
		lead("email", "Bob", func(l *models.Lead) { l.Email = "francesca@corp.io" }),
		lead("phone", "Carol", func(l *models.Lead) { l.Phone = "+1 (415) 555-0123" }),
		lead("notes", "Dave", func(l *models.Lead) { l.Notes = "met Francesca at the booth" }),
		lead("source", "Erin", func(l *models.Lead) { l.Source = "francesca-referral" }),
		lead("none", "Frank"),
	}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByName
	f.SortOrder = models.SortAsc

	f.SearchQuery = "  FRANCESCA  " // trimmed and lowercased before matching
	view := DeriveView(leads, f)
	assert.ElementsMatch(t, []string{"name", "email", "notes", "source"}, ids(view))

	// phone search compares digits only, ignoring formatting
	f.SearchQuery = "415555"
	view = DeriveView(leads, f)
	assert.Equal(t, []string{"phone"}, ids(view))
}

func TestDeriveView_ConjunctiveFilters(t *testing.T) {
	leads := []models.Lead{
		lead("match", "Target", func(l *models.Lead) {
			l.Status = models.StatusQualified
			l.Priority = models.PriorityHigh
		}),
		lead("wrong-status", "Target", func(l *models.Lead) {
			l.Priority = models.PriorityHigh
		}),
		lead("wrong-priority", "Target", func(l *models.Lead) {
			l.Status = models.StatusQualified
		}),
	}

	f := models.DefaultFilterState()
	f.SearchQuery = "target"
	f.StatusFilter = "qualified"
	f.PriorityFilter = "high"

	view := DeriveView(leads, f)
	assert.Equal(t, []string{"match"}, ids(view))
}

func TestDeriveView_DateRangeInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	leads := []models.Lead{
		lead("before", "A", func(l *models.Lead) { l.CreatedAt = start.Add(-time.Second) }),
		lead("on-start", "B", func(l *models.Lead) { l.CreatedAt = start }),
		lead("inside", "C", func(l *models.Lead) { l.CreatedAt = start.AddDate(0, 0, 10) }),
		lead("on-end", "D", func(l *models.Lead) { l.CreatedAt = end }),
		lead("after", "E", func(l *models.Lead) { l.CreatedAt = end.Add(time.Second) }),
	}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByCreatedAt
	f.SortOrder = models.SortAsc
	f.DateRange = models.DateRange{Start: &start, End: &end}

	view := DeriveView(leads, f)
	assert.Equal(t, []string{"on-start", "inside", "on-end"}, ids(view))

	// open-ended ranges constrain only one side
	f.DateRange = models.DateRange{Start: &start}
	view = DeriveView(leads, f)
	assert.Equal(t, []string{"on-start", "inside", "on-end", "after"}, ids(view))
}

func TestDeriveView_SortByPriorityRank(t *testing.T) {
	leads := []models.Lead{
		lead("med", "A", func(l *models.Lead) { l.Priority = models.PriorityMedium }),
		lead("high", "B", func(l *models.Lead) { l.Priority = models.PriorityHigh }),
		lead("low", "C", func(l *models.Lead) { l.Priority = models.PriorityLow }),
	}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByPriority
	f.SortOrder = models.SortAsc

	view := DeriveView(leads, f)
	assert.Equal(t, []string{"low", "med", "high"}, ids(view))

	f.SortOrder = models.SortDesc
	view = DeriveView(leads, f)
	assert.Equal(t, []string{"high", "med", "low"}, ids(view))
}

func TestDeriveView_SortByStatusRank(t *testing.T) {
	leads := []models.Lead{
		lead("dq", "A", func(l *models.Lead) { l.Status = models.StatusDisqualified }),
		lead("ab", "B", func(l *models.Lead) { l.Status = models.StatusAppointmentBooked }),
		lead("ld", "C", func(l *models.Lead) { l.Status = models.StatusLead }),
		lead("ql", "D", func(l *models.Lead) { l.Status = models.StatusQualified }),
	}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByStatus
	f.SortOrder = models.SortAsc

	view := DeriveView(leads, f)
	assert.Equal(t, []string{"ld", "ql", "ab", "dq"}, ids(view))
}

func TestDeriveView_NameSortCaseInsensitive(t *testing.T) {
	leads := []models.Lead{
		lead("1", "banana"),
		lead("2", "Apple"),
		lead("3", "cherry"),
	}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByName
	f.SortOrder = models.SortAsc

	view := DeriveView(leads, f)
	assert.Equal(t, []string{"2", "1", "3"}, ids(view))
}

func TestDeriveView_TieBreakByID(t *testing.T) {
	shared := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		lead("c", "Same", func(l *models.Lead) { l.UpdatedAt = shared }),
		lead("a", "Same", func(l *models.Lead) { l.UpdatedAt = shared }),
		lead("b", "Same", func(l *models.Lead) { l.UpdatedAt = shared }),
	}

	f := models.DefaultFilterState()
	f.SortOrder = models.SortAsc
	asc := DeriveView(leads, f)
	assert.Equal(t, []string{"a", "b", "c"}, ids(asc))

	// desc is the exact reverse of asc, including ties
	f.SortOrder = models.SortDesc
	desc := DeriveView(leads, f)
	assert.Equal(t, []string{"c", "b", "a"}, ids(desc))
}

func TestDeriveView_NeverMutatesInput(t *testing.T) {
	input := []models.Lead{lead("b", "B"), lead("a", "A")}

	f := models.DefaultFilterState()
	f.SortBy = models.SortByName
	f.SortOrder = models.SortAsc
	view := DeriveView(input, f)

	require.Equal(t, []string{"a", "b"}, ids(view))
	assert.Equal(t, []string{"b", "a"}, ids(input))

	// empty result is a fresh empty slice, not nil
	f.SearchQuery = "no such lead"
	empty := DeriveView(input, f)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}
