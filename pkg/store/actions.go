package store

import (
	"time"

	"github.com/jordanlanch/leadflow/pkg/models"
)

// Action is one enumerated state transition. All mutation of the record store
// goes through Dispatch with one of the concrete action types below; nothing
// else touches the collections.
type Action interface {
	isAction()
}

// Lead transitions.

// SetLeads replaces the whole lead collection (initial load, resync).
type SetLeads struct{ Leads []models.Lead }

// AddLead upserts a lead by id. Re-adding an existing id replaces the record,
// which makes optimistic inserts and realtime echoes collapse into one row.
type AddLead struct{ Lead models.Lead }

// UpdateLead merges a partial update into the lead with the given id and
// stamps UpdatedAt. No-op when the id is absent.
type UpdateLead struct {
	ID        string
	Update    models.LeadUpdate
	UpdatedAt time.Time
}

// MergeLead replaces the stored lead with a full server row, matched by id.
// No-op when the id is absent (record not yet loaded).
type MergeLead struct{ Lead models.Lead }

// ResolveLead swaps a locally-originated temporary record for the canonical
// server record once the create round-trip finishes.
type ResolveLead struct {
	TempID string
	Lead   models.Lead
}

// RemoveLead deletes a lead and, conceptually cascading, its child records.
// No-op when already absent.
type RemoveLead struct{ ID string }

// Filter transitions.

type SetSearchQuery struct{ Query string }
type SetStatusFilter struct{ Status string }
type SetPriorityFilter struct{ Priority string }
type SetDateRange struct{ Range models.DateRange }
type SetSortBy struct{ SortBy models.SortOption }
type SetSortOrder struct{ Order models.SortOrder }

// ClearFilters resets search, status, priority and date range to defaults.
// Sort key and direction survive a clear.
type ClearFilters struct{}

// Child record transitions.

type SetPhoneCalls struct{ Calls []models.PhoneCall }
type AddPhoneCall struct{ Call models.PhoneCall }

// MergePhoneCall replaces a stored call with a full server row by id.
// No-op when the id is absent.
type MergePhoneCall struct{ Call models.PhoneCall }
type RemovePhoneCall struct{ ID string }

type SetEmails struct{ Emails []models.Email }
type AddEmail struct{ Email models.Email }

// MergeEmail replaces a stored email with a full row (tracking updates arrive
// this way). No-op when the id is absent.
type MergeEmail struct{ Email models.Email }
type RemoveEmail struct{ ID string }

type SetEvaluations struct{ Evaluations []models.Evaluation }
type AddEvaluation struct{ Evaluation models.Evaluation }

// MergeEvaluation replaces a stored evaluation with a full server row by id.
// No-op when the id is absent.
type MergeEvaluation struct{ Evaluation models.Evaluation }
type RemoveEvaluation struct{ ID string }

type SetComments struct{ Comments []models.Comment }
type AddComment struct{ Comment models.Comment }

// UpdateComment merges a partial update into the comment with the given id
// and stamps UpdatedAt. No-op when the id is absent.
type UpdateComment struct {
	ID        string
	Update    models.CommentUpdate
	UpdatedAt time.Time
}

// MergeComment replaces a stored comment with a full server row by id.
type MergeComment struct{ Comment models.Comment }

// ResolveComment swaps a temporary comment for its canonical server record.
type ResolveComment struct {
	TempID  string
	Comment models.Comment
}

type RemoveComment struct{ ID string }

func (SetLeads) isAction()          {}
func (AddLead) isAction()           {}
func (UpdateLead) isAction()        {}
func (MergeLead) isAction()         {}
func (ResolveLead) isAction()       {}
func (RemoveLead) isAction()        {}
func (SetSearchQuery) isAction()    {}
func (SetStatusFilter) isAction()   {}
func (SetPriorityFilter) isAction() {}
func (SetDateRange) isAction()      {}
func (SetSortBy) isAction()         {}
func (SetSortOrder) isAction()      {}
func (ClearFilters) isAction()      {}
func (SetPhoneCalls) isAction()     {}
func (AddPhoneCall) isAction()      {}
func (MergePhoneCall) isAction()    {}
func (RemovePhoneCall) isAction()   {}
func (SetEmails) isAction()         {}
func (AddEmail) isAction()          {}
func (MergeEmail) isAction()        {}
func (RemoveEmail) isAction()       {}
func (SetEvaluations) isAction()    {}
func (AddEvaluation) isAction()     {}
func (MergeEvaluation) isAction()   {}
func (RemoveEvaluation) isAction()  {}
func (SetComments) isAction()       {}
func (AddComment) isAction()        {}
func (UpdateComment) isAction()     {}
func (MergeComment) isAction()      {}
func (ResolveComment) isAction()    {}
func (RemoveComment) isAction()     {}
