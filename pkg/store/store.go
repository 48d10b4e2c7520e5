package store

import (
	"sync"

	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// Snapshot is an immutable copy of the record store state. Slices are fresh
// copies; callers may keep or mutate them freely.
type Snapshot struct {
	Leads       []models.Lead
	PhoneCalls  []models.PhoneCall
	Emails      []models.Email
	Evaluations []models.Evaluation
	Comments    []models.Comment
	Filters     models.FilterState

	// Revision increments whenever a record collection changes (not on
	// filter-only transitions). Used as a memoization key for derived views.
	Revision uint64
}

// Store is the single owner of all entity collections and the active filter
// state. HTTP handlers and the realtime listener run on different goroutines,
// so the cooperative event queue of a UI runtime becomes mutex-serialized
// dispatch here; transitions still apply one at a time in arrival order.
type Store struct {
	mu          sync.RWMutex
	leads       []models.Lead
	phoneCalls  []models.PhoneCall
	emails      []models.Email
	evaluations []models.Evaluation
	comments    []models.Comment
	filters     models.FilterState
	revision    uint64

	listenerMu   sync.Mutex
	listeners    map[int]func(Snapshot)
	nextListener int

	log logger.Logger
}

// New creates an empty record store with default filters.
func New(log logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		filters:   models.DefaultFilterState(),
		listeners: make(map[int]func(Snapshot)),
		log:       log,
	}
}

// Dispatch applies a single state transition and notifies listeners with the
// post-transition snapshot.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.apply(a)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers a listener invoked after every dispatch. The returned
// function unregisters it and is safe to call more than once.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.listenerMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.listenerMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Leads:       append([]models.Lead(nil), s.leads...),
		PhoneCalls:  append([]models.PhoneCall(nil), s.phoneCalls...),
		Emails:      append([]models.Email(nil), s.emails...),
		Evaluations: append([]models.Evaluation(nil), s.evaluations...),
		Comments:    append([]models.Comment(nil), s.comments...),
		Filters:     s.filters,
		Revision:    s.revision,
	}
}

// apply is the reducer. Record transitions bump the revision; filter
// transitions do not, so memoized views survive filter-only churn on the
// same data.
func (s *Store) apply(a Action) {
	switch act := a.(type) {
	case SetLeads:
		s.leads = append([]models.Lead(nil), act.Leads...)
		s.revision++

	case AddLead:
		s.upsertLead(act.Lead)
		s.revision++

	case UpdateLead:
		for i := range s.leads {
			if s.leads[i].ID == act.ID {
				merged := act.Update.Apply(s.leads[i])
				merged.UpdatedAt = act.UpdatedAt
				s.leads[i] = merged
				s.revision++
				return
			}
		}

	case MergeLead:
		for i := range s.leads {
			if s.leads[i].ID == act.Lead.ID {
				s.leads[i] = act.Lead
				s.revision++
				return
			}
		}

	case ResolveLead:
		kept := s.leads[:0]
		for _, l := range s.leads {
			if l.ID != act.TempID {
				kept = append(kept, l)
			}
		}
		s.leads = kept
		s.upsertLead(act.Lead)
		s.revision++

	case RemoveLead:
		s.removeLeadCascade(act.ID)
		s.revision++

	case SetSearchQuery:
		s.filters.SearchQuery = act.Query
	case SetStatusFilter:
		s.filters.StatusFilter = act.Status
	case SetPriorityFilter:
		s.filters.PriorityFilter = act.Priority
	case SetDateRange:
		s.filters.DateRange = act.Range
	case SetSortBy:
		s.filters.SortBy = act.SortBy
	case SetSortOrder:
		s.filters.SortOrder = act.Order
	case ClearFilters:
		cleared := models.DefaultFilterState()
		cleared.SortBy = s.filters.SortBy
		cleared.SortOrder = s.filters.SortOrder
		s.filters = cleared

	case SetPhoneCalls:
		s.phoneCalls = append([]models.PhoneCall(nil), act.Calls...)
		s.revision++

	case AddPhoneCall:
		for i := range s.phoneCalls {
			if s.phoneCalls[i].ID == act.Call.ID {
				s.phoneCalls[i] = act.Call
				s.revision++
				return
			}
		}
		s.phoneCalls = append(s.phoneCalls, act.Call)
		s.revision++

	case MergePhoneCall:
		for i := range s.phoneCalls {
			if s.phoneCalls[i].ID == act.Call.ID {
				s.phoneCalls[i] = act.Call
				s.revision++
				return
			}
		}

	case RemovePhoneCall:
		kept := s.phoneCalls[:0]
		for _, c := range s.phoneCalls {
			if c.ID != act.ID {
				kept = append(kept, c)
			}
		}
		s.phoneCalls = kept
		s.revision++

	case SetEmails:
		s.emails = append([]models.Email(nil), act.Emails...)
		s.revision++

	case AddEmail:
		for i := range s.emails {
			if s.emails[i].ID == act.Email.ID {
				s.emails[i] = act.Email
				s.revision++
				return
			}
		}
		s.emails = append(s.emails, act.Email)
		s.revision++

	case MergeEmail:
		for i := range s.emails {
			if s.emails[i].ID == act.Email.ID {
				s.emails[i] = act.Email
				s.revision++
				return
			}
		}

	case RemoveEmail:
		kept := s.emails[:0]
		for _, e := range s.emails {
			if e.ID != act.ID {
				kept = append(kept, e)
			}
		}
		s.emails = kept
		s.revision++

	case SetEvaluations:
		s.evaluations = append([]models.Evaluation(nil), act.Evaluations...)
		s.revision++

	case AddEvaluation:
		for i := range s.evaluations {
			if s.evaluations[i].ID == act.Evaluation.ID {
				s.evaluations[i] = act.Evaluation
				s.revision++
				return
			}
		}
		s.evaluations = append(s.evaluations, act.Evaluation)
		s.revision++

	case MergeEvaluation:
		for i := range s.evaluations {
			if s.evaluations[i].ID == act.Evaluation.ID {
				s.evaluations[i] = act.Evaluation
				s.revision++
				return
			}
		}

	case RemoveEvaluation:
		kept := s.evaluations[:0]
		for _, e := range s.evaluations {
			if e.ID != act.ID {
				kept = append(kept, e)
			}
		}
		s.evaluations = kept
		s.revision++

	case SetComments:
		s.comments = append([]models.Comment(nil), act.Comments...)
		s.revision++

	case AddComment:
		for i := range s.comments {
			if s.comments[i].ID == act.Comment.ID {
				s.comments[i] = act.Comment
				s.revision++
				return
			}
		}
		s.comments = append(s.comments, act.Comment)
		s.revision++

	case UpdateComment:
		for i := range s.comments {
			if s.comments[i].ID == act.ID {
				merged := act.Update.Apply(s.comments[i])
				merged.UpdatedAt = act.UpdatedAt
				s.comments[i] = merged
				s.revision++
				return
			}
		}

	case MergeComment:
		for i := range s.comments {
			if s.comments[i].ID == act.Comment.ID {
				s.comments[i] = act.Comment
				s.revision++
				return
			}
		}

	case ResolveComment:
		kept := s.comments[:0]
		for _, c := range s.comments {
			if c.ID != act.TempID {
				kept = append(kept, c)
			}
		}
		s.comments = kept
		for i := range s.comments {
			if s.comments[i].ID == act.Comment.ID {
				s.comments[i] = act.Comment
				s.revision++
				return
			}
		}
		s.comments = append(s.comments, act.Comment)
		s.revision++

	case RemoveComment:
		kept := s.comments[:0]
		for _, c := range s.comments {
			if c.ID != act.ID {
				kept = append(kept, c)
			}
		}
		s.comments = kept
		s.revision++

	default:
		s.log.Warn("store: unknown action", "action", a)
	}
}

func (s *Store) upsertLead(l models.Lead) {
	for i := range s.leads {
		if s.leads[i].ID == l.ID {
			s.leads[i] = l
			return
		}
	}
	s.leads = append(s.leads, l)
}

// removeLeadCascade drops the lead and every child record keyed to it. The
// database enforces the same cascade via foreign keys; doing it locally keeps
// the store consistent before any child delete notifications arrive.
func (s *Store) removeLeadCascade(id string) {
	leads := s.leads[:0]
	for _, l := range s.leads {
		if l.ID != id {
			leads = append(leads, l)
		}
	}
	s.leads = leads

	calls := s.phoneCalls[:0]
	for _, c := range s.phoneCalls {
		if c.LeadID != id {
			calls = append(calls, c)
		}
	}
	s.phoneCalls = calls

	emails := s.emails[:0]
	for _, e := range s.emails {
		if e.LeadID != id {
			emails = append(emails, e)
		}
	}
	s.emails = emails

	evals := s.evaluations[:0]
	for _, e := range s.evaluations {
		if e.LeadID != id {
			evals = append(evals, e)
		}
	}
	s.evaluations = evals

	comments := s.comments[:0]
	for _, c := range s.comments {
		if c.LeadID != id {
			comments = append(comments, c)
		}
	}
	s.comments = comments
}

// Lead returns the lead with the given id, if present.
func (s *Store) Lead(id string) (models.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.leads {
		if l.ID == id {
			return l, true
		}
	}
	return models.Lead{}, false
}

// Comment returns the comment with the given id, if present.
func (s *Store) Comment(id string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments {
		if c.ID == id {
			return c, true
		}
	}
	return models.Comment{}, false
}

// Email returns the email with the given id, if present.
func (s *Store) Email(id string) (models.Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.emails {
		if e.ID == id {
			return e, true
		}
	}
	return models.Email{}, false
}

// CommentsByLead returns copies of the comments attached to a lead.
func (s *Store) CommentsByLead(leadID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.LeadID == leadID {
			out = append(out, c)
		}
	}
	return out
}

// CommentReplies returns the comments whose parent is the given comment id.
func (s *Store) CommentReplies(id string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.ParentID == id {
			out = append(out, c)
		}
	}
	return out
}

// CallsByLead returns copies of the phone calls attached to a lead.
func (s *Store) CallsByLead(leadID string) []models.PhoneCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PhoneCall
	for _, c := range s.phoneCalls {
		if c.LeadID == leadID {
			out = append(out, c)
		}
	}
	return out
}

// EmailsByLead returns copies of the emails attached to a lead.
func (s *Store) EmailsByLead(leadID string) []models.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Email
	for _, e := range s.emails {
		if e.LeadID == leadID {
			out = append(out, e)
		}
	}
	return out
}

// EvaluationsByLead returns copies of the evaluations attached to a lead.
func (s *Store) EvaluationsByLead(leadID string) []models.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Evaluation
	for _, e := range s.evaluations {
		if e.LeadID == leadID {
			out = append(out, e)
		}
	}
	return out
}

// Filters returns the active filter configuration.
func (s *Store) Filters() models.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}
