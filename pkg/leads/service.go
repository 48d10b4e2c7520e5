package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/jordanlanch/leadflow/pkg/cache"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/metrics"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/store"
)

const viewCacheTTL = 60 * time.Second

// Service owns read access to the lead view: initial load, per-lead getters
// and the memoized filtered list.
type Service struct {
	store   *store.Store
	db      domain.Persistence
	cache   *cache.Client
	metrics *metrics.Metrics
	log     logger.Logger

	memoMu   sync.Mutex
	memoKey  viewKey
	memoView []models.Lead
	memoOK   bool
}

// viewKey identifies one (data revision, filter configuration) pair. Flattened
// so it is comparable by value.
type viewKey struct {
	revision  uint64
	search    string
	status    string
	priority  string
	start     int64
	hasStart  bool
	end       int64
	hasEnd    bool
	sortBy    models.SortOption
	sortOrder models.SortOrder
}

func keyFor(revision uint64, f models.FilterState) viewKey {
	k := viewKey{
		revision:  revision,
		search:    f.SearchQuery,
		status:    f.StatusFilter,
		priority:  f.PriorityFilter,
		sortBy:    f.SortBy,
		sortOrder: f.SortOrder,
	}
	if f.DateRange.Start != nil {
		k.start, k.hasStart = f.DateRange.Start.UnixNano(), true
	}
	if f.DateRange.End != nil {
		k.end, k.hasEnd = f.DateRange.End.UnixNano(), true
	}
	return k
}

// NewService creates a lead service. The cache client and metrics may be nil;
// caching and counters are then skipped.
func NewService(st *store.Store, db domain.Persistence, cacheClient *cache.Client, m *metrics.Metrics, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{store: st, db: db, cache: cacheClient, metrics: m, log: log}
}

// Load fetches all five collections from persistence and seeds the store.
func (s *Service) Load(ctx context.Context) error {
	leads, err := s.db.ListLeads(ctx)
	if err != nil {
		return fmt.Errorf("loading leads: %w", err)
	}
	calls, err := s.db.ListPhoneCalls(ctx)
	if err != nil {
		return fmt.Errorf("loading phone calls: %w", err)
	}
	emails, err := s.db.ListEmails(ctx)
	if err != nil {
		return fmt.Errorf("loading emails: %w", err)
	}
	evals, err := s.db.ListEvaluations(ctx)
	if err != nil {
		return fmt.Errorf("loading evaluations: %w", err)
	}
	comments, err := s.db.ListComments(ctx)
	if err != nil {
		return fmt.Errorf("loading comments: %w", err)
	}

	s.store.Dispatch(store.SetLeads{Leads: leads})
	s.store.Dispatch(store.SetPhoneCalls{Calls: calls})
	s.store.Dispatch(store.SetEmails{Emails: emails})
	s.store.Dispatch(store.SetEvaluations{Evaluations: evals})
	s.store.Dispatch(store.SetComments{Comments: comments})

	s.log.Info("record store loaded",
		"leads", len(leads),
		"phone_calls", len(calls),
		"emails", len(emails),
		"evaluations", len(evals),
		"comments", len(comments))
	return nil
}

// FilteredLeads derives the lead view for the store's active filters,
// memoized on (revision, filters): filter-only churn over unchanged data
// never recomputes.
func (s *Service) FilteredLeads() []models.Lead {
	snap := s.store.Snapshot()
	return s.derive(snap, snap.Filters)
}

// ViewWith derives the lead view for an explicit filter configuration,
// ignoring the store's active filters.
func (s *Service) ViewWith(f models.FilterState) []models.Lead {
	snap := s.store.Snapshot()
	return s.derive(snap, f)
}

func (s *Service) derive(snap store.Snapshot, f models.FilterState) []models.Lead {
	key := keyFor(snap.Revision, f)

	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	if s.memoOK && s.memoKey == key {
		return append([]models.Lead(nil), s.memoView...)
	}

	view := DeriveView(snap.Leads, f)
	s.memoKey = key
	s.memoView = view
	s.memoOK = true
	return append([]models.Lead(nil), view...)
}

// CachedView returns the filtered view serialized as JSON, cached in Redis.
// The cache key embeds the store revision, so stale entries simply stop being
// read and expire on their own.
func (s *Service) CachedView(ctx context.Context, f models.FilterState) ([]byte, error) {
	snap := s.store.Snapshot()

	if s.cache == nil {
		return json.Marshal(s.derive(snap, f))
	}

	cacheKey := viewCacheKey(snap.Revision, f)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		if s.metrics != nil {
			s.metrics.CacheHits.WithLabelValues("leads_view").Inc()
		}
		return []byte(cached), nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues("leads_view").Inc()
	}

	body, err := json.Marshal(s.derive(snap, f))
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, body, viewCacheTTL); err != nil {
		s.log.Warn("failed caching lead view", "error", err)
	}
	return body, nil
}

func viewCacheKey(revision uint64, f models.FilterState) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s|%s|%v|%v|%s|%s",
		revision, f.SearchQuery, f.StatusFilter, f.PriorityFilter,
		f.DateRange.Start, f.DateRange.End, f.SortBy, f.SortOrder)
	return fmt.Sprintf("leads:view:%x", h.Sum64())
}

// Board groups the filtered view into kanban columns by status.
func (s *Service) Board() map[models.LeadStatus][]models.Lead {
	view := s.FilteredLeads()
	board := map[models.LeadStatus][]models.Lead{
		models.StatusLead:              {},
		models.StatusQualified:         {},
		models.StatusAppointmentBooked: {},
		models.StatusDisqualified:      {},
	}
	for _, l := range view {
		board[l.Status] = append(board[l.Status], l)
	}
	return board
}

// LeadByID returns a lead from the store.
func (s *Service) LeadByID(id string) (models.Lead, error) {
	l, ok := s.store.Lead(id)
	if !ok {
		return models.Lead{}, domain.NewNotFoundError("lead")
	}
	return l, nil
}

// CallsByLead returns the phone calls recorded against a lead.
func (s *Service) CallsByLead(leadID string) []models.PhoneCall {
	return s.store.CallsByLead(leadID)
}

// EmailsByLead returns the emails recorded against a lead.
func (s *Service) EmailsByLead(leadID string) []models.Email {
	return s.store.EmailsByLead(leadID)
}

// EvaluationsByLead returns the evaluations recorded against a lead.
func (s *Service) EvaluationsByLead(leadID string) []models.Evaluation {
	return s.store.EvaluationsByLead(leadID)
}

// CommentsByLead returns the comments recorded against a lead.
func (s *Service) CommentsByLead(leadID string) []models.Comment {
	return s.store.CommentsByLead(leadID)
}

// Filter configuration passthroughs: all mutation goes through dispatch.

func (s *Service) SetSearchQuery(q string) {
	s.store.Dispatch(store.SetSearchQuery{Query: q})
}

func (s *Service) SetStatusFilter(status string) {
	s.store.Dispatch(store.SetStatusFilter{Status: status})
}

func (s *Service) SetPriorityFilter(priority string) {
	s.store.Dispatch(store.SetPriorityFilter{Priority: priority})
}

func (s *Service) SetDateRange(r models.DateRange) {
	s.store.Dispatch(store.SetDateRange{Range: r})
}

func (s *Service) SetSortBy(by models.SortOption) {
	s.store.Dispatch(store.SetSortBy{SortBy: by})
}

func (s *Service) SetSortOrder(order models.SortOrder) {
	s.store.Dispatch(store.SetSortOrder{Order: order})
}

func (s *Service) ClearFilters() {
	s.store.Dispatch(store.ClearFilters{})
}

// Filters returns the active filter configuration.
func (s *Service) Filters() models.FilterState {
	return s.store.Filters()
}
