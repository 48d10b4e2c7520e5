package datasync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/metrics"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/store"
)

// Reconciler merges change notifications from the realtime collaborator into
// the record store. Delivery is at-least-once with no ordering guarantee, so
// every merge is idempotent: inserts dedup by id, updates merge by id and
// no-op on absent records, deletes no-op when already gone. Applying the same
// notification twice leaves the store unchanged.
type Reconciler struct {
	store   *store.Store
	rt      domain.Realtime
	metrics *metrics.Metrics
	log     logger.Logger

	mu     sync.Mutex
	subs   []domain.Subscription
	closed bool
}

// NewReconciler creates a reconciler. Metrics may be nil.
func NewReconciler(st *store.Store, rt domain.Realtime, m *metrics.Metrics, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Default()
	}
	return &Reconciler{store: st, rt: rt, metrics: m, log: log}
}

// Start subscribes to every entity table. Acquisition is scoped: if any
// subscription fails, the ones already acquired are released before the
// error is returned.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.closed = false
	}

	for _, table := range domain.Tables {
		sub, err := r.rt.Subscribe(ctx, table, r.handle)
		if err != nil {
			for _, s := range r.subs {
				s.Unsubscribe()
			}
			r.subs = nil
			return err
		}
		r.subs = append(r.subs, sub)
	}

	r.log.Info("realtime reconciler started", "tables", len(r.subs))
	return nil
}

// Stop releases every subscription. Events observed after Stop are discarded;
// a late callback is a safe no-op. Safe to call more than once.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.closed = true
	r.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (r *Reconciler) handle(ev domain.ChangeEvent) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	switch ev.Table {
	case domain.TableLeads:
		r.handleLead(ev)
	case domain.TablePhoneCalls:
		r.handlePhoneCall(ev)
	case domain.TableEmails:
		r.handleEmail(ev)
	case domain.TableEvaluations:
		r.handleEvaluation(ev)
	case domain.TableComments:
		r.handleComment(ev)
	default:
		r.log.Warn("notification for unknown table", "table", ev.Table)
		return
	}

	if r.metrics != nil {
		r.metrics.RealtimeEventsApplied.WithLabelValues(ev.Table, string(ev.Type)).Inc()
	}
}

func (r *Reconciler) handleLead(ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert, domain.EventUpdate:
		var lead models.Lead
		if err := json.Unmarshal(ev.New, &lead); err != nil {
			r.log.Error("bad lead payload", "type", ev.Type, "error", err)
			return
		}
		if ev.Type == domain.EventInsert {
			r.store.Dispatch(store.AddLead{Lead: lead})
		} else {
			r.store.Dispatch(store.MergeLead{Lead: lead})
		}
	case domain.EventDelete:
		if id := recordID(ev.Old); id != "" {
			r.store.Dispatch(store.RemoveLead{ID: id})
		}
	}
}

func (r *Reconciler) handlePhoneCall(ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert, domain.EventUpdate:
		var call models.PhoneCall
		if err := json.Unmarshal(ev.New, &call); err != nil {
			r.log.Error("bad phone call payload", "type", ev.Type, "error", err)
			return
		}
		if ev.Type == domain.EventInsert {
			r.store.Dispatch(store.AddPhoneCall{Call: call})
		} else {
			r.store.Dispatch(store.MergePhoneCall{Call: call})
		}
	case domain.EventDelete:
		if id := recordID(ev.Old); id != "" {
			r.store.Dispatch(store.RemovePhoneCall{ID: id})
		}
	}
}

func (r *Reconciler) handleEmail(ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert, domain.EventUpdate:
		var email models.Email
		if err := json.Unmarshal(ev.New, &email); err != nil {
			r.log.Error("bad email payload", "type", ev.Type, "error", err)
			return
		}
		if ev.Type == domain.EventInsert {
			r.store.Dispatch(store.AddEmail{Email: email})
		} else {
			r.store.Dispatch(store.MergeEmail{Email: email})
		}
	case domain.EventDelete:
		if id := recordID(ev.Old); id != "" {
			r.store.Dispatch(store.RemoveEmail{ID: id})
		}
	}
}

func (r *Reconciler) handleEvaluation(ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert, domain.EventUpdate:
		var eval models.Evaluation
		if err := json.Unmarshal(ev.New, &eval); err != nil {
			r.log.Error("bad evaluation payload", "type", ev.Type, "error", err)
			return
		}
		if ev.Type == domain.EventInsert {
			r.store.Dispatch(store.AddEvaluation{Evaluation: eval})
		} else {
			r.store.Dispatch(store.MergeEvaluation{Evaluation: eval})
		}
	case domain.EventDelete:
		if id := recordID(ev.Old); id != "" {
			r.store.Dispatch(store.RemoveEvaluation{ID: id})
		}
	}
}

func (r *Reconciler) handleComment(ev domain.ChangeEvent) {
	switch ev.Type {
	case domain.EventInsert, domain.EventUpdate:
		var comment models.Comment
		if err := json.Unmarshal(ev.New, &comment); err != nil {
			r.log.Error("bad comment payload", "type", ev.Type, "error", err)
			return
		}
		if ev.Type == domain.EventInsert {
			r.store.Dispatch(store.AddComment{Comment: comment})
		} else {
			r.store.Dispatch(store.MergeComment{Comment: comment})
		}
	case domain.EventDelete:
		if id := recordID(ev.Old); id != "" {
			r.store.Dispatch(store.RemoveComment{ID: id})
		}
	}
}

func recordID(raw json.RawMessage) string {
	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return ""
	}
	return row.ID
}
