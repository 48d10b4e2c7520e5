package datasync

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/jordanlanch/leadflow/pkg/cache"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/metrics"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/phone"
	"github.com/jordanlanch/leadflow/pkg/store"
)

// Temp id prefixes tag locally-originated records until the server confirms
// them, so a later canonical record replaces rather than duplicates them.
const (
	tempLeadPrefix    = "lead-"
	tempCommentPrefix = "comment-"
)

// IsTempID reports whether id is a locally-generated temporary identifier.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempLeadPrefix) || strings.HasPrefix(id, tempCommentPrefix)
}

func tempID(prefix string) string {
	buf := make([]byte, 5)
	rand.Read(buf)
	return fmt.Sprintf("%s%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}

// Gateway applies every mutation to the record store first, then forwards it
// to the persistence collaborator. Local state is the source of truth for
// responsiveness; the external service converges with it eventually via the
// realtime reconciler. Failures are surfaced to the caller but never block
// or roll back the local write, except where noted.
type Gateway struct {
	store   *store.Store
	db      domain.Persistence
	cache   *cache.Client
	metrics *metrics.Metrics
	log     logger.Logger
}

// NewGateway creates a mutation gateway. Cache and metrics may be nil.
func NewGateway(st *store.Store, db domain.Persistence, cacheClient *cache.Client, m *metrics.Metrics, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.Default()
	}
	return &Gateway{store: st, db: db, cache: cacheClient, metrics: m, log: log}
}

// persist retries transient persistence failures with exponential backoff.
// Validation, not-found and conflict errors fail immediately.
func (g *Gateway) persist(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !domain.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func (g *Gateway) invalidateViews(ctx context.Context) {
	if g.cache == nil {
		return
	}
	if err := g.cache.DeletePattern(ctx, "leads:view:*"); err != nil {
		g.log.Warn("failed invalidating lead view cache", "error", err)
	}
}

func (g *Gateway) recordFailure() {
	if g.metrics != nil {
		g.metrics.MutationsFailed.Inc()
	}
}

// CreateLead inserts a lead optimistically under a temporary id, then asks
// persistence for the canonical record. On failure the optimistic record
// stays visible with its temporary id; availability wins over consistency.
func (g *Gateway) CreateLead(ctx context.Context, req models.CreateLeadRequest) (models.Lead, error) {
	now := time.Now().UTC()
	lead := models.Lead{
		ID:        tempID(tempLeadPrefix),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     phone.Normalize(req.Phone),
		Status:    models.StatusLead,
		Priority:  models.PriorityMedium,
		Source:    req.Source,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status != "" {
		lead.Status = models.LeadStatus(req.Status)
	}
	if req.Priority != "" {
		lead.Priority = models.LeadPriority(req.Priority)
	}

	g.store.Dispatch(store.AddLead{Lead: lead})
	g.invalidateViews(ctx)

	var created models.Lead
	err := g.persist(ctx, func() error {
		var perr error
		created, perr = g.db.CreateLead(ctx, lead)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("lead create not persisted, keeping optimistic record",
			"temp_id", lead.ID, "error", err)
		return lead, err
	}

	g.store.Dispatch(store.ResolveLead{TempID: lead.ID, Lead: created})
	g.invalidateViews(ctx)
	if g.metrics != nil {
		g.metrics.LeadsCreated.Inc()
	}
	return created, nil
}

// UpdateLead merges fields into the local record synchronously, stamps
// updated_at, then fires the external update. A persistence failure is
// reported but the local merge stands.
func (g *Gateway) UpdateLead(ctx context.Context, id string, upd models.LeadUpdate) (models.Lead, error) {
	current, ok := g.store.Lead(id)
	if !ok {
		return models.Lead{}, domain.NewNotFoundError("lead")
	}
	if upd.Phone != nil {
		normalized := phone.Normalize(*upd.Phone)
		upd.Phone = &normalized
	}

	now := time.Now().UTC()
	g.store.Dispatch(store.UpdateLead{ID: id, Update: upd, UpdatedAt: now})
	g.invalidateViews(ctx)

	local := upd.Apply(current)
	local.UpdatedAt = now

	// Temp ids are unknown to the backend; the pending create carries the
	// latest local state once it resolves, so skip the remote call.
	if IsTempID(id) {
		return local, nil
	}

	var updated models.Lead
	err := g.persist(ctx, func() error {
		var perr error
		updated, perr = g.db.UpdateLead(ctx, id, upd)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("lead update not persisted, keeping local state", "id", id, "error", err)
		return local, err
	}

	g.store.Dispatch(store.MergeLead{Lead: updated})
	return updated, nil
}

// DeleteLead removes the lead remotely first; when the backend is
// unreachable it falls back to a local-only removal so the board still
// reflects the user's intent.
func (g *Gateway) DeleteLead(ctx context.Context, id string) error {
	var err error
	if !IsTempID(id) {
		err = g.persist(ctx, func() error {
			return g.db.DeleteLead(ctx, id)
		})
	}

	g.store.Dispatch(store.RemoveLead{ID: id})
	g.invalidateViews(ctx)

	if err != nil {
		g.recordFailure()
		g.log.Error("lead delete not persisted, removed locally", "id", id, "error", err)
	}
	return err
}

// CreateComment inserts a comment optimistically under a temporary id.
func (g *Gateway) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	comment.ID = tempID(tempCommentPrefix)
	comment.CreatedAt = now
	comment.UpdatedAt = now

	g.store.Dispatch(store.AddComment{Comment: comment})

	var created models.Comment
	err := g.persist(ctx, func() error {
		var perr error
		created, perr = g.db.CreateComment(ctx, comment)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("comment create not persisted, keeping optimistic record",
			"temp_id", comment.ID, "error", err)
		return comment, err
	}

	g.store.Dispatch(store.ResolveComment{TempID: comment.ID, Comment: created})
	return created, nil
}

// UpdateComment merges fields locally first, then persists.
func (g *Gateway) UpdateComment(ctx context.Context, id string, upd models.CommentUpdate) (models.Comment, error) {
	current, ok := g.store.Comment(id)
	if !ok {
		return models.Comment{}, domain.NewNotFoundError("comment")
	}

	now := time.Now().UTC()
	g.store.Dispatch(store.UpdateComment{ID: id, Update: upd, UpdatedAt: now})

	local := upd.Apply(current)
	local.UpdatedAt = now

	if IsTempID(id) {
		return local, nil
	}

	var updated models.Comment
	err := g.persist(ctx, func() error {
		var perr error
		updated, perr = g.db.UpdateComment(ctx, id, upd)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("comment update not persisted, keeping local state", "id", id, "error", err)
		return local, err
	}

	g.store.Dispatch(store.MergeComment{Comment: updated})
	return updated, nil
}

// DeleteComment removes a comment remotely first, falling back to local-only
// removal on failure. Callers decide between hard delete and the soft-delete
// sentinel; this is the hard path.
func (g *Gateway) DeleteComment(ctx context.Context, id string) error {
	var err error
	if !IsTempID(id) {
		err = g.persist(ctx, func() error {
			return g.db.DeleteComment(ctx, id)
		})
	}

	g.store.Dispatch(store.RemoveComment{ID: id})

	if err != nil {
		g.recordFailure()
		g.log.Error("comment delete not persisted, removed locally", "id", id, "error", err)
	}
	return err
}

// CreatePhoneCall appends a call record optimistically.
func (g *Gateway) CreatePhoneCall(ctx context.Context, call models.PhoneCall) (models.PhoneCall, error) {
	call.ID = uuid.NewString()
	call.CreatedAt = time.Now().UTC()
	if call.CallDate.IsZero() {
		call.CallDate = call.CreatedAt
	}

	g.store.Dispatch(store.AddPhoneCall{Call: call})

	var created models.PhoneCall
	err := g.persist(ctx, func() error {
		var perr error
		created, perr = g.db.CreatePhoneCall(ctx, call)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("phone call not persisted, keeping optimistic record", "id", call.ID, "error", err)
		return call, err
	}

	g.store.Dispatch(store.AddPhoneCall{Call: created})
	return created, nil
}

// CreateEmail appends an email record optimistically.
func (g *Gateway) CreateEmail(ctx context.Context, email models.Email) (models.Email, error) {
	email.ID = uuid.NewString()
	if email.SentAt.IsZero() {
		email.SentAt = time.Now().UTC()
	}
	if email.EmailStatus == "" {
		email.EmailStatus = models.EmailSent
	}

	g.store.Dispatch(store.AddEmail{Email: email})

	var created models.Email
	err := g.persist(ctx, func() error {
		var perr error
		created, perr = g.db.CreateEmail(ctx, email)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("email not persisted, keeping optimistic record", "id", email.ID, "error", err)
		return email, err
	}

	g.store.Dispatch(store.AddEmail{Email: created})
	return created, nil
}

// UpdateEmail merges tracking fields locally first, then persists the row.
func (g *Gateway) UpdateEmail(ctx context.Context, email models.Email) (models.Email, error) {
	g.store.Dispatch(store.MergeEmail{Email: email})

	var updated models.Email
	err := g.persist(ctx, func() error {
		var perr error
		updated, perr = g.db.UpdateEmail(ctx, email)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("email update not persisted, keeping local state", "id", email.ID, "error", err)
		return email, err
	}

	g.store.Dispatch(store.MergeEmail{Email: updated})
	return updated, nil
}

// CreateEvaluation appends an AI qualification record optimistically.
func (g *Gateway) CreateEvaluation(ctx context.Context, eval models.Evaluation) (models.Evaluation, error) {
	eval.ID = uuid.NewString()
	eval.CreatedAt = time.Now().UTC()

	g.store.Dispatch(store.AddEvaluation{Evaluation: eval})

	var created models.Evaluation
	err := g.persist(ctx, func() error {
		var perr error
		created, perr = g.db.CreateEvaluation(ctx, eval)
		return perr
	})
	if err != nil {
		g.recordFailure()
		g.log.Error("evaluation not persisted, keeping optimistic record", "id", eval.ID, "error", err)
		return eval, err
	}

	g.store.Dispatch(store.AddEvaluation{Evaluation: created})
	return created, nil
}
