package domain

import (
	"context"
	"encoding/json"

	"github.com/jordanlanch/leadflow/pkg/models"
)

// Table names owned by the external persistence service.
const (
	TableLeads       = "leads"
	TablePhoneCalls  = "lead_phone_calls"
	TableEmails      = "lead_emails"
	TableEvaluations = "lead_evaluations"
	TableComments    = "lead_comments"
)

// Tables lists every subscribed entity table.
var Tables = []string{TableLeads, TablePhoneCalls, TableEmails, TableEvaluations, TableComments}

// Persistence is the external create/read/update/delete collaborator.
// Implementations return DomainError values: NOT_FOUND for missing ids,
// CONFLICT for unique violations, TRANSIENT when the service is unreachable.
type Persistence interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	GetLead(ctx context.Context, id string) (models.Lead, error)
	CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	UpdateLead(ctx context.Context, id string, upd models.LeadUpdate) (models.Lead, error)
	DeleteLead(ctx context.Context, id string) error

	ListPhoneCalls(ctx context.Context) ([]models.PhoneCall, error)
	CreatePhoneCall(ctx context.Context, call models.PhoneCall) (models.PhoneCall, error)

	ListEmails(ctx context.Context) ([]models.Email, error)
	CreateEmail(ctx context.Context, email models.Email) (models.Email, error)
	UpdateEmail(ctx context.Context, email models.Email) (models.Email, error)

	ListEvaluations(ctx context.Context) ([]models.Evaluation, error)
	CreateEvaluation(ctx context.Context, eval models.Evaluation) (models.Evaluation, error)

	ListComments(ctx context.Context) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	UpdateComment(ctx context.Context, id string, upd models.CommentUpdate) (models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// EventType classifies a change notification.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ChangeEvent is one notification from the realtime feed. Delivery is
// at-least-once with no ordering guarantee across entities; New holds the row
// after the change, Old the row before it (deletes carry Old only).
type ChangeEvent struct {
	Type  EventType       `json:"type"`
	Table string          `json:"table"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
}

// Subscription is a live change feed that must be released on teardown.
type Subscription interface {
	Unsubscribe()
}

// Realtime is the external change-notification collaborator.
type Realtime interface {
	Subscribe(ctx context.Context, table string, fn func(ChangeEvent)) (Subscription, error)
}
