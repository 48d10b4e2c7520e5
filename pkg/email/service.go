// Package email records lead correspondence and optionally delivers outbound
// messages through SendGrid. Without an API key the service runs in
// record-only mode, which is what development environments use.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/store"
)

// Service records emails against leads and applies engagement events.
type Service struct {
	fromEmail string
	fromName  string
	apiKey    string
	store     *store.Store
	gateway   *datasync.Gateway
	log       logger.Logger
}

// NewService builds the email service. apiKey may be empty; outbound sends are
// then skipped and only the record is kept.
func NewService(fromEmail, fromName, apiKey string, st *store.Store, gateway *datasync.Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		fromEmail: fromEmail,
		fromName:  fromName,
		apiKey:    apiKey,
		store:     st,
		gateway:   gateway,
		log:       log,
	}
}

// Record stores an email exchanged with a lead. For outbound mail with
// req.Send set, the message is delivered first; delivery failure aborts the
// record so the history never claims a send that did not happen.
func (s *Service) Record(ctx context.Context, leadID string, req models.CreateEmailRequest) (models.Email, error) {
	lead, ok := s.store.Lead(leadID)
	if !ok {
		return models.Email{}, domain.NewNotFoundError("lead")
	}

	email := models.Email{
		LeadID:      lead.ID,
		EmailType:   models.EmailType(req.EmailType),
		Subject:     req.Subject,
		Content:     req.Content,
		SentAt:      time.Now().UTC(),
		EmailStatus: models.EmailSent,
	}

	if email.EmailType == models.EmailOutbound && req.Send {
		if err := s.deliver(lead, req.Subject, req.Content); err != nil {
			return models.Email{}, err
		}
	}

	return s.gateway.CreateEmail(ctx, email)
}

// ApplyEvent advances an email on the engagement ladder. Events never move
// status backwards: a "delivered" arriving after "opened" is a no-op, which
// makes webhook redelivery safe.
func (s *Service) ApplyEvent(ctx context.Context, emailID string, req models.EmailEventRequest) (models.Email, error) {
	email, ok := s.store.Email(emailID)
	if !ok {
		return models.Email{}, domain.NewNotFoundError("email")
	}

	var status models.EmailStatus
	switch req.Event {
	case "delivered":
		status = models.EmailDelivered
	case "opened":
		status = models.EmailOpened
	case "clicked":
		status = models.EmailClicked
	case "replied":
		status = models.EmailReplied
	default:
		return models.Email{}, domain.NewValidationError("unknown email event")
	}

	if email.EmailStatus.AtLeast(status) {
		return email, nil
	}

	now := time.Now().UTC()
	email.EmailStatus = status
	switch status {
	case models.EmailOpened:
		email.OpenedAt = &now
	case models.EmailClicked:
		email.ClickedAt = &now
		if email.OpenedAt == nil {
			email.OpenedAt = &now
		}
	case models.EmailReplied:
		email.RepliedAt = &now
	}

	return s.gateway.UpdateEmail(ctx, email)
}

func (s *Service) deliver(lead models.Lead, subject, content string) error {
	if s.apiKey == "" {
		s.log.Info("mail provider not configured, recording without delivery",
			"lead_id", lead.ID, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(lead.Name, lead.Email)
	message := mail.NewSingleEmail(from, subject, to, content, content)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return domain.NewTransientError(err)
	}
	if resp.StatusCode >= 500 {
		return domain.NewTransientError(fmt.Errorf("mail provider returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return domain.NewValidationError(fmt.Sprintf("mail provider rejected message with status %d", resp.StatusCode))
	}

	s.log.Info("email delivered", "lead_id", lead.ID, "status", resp.StatusCode)
	return nil
}
