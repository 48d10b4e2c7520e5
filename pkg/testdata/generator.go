package testdata

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/jordanlanch/leadflow/pkg/models"
)

// NewLead builds a lead with sensible random fields. Overrides are applied
// in order.
func NewLead(overrides ...func(*models.Lead)) models.Lead {
	now := time.Now().UTC()
	lead := models.Lead{
		ID:        uuid.NewString(),
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		Phone:     "+14155550123",
		Status:    models.StatusLead,
		Priority:  models.PriorityMedium,
		Source:    "website",
		Notes:     gofakeit.Sentence(8),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, fn := range overrides {
		fn(&lead)
	}
	return lead
}

// NewComment builds a comment on the given lead.
func NewComment(leadID string, overrides ...func(*models.Comment)) models.Comment {
	now := time.Now().UTC()
	comment := models.Comment{
		ID:         uuid.NewString(),
		LeadID:     leadID,
		UserID:     uuid.NewString(),
		Content:    gofakeit.Sentence(10),
		IsInternal: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, fn := range overrides {
		fn(&comment)
	}
	return comment
}

// NewEmail builds an outbound email for the given lead.
func NewEmail(leadID string, overrides ...func(*models.Email)) models.Email {
	email := models.Email{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		EmailType:   models.EmailOutbound,
		Subject:     gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 2, 10, " "),
		SentAt:      time.Now().UTC(),
		EmailStatus: models.EmailSent,
	}
	for _, fn := range overrides {
		fn(&email)
	}
	return email
}

// NewPhoneCall builds an answered call with a transcript for the given lead.
func NewPhoneCall(leadID string, overrides ...func(*models.PhoneCall)) models.PhoneCall {
	call := models.PhoneCall{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		CallDate:    time.Now().UTC(),
		Duration:    300,
		Transcript:  gofakeit.Paragraph(1, 3, 12, " "),
		CallOutcome: models.OutcomeAnswered,
		AIAnalysis: models.CallAnalysis{
			InterestLevel:   7,
			BudgetQualified: true,
			DecisionMaker:   true,
			Timeline:        "this quarter",
			PainPoints:      []string{"manual reporting"},
			NextSteps:       "send proposal",
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, fn := range overrides {
		fn(&call)
	}
	return call
}
