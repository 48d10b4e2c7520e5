package database

import (
	"context"

	"github.com/jordanlanch/leadflow/pkg/models"
)

const (
	callColumns  = "id, lead_id, call_date, duration, transcript, call_outcome, ai_analysis, created_at"
	emailColumns = "id, lead_id, email_type, subject, content, sent_at, opened_at, clicked_at, replied_at, email_status"
	evalColumns  = "id, lead_id, evaluation_type, qualification_score, evaluation_result, criteria_met, confidence_score, evaluator_version, created_at"
)

// ListPhoneCalls returns every call record, oldest-first.
func (c *Client) ListPhoneCalls(ctx context.Context) ([]models.PhoneCall, error) {
	calls := []models.PhoneCall{}
	err := c.DB.SelectContext(ctx, &calls,
		"SELECT "+callColumns+" FROM lead_phone_calls ORDER BY call_date ASC")
	if err != nil {
		return nil, mapError(err, "phone calls")
	}
	return calls, nil
}

// CreatePhoneCall inserts a call record and returns the stored row.
func (c *Client) CreatePhoneCall(ctx context.Context, call models.PhoneCall) (models.PhoneCall, error) {
	var created models.PhoneCall
	err := c.DB.GetContext(ctx, &created, `
		INSERT INTO lead_phone_calls (lead_id, call_date, duration, transcript, call_outcome, ai_analysis)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+callColumns,
		call.LeadID, call.CallDate, call.Duration, call.Transcript, call.CallOutcome, call.AIAnalysis)
	if err != nil {
		return models.PhoneCall{}, mapError(err, "phone call")
	}
	return created, nil
}

// ListEmails returns every email record, oldest-first.
func (c *Client) ListEmails(ctx context.Context) ([]models.Email, error) {
	emails := []models.Email{}
	err := c.DB.SelectContext(ctx, &emails,
		"SELECT "+emailColumns+" FROM lead_emails ORDER BY sent_at ASC")
	if err != nil {
		return nil, mapError(err, "emails")
	}
	return emails, nil
}

// CreateEmail inserts an email record and returns the stored row.
func (c *Client) CreateEmail(ctx context.Context, email models.Email) (models.Email, error) {
	var created models.Email
	err := c.DB.GetContext(ctx, &created, `
		INSERT INTO lead_emails (lead_id, email_type, subject, content, sent_at, email_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+emailColumns,
		email.LeadID, email.EmailType, email.Subject, email.Content, email.SentAt, email.EmailStatus)
	if err != nil {
		return models.Email{}, mapError(err, "email")
	}
	return created, nil
}

// UpdateEmail persists the engagement tracking fields of an email.
func (c *Client) UpdateEmail(ctx context.Context, email models.Email) (models.Email, error) {
	var updated models.Email
	err := c.DB.GetContext(ctx, &updated, `
		UPDATE lead_emails
		SET opened_at = $2, clicked_at = $3, replied_at = $4, email_status = $5
		WHERE id = $1
		RETURNING `+emailColumns,
		email.ID, email.OpenedAt, email.ClickedAt, email.RepliedAt, email.EmailStatus)
	if err != nil {
		return models.Email{}, mapError(err, "email")
	}
	return updated, nil
}

// ListEvaluations returns every evaluation record, oldest-first.
func (c *Client) ListEvaluations(ctx context.Context) ([]models.Evaluation, error) {
	evals := []models.Evaluation{}
	err := c.DB.SelectContext(ctx, &evals,
		"SELECT "+evalColumns+" FROM lead_evaluations ORDER BY created_at ASC")
	if err != nil {
		return nil, mapError(err, "evaluations")
	}
	return evals, nil
}

// CreateEvaluation inserts an evaluation record and returns the stored row.
func (c *Client) CreateEvaluation(ctx context.Context, eval models.Evaluation) (models.Evaluation, error) {
	var created models.Evaluation
	err := c.DB.GetContext(ctx, &created, `
		INSERT INTO lead_evaluations (lead_id, evaluation_type, qualification_score, evaluation_result, criteria_met, confidence_score, evaluator_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+evalColumns,
		eval.LeadID, eval.EvaluationType, eval.QualificationScore, eval.EvaluationResult,
		eval.CriteriaMet, eval.ConfidenceScore, eval.EvaluatorVersion)
	if err != nil {
		return models.Evaluation{}, mapError(err, "evaluation")
	}
	return created, nil
}
