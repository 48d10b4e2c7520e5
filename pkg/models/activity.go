package models

import "time"

// CallOutcome is the result of a phone call attempt.
type CallOutcome string

const (
	OutcomeAnswered  CallOutcome = "answered"
	OutcomeVoicemail CallOutcome = "voicemail"
	OutcomeNoAnswer  CallOutcome = "no_answer"
	OutcomeBusy      CallOutcome = "busy"
)

// CallAnalysis holds the AI-extracted signals from a call transcript.
type CallAnalysis struct {
	InterestLevel   int      `json:"interest_level"`
	BudgetQualified bool     `json:"budget_qualified"`
	DecisionMaker   bool     `json:"decision_maker"`
	Timeline        string   `json:"timeline"`
	PainPoints      []string `json:"pain_points"`
	NextSteps       string   `json:"next_steps"`
}

// PhoneCall is an append-only call record attached to a lead.
type PhoneCall struct {
	ID          string       `json:"id" db:"id"`
	LeadID      string       `json:"lead_id" db:"lead_id"`
	CallDate    time.Time    `json:"call_date" db:"call_date"`
	Duration    int          `json:"duration" db:"duration"` // seconds
	Transcript  string       `json:"transcript" db:"transcript"`
	CallOutcome CallOutcome  `json:"call_outcome" db:"call_outcome"`
	AIAnalysis  CallAnalysis `json:"ai_analysis" db:"ai_analysis"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// EmailType distinguishes outbound from inbound mail.
type EmailType string

const (
	EmailOutbound EmailType = "outbound"
	EmailInbound  EmailType = "inbound"
)

// EmailStatus is the delivery/engagement ladder for an email.
type EmailStatus string

const (
	EmailSent      EmailStatus = "sent"
	EmailDelivered EmailStatus = "delivered"
	EmailOpened    EmailStatus = "opened"
	EmailClicked   EmailStatus = "clicked"
	EmailReplied   EmailStatus = "replied"
)

// rank orders the engagement ladder so status never regresses.
func (s EmailStatus) rank() int {
	switch s {
	case EmailSent:
		return 1
	case EmailDelivered:
		return 2
	case EmailOpened:
		return 3
	case EmailClicked:
		return 4
	case EmailReplied:
		return 5
	}
	return 0
}

// AtLeast reports whether s is at or beyond other on the engagement ladder.
func (s EmailStatus) AtLeast(other EmailStatus) bool {
	return s.rank() >= other.rank()
}

// Email is a message exchanged with a lead. Immutable once created except for
// the engagement tracking fields, which arrive as later updates.
type Email struct {
	ID          string      `json:"id" db:"id"`
	LeadID      string      `json:"lead_id" db:"lead_id"`
	EmailType   EmailType   `json:"email_type" db:"email_type"`
	Subject     string      `json:"subject" db:"subject"`
	Content     string      `json:"content" db:"content"`
	SentAt      time.Time   `json:"sent_at" db:"sent_at"`
	OpenedAt    *time.Time  `json:"opened_at,omitempty" db:"opened_at"`
	ClickedAt   *time.Time  `json:"clicked_at,omitempty" db:"clicked_at"`
	RepliedAt   *time.Time  `json:"replied_at,omitempty" db:"replied_at"`
	EmailStatus EmailStatus `json:"email_status" db:"email_status"`
}

// EvaluationType distinguishes what interaction an evaluation was based on.
type EvaluationType string

const (
	EvaluationPhone EvaluationType = "phone"
	EvaluationEmail EvaluationType = "email"
)

// EvaluationResult is the structured verdict of an AI qualification pass.
type EvaluationResult struct {
	Qualified      bool     `json:"qualified"`
	Reason         string   `json:"reason"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	Recommendation string   `json:"recommendation"`
}

// CriteriaMet holds the BANT qualification booleans.
type CriteriaMet struct {
	Budget    bool `json:"budget"`
	Authority bool `json:"authority"`
	Need      bool `json:"need"`
	Timeline  bool `json:"timeline"`
}

// Evaluation is an append-only AI qualification record for a lead.
type Evaluation struct {
	ID                 string           `json:"id" db:"id"`
	LeadID             string           `json:"lead_id" db:"lead_id"`
	EvaluationType     EvaluationType   `json:"evaluation_type" db:"evaluation_type"`
	QualificationScore int              `json:"qualification_score" db:"qualification_score"` // 1-100
	EvaluationResult   EvaluationResult `json:"evaluation_result" db:"evaluation_result"`
	CriteriaMet        CriteriaMet      `json:"criteria_met" db:"criteria_met"`
	ConfidenceScore    float64          `json:"confidence_score" db:"confidence_score"` // 0.00-1.00
	EvaluatorVersion   string           `json:"evaluator_version" db:"evaluator_version"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

// CreatePhoneCallRequest is the payload for logging a call.
type CreatePhoneCallRequest struct {
	CallDate    string        `json:"call_date" validate:"omitempty"`
	Duration    int           `json:"duration" validate:"min=0"`
	Transcript  string        `json:"transcript"`
	CallOutcome string        `json:"call_outcome" validate:"omitempty,oneof=answered voicemail no_answer busy"`
	AIAnalysis  *CallAnalysis `json:"ai_analysis"`
}

// CreateEmailRequest is the payload for recording an email.
type CreateEmailRequest struct {
	EmailType string `json:"email_type" validate:"required,oneof=outbound inbound"`
	Subject   string `json:"subject"`
	Content   string `json:"content" validate:"required"`
	Send      bool   `json:"send"` // outbound only: also deliver via the mail provider
}

// EmailEventRequest records an engagement event against an email.
type EmailEventRequest struct {
	Event string `json:"event" validate:"required,oneof=delivered opened clicked replied"`
}
