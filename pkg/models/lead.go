package models

import "time"

// LeadStatus represents a lead's position in the sales pipeline.
type LeadStatus string

const (
	StatusLead              LeadStatus = "lead"
	StatusQualified         LeadStatus = "qualified"
	StatusAppointmentBooked LeadStatus = "appointment_booked"
	StatusDisqualified      LeadStatus = "disqualified"
)

// Valid reports whether s is one of the known pipeline statuses.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusLead, StatusQualified, StatusAppointmentBooked, StatusDisqualified:
		return true
	}
	return false
}

// LeadPriority represents how urgently a lead should be worked.
type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityMedium LeadPriority = "medium"
	PriorityHigh   LeadPriority = "high"
)

// Valid reports whether p is a known priority.
func (p LeadPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Lead is a sales prospect progressing through the status pipeline.
type Lead struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Email     string       `json:"email" db:"email"`
	Phone     string       `json:"phone" db:"phone"`
	Status    LeadStatus   `json:"status" db:"status"`
	Priority  LeadPriority `json:"priority" db:"priority"`
	Source    string       `json:"source" db:"source"`
	Notes     string       `json:"notes" db:"notes"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// CreateLeadRequest is the payload for creating a lead.
type CreateLeadRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty"`
	Status   string `json:"status" validate:"omitempty,oneof=lead qualified appointment_booked disqualified"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Source   string `json:"source"`
	Notes    string `json:"notes"`
}

// UpdateLeadRequest is a partial lead update. Nil fields are left untouched.
type UpdateLeadRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status" validate:"omitempty,oneof=lead qualified appointment_booked disqualified"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Source   *string `json:"source"`
	Notes    *string `json:"notes"`
}

// LeadUpdate carries the merged field values applied to a stored lead.
// Nil means "field unchanged".
type LeadUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Status   *LeadStatus
	Priority *LeadPriority
	Source   *string
	Notes    *string
}

// FromRequest converts an UpdateLeadRequest into a LeadUpdate.
func (u UpdateLeadRequest) FromRequest() LeadUpdate {
	out := LeadUpdate{
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Source: u.Source,
		Notes:  u.Notes,
	}
	if u.Status != nil {
		s := LeadStatus(*u.Status)
		out.Status = &s
	}
	if u.Priority != nil {
		p := LeadPriority(*u.Priority)
		out.Priority = &p
	}
	return out
}

// Apply merges the update into a copy of the lead and returns it.
func (u LeadUpdate) Apply(l Lead) Lead {
	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.Email != nil {
		l.Email = *u.Email
	}
	if u.Phone != nil {
		l.Phone = *u.Phone
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
	if u.Priority != nil {
		l.Priority = *u.Priority
	}
	if u.Source != nil {
		l.Source = *u.Source
	}
	if u.Notes != nil {
		l.Notes = *u.Notes
	}
	return l
}

// ErrorResponse is the standard error body returned by the API.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
