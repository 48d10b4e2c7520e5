package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/jordanlanch/leadflow/pkg/api/errors"
	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/email"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/scoring"
)

// ActivityHandler serves the call, email and evaluation endpoints.
type ActivityHandler struct {
	leads     *leads.Service
	gateway   *datasync.Gateway
	email     *email.Service
	evaluator *scoring.Evaluator
	validate  *validator.Validate
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(leadService *leads.Service, gateway *datasync.Gateway, emailService *email.Service, evaluator *scoring.Evaluator) *ActivityHandler {
	return &ActivityHandler{
		leads:     leadService,
		gateway:   gateway,
		email:     emailService,
		evaluator: evaluator,
		validate:  validator.New(),
	}
}

// CreatePhoneCall logs a call against a lead.
func (h *ActivityHandler) CreatePhoneCall(c echo.Context) error {
	leadID := c.Param("id")

	var req models.CreatePhoneCallRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	if _, err := h.leads.LeadByID(leadID); err != nil {
		return apierrors.Respond(c, err)
	}

	call := models.PhoneCall{
		LeadID:      leadID,
		Duration:    req.Duration,
		Transcript:  req.Transcript,
		CallOutcome: models.OutcomeNoAnswer,
	}
	if req.CallOutcome != "" {
		call.CallOutcome = models.CallOutcome(req.CallOutcome)
	}
	if req.AIAnalysis != nil {
		call.AIAnalysis = *req.AIAnalysis
	}
	if req.CallDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.CallDate)
		if err != nil {
			return apierrors.Respond(c, domain.NewValidationError("call_date must be RFC 3339"))
		}
		call.CallDate = parsed
	}

	created, err := h.gateway.CreatePhoneCall(c.Request().Context(), call)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// ListPhoneCalls returns a lead's call history.
func (h *ActivityHandler) ListPhoneCalls(c echo.Context) error {
	leadID := c.Param("id")
	if _, err := h.leads.LeadByID(leadID); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, h.leads.CallsByLead(leadID))
}

// CreateEmail records an email against a lead, optionally delivering it.
func (h *ActivityHandler) CreateEmail(c echo.Context) error {
	leadID := c.Param("id")

	var req models.CreateEmailRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	created, err := h.email.Record(c.Request().Context(), leadID, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// ListEmails returns a lead's email history.
func (h *ActivityHandler) ListEmails(c echo.Context) error {
	leadID := c.Param("id")
	if _, err := h.leads.LeadByID(leadID); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, h.leads.EmailsByLead(leadID))
}

// ApplyEmailEvent records an engagement event (delivered/opened/clicked/
// replied) against an email.
func (h *ActivityHandler) ApplyEmailEvent(c echo.Context) error {
	emailID := c.Param("id")

	var req models.EmailEventRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	updated, err := h.email.ApplyEvent(c.Request().Context(), emailID, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// CreateEvaluationRequest selects which interaction to qualify the lead from.
// Without an explicit id the most recent record of the given type is used.
type CreateEvaluationRequest struct {
	EvaluationType string `json:"evaluation_type" validate:"required,oneof=phone email"`
	CallID         string `json:"call_id"`
	EmailID        string `json:"email_id"`
}

// CreateEvaluation runs a qualification pass over a call or email and stores
// the result.
func (h *ActivityHandler) CreateEvaluation(c echo.Context) error {
	leadID := c.Param("id")

	var req CreateEvaluationRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	lead, err := h.leads.LeadByID(leadID)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	var eval models.Evaluation
	switch models.EvaluationType(req.EvaluationType) {
	case models.EvaluationPhone:
		call, err := h.pickCall(leadID, req.CallID)
		if err != nil {
			return apierrors.Respond(c, err)
		}
		eval, err = h.evaluator.EvaluateCall(c.Request().Context(), lead, call)
		if err != nil {
			return apierrors.Respond(c, err)
		}
	case models.EvaluationEmail:
		em, err := h.pickEmail(leadID, req.EmailID)
		if err != nil {
			return apierrors.Respond(c, err)
		}
		eval, err = h.evaluator.EvaluateEmail(c.Request().Context(), lead, em)
		if err != nil {
			return apierrors.Respond(c, err)
		}
	}

	return c.JSON(http.StatusCreated, eval)
}

// ListEvaluations returns a lead's evaluation history.
func (h *ActivityHandler) ListEvaluations(c echo.Context) error {
	leadID := c.Param("id")
	if _, err := h.leads.LeadByID(leadID); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, h.leads.EvaluationsByLead(leadID))
}

func (h *ActivityHandler) pickCall(leadID, callID string) (models.PhoneCall, error) {
	calls := h.leads.CallsByLead(leadID)
	if callID == "" {
		if len(calls) == 0 {
			return models.PhoneCall{}, domain.NewValidationError("lead has no phone calls to evaluate")
		}
		return calls[len(calls)-1], nil
	}
	for _, call := range calls {
		if call.ID == callID {
			return call, nil
		}
	}
	return models.PhoneCall{}, domain.NewNotFoundError("phone call")
}

func (h *ActivityHandler) pickEmail(leadID, emailID string) (models.Email, error) {
	emails := h.leads.EmailsByLead(leadID)
	if emailID == "" {
		if len(emails) == 0 {
			return models.Email{}, domain.NewValidationError("lead has no emails to evaluate")
		}
		return emails[len(emails)-1], nil
	}
	for _, em := range emails {
		if em.ID == emailID {
			return em, nil
		}
	}
	return models.Email{}, domain.NewNotFoundError("email")
}
