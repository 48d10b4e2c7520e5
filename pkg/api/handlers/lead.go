package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/jordanlanch/leadflow/pkg/api/errors"
	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// LeadHandler serves the lead CRUD and board endpoints. Reads come from the
// in-memory view, writes go through the mutation gateway.
type LeadHandler struct {
	leads    *leads.Service
	gateway  *datasync.Gateway
	validate *validator.Validate
}

// NewLeadHandler creates a lead handler.
func NewLeadHandler(leadService *leads.Service, gateway *datasync.Gateway) *LeadHandler {
	return &LeadHandler{
		leads:    leadService,
		gateway:  gateway,
		validate: validator.New(),
	}
}

// LeadDetail is a lead with its child records embedded.
type LeadDetail struct {
	models.Lead
	PhoneCalls  []models.PhoneCall  `json:"phone_calls"`
	Emails      []models.Email      `json:"emails"`
	Evaluations []models.Evaluation `json:"evaluations"`
	Comments    []models.Comment    `json:"comments"`
}

// ListLeads returns the leads matching the active filter and sort settings.
func (h *LeadHandler) ListLeads(c echo.Context) error {
	return c.JSON(http.StatusOK, h.leads.FilteredLeads())
}

// GetBoard returns the filtered leads grouped by pipeline status.
func (h *LeadHandler) GetBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.leads.Board())
}

// GetLead returns one lead with its calls, emails, evaluations and comments.
func (h *LeadHandler) GetLead(c echo.Context) error {
	id := c.Param("id")

	lead, err := h.leads.LeadByID(id)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, LeadDetail{
		Lead:        lead,
		PhoneCalls:  h.leads.CallsByLead(id),
		Emails:      h.leads.EmailsByLead(id),
		Evaluations: h.leads.EvaluationsByLead(id),
		Comments:    h.leads.CommentsByLead(id),
	})
}

// CreateLead creates a lead. The response carries the canonical record when
// persistence succeeded, or the locally-visible record with a 202 when the
// write could not reach the database yet.
func (h *LeadHandler) CreateLead(c echo.Context) error {
	var req models.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	lead, err := h.gateway.CreateLead(c.Request().Context(), req)
	if err != nil {
		if domain.IsTransient(err) && datasync.IsTempID(lead.ID) {
			// Kept locally, persistence pending.
			return c.JSON(http.StatusAccepted, lead)
		}
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, lead)
}

// UpdateLead applies a partial update to a lead.
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	id := c.Param("id")

	var req models.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	if _, err := h.leads.LeadByID(id); err != nil {
		return apierrors.Respond(c, err)
	}

	lead, err := h.gateway.UpdateLead(c.Request().Context(), id, req.FromRequest())
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, lead)
}

// DeleteLead removes a lead and its child records.
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	id := c.Param("id")

	if _, err := h.leads.LeadByID(id); err != nil {
		return apierrors.Respond(c, err)
	}

	if err := h.gateway.DeleteLead(c.Request().Context(), id); err != nil {
		return apierrors.Respond(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
