package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/jordanlanch/leadflow/pkg/api/errors"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// FilterHandler exposes the shared filter and sort settings that drive the
// lead list and board views.
type FilterHandler struct {
	leads *leads.Service
}

// NewFilterHandler creates a filter handler.
func NewFilterHandler(leadService *leads.Service) *FilterHandler {
	return &FilterHandler{leads: leadService}
}

// UpdateFiltersRequest is a partial update of the filter state. Nil fields
// are left untouched.
type UpdateFiltersRequest struct {
	SearchQuery    *string           `json:"search_query"`
	StatusFilter   *string           `json:"status_filter"`
	PriorityFilter *string           `json:"priority_filter"`
	DateRange      *models.DateRange `json:"date_range"`
	SortBy         *string           `json:"sort_by"`
	SortOrder      *string           `json:"sort_order"`
}

// GetFilters returns the active filter state.
func (h *FilterHandler) GetFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.leads.Filters())
}

// UpdateFilters applies the provided filter changes. Unknown enum values are
// rejected before anything is touched, so a bad payload never half-applies.
func (h *FilterHandler) UpdateFilters(c echo.Context) error {
	var req UpdateFiltersRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}

	if req.StatusFilter != nil && *req.StatusFilter != models.FilterAll && !models.LeadStatus(*req.StatusFilter).Valid() {
		return apierrors.Respond(c, domain.NewValidationError("unknown status filter"))
	}
	if req.PriorityFilter != nil && *req.PriorityFilter != models.FilterAll && !models.LeadPriority(*req.PriorityFilter).Valid() {
		return apierrors.Respond(c, domain.NewValidationError("unknown priority filter"))
	}
	if req.SortBy != nil && !models.SortOption(*req.SortBy).Valid() {
		return apierrors.Respond(c, domain.NewValidationError("unknown sort key"))
	}
	if req.SortOrder != nil && *req.SortOrder != string(models.SortAsc) && *req.SortOrder != string(models.SortDesc) {
		return apierrors.Respond(c, domain.NewValidationError("unknown sort order"))
	}

	if req.SearchQuery != nil {
		h.leads.SetSearchQuery(*req.SearchQuery)
	}
	if req.StatusFilter != nil {
		h.leads.SetStatusFilter(*req.StatusFilter)
	}
	if req.PriorityFilter != nil {
		h.leads.SetPriorityFilter(*req.PriorityFilter)
	}
	if req.DateRange != nil {
		h.leads.SetDateRange(*req.DateRange)
	}
	if req.SortBy != nil {
		h.leads.SetSortBy(models.SortOption(*req.SortBy))
	}
	if req.SortOrder != nil {
		h.leads.SetSortOrder(models.SortOrder(*req.SortOrder))
	}

	return c.JSON(http.StatusOK, h.leads.Filters())
}

// ClearFilters resets search, status, priority and date range to defaults.
// Sort settings survive a clear.
func (h *FilterHandler) ClearFilters(c echo.Context) error {
	h.leads.ClearFilters()
	return c.JSON(http.StatusOK, h.leads.Filters())
}
