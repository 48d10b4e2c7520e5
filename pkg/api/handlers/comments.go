package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apierrors "github.com/jordanlanch/leadflow/pkg/api/errors"
	"github.com/jordanlanch/leadflow/pkg/comments"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
)

// CommentHandler serves the comment thread endpoints.
type CommentHandler struct {
	comments *comments.Service
	leads    *leads.Service
	validate *validator.Validate
}

// NewCommentHandler creates a comment handler.
func NewCommentHandler(commentService *comments.Service, leadService *leads.Service) *CommentHandler {
	return &CommentHandler{
		comments: commentService,
		leads:    leadService,
		validate: validator.New(),
	}
}

// CreateComment posts a comment or reply on a lead.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	leadID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	comment, err := h.comments.Create(c.Request().Context(), leadID, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// ListComments returns a lead's comments in render order (roots newest-first,
// each followed by its replies oldest-first), or the full tree with
// ?threaded=1.
func (h *CommentHandler) ListComments(c echo.Context) error {
	leadID := c.Param("id")

	if _, err := h.leads.LeadByID(leadID); err != nil {
		return apierrors.Respond(c, err)
	}

	thread := h.comments.Threads(leadID)
	if c.QueryParam("threaded") == "1" || c.QueryParam("threaded") == "true" {
		return c.JSON(http.StatusOK, thread)
	}
	return c.JSON(http.StatusOK, thread.Flatten())
}

// UpdateComment edits a comment's content or visibility.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id := c.Param("id")

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BindError(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.ValidationError(c, err)
	}

	comment, err := h.comments.Update(c.Request().Context(), id, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Comments with replies are soft-deleted so
// the thread keeps its shape.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id := c.Param("id")

	if err := h.comments.Delete(c.Request().Context(), id); err != nil {
		return apierrors.Respond(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
