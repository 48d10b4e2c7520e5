// Package errors maps domain errors onto HTTP responses with stable bodies.
// Internal detail is logged, never exposed.
package errors

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/logger"
	"github.com/jordanlanch/leadflow/pkg/models"
)

var log = logger.Default()

// Respond writes the HTTP response for a service-layer error.
func Respond(c echo.Context, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case domain.ErrCodeNotFound:
			return NotFoundError(c, de.Message)
		case domain.ErrCodeValidation:
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation_error",
				Message: de.Message,
			})
		case domain.ErrCodeConflict:
			return ConflictError(c, de.Message)
		case domain.ErrCodeTransient:
			log.Warn("upstream unavailable", "path", c.Request().URL.Path, "error", err)
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "service_unavailable",
				Message: "The service is temporarily unavailable. Please try again later.",
			})
		}
	}
	return InternalError(c, err)
}

// ValidationError returns a 400 carrying one detail line per failed field.
func ValidationError(c echo.Context, err error) error {
	details := []string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fe.Field()+" failed "+fe.Tag()+" validation")
		}
	} else {
		details = append(details, err.Error())
	}

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
		Details: details,
	})
}

// BindError returns a 400 for malformed request bodies.
func BindError(c echo.Context, err error) error {
	log.Debug("bind failed", "path", c.Request().URL.Path, "error", err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: "Request body could not be parsed.",
	})
}

// InternalError returns a generic 500 and logs the cause.
func InternalError(c echo.Context, err error) error {
	log.Error("internal error", "path", c.Request().URL.Path, "error", err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// NotFoundError returns a 404.
func NotFoundError(c echo.Context, message string) error {
	if message == "" {
		message = "The requested resource was not found."
	}
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

// ConflictError returns a 409. The message is safe to expose, e.g. a
// duplicate email address.
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Error:   "conflict",
		Message: message,
	})
}
