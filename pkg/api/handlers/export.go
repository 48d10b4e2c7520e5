package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/jordanlanch/leadflow/pkg/api/errors"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/export"
	"github.com/jordanlanch/leadflow/pkg/leads"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams lead exports.
type ExportHandler struct {
	export *export.Service
	leads  *leads.Service
}

// NewExportHandler creates an export handler.
func NewExportHandler(exportService *export.Service, leadService *leads.Service) *ExportHandler {
	return &ExportHandler{export: exportService, leads: leadService}
}

// ExportLeads downloads the currently filtered lead view. ?format=csv or
// excel (default).
func (h *ExportHandler) ExportLeads(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "excel"
	}

	filters := h.leads.Filters()
	res := c.Response()

	switch format {
	case "excel":
		res.Header().Set(echo.HeaderContentType, xlsxContentType)
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.export.Filename("xlsx")+`"`)
		res.WriteHeader(http.StatusOK)
		return h.export.WriteExcel(res, filters)
	case "csv":
		res.Header().Set(echo.HeaderContentType, "text/csv")
		res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.export.Filename("csv")+`"`)
		res.WriteHeader(http.StatusOK)
		return h.export.WriteCSV(res, filters)
	default:
		return apierrors.Respond(c, domain.NewValidationError("format must be csv or excel"))
	}
}
