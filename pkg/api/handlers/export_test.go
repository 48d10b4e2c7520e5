package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/leadflow/pkg/export"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/testdata"
)

func (f *fixture) exportHandler() *ExportHandler {
	return NewExportHandler(export.NewService(f.leads), f.leads)
}

func TestExportLeads_CSV(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Exported Lead" }))
	h := f.exportHandler()

	c, rec := f.request(http.MethodGet, "/api/v1/leads/export?format=csv", "", nil, nil)
	require.NoError(t, h.ExportLeads(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one lead")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Exported Lead", rows[1][1])
}

func TestExportLeads_ExcelIsDefault(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Sheet Lead" }))
	h := f.exportHandler()

	c, rec := f.request(http.MethodGet, "/api/v1/leads/export", "", nil, nil)
	require.NoError(t, h.ExportLeads(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sheet Lead", rows[1][1])
}

func TestExportLeads_HonorsActiveFilters(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Keep Me" }))
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Filter Me Out" }))
	f.leads.SetSearchQuery("keep")
	h := f.exportHandler()

	c, rec := f.request(http.MethodGet, "/api/v1/leads/export?format=csv", "", nil, nil)
	require.NoError(t, h.ExportLeads(c))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Keep Me", rows[1][1])
}

func TestExportLeads_UnknownFormat(t *testing.T) {
	f := newFixture(t)
	h := f.exportHandler()

	c, rec := f.request(http.MethodGet, "/api/v1/leads/export?format=pdf", "", nil, nil)
	require.NoError(t, h.ExportLeads(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
