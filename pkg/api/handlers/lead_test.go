package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadflow/pkg/datasync"
	"github.com/jordanlanch/leadflow/pkg/domain"
	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/models"
	"github.com/jordanlanch/leadflow/pkg/store"
	"github.com/jordanlanch/leadflow/pkg/testdata"
)

type fixture struct {
	echo    *echo.Echo
	store   *store.Store
	db      *testdata.FakePersistence
	leads   *leads.Service
	gateway *datasync.Gateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New(nil)
	db := testdata.NewFakePersistence()
	return &fixture{
		echo:    echo.New(),
		store:   st,
		db:      db,
		leads:   leads.NewService(st, db, nil, nil, nil),
		gateway: datasync.NewGateway(st, db, nil, nil, nil),
	}
}

func (f *fixture) seedLead(lead models.Lead) models.Lead {
	f.store.Dispatch(store.AddLead{Lead: lead})
	f.db.Leads[lead.ID] = lead
	return lead
}

// request builds an echo context around an optional JSON body. Path params
// are set from the paired names and values slices.
func (f *fixture) request(method, target, body string, paramNames, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListLeads_AppliesFilters(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Wanted" }))
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Name = "Other" }))
	f.leads.SetSearchQuery("wanted")
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodGet, "/api/v1/leads", "", nil, nil)
	require.NoError(t, h.ListLeads(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Wanted", got[0].Name)
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Status = models.StatusQualified }))
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodGet, "/api/v1/leads/board", "", nil, nil)
	require.NoError(t, h.GetBoard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var board map[string][]models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Len(t, board["qualified"], 1)
	assert.Contains(t, board, "lead")
}

func TestGetLead_IncludesChildRecords(t *testing.T) {
	f := newFixture(t)
	lead := f.seedLead(testdata.NewLead())
	f.store.Dispatch(store.AddPhoneCall{Call: testdata.NewPhoneCall(lead.ID)})
	f.store.Dispatch(store.AddComment{Comment: testdata.NewComment(lead.ID)})
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodGet, "/api/v1/leads/"+lead.ID, "", []string{"id"}, []string{lead.ID})
	require.NoError(t, h.GetLead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail LeadDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, lead.ID, detail.ID)
	assert.Len(t, detail.PhoneCalls, 1)
	assert.Len(t, detail.Comments, 1)
	assert.Empty(t, detail.Emails)
}

func TestGetLead_NotFound(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodGet, "/api/v1/leads/missing", "", []string{"id"}, []string{"missing"})
	require.NoError(t, h.GetLead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestCreateLead_Created(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	body := `{"name":"Alice","email":"alice@example.com","phone":"415-555-0123"}`
	c, rec := f.request(http.MethodPost, "/api/v1/leads", body, nil, nil)
	require.NoError(t, h.CreateLead(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var lead models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.False(t, datasync.IsTempID(lead.ID))
	assert.Equal(t, "+14155550123", lead.Phone)
}

func TestCreateLead_ValidationDetails(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	body := `{"name":"","email":"not-an-email"}`
	c, rec := f.request(http.MethodPost, "/api/v1/leads", body, nil, nil)
	require.NoError(t, h.CreateLead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Len(t, resp.Details, 2)
}

func TestCreateLead_MalformedBody(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodPost, "/api/v1/leads", `{"name":`, nil, nil)
	require.NoError(t, h.CreateLead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
}

func TestCreateLead_DuplicateEmailConflict(t *testing.T) {
	f := newFixture(t)
	f.seedLead(testdata.NewLead(func(l *models.Lead) { l.Email = "taken@example.com" }))
	h := NewLeadHandler(f.leads, f.gateway)

	body := `{"name":"Dupe","email":"taken@example.com"}`
	c, rec := f.request(http.MethodPost, "/api/v1/leads", body, nil, nil)
	require.NoError(t, h.CreateLead(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Error)
}

func TestCreateLead_AcceptedWhenBackendUnreachable(t *testing.T) {
	f := newFixture(t)
	f.db.SetErr(domain.NewTransientError(http.ErrServerClosed))
	h := NewLeadHandler(f.leads, f.gateway)

	body := `{"name":"Offline","email":"offline@example.com"}`
	c, rec := f.request(http.MethodPost, "/api/v1/leads", body, nil, nil)
	require.NoError(t, h.CreateLead(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var lead models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.True(t, datasync.IsTempID(lead.ID), "the optimistic record is returned as-is")
}

func TestUpdateLead_OK(t *testing.T) {
	f := newFixture(t)
	lead := f.seedLead(testdata.NewLead())
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodPut, "/api/v1/leads/"+lead.ID,
		`{"status":"qualified"}`, []string{"id"}, []string{lead.ID})
	require.NoError(t, h.UpdateLead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusQualified, updated.Status)
}

func TestUpdateLead_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	lead := f.seedLead(testdata.NewLead())
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodPut, "/api/v1/leads/"+lead.ID,
		`{"status":"bogus"}`, []string{"id"}, []string{lead.ID})
	require.NoError(t, h.UpdateLead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLead_NotFound(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodPut, "/api/v1/leads/missing",
		`{"status":"qualified"}`, []string{"id"}, []string{"missing"})
	require.NoError(t, h.UpdateLead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLead_NoContent(t *testing.T) {
	f := newFixture(t)
	lead := f.seedLead(testdata.NewLead())
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodDelete, "/api/v1/leads/"+lead.ID, "", []string{"id"}, []string{lead.ID})
	require.NoError(t, h.DeleteLead(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := f.leads.LeadByID(lead.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteLead_NotFound(t *testing.T) {
	f := newFixture(t)
	h := NewLeadHandler(f.leads, f.gateway)

	c, rec := f.request(http.MethodDelete, "/api/v1/leads/missing", "", []string{"id"}, []string{"missing"})
	require.NoError(t, h.DeleteLead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
