package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/airtable"
	"opsdash/analytics"
	"opsdash/gateway"
	"opsdash/gateway/gatewaytest"
	"opsdash/handlers"
	"opsdash/session"
)

const teamSecret = "s3cret"

type testServer struct {
	handler http.Handler
	backend *gatewaytest.MemoryStore
	session *session.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	backend := gatewaytest.NewMemoryStore()
	gw := gateway.New(backend)
	sess := session.NewStore(teamSecret, session.NewMemoryStorage(), gw)
	require.NoError(t, sess.Restore(context.Background()))

	app := handlers.NewApp(handlers.Deps{
		Session:  sess,
		Tasks:    gw,
		Meetings: gw,
		Projects: gw,
		Sales:    analytics.NewShopify("", "", time.UTC),
		Ads:      &analytics.StubAds{},
		Social:   &analytics.StubSocial{},
		Location: time.UTC,
	})
	return &testServer{handler: newRouter(app), backend: backend, session: sess}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "tomas", "password": teamSecret})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/tasks", "/meetings", "/projects", "/dashboard", "/calendar", "/preferences/dock"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}

	rec := s.do(t, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "unauthenticated", decode[map[string]any](t, rec)["state"])
}

func TestLoginLogoutFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "maria", "password": teamSecret})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", map[string]string{"name": " Tomás ", "password": teamSecret})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "authenticated", body["state"])
	assert.Equal(t, "Tomás", body["user"])
	assert.NotEmpty(t, rec.Header().Get(handlers.RequestIDHeader))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/tasks", nil).Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/auth/logout", nil).Code)

	rec = s.do(t, http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRoleAndDock(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPut, "/auth/role", map[string]string{"role": "Designer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Designer", decode[map[string]any](t, rec)["role"])

	s.backend.FailNext(gatewaytest.MethodUpdate, string(gateway.KindUser), errors.New("503"))
	rec = s.do(t, http.MethodPut, "/auth/role", map[string]string{"role": "Lead"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Lead", s.session.Identity().Role)

	rec = s.do(t, http.MethodPut, "/preferences/dock", map[string][]string{"items": {"tasks", "bogus"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/preferences/dock", map[string][]string{"items": {"tasks", "calendar"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/preferences/dock", nil)
	assert.Equal(t, []any{"tasks", "calendar"}, decode[map[string]any](t, rec)["items"])
}

func TestTaskRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.backend.Seed(string(gateway.KindTask),
		airtable.Record{ID: "t1", Fields: airtable.Fields{"Title": "one"}},
		airtable.Record{ID: "t2", Fields: airtable.Fields{"Title": "two", "Status": "Done"}},
	)

	rec := s.do(t, http.MethodPatch, "/tasks/t1/status", map[string]string{"status": "In Progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board := decode[map[string][]map[string]any](t, rec)
	require.Len(t, board["columns"], 3)

	rec = s.do(t, http.MethodPatch, "/tasks/nope/status", map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/tasks/t1/status", map[string]string{"status": "Blocked"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.backend.FailNext(gatewaytest.MethodUpdate, string(gateway.KindTask), errors.New("timeout"))
	rec = s.do(t, http.MethodPatch, "/tasks/t1/status", map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "não foi possível salvar a alteração", strings.TrimSpace(rec.Body.String()))

	notices := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/notices", nil))
	require.Len(t, notices, 1)
	assert.Equal(t, "task.status", notices[0]["action"])

	rec = s.do(t, http.MethodPost, "/tasks", map[string]string{"title": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/tasks", map[string]string{"title": "Ship", "assignee": "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Tomas", created["creator"])

	rec = s.do(t, http.MethodGet, "/tasks?focus=t2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t2", decode[map[string]any](t, rec)["focus"])

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/tasks/batch-delete", map[string][]string{"ids": {}}).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/tasks/batch-delete", map[string][]string{"ids": {"t1", "t2"}}).Code)
	assert.Len(t, s.backend.Records(string(gateway.KindTask)), 1)

	id := created["id"].(string)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/tasks/"+id, nil).Code)
	assert.Empty(t, s.backend.Records(string(gateway.KindTask)))
}

func TestMeetingAndCalendarRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/meetings", map[string]string{"title": "Sync", "date": "2025-03-10", "attendees": "Ana, Beto"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"Ana", "Beto"}, m["attendees"])
	assert.Equal(t, "Tomas", m["creator"])

	id := m["id"].(string)
	rec = s.do(t, http.MethodPut, "/meetings/"+id, map[string]string{"title": "Sync 2", "date": "2025-03-11"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/calendar/schedule", map[string]string{"title": "Demo", "date": "2025-03-20"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/calendar?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[struct {
		Leading int `json:"leading"`
		Days    []struct {
			Meetings []map[string]any `json:"meetings"`
		} `json:"days"`
	}](t, rec)
	assert.Equal(t, 6, grid.Leading)
	require.Len(t, grid.Days, 31)
	assert.Len(t, grid.Days[10].Meetings, 1)
	assert.Len(t, grid.Days[19].Meetings, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/calendar?month=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/calendar?month=13", nil).Code)

	list := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/meetings", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "Demo", list[0]["title"])

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/meetings/"+id, nil).Code)
}

func TestProjectRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/projects", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[map[string]any](t, rec)
	assert.Equal(t, "Prospect", p["relationStatus"])
	id := p["id"].(string)

	rec = s.do(t, http.MethodPatch, "/projects/"+id+"/relation-status", map[string]string{"relationStatus": "Active Client"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPatch, "/projects/"+id+"/relation-status", map[string]string{"relationStatus": "Friend"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/projects/"+id+"/notes", map[string]string{"notes": "renewal in May"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/projects/"+id+"/tasks", map[string]string{"title": "Send contract"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/projects/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Project map[string]any   `json:"project"`
		Tasks   []map[string]any `json:"tasks"`
	}](t, rec)
	assert.Equal(t, "renewal in May", view.Project["notes"])
	assert.Equal(t, "Active Client", view.Project["relationStatus"])
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, id, view.Tasks[0]["projectId"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/projects/missing", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/projects/"+id, nil).Code)
}

func TestDashboardAndAnalyticsRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	s.backend.Seed(string(gateway.KindTask), airtable.Record{Fields: airtable.Fields{"Title": "a"}})

	rec := s.do(t, http.MethodGet, "/dashboard?preset=today", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Recent struct {
			Tasks []map[string]any `json:"tasks"`
		} `json:"recent"`
		Analytics struct {
			Sales struct {
				TotalOrders int              `json:"totalOrders"`
				SalesTrend  []map[string]any `json:"salesTrend"`
			} `json:"sales"`
			Ads struct {
				TotalSpend float64 `json:"totalSpend"`
			} `json:"ads"`
		} `json:"analytics"`
	}](t, rec)
	assert.Len(t, body.Recent.Tasks, 1)
	assert.Zero(t, body.Analytics.Sales.TotalOrders)
	assert.Len(t, body.Analytics.Sales.SalesTrend, 1)
	assert.Equal(t, 2150.75, body.Analytics.Ads.TotalSpend)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/dashboard?preset=decade", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/analytics/sales?preset=custom&start=2025-02-01", nil).Code)

	rec = s.do(t, http.MethodGet, "/analytics/social?preset=last30days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 45200, decode[map[string]any](t, rec)["followers"])

	rec = s.do(t, http.MethodGet, "/analytics/ads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	h := withCORS(s.handler, []string{"http://app.local"})

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Origin", "http://app.local")
	req.Header.Set(handlers.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://app.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-42", rec.Header().Get(handlers.RequestIDHeader))
}

func TestStatusChangeOnRecordCreatedElsewhere(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/tasks", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/projects", nil).Code)

	rec := s.do(t, http.MethodPost, "/projects", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pid := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(t, http.MethodPost, "/projects/"+pid+"/tasks", map[string]string{"title": "Send contract"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tid := decode[map[string]any](t, rec)["id"].(string)

	rec = s.do(t, http.MethodPatch, "/tasks/"+tid+"/status", map[string]string{"status": "Done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	recs := s.backend.Records(string(gateway.KindTask))
	require.Len(t, recs, 1)
	assert.Equal(t, "Done", recs[0].Fields["Status"])

	// projeto gravado direto no backend, por outro cliente
	s.backend.Seed(string(gateway.KindProject), airtable.Record{ID: "recOther", Fields: airtable.Fields{"Name": "Other", "RelationStatus": "Prospect"}})
	rec = s.do(t, http.MethodPatch, "/projects/recOther/relation-status", map[string]string{"relationStatus": "Negotiation"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPatch, "/tasks/missing/status", map[string]string{"status": "Done"}).Code)
}
