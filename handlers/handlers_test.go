package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdash/airtable"
	"opsdash/analytics"
	"opsdash/gateway"
	"opsdash/gateway/gatewaytest"
	"opsdash/session"
	"opsdash/views"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: Title", gateway.ErrRequiredField), http.StatusBadRequest, "campo obrigatório vazio: Title"},
		{views.ErrInvalidValue, http.StatusBadRequest, views.ErrInvalidValue.Error()},
		{analytics.ErrUnknownPreset, http.StatusBadRequest, analytics.ErrUnknownPreset.Error()},
		{session.ErrUnknownDockItem, http.StatusBadRequest, session.ErrUnknownDockItem.Error()},
		{views.ErrNotFound, http.StatusNotFound, views.ErrNotFound.Error()},
		{session.ErrNotAuthenticated, http.StatusUnauthorized, session.ErrNotAuthenticated.Error()},
		{fmt.Errorf("%w: %w", views.ErrUpdateFailed, errors.New("HTTP 503 from upstream")), http.StatusBadGateway, views.ErrUpdateFailed.Error()},
		{fmt.Errorf("%w: x", views.ErrDeleteFailed), http.StatusBadGateway, views.ErrDeleteFailed.Error()},
		{errors.New("boom"), http.StatusInternalServerError, "Erro interno"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestLoggingMiddlewareCapturesStatusAndRequestID(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func newApp(t *testing.T) (*App, *gatewaytest.MemoryStore, *session.Store) {
	t.Helper()
	backend := gatewaytest.NewMemoryStore()
	gw := gateway.New(backend)
	sess := session.NewStore("pw", session.NewMemoryStorage(), nil)
	require.NoError(t, sess.Restore(context.Background()))
	app := NewApp(Deps{
		Session: sess, Tasks: gw, Meetings: gw, Projects: gw,
		Sales: analytics.NewShopify("", "", time.UTC), Ads: &analytics.StubAds{}, Social: &analytics.StubSocial{},
		Location: time.UTC,
	})
	return app, backend, sess
}

func TestAuthMiddleware(t *testing.T) {
	app, _, sess := newApp(t)
	called := false
	h := app.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, called)

	require.True(t, sess.Login(context.Background(), "juan jose", "pw"))
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.True(t, called)
}

func TestDeleteTaskHandlerFailure(t *testing.T) {
	app, backend, _ := newApp(t)
	backend.Seed(string(gateway.KindTask), airtable.Record{ID: "t1", Fields: airtable.Fields{"Title": "x"}})
	backend.FailNext(gatewaytest.MethodDestroy, string(gateway.KindTask), errors.New("down"))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/tasks/t1", nil), map[string]string{"id": "t1"})
	rec := httptest.NewRecorder()
	app.DeleteTaskHandler(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Len(t, app.board.Tasks(), 1, "failed delete reloads the board")
}

func TestRequireID(t *testing.T) {
	app, _, _ := newApp(t)
	rec := httptest.NewRecorder()
	app.DeleteMeetingHandler(rec, httptest.NewRequest(http.MethodDelete, "/meetings/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
