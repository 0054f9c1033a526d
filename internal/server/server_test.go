package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inspections/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type routeFunc func(r *flow.Mux)

func (f routeFunc) Routes(r *flow.Mux) { f(r) }

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := make(map[string]any)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	var pingErr error
	logger := testLogger()
	h := New("inspection-api", &types.Config{}, logger, &Health{
		Service: "inspection-api",
		Logger:  logger,
		Pinger:  pingerFunc(func(context.Context) error { return pingErr }),
	}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "inspection-api", body["service"])
	assert.NotEmpty(t, body["timestamp"])

	pingErr = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Contains(t, body["error"], "connection refused")
}

func TestWriteError(t *testing.T) {
	logger := testLogger()

	tests := []struct {
		name   string
		err    error
		status int
		body   map[string]any
	}{
		{
			name:   "validation",
			err:    types.ValidationError("Missing required fields: inspectionId, fileName"),
			status: http.StatusBadRequest,
			body:   map[string]any{"error": "Missing required fields: inspectionId, fileName"},
		},
		{
			name:   "not found",
			err:    types.ErrInspectionNotFound,
			status: http.StatusNotFound,
			body:   map[string]any{"error": "Inspection not found"},
		},
		{
			name:   "incomplete checklist",
			err:    types.IncompleteChecklistError([]string{"roof"}),
			status: http.StatusBadRequest,
			body:   map[string]any{"error": "Inspection checklist is incomplete", "details": map[string]any{"missingFields": []any{"roof"}}},
		},
		{
			name:   "report not ready",
			err:    types.ErrReportNotReady,
			status: http.StatusBadRequest,
			body:   map[string]any{"error": "Report has not been generated for this inspection"},
		},
		{
			name:   "upstream",
			err:    types.UpstreamError(errors.New("timeout"), "failed to list inspections"),
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": "failed to list inspections", "details": "timeout"},
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": "Internal server error", "details": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, logger, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, decodeBody(t, rec))
		})
	}
}

func TestRecover(t *testing.T) {
	h := New("test", &types.Config{}, testLogger(), routeFunc(func(r *flow.Mux) {
		r.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
			panic("nil map write")
		}, http.MethodGet)
	})).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}

func TestRequestID(t *testing.T) {
	var seen string
	h := New("test", &types.Config{}, testLogger(), routeFunc(func(r *flow.Mux) {
		r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
			WriteJSON(w, http.StatusOK, map[string]any{})
		}, http.MethodGet)
	})).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}

func TestCORSPreflight(t *testing.T) {
	h := New("test", &types.Config{}, testLogger()).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/inspections", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "content-type,authorization,x-trace-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)

	allowed := strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "authorization")
	assert.Contains(t, allowed, "x-trace-id")
}

func TestCORSSimpleRequest(t *testing.T) {
	h := New("test", &types.Config{}, testLogger(), routeFunc(func(r *flow.Mux) {
		r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]any{})
		}, http.MethodGet)
	})).Handler()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Request-Id")
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	err := DecodeJSON(req, &v)
	var apiErr *types.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, types.KindValidation, apiErr.Kind)

	req = httptest.NewRequest(http.MethodPut, "/", http.NoBody)
	assert.NoError(t, DecodeOptionalJSON(req, &v))
}
