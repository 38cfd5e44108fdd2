package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogInternalServerErrorsRecoversPanics(t *testing.T) {
	handler := LogInternalServerErrors(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[errorBody](t, rec)
	assert.Equal(t, "Internal Server Error", resp.Error)
	assert.Equal(t, "Server error", resp.Message)
	assert.Equal(t, "panic: boom", resp.Details)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ctxGetRequestID(r.Context())
	}))

	t.Run("generates one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(requestIDHeader))
	})

	t.Run("keeps the caller's", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	api := setupTestAPI(t, withConfig(map[string]string{"ACCEPTED_ORIGINS": "https://site.example"}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return api.do(req)
	}

	t.Run("allowed origin", func(t *testing.T) {
		rec := preflight("https://site.example")

		assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("blocked origin", func(t *testing.T) {
		rec := preflight("https://evil.example")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Origin", "https://site.example")

		rec := api.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
