package errors

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddleware_Handler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/segments/vocabulary", nil)

	m.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestErrorMiddleware_Handler_RecoversPanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/segments/view", strings.NewReader(`{"roles":["Engineer"]}`))
	req.ContentLength = int64(len(`{"roles":["Engineer"]}`))

	m.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSanitizeRequestBody(t *testing.T) {
	body := `{"api_key":"secret-value","roles":["Engineer"]}`

	sanitized := sanitizeRequestBody(body)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sanitized), &decoded))
	assert.Equal(t, "[REDACTED]", decoded["api_key"])
	assert.NotNil(t, decoded["roles"])
}

func TestSanitizeRequestBody_NonJSON(t *testing.T) {
	assert.Equal(t, "plain text", sanitizeRequestBody("plain text"))
}
