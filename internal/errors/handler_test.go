package errors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error invalid strategy",
			err:        InvalidStrategyError("momentum"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidStrategy,
		},
		{
			name:       "api error malformed input",
			err:        MalformedInputError([]string{"price"}),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeMalformedInput,
		},
		{
			name:       "app error storage",
			err:        NewStorageError("query prices", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout, // wrapped context error wins
			wantType:   TypeTimeout,
		},
		{
			name:       "app error parsing",
			err:        NewParsingError("bad header row", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeMalformedInput,
		},
		{
			name:       "unknown error is internal",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(rec, req, nil)
	assert.Empty(t, rec.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)
	mw := RecoveryMiddleware(handler)

	panicking := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	panicking.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
}

func TestNotFoundHandler(t *testing.T) {
	handler := NewErrorHandler(testLogger(), false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)

	handler.NotFound(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
