package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/internal/infrastructure"
)

// newTestApplication wires a full application against an in-memory database.
func newTestApplication(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	t.Setenv("TP_DATABASE_PATH", ":memory:")
	t.Setenv("TP_LOGGING_OUTPUT", "console")
	t.Setenv("TP_SECURITY_RATE_LIMIT_ENABLED", "false")
	t.Setenv("TP_SECURITY_RATE_LIMIT_RPS", "1000")

	app, err := NewApplication()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.DB.Close()
	})
	return app
}

func TestApplicationEndToEnd(t *testing.T) {
	app := newTestApplication(t)

	do := func(method, target, contentType, body string) *httptest.ResponseRecorder {
		t.Helper()
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", contentType)
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	trades := "date,ticker,quantity,price\n" +
		"2023-01-02,AAPL,10,150\n" +
		"2023-01-04,AAPL,-4,160\n"
	rec := do(http.MethodPost, "/api/trades/upload", "text/csv", trades)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	prices := "date,ticker,close\n" +
		"2023-01-02,AAPL,150\n" +
		"2023-01-03,AAPL,155\n" +
		"2023-01-04,AAPL,160\n" +
		"2023-01-05,AAPL,170\n"
	rec = do(http.MethodPost, "/api/prices/upload", "text/csv", prices)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodGet, "/api/trades?ticker=AAPL", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(http.MethodGet, "/api/pnl/history?ticker=AAPL", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":4`)
	assert.Contains(t, rec.Body.String(), `"realized_pnl":40`)

	rec = do(http.MethodGet, "/api/pnl/analytics?ticker=AAPL", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"position_size_after_trade":6`)

	rec = do(http.MethodGet, "/api/maxprofit?strategy=long_only", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"max_profit":20`)

	rec = do(http.MethodGet, "/api/pnl/history/export?ticker=AAPL", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	rec = do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = do(http.MethodDelete, "/api/trades?ticker=AAPL", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows_deleted":2`)
}

func TestApplicationInvalidStrategy(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/maxprofit?strategy=arbitrage", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestApplicationRequestIDHeader(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
