package infrastructure

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest(http.MethodGet, "/api/pnl/history", http.StatusOK, 5*time.Millisecond)
	m.ObserveAnalyticsRun("max_profit_summary", nil, time.Millisecond)
	m.ObserveAnalyticsRun("max_profit_summary", errors.New("boom"), time.Millisecond)
	m.AddRowsIngested("trades", 42)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",route="/api/pnl/history",status="200"} 1`))
	assert.True(t, strings.Contains(body, `analytics_runs_total{operation="max_profit_summary",outcome="success"} 1`))
	assert.True(t, strings.Contains(body, `analytics_runs_total{operation="max_profit_summary",outcome="error"} 1`))
	assert.True(t, strings.Contains(body, `rows_ingested_total{dataset="trades"} 42`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
