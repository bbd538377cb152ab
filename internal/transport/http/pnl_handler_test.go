package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// fakeAnalyticsService returns canned analytics results.
type fakeAnalyticsService struct {
	history   []domain.PnLHistoryRow
	analytics []domain.TradeAnalyticsRow
	summary   []domain.ProfitSummaryRow
	err       error

	lastStrategy string
	lastTicker   string
}

func (f *fakeAnalyticsService) TradeAnalytics(_ context.Context, ticker string) ([]domain.TradeAnalyticsRow, error) {
	f.lastTicker = ticker
	return f.analytics, f.err
}

func (f *fakeAnalyticsService) PnLHistory(_ context.Context, filter storage.Filter) ([]domain.PnLHistoryRow, error) {
	f.lastTicker = filter.Ticker
	return f.history, f.err
}

func (f *fakeAnalyticsService) MaxProfitSummary(_ context.Context, strategy, ticker string) ([]domain.ProfitSummaryRow, error) {
	f.lastStrategy = strategy
	f.lastTicker = ticker
	return f.summary, f.err
}

func newAnalyticsRouter(svc *fakeAnalyticsService) chi.Router {
	logger := testHandlerLogger()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	r := chi.NewRouter()
	r.Mount("/api/pnl", NewPnLHandler(svc, logger, errorHandler).Routes())
	r.Mount("/api/maxprofit", NewMaxProfitHandler(svc, logger, errorHandler).Routes())
	return r
}

func historyRows() []domain.PnLHistoryRow {
	return []domain.PnLHistoryRow{
		{
			Date:                   time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			Ticker:                 "AAPL",
			ClosePrice:             150,
			PositionSizeAfterTrade: 10,
		},
	}
}

func TestGetHistoryEndpoint(t *testing.T) {
	svc := &fakeAnalyticsService{history: historyRows()}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/history?ticker=AAPL", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "AAPL", svc.lastTicker)
}

func TestGetHistoryStorageError(t *testing.T) {
	svc := &fakeAnalyticsService{err: apierrors.NewStorageError("load trades", assert.AnError)}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/history", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestGetTradeAnalyticsEndpoint(t *testing.T) {
	svc := &fakeAnalyticsService{analytics: []domain.TradeAnalyticsRow{
		{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Ticker: "AAPL", Quantity: 10, Price: 150, PositionSizeAfterTrade: 10, PositionBasisAfterTrade: 150},
	}}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/analytics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "position_size_after_trade")
}

func TestExportHistoryCSV(t *testing.T) {
	svc := &fakeAnalyticsService{history: historyRows()}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/history/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pnl_history.csv")
	assert.Contains(t, rec.Body.String(), "2023-01-02,AAPL")
}

func TestExportHistoryXLSX(t *testing.T) {
	svc := &fakeAnalyticsService{history: historyRows()}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/history/export?format=xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("PnL History")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportHistoryBadFormat(t *testing.T) {
	router := newAnalyticsRouter(&fakeAnalyticsService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pnl/history/export?format=pdf", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaxProfitSummaryEndpoint(t *testing.T) {
	svc := &fakeAnalyticsService{summary: []domain.ProfitSummaryRow{
		{Ticker: "AAPL", Strategy: "Long Only", BuyDate: "2023-01-04", SellDate: "2023-01-05", BuyPrice: 145, SellPrice: 170, MaxProfit: 25, ProfitPercentage: 17.24},
	}}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/maxprofit/?strategy=long_only&ticker=AAPL", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "long_only", svc.lastStrategy)
	assert.Equal(t, "AAPL", svc.lastTicker)
}

func TestMaxProfitInvalidStrategy(t *testing.T) {
	svc := &fakeAnalyticsService{err: apierrors.InvalidStrategyError("arbitrage")}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/maxprofit/?strategy=arbitrage", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid-strategy")
}

func TestMaxProfitExportCSV(t *testing.T) {
	svc := &fakeAnalyticsService{summary: []domain.ProfitSummaryRow{
		{Ticker: "AAPL", Strategy: "Short Sale", SellDate: "2023-01-03", BuyDate: "2023-01-04", SellPrice: 160, BuyPrice: 145, MaxProfit: 15, ProfitPercentage: 9.375},
	}}
	router := newAnalyticsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/maxprofit/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AAPL,Short Sale")
}
