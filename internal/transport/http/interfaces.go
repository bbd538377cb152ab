package http

import (
	"context"
	"io"

	"tradepulse/internal/services"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// DataServiceInterface is the data surface the handlers depend on.
type DataServiceInterface interface {
	ListTrades(ctx context.Context, filter storage.Filter) ([]domain.Trade, error)
	UploadTrades(ctx context.Context, r io.Reader) (int, error)
	DeleteTrades(ctx context.Context, ticker string) (int64, error)

	ListPrices(ctx context.Context, filter storage.Filter) ([]domain.PriceObservation, error)
	UploadPrices(ctx context.Context, r io.Reader) (int, error)
	DeletePrices(ctx context.Context, ticker string) (int64, error)
}

// AnalyticsServiceInterface is the analytics surface the handlers depend on.
type AnalyticsServiceInterface interface {
	TradeAnalytics(ctx context.Context, ticker string) ([]domain.TradeAnalyticsRow, error)
	PnLHistory(ctx context.Context, filter storage.Filter) ([]domain.PnLHistoryRow, error)
	MaxProfitSummary(ctx context.Context, strategy, ticker string) ([]domain.ProfitSummaryRow, error)
}

// HealthServiceInterface is the health surface the handlers depend on.
type HealthServiceInterface interface {
	Check(ctx context.Context) *services.HealthStatus
}
