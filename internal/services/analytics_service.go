package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tradepulse/internal/analytics"
	apperrors "tradepulse/internal/errors"
	"tradepulse/internal/infrastructure"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// AnalyticsService computes PnL histories and max-profit summaries from
// the stored trades and prices.
type AnalyticsService struct {
	store   Store
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewAnalyticsService creates a new analytics service. metrics may be nil.
func NewAnalyticsService(store Store, metrics *infrastructure.Metrics, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		store:   store,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "analytics_service"),
	}
}

// engineFor loads the inputs and builds an engine. A ticker restriction is
// pushed down to storage; date restrictions are applied after computation
// so that position state is never derived from a truncated trade history.
func (s *AnalyticsService) engineFor(ctx context.Context, ticker string) (*analytics.Engine, error) {
	trades, err := s.store.ListTrades(ctx, storage.Filter{Ticker: ticker})
	if err != nil {
		return nil, apperrors.NewStorageError("load trades", err)
	}
	prices, err := s.store.ListPrices(ctx, storage.Filter{Ticker: ticker})
	if err != nil {
		return nil, apperrors.NewStorageError("load prices", err)
	}
	return analytics.NewEngine(trades, prices, s.logger), nil
}

// observe records one analytics computation on the collectors.
func (s *AnalyticsService) observe(operation string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveAnalyticsRun(operation, err, time.Since(start))
	}
}

// TradeAnalytics returns the per-trade ledger rows, optionally restricted
// to one ticker.
func (s *AnalyticsService) TradeAnalytics(ctx context.Context, ticker string) ([]domain.TradeAnalyticsRow, error) {
	ctx, span := infrastructure.StartSpan(ctx, "analytics.TradeAnalytics",
		attributeTicker(ticker))
	defer span.End()
	start := time.Now()

	engine, err := s.engineFor(ctx, ticker)
	if err != nil {
		s.observe("trade_analytics", err, start)
		return nil, err
	}

	rows := engine.TradeAnalytics()
	s.observe("trade_analytics", nil, start)
	return rows, nil
}

// PnLHistory returns the daily PnL rows, optionally restricted to one
// ticker and clipped to a date range.
func (s *AnalyticsService) PnLHistory(ctx context.Context, filter storage.Filter) ([]domain.PnLHistoryRow, error) {
	ctx, span := infrastructure.StartSpan(ctx, "analytics.PnLHistory",
		attributeTicker(filter.Ticker))
	defer span.End()
	start := time.Now()

	engine, err := s.engineFor(ctx, filter.Ticker)
	if err != nil {
		s.observe("pnl_history", err, start)
		return nil, err
	}

	rows := engine.PnLHistory()
	rows = clipHistory(rows, filter.From, filter.To)
	s.observe("pnl_history", nil, start)
	return rows, nil
}

// MaxProfitSummary returns max-profit rows for every ticker and strategy.
// A non-empty strategy restricts the result to that strategy; an unknown
// name is rejected. A non-empty ticker restricts the result to one ticker.
func (s *AnalyticsService) MaxProfitSummary(ctx context.Context, strategy, ticker string) ([]domain.ProfitSummaryRow, error) {
	ctx, span := infrastructure.StartSpan(ctx, "analytics.MaxProfitSummary",
		attributeTicker(ticker))
	defer span.End()
	start := time.Now()

	var wantDisplay string
	if strategy != "" {
		parsed, err := analytics.ParseStrategy(strategy)
		if err != nil {
			s.observe("max_profit_summary", err, start)
			return nil, apperrors.InvalidStrategyError(strategy)
		}
		wantDisplay = parsed.DisplayName()
	}

	engine, err := s.engineFor(ctx, ticker)
	if err != nil {
		s.observe("max_profit_summary", err, start)
		return nil, err
	}

	rows, err := engine.MaximumProfitSummary(ctx)
	if err != nil {
		s.observe("max_profit_summary", err, start)
		return nil, apperrors.NewAnalyticsError("max profit summary", err)
	}

	if wantDisplay != "" {
		filtered := rows[:0]
		for _, row := range rows {
			if row.Strategy == wantDisplay {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	s.observe("max_profit_summary", nil, start)
	return rows, nil
}

// clipHistory drops rows outside [from, to]. Zero bounds are open.
func clipHistory(rows []domain.PnLHistoryRow, from, to time.Time) []domain.PnLHistoryRow {
	if from.IsZero() && to.IsZero() {
		return rows
	}
	clipped := make([]domain.PnLHistoryRow, 0, len(rows))
	for _, row := range rows {
		if !from.IsZero() && row.Date.Before(from) {
			continue
		}
		if !to.IsZero() && row.Date.After(to) {
			continue
		}
		clipped = append(clipped, row)
	}
	return clipped
}

func attributeTicker(ticker string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("ticker", ticker))
}
