package analytics

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"tradepulse/pkg/contracts/domain"
)

// Engine holds one invocation's input batches and derives all analytics
// tables from them. The per-trade analytics table is computed lazily, once,
// and reused by derived computations within the engine's lifetime.
//
// An Engine is cheap to construct and is meant to be built per request; it is
// not safe for concurrent use without external synchronization because of the
// lazily mutated cache.
type Engine struct {
	trades []domain.Trade
	prices []domain.PriceObservation
	logger *slog.Logger

	tradeAnalytics []domain.TradeAnalyticsRow
	computed       bool
}

// NewEngine creates an engine over the given batches. The slices are copied
// so later mutation by the caller cannot skew cached results.
func NewEngine(trades []domain.Trade, prices []domain.PriceObservation, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		trades: make([]domain.Trade, len(trades)),
		prices: make([]domain.PriceObservation, len(prices)),
		logger: logger.With(slog.String("component", "analytics_engine")),
	}
	copy(e.trades, trades)
	copy(e.prices, prices)
	return e
}

// TradeAnalytics returns the per-trade analytics table, computing it on
// first use.
func (e *Engine) TradeAnalytics() []domain.TradeAnalyticsRow {
	if !e.computed {
		e.tradeAnalytics = ComputeTradeAnalytics(e.trades)
		e.computed = true
		e.logger.Debug("trade analytics computed",
			slog.Int("trades", len(e.trades)),
			slog.Int("rows", len(e.tradeAnalytics)),
		)
	}
	return e.tradeAnalytics
}

// ResampledPrices returns the gapless daily price calendar for every ticker
// in the price batch.
func (e *Engine) ResampledPrices() []domain.PriceObservation {
	return ResamplePrices(e.prices)
}

// PnLHistory returns the full per-day PnL history table: the resampled price
// calendar joined with the ledger output, forward-filled and with unrealized
// and total PnL derived per row.
func (e *Engine) PnLHistory() []domain.PnLHistoryRow {
	return BuildPnLHistory(e.ResampledPrices(), e.TradeAnalytics())
}

// MaximumProfitDates returns the best opportunity per ticker for one
// strategy, keyed by ticker.
func (e *Engine) MaximumProfitDates(strategy Strategy) (map[string]domain.ProfitOpportunity, error) {
	return FindMaximumProfitDates(e.prices, strategy)
}

// MaximumProfitSummary computes the profit-opportunity summary for every
// ticker under both strategies. Per-ticker scans are independent, so they fan
// out across goroutines and fan back into a deterministic (ticker, strategy)
// ordering. Rows with zero profit are omitted.
func (e *Engine) MaximumProfitSummary(ctx context.Context) ([]domain.ProfitSummaryRow, error) {
	byTicker := make(map[string][]domain.PriceObservation)
	for _, p := range e.prices {
		byTicker[p.Ticker] = append(byTicker[p.Ticker], p)
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker, series := range byTicker {
		if len(series) < MinPricePoints {
			continue
		}
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	// One result slot per (ticker, strategy); workers write disjoint slots so
	// no locking is needed.
	results := make([][]domain.ProfitSummaryRow, len(tickers))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxScanConcurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			series := byTicker[ticker]
			for _, strategy := range Strategies {
				opp, err := MaxProfitOpportunity(series, strategy)
				if err != nil {
					return err
				}
				if !opp.HasOpportunity() {
					continue
				}
				results[i] = append(results[i], summaryRow(ticker, strategy, opp))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []domain.ProfitSummaryRow
	for _, r := range results {
		rows = append(rows, r...)
	}

	e.logger.Debug("maximum profit summary computed",
		slog.Int("tickers", len(tickers)),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// maxScanConcurrency bounds the per-ticker fan-out of the summary scan.
const maxScanConcurrency = 4

// summaryRow converts an opportunity into its summary form. The profit
// percentage reference is the buy price for long-only and the sell price for
// short-sale.
func summaryRow(ticker string, strategy Strategy, opp domain.ProfitOpportunity) domain.ProfitSummaryRow {
	reference := opp.BuyPrice
	if strategy == StrategyShortSale {
		reference = opp.SellPrice
	}

	var pct float64
	if reference != 0 {
		pct = opp.MaxProfit / reference * 100
	}

	return domain.ProfitSummaryRow{
		Ticker:           ticker,
		Strategy:         strategy.DisplayName(),
		BuyDate:          opp.BuyDate.Format(domain.DateFormat),
		SellDate:         opp.SellDate.Format(domain.DateFormat),
		MaxProfit:        opp.MaxProfit,
		BuyPrice:         opp.BuyPrice,
		SellPrice:        opp.SellPrice,
		ProfitPercentage: finiteOrZero(pct),
	}
}
