// Package analytics implements the TradePulse PnL analytics engine.
//
// The engine turns a batch of trade executions and a batch of daily closing
// prices into per-trade realized PnL, a full per-day PnL history, and the
// historically best buy/sell date pair per ticker under two trading
// constraints.
//
// # Core Components
//
//   - ledger.go: per-ticker position ledger, a sequential state machine that
//     folds trades into position size, cost basis and realized PnL
//   - resample.go: daily price calendar resampler with forward/backward fill
//   - history.go: merger joining the resampled calendar with ledger output
//     into one row per (ticker, date)
//   - maxprofit.go: long-only and short-sale maximum-profit scans
//   - engine.go: orchestrator holding the input batches and the lazily
//     computed trade-analytics cache
//
// The engine is pure computation: it performs no I/O, holds no state between
// invocations beyond its own cache, and never logs above debug. Callers own
// persistence, transport and presentation.
//
// # Usage Example
//
//	eng := analytics.NewEngine(trades, prices, logger)
//	history := eng.PnLHistory()
//	summary, err := eng.MaximumProfitSummary(ctx)
//
// Per-ticker computations are independent; the summary fans out across
// tickers. An Engine is not safe for concurrent use by multiple goroutines
// without external synchronization.
package analytics
