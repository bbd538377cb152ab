package analytics

import (
	"math"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// tradeDay is the end-of-day ledger outcome for one (ticker, date): position
// state after the last trade of the day, the day's realized PnL summed across
// its trades, and the last execution price.
type tradeDay struct {
	size      int64
	basis     float64
	realized  float64
	execPrice float64
}

// BuildPnLHistory left-joins the resampled daily price calendar against the
// per-trade analytics output. Every calendar day in a ticker's price range
// produces exactly one row; position, basis and realized PnL are carried
// forward across non-trading days, with leading gaps (before the first trade)
// zero-filled. Unrealized and total PnL are derived per row and any
// non-finite result is coerced to 0.
//
// The join never fails: a ticker present in prices but absent from trades
// yields zero-filled analytics, and trades without prices simply produce no
// rows (the price calendar drives the row set). Output is sorted by
// (ticker, date).
func BuildPnLHistory(resampled []domain.PriceObservation, analytics []domain.TradeAnalyticsRow) []domain.PnLHistoryRow {
	if len(resampled) == 0 {
		return nil
	}

	type key struct {
		ticker string
		day    time.Time
	}

	days := make(map[key]tradeDay)
	for _, row := range analytics {
		k := key{ticker: row.Ticker, day: Day(row.Date)}
		d := days[k]
		// Ledger rows arrive in trade order, so the last write per day is the
		// end-of-day state.
		d.size = row.PositionSizeAfterTrade
		d.basis = row.PositionBasisAfterTrade
		d.realized += row.RealizedPnL
		d.execPrice = row.Price
		days[k] = d
	}

	out := make([]domain.PnLHistoryRow, 0, len(resampled))

	// Resampled input is sorted by (ticker, date), so a single carried state
	// per ticker implements the per-partition forward fill.
	var carried tradeDay
	var carriedTicker string
	for _, p := range resampled {
		if p.Ticker != carriedTicker {
			carried = tradeDay{}
			carriedTicker = p.Ticker
		}

		row := domain.PnLHistoryRow{
			Date:       p.Date,
			Ticker:     p.Ticker,
			ClosePrice: p.Close,
		}

		if d, ok := days[key{ticker: p.Ticker, day: p.Date}]; ok {
			carried.size = d.size
			carried.basis = d.basis
			carried.realized = d.realized
			row.TradeExecutionPrice = d.execPrice
		}

		row.PositionSizeAfterTrade = carried.size
		row.PositionBasisAfterTrade = finiteOrZero(carried.basis)
		row.RealizedPnL = finiteOrZero(carried.realized)
		row.UnrealizedPnL = finiteOrZero((row.ClosePrice - row.PositionBasisAfterTrade) * float64(row.PositionSizeAfterTrade))
		row.TotalPnL = finiteOrZero(row.RealizedPnL + row.UnrealizedPnL)
		row.TradeExecutionPrice = finiteOrZero(row.TradeExecutionPrice)
		row.ClosePrice = finiteOrZero(row.ClosePrice)

		out = append(out, row)
	}

	return out
}

// finiteOrZero coerces NaN and infinities to 0 so emitted tables stay
// record-serializable.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
