package analytics

import (
	"sort"

	"tradepulse/pkg/contracts/domain"
)

// positionState is the running per-ticker ledger accumulator. Basis is the
// volume-weighted average price of the open position and is meaningful only
// while size != 0; it resets to zero whenever the position closes flat.
type positionState struct {
	size  int64
	basis float64
}

// applyTrade resolves a single trade atomically against the pre-trade state
// and returns the post-trade state plus the realized PnL the trade locked in.
// Only trades that reduce the absolute size of an existing position realize
// PnL; opening and position-increasing trades always realize 0.
func applyTrade(st positionState, quantity int64, price float64) (positionState, float64) {
	var realized float64

	switch {
	case st.size == 0:
		// Opening a new position, long or short.
		st.size = quantity
		st.basis = price

	case st.size > 0 && quantity > 0:
		// Adding to a long position: weighted-average cost basis.
		totalCost := float64(st.size)*st.basis + float64(quantity)*price
		st.size += quantity
		st.basis = totalCost / float64(st.size)

	case st.size > 0 && quantity < 0:
		// Selling from a long position, possibly flipping short.
		sold := min64(st.size, -quantity)
		realized = (price - st.basis) * float64(sold)
		st.size += quantity
		if st.size < 0 {
			st.basis = price // new short opened at the trade price
		} else if st.size == 0 {
			st.basis = 0
		}

	case st.size < 0 && quantity < 0:
		// Adding to a short position: weighted-average proceeds basis.
		totalProceeds := float64(-st.size)*st.basis + float64(-quantity)*price
		st.size += quantity
		st.basis = totalProceeds / float64(-st.size)

	default: // st.size < 0 && quantity > 0
		// Covering a short position, possibly flipping long.
		covered := min64(-st.size, quantity)
		realized = (st.basis - price) * float64(covered)
		st.size += quantity
		if st.size > 0 {
			st.basis = price
		} else if st.size == 0 {
			st.basis = 0
		}
	}

	return st, realized
}

// ComputeTradeAnalytics folds each ticker's trades, in chronological order,
// through the position ledger and returns one TradeAnalyticsRow per input
// trade. Trades on the same date keep their input order. Output is sorted by
// ticker, then chronologically within each ticker.
func ComputeTradeAnalytics(trades []domain.Trade) []domain.TradeAnalyticsRow {
	if len(trades) == 0 {
		return nil
	}

	byTicker := make(map[string][]domain.Trade)
	for _, t := range trades {
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	rows := make([]domain.TradeAnalyticsRow, 0, len(trades))
	for _, ticker := range tickers {
		group := byTicker[ticker]
		// Stable sort keeps the input order of same-date trades.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		var st positionState
		for _, t := range group {
			var realized float64
			st, realized = applyTrade(st, t.Quantity, t.Price)
			rows = append(rows, domain.TradeAnalyticsRow{
				Date:                    t.Date,
				Ticker:                  t.Ticker,
				Quantity:                t.Quantity,
				Price:                   t.Price,
				PositionSizeAfterTrade:  st.size,
				PositionBasisAfterTrade: st.basis,
				RealizedPnL:             realized,
			})
		}
	}

	return rows
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
