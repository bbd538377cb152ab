package domain

import (
	"time"
)

// PnLHistoryRow is one row per (ticker, calendar date) spanning the ticker's
// observed date range. Position state is end-of-day; non-trading days carry
// the last known state forward. All numeric fields are finite in emitted
// results.
type PnLHistoryRow struct {
	Date                    time.Time `json:"date"`
	Ticker                  string    `json:"ticker"`
	ClosePrice              float64   `json:"close_price"`
	TradeExecutionPrice     float64   `json:"trade_execution_price"`
	PositionSizeAfterTrade  int64     `json:"position_size_after_trade"`
	PositionBasisAfterTrade float64   `json:"position_basis_after_trade"`
	RealizedPnL             float64   `json:"realized_pnl"`
	UnrealizedPnL           float64   `json:"unrealized_pnl"`
	TotalPnL                float64   `json:"total_pnl"`
}

// ProfitOpportunity is the best (entry, exit) date pair for one ticker under
// one strategy. MaxProfit is zero when no profitable pair exists, in which
// case the dates are zero values.
type ProfitOpportunity struct {
	BuyDate   time.Time `json:"buy_date"`
	BuyPrice  float64   `json:"buy_price"`
	SellDate  time.Time `json:"sell_date"`
	SellPrice float64   `json:"sell_price"`
	MaxProfit float64   `json:"max_profit"`
}

// HasOpportunity reports whether a profitable pair was found.
func (o ProfitOpportunity) HasOpportunity() bool {
	return o.MaxProfit > 0
}

// ProfitSummaryRow is the downstream summary surfaced per ticker and
// strategy. ProfitPercentage is relative to the buy price for long-only and
// the sell price for short-sale.
type ProfitSummaryRow struct {
	Ticker           string  `json:"ticker"`
	Strategy         string  `json:"strategy"`
	BuyDate          string  `json:"buy_date"`
	SellDate         string  `json:"sell_date"`
	MaxProfit        float64 `json:"max_profit"`
	BuyPrice         float64 `json:"buy_price"`
	SellPrice        float64 `json:"sell_price"`
	ProfitPercentage float64 `json:"profit_percentage"`
}
