package domain

import (
	"time"
)

// DateFormat is the canonical day-granular date representation used on the
// wire and in storage.
const DateFormat = "2006-01-02"

// Trade represents a single trade execution. Quantity is signed: positive
// means buy/cover, negative means sell/short.
type Trade struct {
	Date     time.Time `json:"date" db:"trade_date" validate:"required"`
	Ticker   string    `json:"ticker" db:"ticker" validate:"required,max=10"`
	Quantity int64     `json:"quantity" db:"quantity" validate:"required"`
	Price    float64   `json:"price" db:"price" validate:"required,gt=0"`
}

// IsValid checks the minimal consistency of a trade row.
func (t Trade) IsValid() bool {
	return t.Ticker != "" && t.Quantity != 0 && t.Price > 0 && !t.Date.IsZero()
}

// IsBuy reports whether the trade adds shares (buy or short cover).
func (t Trade) IsBuy() bool {
	return t.Quantity > 0
}

// TradeAnalyticsRow is one output row per input trade: the original trade
// fields plus the running position state after the trade and the realized
// profit or loss the trade locked in.
type TradeAnalyticsRow struct {
	Date                    time.Time `json:"date"`
	Ticker                  string    `json:"ticker"`
	Quantity                int64     `json:"quantity"`
	Price                   float64   `json:"price"`
	PositionSizeAfterTrade  int64     `json:"position_size_after_trade"`
	PositionBasisAfterTrade float64   `json:"position_basis_after_trade"`
	RealizedPnL             float64   `json:"realized_pnl"`
}
