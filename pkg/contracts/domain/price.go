package domain

import (
	"time"
)

// PriceObservation represents a single daily closing price for a ticker.
// A ticker's series may have calendar gaps; the analytics engine resamples
// them to one row per day.
type PriceObservation struct {
	Date   time.Time `json:"date" db:"trade_date" validate:"required"`
	Ticker string    `json:"ticker" db:"ticker" validate:"required,max=10"`
	Close  float64   `json:"close" db:"close_price" validate:"required,gt=0"`
}

// IsValid checks the minimal consistency of a price row.
func (p PriceObservation) IsValid() bool {
	return p.Ticker != "" && p.Close > 0 && !p.Date.IsZero()
}
