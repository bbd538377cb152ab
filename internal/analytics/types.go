package analytics

import (
	"errors"
	"fmt"
)

// MinPricePoints is the minimum number of price observations a ticker needs
// before the maximum-profit scans consider it. Tickers below the threshold
// are skipped, not reported with zero entries.
const MinPricePoints = 2

// ErrInvalidStrategy is returned when an unrecognized strategy name is
// requested. The engine never silently falls back to a default strategy.
var ErrInvalidStrategy = errors.New("invalid max-profit strategy")

// Strategy identifies a maximum-profit trading constraint.
type Strategy string

const (
	// StrategyLongOnly buys first and sells later (buy <= sell).
	StrategyLongOnly Strategy = "long_only"
	// StrategyShortSale sells short first and covers later (sell < buy).
	StrategyShortSale Strategy = "short_sale"
)

// Strategies lists all supported strategies in summary output order.
var Strategies = []Strategy{StrategyLongOnly, StrategyShortSale}

// ParseStrategy converts a strategy name into a Strategy. It accepts the
// wire names ("long_only", "short_sale") and the display names used by the
// summary table.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case string(StrategyLongOnly), "Long Only":
		return StrategyLongOnly, nil
	case string(StrategyShortSale), "Short Sale":
		return StrategyShortSale, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
}

// DisplayName returns the human-facing strategy name used in summary rows.
func (s Strategy) DisplayName() string {
	switch s {
	case StrategyLongOnly:
		return "Long Only"
	case StrategyShortSale:
		return "Short Sale"
	default:
		return string(s)
	}
}

// IsValid reports whether the strategy is one of the supported constants.
func (s Strategy) IsValid() bool {
	return s == StrategyLongOnly || s == StrategyShortSale
}
