package analytics

import (
	"fmt"
	"sort"

	"tradepulse/pkg/contracts/domain"
)

// longOnlyOpportunity scans a chronologically sorted price series for the
// best buy-then-sell pair (buy <= sell). Single pass with a running minimum;
// the best pair is only replaced on strict improvement, so the earliest sell
// achieving the maximum wins ties, and the running minimum only moves on
// strictly lower prices, so the earliest minimum wins ties.
func longOnlyOpportunity(series []domain.PriceObservation) domain.ProfitOpportunity {
	var opp domain.ProfitOpportunity

	minIdx := 0
	for i := 1; i < len(series); i++ {
		if series[i].Close < series[minIdx].Close {
			minIdx = i
			continue
		}
		if profit := series[i].Close - series[minIdx].Close; profit > opp.MaxProfit {
			opp = domain.ProfitOpportunity{
				BuyDate:   series[minIdx].Date,
				BuyPrice:  series[minIdx].Close,
				SellDate:  series[i].Date,
				SellPrice: series[i].Close,
				MaxProfit: profit,
			}
		}
	}

	return opp
}

// shortSaleOpportunity scans for the best sell-then-cover pair (sell strictly
// before the later buy). For each sell index the best cover is the earliest
// minimum in the suffix after it; candidate sells are scanned ascending and
// replaced only on strict improvement, matching the long-only tie-breaking.
func shortSaleOpportunity(series []domain.PriceObservation) domain.ProfitOpportunity {
	var opp domain.ProfitOpportunity

	n := len(series)
	if n < MinPricePoints {
		return opp
	}

	// suffixMin[i] is the index of the earliest minimum close in series[i..].
	suffixMin := make([]int, n)
	suffixMin[n-1] = n - 1
	for i := n - 2; i >= 0; i-- {
		if series[i].Close <= series[suffixMin[i+1]].Close {
			suffixMin[i] = i
		} else {
			suffixMin[i] = suffixMin[i+1]
		}
	}

	for sell := 0; sell < n-1; sell++ {
		buy := suffixMin[sell+1]
		if profit := series[sell].Close - series[buy].Close; profit > opp.MaxProfit {
			opp = domain.ProfitOpportunity{
				SellDate:  series[sell].Date,
				SellPrice: series[sell].Close,
				BuyDate:   series[buy].Date,
				BuyPrice:  series[buy].Close,
				MaxProfit: profit,
			}
		}
	}

	return opp
}

// MaxProfitOpportunity computes the best opportunity for a single ticker's
// price series under the given strategy. The series is sorted by date before
// scanning. Series shorter than MinPricePoints yield a zero opportunity.
func MaxProfitOpportunity(series []domain.PriceObservation, strategy Strategy) (domain.ProfitOpportunity, error) {
	if !strategy.IsValid() {
		return domain.ProfitOpportunity{}, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	if len(series) < MinPricePoints {
		return domain.ProfitOpportunity{}, nil
	}

	sorted := make([]domain.PriceObservation, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	if strategy == StrategyLongOnly {
		return longOnlyOpportunity(sorted), nil
	}
	return shortSaleOpportunity(sorted), nil
}

// FindMaximumProfitDates computes the best opportunity per ticker for the
// given strategy. Tickers with fewer than MinPricePoints observations are
// absent from the result entirely.
func FindMaximumProfitDates(prices []domain.PriceObservation, strategy Strategy) (map[string]domain.ProfitOpportunity, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}

	byTicker := make(map[string][]domain.PriceObservation)
	for _, p := range prices {
		byTicker[p.Ticker] = append(byTicker[p.Ticker], p)
	}

	result := make(map[string]domain.ProfitOpportunity, len(byTicker))
	for ticker, series := range byTicker {
		if len(series) < MinPricePoints {
			continue
		}
		opp, err := MaxProfitOpportunity(series, strategy)
		if err != nil {
			return nil, err
		}
		result[ticker] = opp
	}

	return result, nil
}
