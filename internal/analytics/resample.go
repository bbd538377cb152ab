package analytics

import (
	"sort"
	"time"

	"tradepulse/pkg/contracts/domain"
)

// Day normalizes a timestamp to midnight UTC. All engine computations key on
// day-granular dates.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResamplePrices expands each ticker's sparse price series into one row per
// calendar day between the ticker's first and last observed date, inclusive.
// Gap days take the preceding observed close; any leading gap takes the
// nearest following close. A series with a single observation resamples to
// itself. Output is sorted by ticker, then date.
func ResamplePrices(prices []domain.PriceObservation) []domain.PriceObservation {
	if len(prices) == 0 {
		return nil
	}

	type series struct {
		byDay    map[time.Time]float64
		min, max time.Time
	}

	byTicker := make(map[string]*series)
	for _, p := range prices {
		day := Day(p.Date)
		s, ok := byTicker[p.Ticker]
		if !ok {
			s = &series{byDay: make(map[time.Time]float64), min: day, max: day}
			byTicker[p.Ticker] = s
		}
		s.byDay[day] = p.Close
		if day.Before(s.min) {
			s.min = day
		}
		if day.After(s.max) {
			s.max = day
		}
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var out []domain.PriceObservation
	for _, ticker := range tickers {
		s := byTicker[ticker]

		// Forward fill across the inclusive calendar range.
		var lastClose float64
		var haveLast bool
		start := len(out)
		for day := s.min; !day.After(s.max); day = day.AddDate(0, 0, 1) {
			if close, ok := s.byDay[day]; ok {
				lastClose = close
				haveLast = true
			}
			row := domain.PriceObservation{Date: day, Ticker: ticker}
			if haveLast {
				row.Close = lastClose
			}
			out = append(out, row)
		}

		// Back-fill a leading gap with the first observed close. The range
		// starts at an observed date, so this is a defensive second pass.
		var firstClose float64
		for i := len(out) - 1; i >= start; i-- {
			if out[i].Close != 0 {
				firstClose = out[i].Close
			} else {
				out[i].Close = firstClose
			}
		}
	}

	return out
}
