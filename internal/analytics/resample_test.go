package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepulse/pkg/contracts/domain"
)

func TestResamplePrices(t *testing.T) {
	t.Run("fills calendar gaps with preceding close", func(t *testing.T) {
		out := ResamplePrices([]domain.PriceObservation{
			{Date: day(2023, 1, 1), Ticker: "AAPL", Close: 150},
			{Date: day(2023, 1, 4), Ticker: "AAPL", Close: 160},
		})
		require.Len(t, out, 4)

		wantCloses := []float64{150, 150, 150, 160}
		for i, want := range wantCloses {
			assert.Equal(t, day(2023, 1, 1+i), out[i].Date)
			assert.Equal(t, "AAPL", out[i].Ticker)
			assert.Equal(t, want, out[i].Close)
		}
	})

	t.Run("idempotent on gapless series", func(t *testing.T) {
		in := []domain.PriceObservation{
			{Date: day(2023, 1, 1), Ticker: "AAPL", Close: 150},
			{Date: day(2023, 1, 2), Ticker: "AAPL", Close: 155},
			{Date: day(2023, 1, 3), Ticker: "AAPL", Close: 160},
		}
		out := ResamplePrices(in)
		assert.Equal(t, in, out)
		assert.Equal(t, out, ResamplePrices(out))
	})

	t.Run("single observation spans one date", func(t *testing.T) {
		out := ResamplePrices([]domain.PriceObservation{
			{Date: day(2023, 1, 15), Ticker: "TSLA", Close: 200},
		})
		require.Len(t, out, 1)
		assert.Equal(t, day(2023, 1, 15), out[0].Date)
		assert.Equal(t, 200.0, out[0].Close)
	})

	t.Run("tickers resampled independently and sorted", func(t *testing.T) {
		out := ResamplePrices([]domain.PriceObservation{
			{Date: day(2023, 1, 1), Ticker: "MSFT", Close: 250},
			{Date: day(2023, 1, 3), Ticker: "MSFT", Close: 260},
			{Date: day(2023, 2, 1), Ticker: "AAPL", Close: 150},
		})
		require.Len(t, out, 4)
		assert.Equal(t, "AAPL", out[0].Ticker)
		assert.Equal(t, "MSFT", out[1].Ticker)
		assert.Equal(t, 250.0, out[2].Close) // Jan 2 gap forward-filled
		assert.Equal(t, day(2023, 1, 2), out[2].Date)
	})

	t.Run("timestamps normalize to day granularity", func(t *testing.T) {
		out := ResamplePrices([]domain.PriceObservation{
			{Date: time.Date(2023, 1, 1, 15, 30, 0, 0, time.UTC), Ticker: "AAPL", Close: 150},
			{Date: time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), Ticker: "AAPL", Close: 155},
		})
		require.Len(t, out, 2)
		assert.Equal(t, day(2023, 1, 1), out[0].Date)
		assert.Equal(t, day(2023, 1, 2), out[1].Date)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, ResamplePrices(nil))
	})
}
