package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradepulse/internal/errors"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	trades []domain.Trade
	prices []domain.PriceObservation
	err    error
}

func (m *memStore) InsertTrades(_ context.Context, trades []domain.Trade) error {
	if m.err != nil {
		return m.err
	}
	m.trades = append(m.trades, trades...)
	return nil
}

func (m *memStore) ListTrades(_ context.Context, filter storage.Filter) ([]domain.Trade, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Trade
	for _, t := range m.trades {
		if filter.Ticker == "" || t.Ticker == filter.Ticker {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) DeleteTrades(_ context.Context, ticker string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var kept []domain.Trade
	var removed int64
	for _, t := range m.trades {
		if ticker == "" || t.Ticker == ticker {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.trades = kept
	return removed, nil
}

func (m *memStore) InsertPrices(_ context.Context, prices []domain.PriceObservation) error {
	if m.err != nil {
		return m.err
	}
	m.prices = append(m.prices, prices...)
	return nil
}

func (m *memStore) ListPrices(_ context.Context, filter storage.Filter) ([]domain.PriceObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.PriceObservation
	for _, p := range m.prices {
		if filter.Ticker == "" || p.Ticker == filter.Ticker {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) DeletePrices(_ context.Context, ticker string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var kept []domain.PriceObservation
	var removed int64
	for _, p := range m.prices {
		if ticker == "" || p.Ticker == ticker {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	m.prices = kept
	return removed, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestUploadTrades(t *testing.T) {
	store := &memStore{}
	svc := NewDataService(store, nil, testLogger())

	csvBody := "date,ticker,quantity,price\n" +
		"2023-01-02,AAPL,10,150.0\n" +
		"2023-01-04,AAPL,-4,160.0\n"

	n, err := svc.UploadTrades(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.trades, 2)
	assert.Equal(t, "AAPL", store.trades[0].Ticker)
	assert.Equal(t, int64(-4), store.trades[1].Quantity)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), store.trades[0].Date)
}

func TestUploadTradesColumnOrderFree(t *testing.T) {
	store := &memStore{}
	svc := NewDataService(store, nil, testLogger())

	csvBody := "price,ticker,date,quantity,note\n" +
		"150.0,AAPL,2023-01-02,10,hello\n"

	n, err := svc.UploadTrades(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 150.0, store.trades[0].Price)
}

func TestUploadTradesMissingColumns(t *testing.T) {
	svc := NewDataService(&memStore{}, nil, testLogger())

	csvBody := "date,ticker,price\n2023-01-02,AAPL,150.0\n"

	_, err := svc.UploadTrades(context.Background(), strings.NewReader(csvBody))
	require.Error(t, err)

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "MALFORMED_INPUT", apiErr.ErrorCode)
	assert.Equal(t, []string{"quantity"}, apiErr.Details)
}

func TestUploadTradesBadRow(t *testing.T) {
	svc := NewDataService(&memStore{}, nil, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"bad date", "date,ticker,quantity,price\nnot-a-date,AAPL,10,150\n"},
		{"bad quantity", "date,ticker,quantity,price\n2023-01-02,AAPL,ten,150\n"},
		{"bad price", "date,ticker,quantity,price\n2023-01-02,AAPL,10,pricey\n"},
		{"zero quantity", "date,ticker,quantity,price\n2023-01-02,AAPL,0,150\n"},
		{"negative price", "date,ticker,quantity,price\n2023-01-02,AAPL,10,-5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadTrades(context.Background(), strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestUploadTradesEmptyFile(t *testing.T) {
	svc := NewDataService(&memStore{}, nil, testLogger())

	_, err := svc.UploadTrades(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestUploadPrices(t *testing.T) {
	store := &memStore{}
	svc := NewDataService(store, nil, testLogger())

	csvBody := "date,ticker,close\n" +
		"2023-01-02,AAPL,150.0\n" +
		"2023-01-03,AAPL,152.5\n"

	n, err := svc.UploadPrices(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.prices, 2)
	assert.Equal(t, 152.5, store.prices[1].Close)
}

func TestUploadPricesAcceptsClosePriceHeader(t *testing.T) {
	store := &memStore{}
	svc := NewDataService(store, nil, testLogger())

	csvBody := "date,ticker,close_price\n2023-01-02,AAPL,150.0\n"

	n, err := svc.UploadPrices(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUploadPricesTimestampDates(t *testing.T) {
	store := &memStore{}
	svc := NewDataService(store, nil, testLogger())

	csvBody := "date,ticker,close\n2023-01-02T15:30:00Z,AAPL,150.0\n"

	_, err := svc.UploadPrices(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), store.prices[0].Date)
}

func TestDeleteTradesAndPrices(t *testing.T) {
	store := &memStore{
		trades: []domain.Trade{
			{Date: time.Now(), Ticker: "AAPL", Quantity: 1, Price: 1},
			{Date: time.Now(), Ticker: "MSFT", Quantity: 1, Price: 1},
		},
		prices: []domain.PriceObservation{
			{Date: time.Now(), Ticker: "AAPL", Close: 1},
		},
	}
	svc := NewDataService(store, nil, testLogger())

	n, err := svc.DeleteTrades(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeletePrices(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListSurfacesStorageErrors(t *testing.T) {
	store := &memStore{err: errors.New("disk on fire")}
	svc := NewDataService(store, nil, testLogger())

	_, err := svc.ListTrades(context.Background(), storage.Filter{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}
