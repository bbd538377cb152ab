package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "tradepulse/internal/errors"
	"tradepulse/internal/infrastructure"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// Store is the persistence surface the data service depends on.
type Store interface {
	InsertTrades(ctx context.Context, trades []domain.Trade) error
	ListTrades(ctx context.Context, filter storage.Filter) ([]domain.Trade, error)
	DeleteTrades(ctx context.Context, ticker string) (int64, error)

	InsertPrices(ctx context.Context, prices []domain.PriceObservation) error
	ListPrices(ctx context.Context, filter storage.Filter) ([]domain.PriceObservation, error)
	DeletePrices(ctx context.Context, ticker string) (int64, error)
}

// Required upload columns per dataset.
var (
	tradeColumns = []string{"date", "ticker", "quantity", "price"}
	priceColumns = []string{"date", "ticker", "close"}
)

// DataService ingests, lists and deletes trades and price observations.
type DataService struct {
	store    Store
	metrics  *infrastructure.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDataService creates a new data service. metrics may be nil.
func NewDataService(store Store, metrics *infrastructure.Metrics, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:    store,
		metrics:  metrics,
		validate: validator.New(),
		logger:   infrastructure.WithComponent(logger, "data_service"),
	}
}

// ListTrades returns stored trades matching the filter.
func (s *DataService) ListTrades(ctx context.Context, filter storage.Filter) ([]domain.Trade, error) {
	trades, err := s.store.ListTrades(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError("list trades", err)
	}
	return trades, nil
}

// ListPrices returns stored price observations matching the filter.
func (s *DataService) ListPrices(ctx context.Context, filter storage.Filter) ([]domain.PriceObservation, error) {
	prices, err := s.store.ListPrices(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorageError("list prices", err)
	}
	return prices, nil
}

// UploadTrades parses a trades CSV stream and persists the rows, returning
// the number of rows accepted.
func (s *DataService) UploadTrades(ctx context.Context, r io.Reader) (int, error) {
	trades, err := s.parseTradesCSV(r)
	if err != nil {
		return 0, err
	}

	for i, t := range trades {
		if err := s.validate.Struct(t); err != nil {
			return 0, apperrors.NewValidationError(fmt.Sprintf("trade row %d invalid", i+1), err)
		}
	}

	if err := s.store.InsertTrades(ctx, trades); err != nil {
		return 0, apperrors.NewStorageError("insert trades", err)
	}

	if s.metrics != nil {
		s.metrics.AddRowsIngested("trades", len(trades))
	}
	s.logger.InfoContext(ctx, "trades uploaded", "rows", len(trades))
	return len(trades), nil
}

// UploadPrices parses a prices CSV stream and persists the rows, returning
// the number of rows accepted. Re-uploading a (ticker, date) pair replaces
// the stored close.
func (s *DataService) UploadPrices(ctx context.Context, r io.Reader) (int, error) {
	prices, err := s.parsePricesCSV(r)
	if err != nil {
		return 0, err
	}

	for i, p := range prices {
		if err := s.validate.Struct(p); err != nil {
			return 0, apperrors.NewValidationError(fmt.Sprintf("price row %d invalid", i+1), err)
		}
	}

	if err := s.store.InsertPrices(ctx, prices); err != nil {
		return 0, apperrors.NewStorageError("insert prices", err)
	}

	if s.metrics != nil {
		s.metrics.AddRowsIngested("prices", len(prices))
	}
	s.logger.InfoContext(ctx, "prices uploaded", "rows", len(prices))
	return len(prices), nil
}

// DeleteTrades removes trades, all of them or a single ticker's, returning
// the number of rows removed.
func (s *DataService) DeleteTrades(ctx context.Context, ticker string) (int64, error) {
	n, err := s.store.DeleteTrades(ctx, ticker)
	if err != nil {
		return 0, apperrors.NewStorageError("delete trades", err)
	}
	s.logger.InfoContext(ctx, "trades deleted", "ticker", ticker, "rows", n)
	return n, nil
}

// DeletePrices removes price observations, all of them or a single
// ticker's, returning the number of rows removed.
func (s *DataService) DeletePrices(ctx context.Context, ticker string) (int64, error) {
	n, err := s.store.DeletePrices(ctx, ticker)
	if err != nil {
		return 0, apperrors.NewStorageError("delete prices", err)
	}
	s.logger.InfoContext(ctx, "prices deleted", "ticker", ticker, "rows", n)
	return n, nil
}

// parseTradesCSV reads a trades CSV with a header row. Column order is
// free; extra columns are ignored.
func (s *DataService) parseTradesCSV(r io.Reader) ([]domain.Trade, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, missing := columnIndex(header, tradeColumns)
	if len(missing) > 0 {
		return nil, apperrors.MalformedInputError(missing)
	}

	trades := make([]domain.Trade, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1

		date, err := parseDate(row[idx["date"]])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid date %q", line, row[idx["date"]]), err)
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(row[idx["quantity"]]), 10, 64)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid quantity %q", line, row[idx["quantity"]]), err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[idx["price"]]), 64)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid price %q", line, row[idx["price"]]), err)
		}

		trades = append(trades, domain.Trade{
			Date:     date,
			Ticker:   strings.TrimSpace(row[idx["ticker"]]),
			Quantity: quantity,
			Price:    price,
		})
	}
	return trades, nil
}

// parsePricesCSV reads a prices CSV with a header row. The close column
// may be named "close" or "close_price".
func (s *DataService) parsePricesCSV(r io.Reader) ([]domain.PriceObservation, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	// Normalize the alternate close column name before checking.
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "close_price") {
			header[i] = "close"
		}
	}

	idx, missing := columnIndex(header, priceColumns)
	if len(missing) > 0 {
		return nil, apperrors.MalformedInputError(missing)
	}

	prices := make([]domain.PriceObservation, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		date, err := parseDate(row[idx["date"]])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid date %q", line, row[idx["date"]]), err)
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(row[idx["close"]]), 64)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid close %q", line, row[idx["close"]]), err)
		}

		prices = append(prices, domain.PriceObservation{
			Date:   date,
			Ticker: strings.TrimSpace(row[idx["ticker"]]),
			Close:  closePrice,
		})
	}
	return prices, nil
}

// readCSV reads all records, splitting off the header row.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	// Default field-count enforcement guarantees every row is as wide as
	// the header.
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperrors.NewParsingError("read CSV", err)
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewParsingError("uploaded file is empty", ErrEmptyUpload)
	}
	return records[0], records[1:], nil
}

// columnIndex maps required column names to their positions in the header,
// matching case-insensitively, and reports any that are absent.
func columnIndex(header []string, required []string) (map[string]int, []string) {
	idx := make(map[string]int, len(required))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return idx, missing
}

// parseDate parses an ISO 8601 calendar date, tolerating a trailing
// timestamp component.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(domain.DateFormat, value, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
