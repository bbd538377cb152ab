package services

import "errors"

// Service-level errors
var (
	// Data errors
	ErrNoTradesFound = errors.New("no trades found")
	ErrNoPricesFound = errors.New("no price data found")
	ErrTickerNotFound = errors.New("ticker not found")

	// Upload errors
	ErrEmptyUpload     = errors.New("uploaded file is empty")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrInvalidFileType = errors.New("invalid file type")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
