package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("message with cause", func(t *testing.T) {
		cause := stderrors.New("disk full")
		err := NewStorageError("insert trades", cause)
		assert.Equal(t, "[STORAGE] insert trades: disk full", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("message without cause", func(t *testing.T) {
		err := NewValidationError("quantity must be nonzero", nil)
		assert.Equal(t, "[VALIDATION] quantity must be nonzero", err.Error())
		assert.Nil(t, stderrors.Unwrap(err))
	})

	t.Run("errors.As finds wrapped AppError", func(t *testing.T) {
		inner := NewParsingError("bad date", nil)
		var appErr *AppError
		require.ErrorAs(t, inner, &appErr)
		assert.Equal(t, ErrTypeParsing, appErr.Type)
	})
}

func TestAPIError(t *testing.T) {
	t.Run("predefined errors carry status codes", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, ErrInvalidStrategy.StatusCode)
		assert.Equal(t, http.StatusBadRequest, ErrMalformedInput.StatusCode)
		assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode)
		assert.Equal(t, http.StatusInternalServerError, ErrStorageFailure.StatusCode)
	})

	t.Run("malformed input names missing columns", func(t *testing.T) {
		err := MalformedInputError([]string{"ticker", "price"})
		assert.Equal(t, "MALFORMED_INPUT", err.ErrorCode)
		assert.Equal(t, []string{"ticker", "price"}, err.Details)
	})

	t.Run("invalid strategy names the strategy", func(t *testing.T) {
		err := InvalidStrategyError("momentum")
		assert.Contains(t, err.Message, "momentum")
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})

	t.Run("validation error has field details", func(t *testing.T) {
		err := ErrValidation("ticker", "required")
		detail, ok := err.Details.(ValidationError)
		require.True(t, ok)
		assert.Equal(t, "ticker", detail.Field)
	})
}

func TestProblemDetailsMarshal(t *testing.T) {
	pd := NewProblemDetails(400, TypeMalformedInput, "Malformed Input", "missing columns", "/api/trades/upload").
		WithExtension("missing", []string{"price"})

	data, err := pd.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":400`)
	assert.Contains(t, string(data), TypeMalformedInput)
	assert.Contains(t, string(data), `"missing"`)
}
