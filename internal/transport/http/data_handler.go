package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/storage"
	"tradepulse/pkg/contracts/domain"
)

// DataHandler handles trade and price data HTTP requests with RFC 7807
// compliance.
type DataHandler struct {
	service      DataServiceInterface
	maxUpload    int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service DataServiceInterface, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// TradesRoutes returns the routes mounted under /api/trades
func (h *DataHandler) TradesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListTrades)
	r.Post("/upload", h.UploadTrades)
	r.Delete("/", h.DeleteTrades)

	return r
}

// PricesRoutes returns the routes mounted under /api/prices
func (h *DataHandler) PricesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListPrices)
	r.Post("/upload", h.UploadPrices)
	r.Delete("/", h.DeletePrices)

	return r
}

// ListTrades handles GET /api/trades
func (h *DataHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	trades, err := h.service.ListTrades(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if trades == nil {
		trades = []domain.Trade{}
	}

	render.JSON(w, r, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

// UploadTrades handles POST /api/trades/upload
func (h *DataHandler) UploadTrades(w http.ResponseWriter, r *http.Request) {
	body, cleanup, err := h.uploadBody(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	n, err := h.service.UploadTrades(r.Context(), body)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"rows_accepted": n,
	})
}

// DeleteTrades handles DELETE /api/trades
func (h *DataHandler) DeleteTrades(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))

	n, err := h.service.DeleteTrades(r.Context(), ticker)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"rows_deleted": n,
	})
}

// ListPrices handles GET /api/prices
func (h *DataHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	prices, err := h.service.ListPrices(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if prices == nil {
		prices = []domain.PriceObservation{}
	}

	render.JSON(w, r, map[string]interface{}{
		"prices": prices,
		"count":  len(prices),
	})
}

// UploadPrices handles POST /api/prices/upload
func (h *DataHandler) UploadPrices(w http.ResponseWriter, r *http.Request) {
	body, cleanup, err := h.uploadBody(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	n, err := h.service.UploadPrices(r.Context(), body)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"rows_accepted": n,
	})
}

// DeletePrices handles DELETE /api/prices
func (h *DataHandler) DeletePrices(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))

	n, err := h.service.DeletePrices(r.Context(), ticker)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"rows_deleted": n,
	})
}

// uploadBody extracts the CSV stream from an upload request. Multipart
// uploads carry the data in a "file" part; anything else is read as the
// raw body. The reader is capped at the configured upload limit.
func (h *DataHandler) uploadBody(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(strings.ToLower(ct), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return nil, nil, apierrors.InvalidRequestWithError(err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, apierrors.ErrValidation("file", "Multipart upload requires a \"file\" part")
		}
		return file, func() { file.Close() }, nil
	}

	return r.Body, func() {}, nil
}

// filterFromQuery builds a storage filter from ticker, from and to query
// parameters.
func filterFromQuery(r *http.Request) (storage.Filter, error) {
	var filter storage.Filter
	q := r.URL.Query()

	filter.Ticker = strings.TrimSpace(q.Get("ticker"))

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		t, err := time.ParseInLocation(domain.DateFormat, raw, time.UTC)
		if err != nil {
			return filter, apierrors.ErrValidation("from", "Expected an ISO 8601 date (YYYY-MM-DD)")
		}
		filter.From = t
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		t, err := time.ParseInLocation(domain.DateFormat, raw, time.UTC)
		if err != nil {
			return filter, apierrors.ErrValidation("to", "Expected an ISO 8601 date (YYYY-MM-DD)")
		}
		filter.To = t
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, apierrors.ErrValidation("to", "Range end precedes range start")
	}

	return filter, nil
}
