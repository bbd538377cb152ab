package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/exporter"
	"tradepulse/pkg/contracts/domain"
)

// PnLHandler handles PnL analytics HTTP requests with RFC 7807 compliance.
type PnLHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPnLHandler creates a new PnL handler with RFC 7807 error handling
func NewPnLHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PnLHandler {
	return &PnLHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "pnl_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes mounted under /api/pnl
func (h *PnLHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/history", h.GetHistory)
	r.Get("/history/export", h.ExportHistory)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/analytics", h.GetTradeAnalytics)

	return r
}

// GetHistory handles GET /api/pnl/history
func (h *PnLHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.PnLHistory(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.PnLHistoryRow{}
	}

	render.JSON(w, r, map[string]interface{}{
		"history": rows,
		"count":   len(rows),
	})
}

// GetTradeAnalytics handles GET /api/pnl/analytics
func (h *PnLHandler) GetTradeAnalytics(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))

	rows, err := h.service.TradeAnalytics(r.Context(), ticker)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.TradeAnalyticsRow{}
	}

	render.JSON(w, r, map[string]interface{}{
		"analytics": rows,
		"count":     len(rows),
	})
}

// ExportHistory handles GET /api/pnl/history/export. The format query
// parameter selects csv (default) or xlsx output.
func (h *PnLHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Supported export formats: csv, xlsx"))
		return
	}

	rows, err := h.service.PnLHistory(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="pnl_history.xlsx"`)
		err = exporter.WriteHistoryXLSX(w, rows)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="pnl_history.csv"`)
		err = exporter.WriteHistoryCSV(w, rows)
	}
	if err != nil {
		// Headers are already sent; the best we can do is log.
		h.logger.ErrorContext(r.Context(), "history export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
