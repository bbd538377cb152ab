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

// MaxProfitHandler handles max-profit HTTP requests with RFC 7807
// compliance.
type MaxProfitHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMaxProfitHandler creates a new max-profit handler
func NewMaxProfitHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MaxProfitHandler {
	return &MaxProfitHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "maxprofit_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the max-profit routes mounted under /api/maxprofit
func (h *MaxProfitHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetSummary)
	r.Get("/export", h.ExportSummary)

	return r
}

// GetSummary handles GET /api/maxprofit
func (h *MaxProfitHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	strategy := strings.TrimSpace(r.URL.Query().Get("strategy"))
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))

	rows, err := h.service.MaxProfitSummary(r.Context(), strategy, ticker)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.ProfitSummaryRow{}
	}

	render.JSON(w, r, map[string]interface{}{
		"summary": rows,
		"count":   len(rows),
	})
}

// ExportSummary handles GET /api/maxprofit/export. The format query
// parameter selects csv (default) or xlsx output.
func (h *MaxProfitHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	strategy := strings.TrimSpace(r.URL.Query().Get("strategy"))
	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "Supported export formats: csv, xlsx"))
		return
	}

	rows, err := h.service.MaxProfitSummary(r.Context(), strategy, ticker)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="max_profit.xlsx"`)
		err = exporter.WriteSummaryXLSX(w, rows)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="max_profit.csv"`)
		err = exporter.WriteSummaryCSV(w, rows)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "summary export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
