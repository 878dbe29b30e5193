package interfaces

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"frontdesk-cloud/internal/observability/metrics"
	reports "frontdesk-cloud/internal/reports/application"
)

const dateLayout = "2006-01-02"

// Handler serves revenue report exports.
type Handler struct {
	service *reports.Service
}

// NewHandler constructs a handler.
func NewHandler(service *reports.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("reports handler: nil service")
	}
	return &Handler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/reports/revenue.{xlsx,pdf}?from=&to=.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var format string
	switch r.URL.Path {
	case "/api/v1/reports/revenue.xlsx":
		format = "xlsx"
	case "/api/v1/reports/revenue.pdf":
		format = "pdf"
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	from, err := parseDateQuery(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "to must not be before from", http.StatusBadRequest)
		return
	}

	start := time.Now()
	rows, err := h.service.DailyRevenue(r.Context(), from, to)
	if err != nil {
		metrics.ObserveExport(format, "error", time.Since(start))
		http.Error(w, "report build error", http.StatusInternalServerError)
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "xlsx":
		payload, err = BuildRevenueXLSX(rows, from, to)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		payload, err = BuildRevenuePDF(rows, from, to)
		contentType = "application/pdf"
	}
	if err != nil {
		metrics.ObserveExport(format, "error", time.Since(start))
		http.Error(w, "report export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, "success", time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=revenue_%s_%s.%s", from.Format(dateLayout), to.Format(dateLayout), format))
	_, _ = w.Write(payload)
}

func parseDateQuery(r *http.Request, key string) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return parsed, nil
}
