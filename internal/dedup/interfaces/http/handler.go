package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	dedupapp "frontdesk-cloud/internal/dedup/application"
	dedup "frontdesk-cloud/internal/dedup/domain"
)

// Handler exposes duplicate scans and their results.
type Handler struct {
	service *dedupapp.ScanService
}

// NewHandler constructs a handler.
func NewHandler(service *dedupapp.ScanService) (*Handler, error) {
	if service == nil {
		return nil, errors.New("dedup handler: nil service")
	}
	return &Handler{service: service}, nil
}

type reportDTO struct {
	Groups        []dedup.DuplicateGroup `json:"groups"`
	GuestsScanned int                    `json:"guests_scanned"`
	Comparisons   int                    `json:"comparisons"`
	Skipped       int                    `json:"skipped"`
	Truncated     bool                   `json:"truncated"`
	ScannedAt     string                 `json:"scanned_at,omitempty"`
}

func toReportDTO(report dedup.Report, at time.Time) reportDTO {
	dto := reportDTO{
		Groups:        report.Groups,
		GuestsScanned: report.GuestsScanned,
		Comparisons:   report.Comparisons,
		Skipped:       report.Skipped,
		Truncated:     report.Truncated,
	}
	if dto.Groups == nil {
		dto.Groups = []dedup.DuplicateGroup{}
	}
	if !at.IsZero() {
		dto.ScannedAt = at.Format(time.RFC3339)
	}
	return dto
}

// ServeHTTP handles POST /api/v1/duplicates/scan and GET /api/v1/duplicates.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/duplicates/scan" && r.Method == http.MethodPost:
		report, err := h.service.Scan(r.Context())
		if err != nil {
			http.Error(w, "scan error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, toReportDTO(report, time.Now().UTC()))
	case r.URL.Path == "/api/v1/duplicates" && r.Method == http.MethodGet:
		report, at, ok := h.service.LastReport()
		if !ok {
			http.Error(w, "no scan has run yet", http.StatusNotFound)
			return
		}
		writeJSON(w, toReportDTO(report, at))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
