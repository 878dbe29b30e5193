package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"frontdesk-cloud/internal/audit"
	"frontdesk-cloud/internal/auth"
)

const maxUploadBytes = 16 << 20

// Handler accepts booking spreadsheet uploads.
type Handler struct {
	importer *Importer
	auditLog audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(importer *Importer, auditLog audit.Logger) (*Handler, error) {
	if importer == nil {
		return nil, errors.New("import handler: nil importer")
	}
	return &Handler{importer: importer, auditLog: auditLog}, nil
}

// ServeHTTP handles POST /api/v1/imports/bookings with a multipart "file".
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportXLSX(r.Context(), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if h.auditLog != nil {
		meta, _ := json.Marshal(map[string]any{
			"filename": header.Filename,
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
		_ = h.auditLog.Log(r.Context(), audit.Entry{
			HotelID:      auth.HotelIDFromContext(r.Context()),
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "import",
			ResourceType: "booking_sheet",
			ResourceID:   header.Filename,
			Metadata:     meta,
			IP:           r.RemoteAddr,
			UserAgent:    r.UserAgent(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
