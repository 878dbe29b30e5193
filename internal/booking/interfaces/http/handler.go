package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"frontdesk-cloud/internal/audit"
	"frontdesk-cloud/internal/auth"
	bookingapp "frontdesk-cloud/internal/booking/application"
	booking "frontdesk-cloud/internal/booking/domain"
	"frontdesk-cloud/internal/observability/metrics"
)

const dateLayout = "2006-01-02"

// Handler provides booking HTTP endpoints.
type Handler struct {
	service  *bookingapp.Service
	auditLog audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *bookingapp.Service, auditLog audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("booking handler: nil service")
	}
	return &Handler{service: service, auditLog: auditLog}, nil
}

type bookingDTO struct {
	ID               string  `json:"id"`
	GuestName        string  `json:"guest_name"`
	CheckIn          string  `json:"checkin_date"`
	CheckOut         string  `json:"checkout_date"`
	Nights           int     `json:"nights"`
	TotalAmount      float64 `json:"total_amount"`
	CommissionAmount float64 `json:"commission_amount"`
	CollectedAmount  float64 `json:"collected_amount"`
	Collector        string  `json:"collector,omitempty"`
	Status           string  `json:"status"`
	TrustedPayment   bool    `json:"trusted_payment"`
	OverCollected    bool    `json:"over_collected"`
}

func (h *Handler) toDTO(b booking.Booking) bookingDTO {
	return bookingDTO{
		ID:               b.ID,
		GuestName:        b.GuestName,
		CheckIn:          b.CheckIn.Format(dateLayout),
		CheckOut:         b.CheckOut.Format(dateLayout),
		Nights:           b.Nights(),
		TotalAmount:      b.TotalAmount,
		CommissionAmount: b.CommissionAmount,
		CollectedAmount:  b.CollectedAmount,
		Collector:        b.Collector,
		Status:           string(b.Status),
		TrustedPayment:   h.service.TrustedCollection(b),
		OverCollected:    h.service.OverCollected(b),
	}
}

type bookingRequest struct {
	GuestName        *string  `json:"guest_name"`
	CheckIn          *string  `json:"checkin_date"`
	CheckOut         *string  `json:"checkout_date"`
	TotalAmount      *float64 `json:"total_amount"`
	CommissionAmount *float64 `json:"commission_amount"`
	Status           *string  `json:"status"`
}

type collectRequest struct {
	Amount    float64 `json:"amount"`
	Collector string  `json:"collector"`
}

// ServeHTTP handles /api/v1/bookings and subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/bookings":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(r.URL.Path, "/api/v1/bookings/"):
		h.handleItem(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := booking.ListFilter{
		Guest:  query.Get("guest"),
		Status: booking.Status(query.Get("status")),
	}
	if value := query.Get("from"); value != "" {
		parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.From = parsed
	}
	if value := query.Get("to"); value != "" {
		parsed, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.To = parsed
	}
	if value := query.Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if value := query.Get("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			filter.Offset = parsed
		}
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		metrics.IncBookingOp("list", "error")
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	metrics.IncBookingOp("list", "success")

	dtos := make([]bookingDTO, 0, len(list))
	for _, b := range list {
		dtos = append(dtos, h.toDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	in := bookingapp.CreateInput{}
	if req.GuestName != nil {
		in.GuestName = *req.GuestName
	}
	if req.CheckIn != nil {
		parsed, err := time.ParseInLocation(dateLayout, *req.CheckIn, time.UTC)
		if err != nil {
			http.Error(w, "checkin_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.CheckIn = parsed
	}
	if req.CheckOut != nil {
		parsed, err := time.ParseInLocation(dateLayout, *req.CheckOut, time.UTC)
		if err != nil {
			http.Error(w, "checkout_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.CheckOut = parsed
	}
	if req.TotalAmount != nil {
		in.TotalAmount = *req.TotalAmount
	}
	if req.CommissionAmount != nil {
		in.CommissionAmount = *req.CommissionAmount
	}
	if req.Status != nil {
		in.Status = booking.Status(*req.Status)
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		metrics.IncBookingOp("create", "error")
		respondDomainError(w, err)
		return
	}
	metrics.IncBookingOp("create", "success")
	h.writeAudit(r, "create", created.ID)
	writeJSON(w, http.StatusCreated, h.toDTO(*created))
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "collect":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleCollect(w, r, parts[0])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(*b))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	in := bookingapp.UpdateInput{
		GuestName:        req.GuestName,
		TotalAmount:      req.TotalAmount,
		CommissionAmount: req.CommissionAmount,
	}
	if req.CheckIn != nil {
		parsed, err := time.ParseInLocation(dateLayout, *req.CheckIn, time.UTC)
		if err != nil {
			http.Error(w, "checkin_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.CheckIn = &parsed
	}
	if req.CheckOut != nil {
		parsed, err := time.ParseInLocation(dateLayout, *req.CheckOut, time.UTC)
		if err != nil {
			http.Error(w, "checkout_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.CheckOut = &parsed
	}
	if req.Status != nil {
		status := booking.Status(*req.Status)
		in.Status = &status
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		metrics.IncBookingOp("update", "error")
		respondDomainError(w, err)
		return
	}
	metrics.IncBookingOp("update", "success")
	h.writeAudit(r, "update", id)
	writeJSON(w, http.StatusOK, h.toDTO(*updated))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		metrics.IncBookingOp("delete", "error")
		respondDomainError(w, err)
		return
	}
	metrics.IncBookingOp("delete", "success")
	h.writeAudit(r, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCollect(w http.ResponseWriter, r *http.Request, id string) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.RecordCollection(r.Context(), id, req.Amount, req.Collector)
	if err != nil {
		metrics.IncBookingOp("collect", "error")
		respondDomainError(w, err)
		return
	}
	metrics.IncBookingOp("collect", "success")
	h.writeAudit(r, "collect", id)
	writeJSON(w, http.StatusOK, h.toDTO(*updated))
}

func (h *Handler) writeAudit(r *http.Request, action, resourceID string) {
	if h.auditLog == nil {
		return
	}
	_ = h.auditLog.Log(r.Context(), audit.Entry{
		HotelID:      auth.HotelIDFromContext(r.Context()),
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "booking",
		ResourceID:   resourceID,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, booking.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, booking.ErrEmptyGuestName),
		errors.Is(err, booking.ErrInvalidDates),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrEmptyID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
