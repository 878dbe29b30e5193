package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
	occupancyapp "frontdesk-cloud/internal/occupancy/application"
	occupancy "frontdesk-cloud/internal/occupancy/domain"
)

const dateLayout = "2006-01-02"

// Handler serves occupancy calendar queries.
type Handler struct {
	service *occupancyapp.Service
}

// NewHandler constructs a handler.
func NewHandler(service *occupancyapp.Service) (*Handler, error) {
	if service == nil {
		return nil, errors.New("occupancy handler: nil service")
	}
	return &Handler{service: service}, nil
}

type bookingRef struct {
	ID        string `json:"id"`
	GuestName string `json:"guest_name"`
}

type activityDTO struct {
	Day             string       `json:"day"`
	Arrivals        []bookingRef `json:"arrivals"`
	Staying         []bookingRef `json:"staying"`
	Departures      []bookingRef `json:"departures"`
	RevenueTotal    float64      `json:"revenue_total"`
	CommissionTotal float64      `json:"commission_total"`
	Skipped         int          `json:"skipped,omitempty"`
}

func toActivityDTO(activity occupancy.DailyActivity) activityDTO {
	return activityDTO{
		Day:             activity.Day.Format(dateLayout),
		Arrivals:        toRefs(activity.Arrivals),
		Staying:         toRefs(activity.Staying),
		Departures:      toRefs(activity.Departures),
		RevenueTotal:    activity.RevenueTotal,
		CommissionTotal: activity.CommissionTotal,
		Skipped:         activity.Skipped,
	}
}

func toRefs(bookings []booking.Booking) []bookingRef {
	refs := make([]bookingRef, 0, len(bookings))
	for _, b := range bookings {
		refs = append(refs, bookingRef{ID: b.ID, GuestName: b.GuestName})
	}
	return refs
}

// ServeHTTP handles GET /api/v1/occupancy and /api/v1/occupancy/range.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/v1/occupancy":
		h.handleDay(w, r)
	case "/api/v1/occupancy/range":
		h.handleRange(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateQuery(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	activity, err := h.service.Activity(r.Context(), day)
	if err != nil {
		http.Error(w, "activity error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toActivityDTO(activity))
}

func (h *Handler) handleRange(w http.ResponseWriter, r *http.Request) {
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

	activities, err := h.service.ActivityRange(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, occupancy.ErrInvalidRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "activity error", http.StatusInternalServerError)
		return
	}

	dtos := make([]activityDTO, 0, len(activities))
	for _, activity := range activities {
		dtos = append(dtos, toActivityDTO(activity))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dtos)
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
