package application

import (
	"context"
	"errors"
	"time"

	occupancy "frontdesk-cloud/internal/occupancy/domain"
)

// DailyRow is one line of the revenue report: occupancy counts plus the
// revenue and commission attributed to the day.
type DailyRow struct {
	Day        time.Time `json:"day"`
	Arrivals   int       `json:"arrivals"`
	Staying    int       `json:"staying"`
	Departures int       `json:"departures"`
	Revenue    float64   `json:"revenue"`
	Commission float64   `json:"commission"`
}

// ActivitySource produces daily activities for a date range.
type ActivitySource interface {
	ActivityRange(ctx context.Context, from, to time.Time) ([]occupancy.DailyActivity, error)
}

// Service builds revenue reports off the occupancy aggregator.
type Service struct {
	source ActivitySource
}

// NewService constructs the report service.
func NewService(source ActivitySource) (*Service, error) {
	if source == nil {
		return nil, errors.New("reports service: nil activity source")
	}
	return &Service{source: source}, nil
}

// DailyRevenue produces one row per day in [from, to].
func (s *Service) DailyRevenue(ctx context.Context, from, to time.Time) ([]DailyRow, error) {
	activities, err := s.source.ActivityRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]DailyRow, 0, len(activities))
	for _, activity := range activities {
		rows = append(rows, DailyRow{
			Day:        activity.Day,
			Arrivals:   len(activity.Arrivals),
			Staying:    len(activity.Staying),
			Departures: len(activity.Departures),
			Revenue:    activity.RevenueTotal,
			Commission: activity.CommissionTotal,
		})
	}
	return rows, nil
}
