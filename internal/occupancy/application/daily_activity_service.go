package application

import (
	"context"
	"errors"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
	occupancy "frontdesk-cloud/internal/occupancy/domain"
	"frontdesk-cloud/internal/observability/metrics"
)

// Service drives daily activity computation off the booking store. It owns
// the status pre-filtering the domain function deliberately does not do.
type Service struct {
	repo booking.Repository
}

// NewService constructs the occupancy service.
func NewService(repo booking.Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New("occupancy service: nil repository")
	}
	return &Service{repo: repo}, nil
}

// Activity computes the occupancy and revenue picture for one day.
// A day nobody touches yields an empty activity, not an error.
func (s *Service) Activity(ctx context.Context, day time.Time) (occupancy.DailyActivity, error) {
	start := time.Now()
	target := booking.Day(day)
	bookings, err := s.repo.ListActiveTouching(ctx, target, target)
	if err != nil {
		metrics.ObserveActivity("error", time.Since(start))
		return occupancy.DailyActivity{}, err
	}
	if len(bookings) == 0 {
		metrics.ObserveActivity("success", time.Since(start))
		return occupancy.DailyActivity{Day: target}, nil
	}
	activity, err := occupancy.ComputeDailyActivity(bookings, target)
	if err != nil {
		metrics.ObserveActivity("error", time.Since(start))
		return occupancy.DailyActivity{}, err
	}
	metrics.ObserveActivity("success", time.Since(start))
	return activity, nil
}

// ActivityRange computes activities for every day in [from, to], the
// calendar month view. Bookings are loaded once for the whole window.
func (s *Service) ActivityRange(ctx context.Context, from, to time.Time) ([]occupancy.DailyActivity, error) {
	start := booking.Day(from)
	end := booking.Day(to)
	if end.Before(start) {
		return nil, occupancy.ErrInvalidRange
	}

	bookings, err := s.repo.ListActiveTouching(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var activities []occupancy.DailyActivity
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if len(bookings) == 0 {
			activities = append(activities, occupancy.DailyActivity{Day: day})
			continue
		}
		activity, err := occupancy.ComputeDailyActivity(bookings, day)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}
