package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
	dedup "frontdesk-cloud/internal/dedup/domain"
	"frontdesk-cloud/internal/observability/metrics"
)

// ScanService runs duplicate scans over the active booking set and keeps
// the most recent report in memory for operator review.
type ScanService struct {
	repo     booking.Repository
	detector *dedup.Detector
	logger   *log.Logger

	mu     sync.RWMutex
	last   *dedup.Report
	lastAt time.Time
}

// NewScanService constructs the scan service.
func NewScanService(repo booking.Repository, detector *dedup.Detector, logger *log.Logger) (*ScanService, error) {
	if repo == nil {
		return nil, errors.New("dedup scan service: nil repository")
	}
	if detector == nil {
		return nil, errors.New("dedup scan service: nil detector")
	}
	return &ScanService{repo: repo, detector: detector, logger: logger}, nil
}

// Scan loads active bookings, runs the detector and stores the report.
// An empty booking store yields an empty report.
func (s *ScanService) Scan(ctx context.Context) (dedup.Report, error) {
	start := time.Now()

	bookings, err := s.repo.ListActive(ctx)
	if err != nil {
		metrics.ObserveDedupScan("error", time.Since(start).Seconds(), 0)
		return dedup.Report{}, err
	}
	if len(bookings) == 0 {
		return dedup.Report{}, nil
	}

	report, err := s.detector.FindDuplicates(bookings)
	if err != nil {
		metrics.ObserveDedupScan("error", time.Since(start).Seconds(), 0)
		return dedup.Report{}, err
	}

	metrics.ObserveDedupScan("success", time.Since(start).Seconds(), report.Comparisons)
	if report.Truncated {
		metrics.IncDedupTruncated()
		if s.logger != nil {
			s.logger.Printf("dedup scan truncated: guests=%d groups=%d", report.GuestsScanned, len(report.Groups))
		}
	}
	if s.logger != nil {
		s.logger.Printf("dedup scan done: guests=%d comparisons=%d groups=%d skipped=%d",
			report.GuestsScanned, report.Comparisons, len(report.Groups), report.Skipped)
	}

	s.mu.Lock()
	s.last = &report
	s.lastAt = time.Now().UTC()
	s.mu.Unlock()

	return report, nil
}

// LastReport returns the most recent scan report, if any.
func (s *ScanService) LastReport() (dedup.Report, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return dedup.Report{}, time.Time{}, false
	}
	return *s.last, s.lastAt, true
}
