package dedup

import (
	"sort"
	"time"

	booking "frontdesk-cloud/internal/booking/domain"
)

// Confidence classifies how two bookings were matched.
type Confidence string

const (
	// ConfidenceExact means the stay intervals share at least one night.
	ConfidenceExact Confidence = "exact"
	// ConfidenceNear means only the check-in dates are close together.
	ConfidenceNear Confidence = "near"
)

// DuplicateGroup is one guest's set of probable duplicate bookings.
type DuplicateGroup struct {
	GuestKey   string     `json:"guest_key"`
	BookingIDs []string   `json:"booking_ids"`
	Confidence Confidence `json:"confidence"`
}

// Report is the outcome of a duplicate scan. A truncated report is a
// normal success: the time budget ran out and the groups found so far
// were returned.
type Report struct {
	Groups        []DuplicateGroup
	GuestsScanned int
	Comparisons   int
	Skipped       int
	Truncated     bool
}

// Clock provides time for the scan budget.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current time.
func (SystemClock) Now() time.Time { return time.Now() }

const (
	DefaultMaxPerGuest      = 20
	DefaultCheckInTolerance = 3
	DefaultTimeBudget       = 30 * time.Second
	defaultProgressInterval = 50
)

// Detector scans bookings for probable duplicates per guest.
type Detector struct {
	maxPerGuest      int
	toleranceDays    int
	timeBudget       time.Duration
	clock            Clock
	progress         func(guestsScanned int)
	progressInterval int
}

// Option configures a Detector.
type Option func(*Detector)

// WithMaxPerGuest caps how many bookings per guest are compared pairwise.
// The cap bounds the scan at O(guests * cap^2) regardless of how long a
// single guest's history is.
func WithMaxPerGuest(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.maxPerGuest = n
		}
	}
}

// WithCheckInTolerance sets the near-duplicate check-in distance in days.
func WithCheckInTolerance(days int) Option {
	return func(d *Detector) {
		if days >= 0 {
			d.toleranceDays = days
		}
	}
}

// WithTimeBudget bounds total scan wall-clock time. On expiry the scan
// stops early and returns partial results.
func WithTimeBudget(budget time.Duration) Option {
	return func(d *Detector) {
		if budget > 0 {
			d.timeBudget = budget
		}
	}
}

// WithClock injects the time source used for the budget check.
func WithClock(clock Clock) Option {
	return func(d *Detector) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithProgress registers a callback invoked every interval guests.
func WithProgress(interval int, fn func(guestsScanned int)) Option {
	return func(d *Detector) {
		if interval > 0 && fn != nil {
			d.progressInterval = interval
			d.progress = fn
		}
	}
}

// NewDetector constructs a Detector with defaults from the spec of the
// admin tool: 20 bookings per guest, 3-day tolerance, 30s budget.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		maxPerGuest:      DefaultMaxPerGuest,
		toleranceDays:    DefaultCheckInTolerance,
		timeBudget:       DefaultTimeBudget,
		clock:            SystemClock{},
		progressInterval: defaultProgressInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindDuplicates groups bookings by normalized guest name and flags, per
// guest, every booking that overlaps another stay or was checked in within
// the tolerance of another. Groups come out in the order guest keys were
// first encountered; ids within a group are ordered by check-in ascending.
// Bookings with unusable dates are skipped and counted.
func (d *Detector) FindDuplicates(bookings []booking.Booking) (Report, error) {
	if len(bookings) == 0 {
		return Report{}, ErrNoBookings
	}

	var report Report
	groups := make(map[string][]booking.Booking)
	var keyOrder []string

	for _, b := range bookings {
		if !b.HasValidDates() {
			report.Skipped++
			continue
		}
		key := b.GuestKey()
		if key == "" {
			report.Skipped++
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], b)
	}

	deadline := d.clock.Now().Add(d.timeBudget)

	for _, key := range keyOrder {
		if d.clock.Now().After(deadline) {
			report.Truncated = true
			break
		}

		if group, ok := d.scanGuest(key, groups[key], &report); ok {
			report.Groups = append(report.Groups, group)
		}
		report.GuestsScanned++

		if d.progress != nil && report.GuestsScanned%d.progressInterval == 0 {
			d.progress(report.GuestsScanned)
		}
	}

	return report, nil
}

func (d *Detector) scanGuest(key string, history []booking.Booking, report *Report) (DuplicateGroup, bool) {
	candidates := capMostRecent(history, d.maxPerGuest)
	if len(candidates) < 2 {
		return DuplicateGroup{}, false
	}

	flagged := make(map[int]struct{})
	confidence := ConfidenceNear

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			report.Comparisons++
			exact, near := d.classify(candidates[i], candidates[j])
			if !exact && !near {
				continue
			}
			flagged[i] = struct{}{}
			flagged[j] = struct{}{}
			if exact {
				confidence = ConfidenceExact
			}
		}
	}

	if len(flagged) < 2 {
		return DuplicateGroup{}, false
	}

	matched := make([]booking.Booking, 0, len(flagged))
	for idx := range flagged {
		matched = append(matched, candidates[idx])
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CheckIn.Equal(matched[j].CheckIn) {
			return matched[i].CheckIn.Before(matched[j].CheckIn)
		}
		return matched[i].ID < matched[j].ID
	})

	ids := make([]string, len(matched))
	for i, b := range matched {
		ids[i] = b.ID
	}

	return DuplicateGroup{GuestKey: key, BookingIDs: ids, Confidence: confidence}, true
}

// classify applies the two duplicate rules: interval overlap, or check-in
// dates within the tolerance in either direction.
func (d *Detector) classify(a, b booking.Booking) (exact, near bool) {
	if a.Overlaps(b) {
		return true, false
	}
	delta := booking.Day(a.CheckIn).Sub(booking.Day(b.CheckIn))
	if delta < 0 {
		delta = -delta
	}
	if delta <= time.Duration(d.toleranceDays)*24*time.Hour {
		return false, true
	}
	return false, false
}

// capMostRecent keeps the n most recent bookings by check-in descending.
func capMostRecent(history []booking.Booking, n int) []booking.Booking {
	if len(history) <= n {
		return history
	}
	capped := make([]booking.Booking, len(history))
	copy(capped, history)
	sort.Slice(capped, func(i, j int) bool {
		return capped[i].CheckIn.After(capped[j].CheckIn)
	})
	return capped[:n]
}
