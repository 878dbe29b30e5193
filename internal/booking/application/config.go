package application

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	booking "frontdesk-cloud/internal/booking/domain"
)

// DedupPolicy holds the tunables of the duplicate scan.
type DedupPolicy struct {
	MaxPerGuest          int           `yaml:"max_per_guest"`
	CheckInToleranceDays int           `yaml:"checkin_tolerance_days"`
	TimeBudget           time.Duration `yaml:"time_budget"`
	ProgressInterval     int           `yaml:"progress_interval"`
}

// Policy is the business-rule configuration of the front desk: which staff
// members may collect payments, how large a commission can plausibly be,
// and how aggressively the duplicate scan runs.
type Policy struct {
	Collectors         []string    `yaml:"collectors"`
	CommissionCapRatio float64     `yaml:"commission_cap_ratio"`
	Dedup              DedupPolicy `yaml:"dedup"`
}

// LoadPolicy loads the policy from yaml (POLICY_CONFIG path) with env
// overrides, falling back to built-in defaults.
func LoadPolicy() (Policy, error) {
	policy := Policy{
		Collectors:         []string{"Loc", "Thao"},
		CommissionCapRatio: 0.5,
		Dedup: DedupPolicy{
			MaxPerGuest:          20,
			CheckInToleranceDays: 3,
			TimeBudget:           30 * time.Second,
			ProgressInterval:     50,
		},
	}

	if path := os.Getenv("POLICY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return policy, err
		}
		if err := yaml.Unmarshal(data, &policy); err != nil {
			return policy, err
		}
	}

	if csv := os.Getenv("FRONTDESK_COLLECTORS"); csv != "" {
		policy.Collectors = splitCSV(csv)
	}
	if ratio := os.Getenv("COMMISSION_CAP_RATIO"); ratio != "" {
		if parsed, err := strconv.ParseFloat(ratio, 64); err == nil && parsed > 0 {
			policy.CommissionCapRatio = parsed
		}
	}
	if policy.Dedup.MaxPerGuest <= 0 {
		policy.Dedup.MaxPerGuest = 20
	}
	if policy.Dedup.TimeBudget <= 0 {
		policy.Dedup.TimeBudget = 30 * time.Second
	}
	return policy, nil
}

// IsTrustedCollector reports whether collected amounts tied to this
// collector identity count as paid.
func (p Policy) IsTrustedCollector(name string) bool {
	key := booking.NormalizeGuestKey(name)
	if key == "" {
		return false
	}
	for _, allowed := range p.Collectors {
		if booking.NormalizeGuestKey(allowed) == key {
			return true
		}
	}
	return false
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
