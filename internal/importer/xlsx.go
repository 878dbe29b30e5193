// Package importer loads booking rows from operator-supplied spreadsheets.
// Imports are best-effort: a malformed row is skipped and reported, never
// fatal, because a single typo must not block a whole sheet.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	bookingapp "frontdesk-cloud/internal/booking/application"
	booking "frontdesk-cloud/internal/booking/domain"
	"frontdesk-cloud/internal/observability/metrics"
)

// Expected header columns, in order. The header row itself is required so
// a sheet with shuffled columns fails loudly instead of importing garbage.
var expectedHeader = []string{
	"booking_id", "guest_name", "checkin_date", "checkout_date",
	"total_amount", "commission_amount", "collected_amount", "collector", "status",
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06"}

// RowError describes one rejected spreadsheet row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result summarises an import run for operator diagnostics.
type Result struct {
	Imported  int        `json:"imported"`
	Skipped   int        `json:"skipped"`
	RowErrors []RowError `json:"row_errors,omitempty"`
}

// Importer reads bookings out of XLSX sheets into the booking store.
type Importer struct {
	repo   booking.Repository
	policy bookingapp.Policy
}

// NewImporter constructs an importer.
func NewImporter(repo booking.Repository, policy bookingapp.Policy) (*Importer, error) {
	if repo == nil {
		return nil, errors.New("importer: nil repository")
	}
	return &Importer{repo: repo, policy: policy}, nil
}

// ImportXLSX reads the first sheet of an XLSX stream and persists every
// well-formed row. Amounts are sanitized with the configured commission
// ceiling; rows with unusable dates or a missing id are skipped.
func (im *Importer) ImportXLSX(ctx context.Context, r io.Reader) (Result, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, errors.New("importer: workbook has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("importer: read sheet: %w", err)
	}
	if len(rows) == 0 {
		return Result{}, errors.New("importer: empty sheet")
	}
	if err := checkHeader(rows[0]); err != nil {
		return Result{}, err
	}

	var result Result
	now := time.Now().UTC()
	for i, row := range rows[1:] {
		rowNum := i + 2
		b, err := parseRow(row, now)
		if err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		b = b.Sanitize(im.policy.CommissionCapRatio)
		if err := b.Validate(); err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if err := im.repo.Create(ctx, &b); err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		result.Imported++
	}

	metrics.AddImportRows(result.Imported, result.Skipped)
	return result, nil
}

func checkHeader(header []string) error {
	if len(header) < len(expectedHeader) {
		return fmt.Errorf("importer: header has %d columns, want %d", len(header), len(expectedHeader))
	}
	for i, want := range expectedHeader {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("importer: header column %d is %q, want %q", i+1, got, want)
		}
	}
	return nil
}

func parseRow(row []string, now time.Time) (booking.Booking, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	id := cell(0)
	if id == "" {
		return booking.Booking{}, errors.New("missing booking_id")
	}

	checkIn, err := parseDate(cell(2))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("checkin_date: %v", err)
	}
	checkOut, err := parseDate(cell(3))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("checkout_date: %v", err)
	}

	status := booking.Status(strings.ToLower(cell(8)))
	if status == "" {
		status = booking.StatusConfirmed
	}
	if !status.IsValid() {
		return booking.Booking{}, fmt.Errorf("unknown status %q", cell(8))
	}

	return booking.Booking{
		ID:               id,
		GuestName:        cell(1),
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		TotalAmount:      parseAmount(cell(4)),
		CommissionAmount: parseAmount(cell(5)),
		CollectedAmount:  parseAmount(cell(6)),
		Collector:        cell(7),
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return booking.Day(parsed), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseAmount tolerates thousand separators and blanks; anything
// unparseable becomes zero, matching the degrade-gracefully rule for
// amounts.
func parseAmount(value string) float64 {
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
