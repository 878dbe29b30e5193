package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	booking "frontdesk-cloud/internal/booking/domain"
)

const bookingColumns = `id, guest_name, checkin_date, checkout_date, total_amount,
	commission_amount, collected_amount, collector, status, created_at, updated_at`

// Repository persists bookings in postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get loads one booking by id.
func (r *Repository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("booking repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE id = $1`, id)
	return scanBooking(row)
}

// Create inserts a booking.
func (r *Repository) Create(ctx context.Context, b *booking.Booking) error {
	if r == nil || r.db == nil {
		return errors.New("booking repo: nil db")
	}
	if b == nil {
		return booking.ErrNilBooking
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (
	id, guest_name, checkin_date, checkout_date, total_amount,
	commission_amount, collected_amount, collector, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.GuestName, b.CheckIn, b.CheckOut, b.TotalAmount,
		b.CommissionAmount, b.CollectedAmount, b.Collector, string(b.Status), b.CreatedAt, b.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return booking.ErrAlreadyExists
	}
	return err
}

// Update overwrites a booking.
func (r *Repository) Update(ctx context.Context, b *booking.Booking) error {
	if r == nil || r.db == nil {
		return errors.New("booking repo: nil db")
	}
	if b == nil {
		return booking.ErrNilBooking
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE bookings SET
	guest_name = $2, checkin_date = $3, checkout_date = $4, total_amount = $5,
	commission_amount = $6, collected_amount = $7, collector = $8, status = $9, updated_at = $10
WHERE id = $1`,
		b.ID, b.GuestName, b.CheckIn, b.CheckOut, b.TotalAmount,
		b.CommissionAmount, b.CollectedAmount, b.Collector, string(b.Status), b.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// List returns bookings matching the filter, newest check-in first.
func (r *Repository) List(ctx context.Context, filter booking.ListFilter) ([]booking.Booking, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("booking repo: nil db")
	}

	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Guest != "" {
		conditions = append(conditions, "LOWER(guest_name) LIKE "+next("%"+strings.ToLower(filter.Guest)+"%"))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "checkout_date >= "+next(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "checkin_date <= "+next(filter.To))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+next(string(filter.Status)))
	}

	query := "SELECT " + bookingColumns + " FROM bookings"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY checkin_date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + next(filter.Offset)
	}

	return r.queryBookings(ctx, query, args...)
}

// ListActive returns all bookings excluding cancelled and deleted ones.
func (r *Repository) ListActive(ctx context.Context) ([]booking.Booking, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("booking repo: nil db")
	}
	return r.queryBookings(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE status NOT IN ('cancelled','deleted')
ORDER BY checkin_date, id`)
}

// ListActiveTouching returns active bookings whose stay intersects [from, to].
func (r *Repository) ListActiveTouching(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("booking repo: nil db")
	}
	return r.queryBookings(ctx, `
SELECT `+bookingColumns+`
FROM bookings
WHERE status NOT IN ('cancelled','deleted')
	AND checkin_date <= $2
	AND checkout_date >= $1
ORDER BY checkin_date, id`, from, to)
}

func (r *Repository) queryBookings(ctx context.Context, query string, args ...any) ([]booking.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []booking.Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingRow(scanner rowScanner) (*booking.Booking, error) {
	var b booking.Booking
	var status string
	var collector sql.NullString
	err := scanner.Scan(
		&b.ID, &b.GuestName, &b.CheckIn, &b.CheckOut, &b.TotalAmount,
		&b.CommissionAmount, &b.CollectedAmount, &collector, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Collector = collector.String
	b.Status = booking.Status(status)
	return &b, nil
}

func scanBooking(row *sql.Row) (*booking.Booking, error) {
	b, err := scanBookingRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
