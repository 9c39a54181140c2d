package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("booking is not in the expected status")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// newBookingCode mints the human-facing booking code, unique under the
// table's constraint.
func newBookingCode() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("PG-%s", frag)
}

func (r *repository) Create(ctx context.Context, userID int, centerID, centerName, sessionDate, timeSlot, sessionType string, price int64) (*Booking, error) {
	query := `
		INSERT INTO bookings (booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'confirmed')
		RETURNING id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query,
		newBookingCode(), userID, centerID, centerName, sessionDate, timeSlot, sessionType, price)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByCode(ctx context.Context, bookingCode string, userID int) (*Booking, error) {
	query := `
		SELECT id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at
		FROM bookings
		WHERE booking_code = $1 AND user_id = $2
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, bookingCode, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY session_date, time_slot
	`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// SetStatus is the conditional transition and the sole concurrency guard:
// of two racing updates only one can observe fromStatus and win. The loser
// gets ErrInvalidTransition (row exists, status moved on) or ErrNotFound
// (no such row for this user).
func (r *repository) SetStatus(ctx context.Context, bookingCode string, userID int, fromStatus, toStatus string) error {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE booking_code = $2 AND user_id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, toStatus, bookingCode, userID, fromStatus)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_code = $1 AND user_id = $2)`,
			bookingCode, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}

	return nil
}
