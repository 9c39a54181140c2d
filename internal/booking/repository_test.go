package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func bookingColumns() []string {
	return []string{"id", "booking_code", "user_id", "center_id", "center_name",
		"session_date", "time_slot", "session_type", "price", "status", "created_at"}
}

func TestCreateBooking(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'confirmed') RETURNING id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at")).
		WithArgs(sqlmock.AnyArg(), 1, "CTR-2023-0001", "Cult Fit", "2026-04-10", "10:00", "Gym", int64(300)).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(10, "PG-AB12CD34EF", 1, "CTR-2023-0001", "Cult Fit", "2026-04-10", "10:00", "Gym", int64(300), StatusConfirmed, now))

	b, err := repo.Create(context.Background(), 1, "CTR-2023-0001", "Cult Fit", "2026-04-10", "10:00", "Gym", 300)
	require.NoError(t, err)
	assert.Equal(t, "PG-AB12CD34EF", b.BookingCode)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, int64(300), b.Price)
}

func TestGetByCode(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at FROM bookings WHERE booking_code = $1 AND user_id = $2")).
		WithArgs("PG-AB12CD34EF", 1).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(10, "PG-AB12CD34EF", 1, "CTR-2023-0001", "Cult Fit", "2026-04-10", "10:00", "Gym", int64(300), StatusConfirmed, time.Now()))

	b, err := repo.GetByCode(context.Background(), "PG-AB12CD34EF", 1)
	require.NoError(t, err)
	assert.Equal(t, 10, b.ID)

	// Another user's booking reads as absent: the ownership check is part
	// of the query.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at FROM bookings WHERE booking_code = $1 AND user_id = $2")).
		WithArgs("PG-AB12CD34EF", 2).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	_, err = repo.GetByCode(context.Background(), "PG-AB12CD34EF", 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// Winning transition.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1 WHERE booking_code = $2 AND user_id = $3 AND status = $4")).
		WithArgs(StatusCancelled, "PG-AB12CD34EF", 1, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), "PG-AB12CD34EF", 1, StatusConfirmed, StatusCancelled)
	require.NoError(t, err)
}

func TestSetStatus_InvalidTransition(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// Row exists but the status already moved on.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1 WHERE booking_code = $2 AND user_id = $3 AND status = $4")).
		WithArgs(StatusCancelled, "PG-AB12CD34EF", 1, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_code = $1 AND user_id = $2)")).
		WithArgs("PG-AB12CD34EF", 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.SetStatus(context.Background(), "PG-AB12CD34EF", 1, StatusConfirmed, StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatus_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1 WHERE booking_code = $2 AND user_id = $3 AND status = $4")).
		WithArgs(StatusCompleted, "PG-MISSING", 1, StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_code = $1 AND user_id = $2)")).
		WithArgs("PG-MISSING", 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.SetStatus(context.Background(), "PG-MISSING", 1, StatusConfirmed, StatusCompleted)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListForUser(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	rows := sqlmock.NewRows(bookingColumns()).
		AddRow(1, "PG-A", 1, "CTR-2023-0001", "Cult Fit", "2026-04-10", "10:00", "Gym", int64(300), StatusConfirmed, now).
		AddRow(2, "PG-B", 1, "CTR-2023-0002", "Gold Gym", "2026-04-11", "18:00", "Yoga", int64(250), StatusCancelled, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, booking_code, user_id, center_id, center_name, session_date, time_slot, session_type, price, status, created_at FROM bookings WHERE user_id = $1 ORDER BY session_date, time_slot")).
		WithArgs(1).
		WillReturnRows(rows)

	list, err := repo.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PG-A", list[0].BookingCode)
}
