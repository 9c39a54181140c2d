package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"paygo/internal/booking"
	"paygo/internal/center"
	"paygo/internal/user"
	"paygo/internal/wallet"

	"github.com/jmoiron/sqlx"
)

func newBookingService(conn *sqlx.DB) booking.Service {
	return booking.NewService(
		booking.NewRepository(conn),
		user.NewRepository(conn),
		center.NewRepository(conn),
		wallet.NewRepository(conn),
		nil,
	)
}

func TestBookingLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	conn := setupTestDB(t)
	defer conn.Close()

	cleanDatabase(t, conn)

	ctx := context.Background()
	svc := newBookingService(conn)
	walletRepo := wallet.NewRepository(conn)

	u := createTestUser(t, conn, "lifecycle@test.com", "Lifecycle User")
	ctr := createTestCenter(t, conn, "CTR-2026-0001", "Cult Fit")

	err := walletRepo.Credit(ctx, u.ID, 1000, wallet.TypeDeposit, "initial recharge")
	require.NoError(t, err)

	date, slot := sessionIn(26 * time.Hour)

	// Book: booking confirmed, wallet debited
	b, err := svc.Create(ctx, u.ID, booking.CreateBookingRequest{
		CenterID:    ctr.ID,
		SessionDate: date,
		TimeSlot:    slot,
		SessionType: "Gym",
		Price:       300,
	})
	require.NoError(t, err)
	require.Equal(t, booking.StatusConfirmed, b.Status)
	require.NotEmpty(t, b.BookingCode)

	balance, err := walletRepo.Balance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(700), balance)

	// Cancel well before the session: full refund, once
	refunded, err := svc.Cancel(ctx, u.ID, b.BookingCode)
	require.NoError(t, err)
	require.Equal(t, int64(300), refunded)

	balance, err = walletRepo.Balance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), balance)

	// A second cancel must not refund again
	_, err = svc.Cancel(ctx, u.ID, b.BookingCode)
	require.ErrorIs(t, err, booking.ErrAlreadyCancelled)

	balance, err = walletRepo.Balance(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), balance)
}

func TestBookingInsufficientBalance_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	conn := setupTestDB(t)
	defer conn.Close()

	cleanDatabase(t, conn)

	ctx := context.Background()
	svc := newBookingService(conn)

	u := createTestUser(t, conn, "poor@test.com", "No Balance User")
	ctr := createTestCenter(t, conn, "CTR-2026-0002", "Gold Gym")

	date, slot := sessionIn(26 * time.Hour)

	_, err := svc.Create(ctx, u.ID, booking.CreateBookingRequest{
		CenterID:    ctr.ID,
		SessionDate: date,
		TimeSlot:    slot,
		SessionType: "Gym",
		Price:       300,
	})
	require.ErrorIs(t, err, booking.ErrInsufficientBalance)

	// Nothing bookable was left behind
	views, err := svc.List(ctx, u.ID, booking.FilterAll)
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestCheckInSameDay_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	conn := setupTestDB(t)
	defer conn.Close()

	cleanDatabase(t, conn)

	ctx := context.Background()
	svc := newBookingService(conn)
	walletRepo := wallet.NewRepository(conn)

	u := createTestUser(t, conn, "checkin@test.com", "CheckIn User")
	ctr := createTestCenter(t, conn, "CTR-2026-0003", "Anytime Fitness")

	err := walletRepo.Credit(ctx, u.ID, 500, wallet.TypeDeposit, "recharge")
	require.NoError(t, err)

	// Session later today (skip if the test runs within two hours of midnight)
	date, slot := sessionIn(2 * time.Hour)
	today, _ := sessionIn(0)
	if date != today {
		t.Skip("Session would fall on the next calendar day")
	}

	b, err := svc.Create(ctx, u.ID, booking.CreateBookingRequest{
		CenterID:    ctr.ID,
		SessionDate: date,
		TimeSlot:    slot,
		SessionType: "Yoga",
		Price:       200,
	})
	require.NoError(t, err)

	// Scan at the wrong center fails, booking stays confirmed
	err = svc.MarkAttendance(ctx, u.ID, b.BookingCode, "CTR-2026-9999")
	require.ErrorIs(t, err, booking.ErrCenterMismatch)

	// Scan at the right center completes it
	err = svc.MarkAttendance(ctx, u.ID, b.BookingCode, ctr.ID)
	require.NoError(t, err)

	// A second scan reports the terminal state
	err = svc.MarkAttendance(ctx, u.ID, b.BookingCode, ctr.ID)
	require.ErrorIs(t, err, booking.ErrAlreadyCompleted)

	view, err := svc.Get(ctx, u.ID, b.BookingCode)
	require.NoError(t, err)
	require.Equal(t, booking.StatusCompleted, view.Status)
}
