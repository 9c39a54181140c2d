package notify

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"paygo/internal/booking"
	"paygo/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:    rdb,
		from:     "noreply@paygo.app",
		fromName: "PayGo Team",
		smtpHost: "smtp.test.com",
		smtpPort: "587",
		smtpUser: "test@example.com",
		smtpPass: "password",
	}
}

func testBooking() *booking.Booking {
	return &booking.Booking{
		BookingCode: "PG-AB12CD34EF",
		CenterName:  "Cult Fit",
		SessionDate: "2026-04-10",
		TimeSlot:    "10:00",
		SessionType: "Gym",
		Price:       300,
	}
}

func TestBookingConfirmed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*booking_confirmed.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.BookingConfirmed(ctx, "user@example.com", "User", testBooking())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCancelled(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*booking_cancelled.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.BookingCancelled(ctx, "user@example.com", "User", testBooking(), 300)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRecharged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*wallet_recharged.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.WalletRecharged(ctx, "user@example.com", "User", 500, 800)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("notifications").SetVal(5)

	svc := newTestService(db)

	assert.Equal(t, int64(5), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueueError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.BookingConfirmed(ctx, "user@example.com", "User", testBooking())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
