package booking

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, centerID, centerName, sessionDate, timeSlot, sessionType string, price int64) (*Booking, error)
	GetByCode(ctx context.Context, bookingCode string, userID int) (*Booking, error)
	ListForUser(ctx context.Context, userID int) ([]Booking, error)
	SetStatus(ctx context.Context, bookingCode string, userID int, fromStatus, toStatus string) error
}
