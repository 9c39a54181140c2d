package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"paygo/internal/center"
	"paygo/internal/logger"
	"paygo/internal/metrics"
	"paygo/internal/timeslot"
	"paygo/internal/user"
	"paygo/internal/wallet"
)

var (
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrWindowClosed        = errors.New("cancellation window closed")
	ErrSessionInPast       = errors.New("cannot book a session in the past")
	ErrCenterMismatch      = errors.New("scanned code belongs to a different center")
	ErrAlreadyCompleted    = errors.New("booking already completed")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrNotToday            = errors.New("booking is not for today")
)

// Notifier delivers best-effort user notifications. Failures are logged,
// never surfaced: a missed email must not fail a paid booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, email, name string, b *Booking) error
	BookingCancelled(ctx context.Context, email, name string, b *Booking, refunded int64) error
}

type Service interface {
	Create(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, userID int, bookingCode string) (int64, error)
	MarkAttendance(ctx context.Context, userID int, bookingCode, scannedCenterID string) error
	List(ctx context.Context, userID int, filter ListFilter) ([]BookingView, error)
	Get(ctx context.Context, userID int, bookingCode string) (*BookingView, error)
	CheckInWindow(ctx context.Context, userID int, bookingCode string) (*CheckInWindowResponse, error)
}

type service struct {
	repo       Repository
	userRepo   user.Repository
	centerRepo center.Repository
	walletRepo wallet.Repository
	notifier   Notifier
}

func NewService(
	repo Repository,
	userRepo user.Repository,
	centerRepo center.Repository,
	walletRepo wallet.Repository,
	notifier Notifier,
) Service {
	return &service{
		repo:       repo,
		userRepo:   userRepo,
		centerRepo: centerRepo,
		walletRepo: walletRepo,
		notifier:   notifier,
	}
}

func (s *service) Create(ctx context.Context, userID int, req CreateBookingRequest) (*Booking, error) {
	profile, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Slot strings arrive in both 12-hour and 24-hour forms; only the
	// canonical 24-hour form is stored.
	slot, err := timeslot.Normalize(req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if _, err := timeslot.SessionInstant(req.SessionDate, slot); err != nil {
		return nil, err
	}
	if timeslot.IsPast(req.SessionDate, slot, time.Now()) {
		return nil, ErrSessionInPast
	}

	ctr, err := s.centerRepo.GetByID(ctx, req.CenterID)
	if err != nil {
		return nil, err
	}

	// Advisory check only: the wallet's own FOR UPDATE guard is what
	// actually prevents an overdraft on the debit below.
	balance, err := s.walletRepo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < req.Price {
		return nil, ErrInsufficientBalance
	}

	b, err := s.repo.Create(ctx, userID, ctr.ID, ctr.Name, req.SessionDate, slot, req.SessionType, req.Price)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	description := fmt.Sprintf("Booking at %s on %s - %s", ctr.Name, b.SessionDate, b.TimeSlot)
	if err := s.walletRepo.Debit(ctx, userID, req.Price, wallet.TypeBooking, description); err != nil {
		// The row exists but was never paid for. Release it so the user
		// is not left holding an unpaid confirmed booking.
		if compErr := s.repo.SetStatus(ctx, b.BookingCode, userID, StatusConfirmed, StatusCancelled); compErr != nil {
			logger.Errorf("Failed to release unpaid booking %s: %v", b.BookingCode, compErr)
		}
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("debit wallet: %w", err)
	}

	metrics.RecordBookingCreated()

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, profile.Email, profile.DisplayName, b); err != nil {
			logger.Errorf("Failed to queue booking confirmation for %s: %v", b.BookingCode, err)
		}
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, userID int, bookingCode string) (int64, error) {
	b, err := s.repo.GetByCode(ctx, bookingCode, userID)
	if err != nil {
		return 0, err
	}

	switch b.Status {
	case StatusCompleted:
		return 0, ErrAlreadyCompleted
	case StatusCancelled:
		return 0, ErrAlreadyCancelled
	}

	now := time.Now()
	if !timeslot.CanCancel(b.SessionDate, b.TimeSlot, now) {
		if until := timeslot.TimeUntil(b.SessionDate, b.TimeSlot, now); until != "" {
			return 0, fmt.Errorf("%w: session starts in %s", ErrWindowClosed, until)
		}
		return 0, ErrWindowClosed
	}

	// Conditional update is the concurrency guard: a second cancel racing
	// this one loses with ErrInvalidTransition and never reaches the
	// refund, so the refund is applied exactly once.
	if err := s.repo.SetStatus(ctx, bookingCode, userID, StatusConfirmed, StatusCancelled); err != nil {
		return 0, err
	}

	description := fmt.Sprintf("Refund for cancelled booking at %s", b.CenterName)
	if err := s.walletRepo.Credit(ctx, userID, b.Price, wallet.TypeRefund, description); err != nil {
		logger.Errorf("Refund credit failed for booking %s (user %d, amount %d): %v",
			bookingCode, userID, b.Price, err)
		return 0, fmt.Errorf("credit refund: %w", err)
	}

	metrics.RecordCancellation()

	if s.notifier != nil {
		profile, perr := s.userRepo.FindByID(ctx, userID)
		if perr == nil {
			if err := s.notifier.BookingCancelled(ctx, profile.Email, profile.DisplayName, b, b.Price); err != nil {
				logger.Errorf("Failed to queue cancellation notice for %s: %v", bookingCode, err)
			}
		}
	}

	return b.Price, nil
}

func (s *service) MarkAttendance(ctx context.Context, userID int, bookingCode, scannedCenterID string) error {
	b, err := s.repo.GetByCode(ctx, bookingCode, userID)
	if err != nil {
		metrics.RecordCheckIn("not_found")
		return err
	}

	if scannedCenterID != b.CenterID {
		metrics.RecordCheckIn("center_mismatch")
		return ErrCenterMismatch
	}

	switch b.Status {
	case StatusCompleted:
		metrics.RecordCheckIn("already_completed")
		return ErrAlreadyCompleted
	case StatusCancelled:
		metrics.RecordCheckIn("already_cancelled")
		return ErrAlreadyCancelled
	}

	// Attendance is date-scoped: the scan button is gated by the tighter
	// check-in window, but the commit only requires the booking's date.
	if !timeslot.IsSameDay(b.SessionDate, time.Now()) {
		metrics.RecordCheckIn("not_today")
		return ErrNotToday
	}

	if err := s.repo.SetStatus(ctx, bookingCode, userID, StatusConfirmed, StatusCompleted); err != nil {
		metrics.RecordCheckIn("conflict")
		return err
	}

	metrics.RecordCheckIn("success")
	return nil
}

func (s *service) List(ctx context.Context, userID int, filter ListFilter) ([]BookingView, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]BookingView, 0, len(rows))
	past := make([]BookingView, 0, len(rows))

	for _, b := range rows {
		view := toView(b, now)
		if view.DisplayState == DisplayUpcoming && b.Status == StatusConfirmed {
			upcoming = append(upcoming, view)
		} else {
			past = append(past, view)
		}
	}

	// Soonest first for upcoming, most recent first for everything else.
	sort.Slice(upcoming, func(i, j int) bool {
		return sessionSortKey(upcoming[i].Booking).Before(sessionSortKey(upcoming[j].Booking))
	})
	sort.Slice(past, func(i, j int) bool {
		return sessionSortKey(past[i].Booking).After(sessionSortKey(past[j].Booking))
	})

	switch filter {
	case FilterUpcoming:
		return upcoming, nil
	case FilterPast:
		return past, nil
	default:
		return append(upcoming, past...), nil
	}
}

func (s *service) Get(ctx context.Context, userID int, bookingCode string) (*BookingView, error) {
	b, err := s.repo.GetByCode(ctx, bookingCode, userID)
	if err != nil {
		return nil, err
	}

	view := toView(*b, time.Now())
	return &view, nil
}

// CheckInWindow answers the UI's scan-button gate. It uses the
// ±60/30-minute window, NOT the same-day rule the attendance commit uses.
func (s *service) CheckInWindow(ctx context.Context, userID int, bookingCode string) (*CheckInWindowResponse, error) {
	b, err := s.repo.GetByCode(ctx, bookingCode, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &CheckInWindowResponse{
		CanCheckIn: b.Status == StatusConfirmed && timeslot.CanCheckIn(b.SessionDate, b.TimeSlot, now),
		TimeUntil:  timeslot.TimeUntil(b.SessionDate, b.TimeSlot, now),
	}
	return resp, nil
}

func toView(b Booking, now time.Time) BookingView {
	view := BookingView{Booking: b, DisplayState: DisplayPast}
	if !timeslot.IsPast(b.SessionDate, b.TimeSlot, now) {
		view.DisplayState = DisplayUpcoming
		if b.Status == StatusConfirmed {
			view.TimeUntil = timeslot.TimeUntil(b.SessionDate, b.TimeSlot, now)
		}
	}
	return view
}

func sessionSortKey(b Booking) time.Time {
	instant, err := timeslot.SessionInstant(b.SessionDate, b.TimeSlot)
	if err != nil {
		return time.Time{}
	}
	return instant
}
