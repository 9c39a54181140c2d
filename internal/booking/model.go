package booking

import "time"

// Stored booking statuses. Transitions are one-directional: confirmed may
// become completed or cancelled, and both of those are terminal.
const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Display states derived from (date, slot, now). They are never written
// back to storage: a confirmed booking whose time has passed still reads
// confirmed in the table and "past" on screen.
const (
	DisplayUpcoming = "upcoming"
	DisplayPast     = "past"
)

type Booking struct {
	ID          int       `db:"id" json:"id"`
	BookingCode string    `db:"booking_code" json:"booking_code"`
	UserID      int       `db:"user_id" json:"user_id"`
	CenterID    string    `db:"center_id" json:"center_id"`
	CenterName  string    `db:"center_name" json:"center_name"`
	SessionDate string    `db:"session_date" json:"session_date"`
	TimeSlot    string    `db:"time_slot" json:"time_slot"`
	SessionType string    `db:"session_type" json:"session_type"`
	Price       int64     `db:"price" json:"price"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookingView is a booking plus its derived display state and, for
// upcoming confirmed bookings, the remaining time to the session.
type BookingView struct {
	Booking
	DisplayState string `json:"display_state"`
	TimeUntil    string `json:"time_until,omitempty"`
}

// ListFilter selects which bookings a list query returns.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterUpcoming ListFilter = "upcoming"
	FilterPast     ListFilter = "past"
)

type CreateBookingRequest struct {
	CenterID    string `json:"center_id" binding:"required"`
	SessionDate string `json:"session_date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	SessionType string `json:"session_type" binding:"required"`
	Price       int64  `json:"price" binding:"required,gt=0"`
}

type CheckInRequest struct {
	Payload string `json:"payload" binding:"required"`
}

type SimulateCheckInRequest struct {
	CenterID string `json:"center_id" binding:"required"`
}

type CancelBookingResponse struct {
	Message  string `json:"message"`
	Refunded int64  `json:"refunded"`
}

type CheckInWindowResponse struct {
	CanCheckIn bool   `json:"can_check_in"`
	TimeUntil  string `json:"time_until,omitempty"`
}
