package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the stored calendar-date form for bookings.
	DateLayout = "2006-01-02"
	// SlotLayout is the canonical stored time-slot form (24-hour).
	SlotLayout = "15:04"

	// CancelCutoff is how long before the session cancellation closes.
	CancelCutoff = 60 * time.Minute
	// CheckInOpens is how long before the session check-in opens.
	CheckInOpens = 60 * time.Minute
	// CheckInCloses is how long after session start check-in stays open.
	CheckInCloses = 30 * time.Minute
)

var (
	ErrBadDate = errors.New("invalid booking date")
	ErrBadSlot = errors.New("invalid time slot")
)

// slotLayouts lists every accepted input form. Mobile clients historically
// sent both 12-hour and 24-hour strings, so parsing accepts all of them and
// Normalize rewrites to SlotLayout at the write boundary.
var slotLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// ParseSlot parses a time-slot string in any accepted form.
func ParseSlot(slot string) (time.Time, error) {
	s := strings.TrimSpace(strings.ToUpper(slot))
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadSlot, slot)
}

// Normalize returns the canonical 24-hour form of a slot string.
func Normalize(slot string) (string, error) {
	t, err := ParseSlot(slot)
	if err != nil {
		return "", err
	}
	return t.Format(SlotLayout), nil
}

// SessionInstant combines a calendar date and a time slot into one absolute
// instant in the local zone. Arithmetic is DST-naive on purpose: all centers
// operate in a single fixed zone.
func SessionInstant(date, slot string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	t, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// IsPast reports whether the session instant is at or before now. Now is
// truncated to the minute so second-level jitter cannot flip the answer at
// an exact boundary.
func IsPast(date, slot string, now time.Time) bool {
	instant, err := SessionInstant(date, slot)
	if err != nil {
		// Unparseable bookings are treated as past so they never show
		// up as actionable.
		return true
	}
	return !instant.After(now.Truncate(time.Minute))
}

// CanCancel reports whether cancellation is still open: strictly more than
// CancelCutoff before the session. Exactly at the cutoff is NOT cancellable.
func CanCancel(date, slot string, now time.Time) bool {
	instant, err := SessionInstant(date, slot)
	if err != nil {
		return false
	}
	return instant.Sub(now.Truncate(time.Minute)) > CancelCutoff
}

// CanCheckIn reports whether now falls inside the check-in window:
// [session-CheckInOpens, session+CheckInCloses], both ends inclusive.
func CanCheckIn(date, slot string, now time.Time) bool {
	instant, err := SessionInstant(date, slot)
	if err != nil {
		return false
	}
	diff := instant.Sub(now.Truncate(time.Minute))
	return diff <= CheckInOpens && diff >= -CheckInCloses
}

// IsSameDay reports whether now falls on the booking's calendar date.
func IsSameDay(date string, now time.Time) bool {
	return now.In(time.Local).Format(DateLayout) == date
}

// TimeUntil renders the remaining time to the session as "2d 3h 15m".
// Elapsed or unparseable sessions render as the empty string.
func TimeUntil(date, slot string, now time.Time) string {
	instant, err := SessionInstant(date, slot)
	if err != nil {
		return ""
	}
	diff := instant.Sub(now.Truncate(time.Minute))
	if diff <= 0 {
		return ""
	}

	days := int(diff / (24 * time.Hour))
	diff -= time.Duration(days) * 24 * time.Hour
	hours := int(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int(diff / time.Minute)

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}
