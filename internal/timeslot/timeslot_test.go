package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "09:30"},
		{in: "9:30", want: "09:30"},
		{in: "21:05", want: "21:05"},
		{in: "9:30 AM", want: "09:30"},
		{in: "9:30 PM", want: "21:30"},
		{in: "12:00 AM", want: "00:00"},
		{in: "12:00 PM", want: "12:00"},
		{in: "6:15pm", want: "18:15"},
		{in: "", wantErr: true},
		{in: "banana", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "10:75", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrBadSlot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionInstant(t *testing.T) {
	instant, err := SessionInstant("2026-04-10", "6:30 PM")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 10, 18, 30, 0, 0, time.Local), instant)

	_, err = SessionInstant("10-04-2026", "18:30")
	require.ErrorIs(t, err, ErrBadDate)

	_, err = SessionInstant("2026-04-10", "nope")
	require.ErrorIs(t, err, ErrBadSlot)
}

func TestIsPast(t *testing.T) {
	session := time.Date(2026, 4, 10, 10, 0, 0, 0, time.Local)

	assert.False(t, IsPast("2026-04-10", "10:00", session.Add(-time.Minute)))
	// At the exact instant the session counts as past.
	assert.True(t, IsPast("2026-04-10", "10:00", session))
	assert.True(t, IsPast("2026-04-10", "10:00", session.Add(time.Minute)))
	// Seconds are truncated before comparison.
	assert.True(t, IsPast("2026-04-10", "10:00", session.Add(30*time.Second)))
	// Malformed slots read as past.
	assert.True(t, IsPast("2026-04-10", "garbage", session))
}

func TestCanCancel_Boundary(t *testing.T) {
	session := time.Date(2026, 4, 10, 10, 0, 0, 0, time.Local)

	// 61 minutes before: open.
	assert.True(t, CanCancel("2026-04-10", "10:00", session.Add(-61*time.Minute)))
	// Exactly 60 minutes before: closed (strict inequality).
	assert.False(t, CanCancel("2026-04-10", "10:00", session.Add(-60*time.Minute)))
	// 59 minutes before: closed.
	assert.False(t, CanCancel("2026-04-10", "10:00", session.Add(-59*time.Minute)))
	// After the session: closed.
	assert.False(t, CanCancel("2026-04-10", "10:00", session.Add(time.Hour)))
	// Malformed input fails closed.
	assert.False(t, CanCancel("2026-04-10", "", session.Add(-2*time.Hour)))
	assert.False(t, CanCancel("bad", "10:00", session.Add(-2*time.Hour)))
}

func TestCanCheckIn_WindowInclusive(t *testing.T) {
	session := time.Date(2026, 4, 10, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"61 min before", session.Add(-61 * time.Minute), false},
		{"exactly 60 min before", session.Add(-60 * time.Minute), true},
		{"at session start", session, true},
		{"exactly 30 min after", session.Add(30 * time.Minute), true},
		{"31 min after", session.Add(31 * time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCheckIn("2026-04-10", "10:00", tt.now))
		})
	}

	assert.False(t, CanCheckIn("2026-04-10", "10:60", session))
}

func TestMidnightRollover(t *testing.T) {
	// Session just after midnight; the evening before is a different
	// calendar date but still inside the windows.
	eveningBefore := time.Date(2026, 4, 9, 23, 30, 0, 0, time.Local)

	assert.True(t, CanCheckIn("2026-04-10", "00:15", eveningBefore))
	assert.False(t, CanCancel("2026-04-10", "00:15", eveningBefore))
	assert.True(t, CanCancel("2026-04-10", "00:15", eveningBefore.Add(-60*time.Minute)))
	assert.False(t, IsSameDay("2026-04-10", eveningBefore))
}

func TestTimeUntil(t *testing.T) {
	session := time.Date(2026, 4, 10, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2d 3h 15m", TimeUntil("2026-04-12", "13:15", session))
	assert.Equal(t, "45m", TimeUntil("2026-04-10", "10:45", session))
	assert.Equal(t, "1h", TimeUntil("2026-04-10", "11:00", session))
	// Past and malformed both render empty rather than erroring.
	assert.Equal(t, "", TimeUntil("2026-04-10", "09:00", session))
	assert.Equal(t, "", TimeUntil("2026-04-10", "bogus", session))
}

func TestIsSameDay(t *testing.T) {
	now := time.Date(2026, 4, 10, 23, 59, 0, 0, time.Local)
	assert.True(t, IsSameDay("2026-04-10", now))
	assert.False(t, IsSameDay("2026-04-11", now))
}
