package attendance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   float64
	}{
		{name: "empty day", events: nil, want: 0},
		{
			name:   "single shift",
			events: []Event{ev(1, ClockIn, 9, 0), ev(2, ClockOut, 17, 15)},
			want:   8.25,
		},
		{
			name: "shift with break",
			events: []Event{
				ev(1, ClockIn, 9, 0), ev(2, BreakStart, 13, 0),
				ev(3, BreakEnd, 13, 30), ev(4, ClockOut, 17, 30),
			},
			want: 8,
		},
		{
			name:   "open interval contributes nothing",
			events: []Event{ev(1, ClockIn, 9, 0)},
			want:   0,
		},
		{
			name: "open interval after a break contributes nothing",
			events: []Event{
				ev(1, ClockIn, 9, 0), ev(2, BreakStart, 12, 0), ev(3, BreakEnd, 12, 30),
			},
			want: 3,
		},
		{
			name:   "clock-out without clock-in is ignored",
			events: []Event{ev(1, ClockOut, 17, 0)},
			want:   0,
		},
		{
			name:   "two clock-ins take the latest",
			events: []Event{ev(1, ClockIn, 8, 0), ev(2, ClockIn, 10, 0), ev(3, ClockOut, 12, 0)},
			want:   2,
		},
		{
			name:   "break-end opens regardless of previous",
			events: []Event{ev(1, BreakEnd, 10, 0), ev(2, ClockOut, 11, 0)},
			want:   1,
		},
		{
			name:   "double break-start closes once",
			events: []Event{ev(1, ClockIn, 9, 0), ev(2, BreakStart, 10, 0), ev(3, BreakStart, 11, 0)},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WorkedHours(tt.events), 1e-9)
		})
	}
}

func TestWorkedHours_ExactElapsedTime(t *testing.T) {
	start := at(0, 0)
	for _, d := range []time.Duration{time.Second, 7*time.Hour + 13*time.Minute + 59*time.Second, 23*time.Hour + 59*time.Minute} {
		events := []Event{
			{ID: 1, Type: ClockIn, Timestamp: start},
			{ID: 2, Type: ClockOut, Timestamp: start.Add(d)},
		}
		got := WorkedHours(events)
		if math.Abs(got-d.Hours()) > 1e-9 {
			t.Fatalf("duration %v: got %v hours, want %v", d, got, d.Hours())
		}
	}
}

func TestWorkedHours_BreakArithmetic(t *testing.T) {
	t1, t2, t3, t4 := at(7, 12), at(11, 48), at(12, 33), at(16, 1)
	events := []Event{
		{ID: 1, Type: ClockIn, Timestamp: t1},
		{ID: 2, Type: BreakStart, Timestamp: t2},
		{ID: 3, Type: BreakEnd, Timestamp: t3},
		{ID: 4, Type: ClockOut, Timestamp: t4},
	}
	want := (t2.Sub(t1) + t4.Sub(t3)).Hours()
	assert.InDelta(t, want, WorkedHours(events), 1e-9)
}
