package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proposal struct {
	Type EventType
	H, M int
}

func TestAdvisor_Suggest(t *testing.T) {
	tests := []struct {
		name    string
		current []Event
		want    []proposal
	}{
		{name: "empty day", current: nil, want: []proposal{{ClockIn, 9, 0}}},
		{name: "after entry", current: []Event{ev(1, ClockIn, 9, 0)}, want: []proposal{{ClockOut, 17, 0}}},
		{
			name:    "after break start",
			current: []Event{ev(1, ClockIn, 9, 0), ev(2, BreakStart, 13, 0)},
			want:    []proposal{{BreakEnd, 13, 30}},
		},
		{
			name:    "after break end",
			current: []Event{ev(1, ClockIn, 9, 0), ev(2, BreakStart, 13, 0), ev(3, BreakEnd, 13, 30)},
			want:    []proposal{{ClockOut, 17, 30}},
		},
		{
			name:    "after exit backfills a break",
			current: []Event{ev(1, ClockIn, 9, 0), ev(2, ClockOut, 17, 0)},
			want:    []proposal{{BreakEnd, 15, 0}, {BreakStart, 14, 30}},
		},
		{
			name:    "latest event wins over input order",
			current: []Event{ev(2, BreakStart, 13, 0), ev(1, ClockIn, 9, 0)},
			want:    []proposal{{BreakEnd, 13, 30}},
		},
		{
			name:    "late entry is clamped to the end of day",
			current: []Event{ev(1, ClockIn, 20, 0)},
			want:    []proposal{{ClockOut, 23, 59}},
		},
		{
			name:    "early exit is clamped to the start of day",
			current: []Event{ev(1, ClockOut, 1, 0)},
			want:    []proposal{{BreakEnd, 0, 0}, {BreakStart, 0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdvisor(Heuristics{})
			a.newID = counter("new-")

			got := a.Suggest(monday, time.UTC, tt.current)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.Type, got[i].Type)
				assert.True(t, at(w.H, w.M).Equal(got[i].Timestamp), "proposal %d at %v", i, got[i].Timestamp)
				assert.True(t, got[i].IsProvisional())
				assert.True(t, monday.Contains(got[i].Timestamp, time.UTC))
			}
		})
	}
}

func TestAdvisor_ProposalsAreUnique(t *testing.T) {
	a := NewAdvisor(Heuristics{})
	got := a.Suggest(monday, time.UTC, []Event{ev(1, ClockOut, 17, 0)})
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].TempID, got[1].TempID)
	for _, p := range got {
		assert.True(t, strings.HasPrefix(p.TempID, ProvisionalPrefix))
	}
}

func TestNewAdvisor_Overrides(t *testing.T) {
	a := NewAdvisor(Heuristics{Shift: 7 * time.Hour, DefaultClockIn: 8 * time.Hour})
	h := a.Heuristics()
	assert.Equal(t, 7*time.Hour, h.Shift)
	assert.Equal(t, 8*time.Hour, h.DefaultClockIn)
	assert.Equal(t, DefaultHeuristics().Break, h.Break)

	got := a.Suggest(monday, time.UTC, nil)
	require.Len(t, got, 1)
	assert.True(t, at(8, 0).Equal(got[0].Timestamp))
}
