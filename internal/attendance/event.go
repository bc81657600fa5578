// Package attendance is the accounting and reconciliation engine of the time
// clock. It turns a day's attendance events into worked time and compliance
// verdicts, validates edited days, proposes gap-filling events and computes
// the store mutations needed to commit an edit session.
//
// Everything here is pure: the package never talks to a store. Callers fetch
// events, hand them in, and apply the returned plans.
package attendance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EventType is the closed set of attendance event kinds.
type EventType string

const (
	ClockIn    EventType = "CLOCK_IN"
	ClockOut   EventType = "CLOCK_OUT"
	BreakStart EventType = "BREAK_START"
	BreakEnd   EventType = "BREAK_END"
)

// EventTypes lists every valid type in display order.
var EventTypes = []EventType{ClockIn, BreakStart, BreakEnd, ClockOut}

// Valid reports whether t is one of the four known types.
func (t EventType) Valid() bool {
	switch t {
	case ClockIn, ClockOut, BreakStart, BreakEnd:
		return true
	}
	return false
}

// IsBoundary reports whether t is ClockIn or ClockOut.
func (t EventType) IsBoundary() bool {
	return t == ClockIn || t == ClockOut
}

// ParseEventType accepts the canonical names plus the short aliases used by
// the terminal client (in, out, break, resume).
func ParseEventType(s string) (EventType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clock_in", "in":
		return ClockIn, nil
	case "clock_out", "out":
		return ClockOut, nil
	case "break_start", "break", "pause":
		return BreakStart, nil
	case "break_end", "resume":
		return BreakEnd, nil
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// ProvisionalPrefix marks identities of events created locally that the store
// has not assigned an id to yet.
const ProvisionalPrefix = "new-"

// Event is a single attendance record. Persisted events carry the store id in
// ID; events created during an edit session have ID == 0 and a TempID.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	TempID    string    `json:"temp_id,omitempty"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// IsProvisional reports whether the event has never been persisted.
func (e Event) IsProvisional() bool {
	return e.ID == 0
}

// Key is the identity used by edit sessions: the decimal store id for
// persisted events, the temporary id otherwise.
func (e Event) Key() string {
	if e.IsProvisional() {
		return e.TempID
	}
	return strconv.FormatInt(e.ID, 10)
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%s", e.Type, e.Timestamp.Format("15:04"))
}

// identityLess orders events that share a timestamp: persisted before
// provisional, persisted by id, provisional by temporary id.
func identityLess(a, b Event) bool {
	ap, bp := a.IsProvisional(), b.IsProvisional()
	if ap != bp {
		return !ap
	}
	if !ap {
		return a.ID < b.ID
	}
	return a.TempID < b.TempID
}

// Less is the total chronological order used across the engine.
func Less(a, b Event) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return identityLess(a, b)
}

// Sorted returns a chronologically ordered copy of events; the input is left
// untouched.
func Sorted(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Latest returns the chronologically last event.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	latest := events[0]
	for _, e := range events[1:] {
		if Less(latest, e) {
			latest = e
		}
	}
	return latest, true
}
