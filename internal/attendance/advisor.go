package attendance

import (
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
	"github.com/google/uuid"
)

// Heuristics are the fixed offsets the Advisor uses to guess missing events.
type Heuristics struct {
	// Shift is the length of a standard working day.
	Shift time.Duration
	// ShortShift is the work remaining after a break.
	ShortShift time.Duration
	// Break is the length of a standard break.
	Break time.Duration
	// BackfillBreakEnd is how long before an existing exit a backfilled break ends.
	BackfillBreakEnd time.Duration
	// BackfillBreakStart is how long before an existing exit a backfilled break starts.
	BackfillBreakStart time.Duration
	// DefaultClockIn is the time of day proposed for an empty day.
	DefaultClockIn time.Duration
}

// DefaultHeuristics returns the standard offsets: 8h shift, 4h after a break,
// 30m breaks, a backfilled break between 2h30m and 2h before the exit, and a
// 09:00 clock-in.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Shift:              8 * time.Hour,
		ShortShift:         4 * time.Hour,
		Break:              30 * time.Minute,
		BackfillBreakEnd:   2 * time.Hour,
		BackfillBreakStart: 2*time.Hour + 30*time.Minute,
		DefaultClockIn:     9 * time.Hour,
	}
}

// Advisor proposes the next plausible events of a partially recorded day.
type Advisor struct {
	h     Heuristics
	newID func() string
}

// NewAdvisor builds an Advisor. Zero fields of h fall back to the defaults.
func NewAdvisor(h Heuristics) *Advisor {
	d := DefaultHeuristics()
	if h.Shift > 0 {
		d.Shift = h.Shift
	}
	if h.ShortShift > 0 {
		d.ShortShift = h.ShortShift
	}
	if h.Break > 0 {
		d.Break = h.Break
	}
	if h.BackfillBreakEnd > 0 {
		d.BackfillBreakEnd = h.BackfillBreakEnd
	}
	if h.BackfillBreakStart > 0 {
		d.BackfillBreakStart = h.BackfillBreakStart
	}
	if h.DefaultClockIn > 0 {
		d.DefaultClockIn = h.DefaultClockIn
	}
	return &Advisor{h: d, newID: NewProvisionalID}
}

// Heuristics returns the effective offsets.
func (a *Advisor) Heuristics() Heuristics {
	return a.h
}

// NewProvisionalID returns a fresh identity for an unpersisted event.
func NewProvisionalID() string {
	return ProvisionalPrefix + uuid.NewString()
}

// Suggest looks at the chronologically latest event of the day and proposes
// zero, one or two provisional events:
//
//	empty day   -> ClockIn at the default time
//	ClockIn     -> ClockOut after a full shift
//	BreakStart  -> BreakEnd after a standard break
//	BreakEnd    -> ClockOut after a short shift
//	ClockOut    -> BreakEnd and BreakStart backfilled before the exit
//
// Proposals never leave the calendar day: they are clamped to its first or
// last minute.
func (a *Advisor) Suggest(day timex.Date, loc *time.Location, current []Event) []Event {
	latest, ok := Latest(current)
	if !ok {
		return []Event{a.propose(day, loc, ClockIn, day.Start(loc).Add(a.h.DefaultClockIn))}
	}

	at := latest.Timestamp
	switch latest.Type {
	case ClockIn:
		return []Event{a.propose(day, loc, ClockOut, at.Add(a.h.Shift))}
	case BreakStart:
		return []Event{a.propose(day, loc, BreakEnd, at.Add(a.h.Break))}
	case BreakEnd:
		return []Event{a.propose(day, loc, ClockOut, at.Add(a.h.ShortShift))}
	case ClockOut:
		return []Event{
			a.propose(day, loc, BreakEnd, at.Add(-a.h.BackfillBreakEnd)),
			a.propose(day, loc, BreakStart, at.Add(-a.h.BackfillBreakStart)),
		}
	}
	return nil
}

func (a *Advisor) propose(day timex.Date, loc *time.Location, t EventType, at time.Time) Event {
	start, end := day.Bounds(loc)
	last := end.Add(-time.Minute)
	switch {
	case at.Before(start):
		at = start
	case at.After(last):
		at = last
	}
	return Event{TempID: a.newID(), Type: t, Timestamp: at.Truncate(time.Minute)}
}
