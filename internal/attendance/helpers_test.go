package attendance

import (
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// monday is 2025-11-03, a Monday.
var monday = timex.Date{Year: 2025, Month: time.November, Day: 3}

func at(h, m int) time.Time {
	return monday.At(h, m, time.UTC)
}

func ev(id int64, t EventType, h, m int) Event {
	return Event{ID: id, Type: t, Timestamp: at(h, m)}
}

func tmp(key string, t EventType, h, m int) Event {
	return Event{TempID: key, Type: t, Timestamp: at(h, m)}
}

func counter(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}
