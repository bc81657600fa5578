package attendance

// DayStatus summarises where a user stands in the current day.
type DayStatus string

const (
	NotStarted DayStatus = "NOT_STARTED"
	Working    DayStatus = "WORKING"
	OnBreak    DayStatus = "ON_BREAK"
	Done       DayStatus = "DONE"
)

// StatusOf derives the status from one day's events. A recorded ClockOut
// always means Done; otherwise a ClockIn means Working unless the latest
// event is a BreakStart.
func StatusOf(events []Event) DayStatus {
	var in, out bool
	for _, e := range events {
		in = in || e.Type == ClockIn
		out = out || e.Type == ClockOut
	}
	switch {
	case out:
		return Done
	case in:
		if latest, _ := Latest(events); latest.Type == BreakStart {
			return OnBreak
		}
		return Working
	}
	return NotStarted
}

// ClockActions lists the event types a user may record live in status s.
func ClockActions(s DayStatus) []EventType {
	switch s {
	case NotStarted:
		return []EventType{ClockIn}
	case Working:
		return []EventType{BreakStart, ClockOut}
	case OnBreak:
		return []EventType{BreakEnd}
	}
	return nil
}

// CanClock reports whether t is a permitted live action in status s.
func CanClock(s DayStatus, t EventType) bool {
	for _, a := range ClockActions(s) {
		if a == t {
			return true
		}
	}
	return false
}

// TypeOptions returns the types an editor may offer for the event at index i
// of a chronologically sorted day. A ClockIn keeps its type.
func TypeOptions(sorted []Event, i int) []EventType {
	if i < 0 || i >= len(sorted) {
		return nil
	}
	entry := sorted[i]
	if entry.Type == ClockIn {
		return []EventType{ClockIn}
	}

	var prev EventType
	if i > 0 {
		prev = sorted[i-1].Type
	}
	hasIn := false
	for _, e := range sorted {
		hasIn = hasIn || e.Type == ClockIn
	}

	var opts []EventType
	if prev != BreakStart && !hasIn {
		opts = append(opts, ClockIn)
	}
	if prev != BreakStart {
		opts = append(opts, BreakStart)
	}
	if prev != ClockIn && prev != BreakEnd {
		opts = append(opts, BreakEnd)
	}
	if prev != BreakStart {
		opts = append(opts, ClockOut)
	}
	return opts
}
