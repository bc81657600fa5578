package attendance

import "time"

// WorkedDuration sums the closed work intervals of a chronologically ordered
// day. ClockIn and BreakEnd open an interval, ClockOut and BreakStart close
// it. Closing events without an open interval are ignored, and an interval
// still open at the end of the sequence contributes nothing.
//
// The function is total: historical days recorded before edits were
// validated may contain any pattern, and the report must still be produced.
func WorkedDuration(events []Event) time.Duration {
	var (
		total time.Duration
		open  time.Time
		isSet bool
	)
	for _, e := range events {
		switch e.Type {
		case ClockIn, BreakEnd:
			open, isSet = e.Timestamp, true
		case ClockOut, BreakStart:
			if isSet {
				total += e.Timestamp.Sub(open)
				isSet = false
			}
		}
	}
	return total
}

// WorkedHours is WorkedDuration expressed in hours.
func WorkedHours(events []Event) float64 {
	return WorkedDuration(events).Hours()
}
