package attendance

import (
	"fmt"

	"github.com/dmitrijs2005/punchclock/internal/common"
)

// ViolationCode identifies why an edited day was rejected.
type ViolationCode string

const (
	MultipleEntries     ViolationCode = "multiple_entries"
	MultipleExits       ViolationCode = "multiple_exits"
	EntryNotFirst       ViolationCode = "entry_not_first"
	ExitNotLast         ViolationCode = "exit_not_last"
	BreakEndAfterEntry  ViolationCode = "break_end_after_entry"
	ExitAfterBreakStart ViolationCode = "exit_after_break_start"
	DuplicateTimestamp  ViolationCode = "duplicate_timestamp"
	UnknownEventType    ViolationCode = "unknown_event_type"
)

const violationReasonFallback = "invalid sequence"

var violationReasons = map[ViolationCode]string{
	MultipleEntries:     "multiple entries: only one clock-in per day",
	MultipleExits:       "multiple exits: only one clock-out per day",
	EntryNotFirst:       "entry must be first",
	ExitNotLast:         "exit must be last",
	BreakEndAfterEntry:  "break-end cannot follow entry with no intervening break-start",
	ExitAfterBreakStart: "exit cannot follow break-start with no intervening break-end",
	DuplicateTimestamp:  "two events share the same time",
	UnknownEventType:    "unknown event type",
}

// Violation is the outcome of rejecting a sequence. It is data, not an error:
// the user is expected to fix the day and try again.
type Violation struct {
	Code ViolationCode `json:"code"`
	// Event is the key of the offending event, when one can be singled out.
	Event string `json:"event,omitempty"`
}

// Reason is the human-readable explanation of the violation.
func (v Violation) Reason() string {
	if r, ok := violationReasons[v.Code]; ok {
		return r
	}
	return violationReasonFallback
}

func (v Violation) String() string {
	return v.Reason()
}

// Validate checks an edited day. The input order does not matter; events are
// sorted chronologically (ties by identity) and the rules are applied in
// order, the first failure winning. A nil result means the day is accepted.
func Validate(events []Event) *Violation {
	sorted := Sorted(events)

	var ins, outs int
	for _, e := range sorted {
		switch e.Type {
		case ClockIn:
			ins++
		case ClockOut:
			outs++
		}
	}

	if ins > 1 {
		return &Violation{Code: MultipleEntries}
	}
	if outs > 1 {
		return &Violation{Code: MultipleExits}
	}
	for _, e := range sorted {
		if !e.Type.Valid() {
			return &Violation{Code: UnknownEventType, Event: e.Key()}
		}
	}
	if ins > 0 && sorted[0].Type != ClockIn {
		return &Violation{Code: EntryNotFirst, Event: sorted[0].Key()}
	}
	if outs > 0 && sorted[len(sorted)-1].Type != ClockOut {
		return &Violation{Code: ExitNotLast, Event: sorted[len(sorted)-1].Key()}
	}

	for i := 0; i+1 < len(sorted); i++ {
		curr, next := sorted[i], sorted[i+1]
		if curr.Type == ClockIn && next.Type == BreakEnd {
			return &Violation{Code: BreakEndAfterEntry, Event: next.Key()}
		}
		if curr.Type == BreakStart && next.Type == ClockOut {
			return &Violation{Code: ExitAfterBreakStart, Event: next.Key()}
		}
	}

	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].Timestamp.Equal(sorted[i+1].Timestamp) {
			return &Violation{Code: DuplicateTimestamp, Event: sorted[i+1].Key()}
		}
	}

	return nil
}

// ErrSequenceRejected is wrapped by RejectedError so callers can match any
// refusal with errors.Is.
var ErrSequenceRejected = common.ErrSequenceRejected

// RejectedError is returned by write paths that refuse to persist a day.
type RejectedError struct {
	Violation Violation
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSequenceRejected, e.Violation.Reason())
}

func (e *RejectedError) Unwrap() error {
	return ErrSequenceRejected
}
