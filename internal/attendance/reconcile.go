package attendance

import (
	"errors"
	"fmt"
	"time"
)

// ErrForeignEvent is returned when a final sequence references a persisted id
// that does not belong to the stored day being edited.
var ErrForeignEvent = errors.New("event does not belong to the edited day")

// CommitPlan is the set of store mutations that turns a stored day into the
// final edited day. Deletes must be applied first, then Creates, then Updates.
type CommitPlan struct {
	Deletes []int64
	Creates []Event
	Updates []Event
}

// IsEmpty reports whether applying the plan would change nothing.
func (p CommitPlan) IsEmpty() bool {
	return len(p.Deletes) == 0 && len(p.Creates) == 0 && len(p.Updates) == 0
}

func (p CommitPlan) String() string {
	return fmt.Sprintf("deletes=%d creates=%d updates=%d", len(p.Deletes), len(p.Creates), len(p.Updates))
}

// Reconcile compares the stored day with the final sequence of an edit
// session.
//
// Persisted events in final are matched by id and become updates when their
// type or time (at second precision) changed. Provisional events first try to
// adopt a stored event that no persisted id claimed and that has exactly the
// same type and time; only unmatched ones become creates. Stored events left
// unclaimed are deleted. Adoption is what makes replaying a commit a no-op:
// the second run finds the events the first run created.
func Reconcile(stored, final []Event) (CommitPlan, error) {
	storedByID := make(map[int64]Event, len(stored))
	for _, e := range stored {
		storedByID[e.ID] = e
	}

	var plan CommitPlan
	claimed := make(map[int64]bool, len(stored))

	for _, e := range final {
		if e.IsProvisional() {
			continue
		}
		orig, ok := storedByID[e.ID]
		if !ok {
			return CommitPlan{}, fmt.Errorf("%w: id %d", ErrForeignEvent, e.ID)
		}
		if claimed[e.ID] {
			return CommitPlan{}, fmt.Errorf("%w: id %d listed twice", ErrForeignEvent, e.ID)
		}
		claimed[e.ID] = true
		if !sameEvent(orig, e) {
			e.Timestamp = storageTime(e.Timestamp)
			plan.Updates = append(plan.Updates, e)
		}
	}

	for _, e := range Sorted(final) {
		if !e.IsProvisional() {
			continue
		}
		if id, ok := adoptable(stored, claimed, e); ok {
			claimed[id] = true
			continue
		}
		e.Timestamp = storageTime(e.Timestamp)
		plan.Creates = append(plan.Creates, e)
	}

	for _, e := range Sorted(stored) {
		if !claimed[e.ID] {
			plan.Deletes = append(plan.Deletes, e.ID)
		}
	}

	return plan, nil
}

func adoptable(stored []Event, claimed map[int64]bool, e Event) (int64, bool) {
	for _, s := range Sorted(stored) {
		if !claimed[s.ID] && sameEvent(s, e) {
			return s.ID, true
		}
	}
	return 0, false
}

func sameEvent(a, b Event) bool {
	return a.Type == b.Type && storageTime(a.Timestamp).Equal(storageTime(b.Timestamp))
}

// storageTime is the precision events are persisted with.
func storageTime(t time.Time) time.Time {
	return t.Truncate(time.Second)
}
