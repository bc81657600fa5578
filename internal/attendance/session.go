package attendance

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
)

var (
	ErrUnknownEntry      = errors.New("no such entry in the edit session")
	ErrClockInTypeLocked = errors.New("the type of a clock-in cannot be changed")
	ErrOutsideDay        = errors.New("event falls outside the edited day")
	ErrInvalidEventType  = errors.New("invalid event type")
)

// EntryState tracks an entry relative to the last fetched state of the day.
type EntryState string

const (
	Unchanged EntryState = "unchanged"
	New       EntryState = "new"
	Modified  EntryState = "modified"
	Deleted   EntryState = "deleted"
)

// SessionEntry is one event of the working copy with its dirty flag.
type SessionEntry struct {
	Event    Event      `json:"event"`
	Original Event      `json:"original"`
	State    EntryState `json:"state"`
}

// EditSession is a transient working copy of one user's day. Nothing in it
// reaches the store until the caller commits Events(); dropping the session
// is a cancel.
type EditSession struct {
	userID  int64
	day     timex.Date
	loc     *time.Location
	entries []*SessionEntry
	newID   func() string
}

// NewEditSession starts a session from the events fetched for day.
func NewEditSession(userID int64, day timex.Date, loc *time.Location, fetched []Event) *EditSession {
	s := &EditSession{userID: userID, day: day, loc: loc, newID: NewProvisionalID}
	for _, e := range Sorted(fetched) {
		s.entries = append(s.entries, &SessionEntry{Event: e, Original: e, State: Unchanged})
	}
	return s
}

func (s *EditSession) UserID() int64 { return s.userID }

func (s *EditSession) Day() timex.Date { return s.day }

func (s *EditSession) Location() *time.Location { return s.loc }

// Entries returns the live (not deleted) entries in chronological order.
func (s *EditSession) Entries() []SessionEntry {
	var out []SessionEntry
	for _, e := range s.entries {
		if e.State != Deleted {
			out = append(out, *e)
		}
	}
	sortEntries(out)
	return out
}

// Events returns the final sequence that a commit would persist.
func (s *EditSession) Events() []Event {
	entries := s.Entries()
	out := make([]Event, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Event)
	}
	return out
}

// Dirty reports whether anything differs from the fetched state.
func (s *EditSession) Dirty() bool {
	for _, e := range s.entries {
		if e.State != Unchanged {
			return true
		}
	}
	return false
}

// Changes counts entries per state, deleted ones included.
func (s *EditSession) Changes() map[EntryState]int {
	out := make(map[EntryState]int, 4)
	for _, e := range s.entries {
		out[e.State]++
	}
	return out
}

// Validate runs the sequence validator on the working copy.
func (s *EditSession) Validate() *Violation {
	return Validate(s.Events())
}

// Add appends a provisional event at hh:mm of the session's day.
func (s *EditSession) Add(t EventType, hour, minute int) (Event, error) {
	if !t.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidEventType, t)
	}
	e := Event{TempID: s.newID(), Type: t, Timestamp: s.day.At(hour, minute, s.loc)}
	s.entries = append(s.entries, &SessionEntry{Event: e, State: New})
	return e, nil
}

// Apply adds advisor proposals to the working copy.
func (s *EditSession) Apply(proposals []Event) error {
	for _, p := range proposals {
		if !p.IsProvisional() {
			return fmt.Errorf("proposal %s is already persisted", p.Key())
		}
		if !s.day.Contains(p.Timestamp, s.loc) {
			return fmt.Errorf("%w: %s", ErrOutsideDay, p)
		}
		if p.TempID == "" {
			p.TempID = s.newID()
		}
		p.Timestamp = p.Timestamp.Truncate(time.Minute)
		s.entries = append(s.entries, &SessionEntry{Event: p, State: New})
	}
	return nil
}

// SetTime moves an entry to hh:mm of the session's day.
func (s *EditSession) SetTime(key string, hour, minute int) error {
	entry, err := s.find(key)
	if err != nil {
		return err
	}
	entry.Event.Timestamp = s.day.At(hour, minute, s.loc)
	s.touch(entry)
	return nil
}

// SetType changes the type of an entry. A clock-in keeps its type.
func (s *EditSession) SetType(key string, t EventType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, t)
	}
	entry, err := s.find(key)
	if err != nil {
		return err
	}
	if entry.Event.Type == ClockIn && t != ClockIn {
		return ErrClockInTypeLocked
	}
	entry.Event.Type = t
	s.touch(entry)
	return nil
}

// Remove drops an entry. Provisional entries vanish; persisted ones are
// flagged Deleted so a commit removes them from the store.
func (s *EditSession) Remove(key string) error {
	for i, e := range s.entries {
		if e.State == Deleted || e.Event.Key() != key {
			continue
		}
		if e.State == New {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
		e.State = Deleted
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownEntry, key)
}

// Options lists the event types an editor may offer for the entry.
func (s *EditSession) Options(key string) ([]EventType, error) {
	events := s.Events()
	for i, e := range events {
		if e.Key() == key {
			return TypeOptions(events, i), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, key)
}

func (s *EditSession) find(key string) (*SessionEntry, error) {
	for _, e := range s.entries {
		if e.State != Deleted && e.Event.Key() == key {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, key)
}

func (s *EditSession) touch(e *SessionEntry) {
	if e.State == New {
		return
	}
	if e.Event.Type == e.Original.Type && e.Event.Timestamp.Equal(e.Original.Timestamp) {
		e.State = Unchanged
		return
	}
	e.State = Modified
}

func sortEntries(entries []SessionEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i].Event, entries[j].Event) })
}

// Snapshot is the serialisable form of a session, used to park a draft.
type Snapshot struct {
	UserID  int64          `json:"user_id"`
	Day     timex.Date     `json:"day"`
	Entries []SessionEntry `json:"entries"`
}

// Snapshot captures the session including deleted entries.
func (s *EditSession) Snapshot() Snapshot {
	snap := Snapshot{UserID: s.userID, Day: s.day}
	for _, e := range s.entries {
		snap.Entries = append(snap.Entries, *e)
	}
	return snap
}

// RestoreEditSession rebuilds a session from a snapshot.
func RestoreEditSession(snap Snapshot, loc *time.Location) *EditSession {
	s := &EditSession{userID: snap.UserID, day: snap.Day, loc: loc, newID: NewProvisionalID}
	for _, e := range snap.Entries {
		e := e
		s.entries = append(s.entries, &e)
	}
	return s
}
