package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
	"github.com/dmitrijs2005/punchclock/internal/timex"
)

var errNoEdit = errors.New("no day is being edited, use 'edit [DATE]' first")

// Edit opens a day for editing, resuming its parked draft when there is one.
// A dirty session for another day is parked first.
func (a *App) Edit(ctx context.Context, args []string) error {
	var dayArg string
	if len(args) > 0 {
		dayArg = args[0]
	}
	day, err := a.parseDay(dayArg)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	userID, err := parseUser(args, 1)
	if err != nil {
		return err
	}
	if userID == 0 {
		userID = a.session.UserID
	}

	if a.edit != nil && a.edit.Dirty() {
		if err := a.attendance.SaveDraft(ctx, a.edit); err != nil {
			return err
		}
		a.printf("Edits of %s parked as a draft\n", a.edit.Day())
	}

	s, resumed, err := a.attendance.BeginEdit(ctx, userID, day)
	if err != nil {
		return err
	}
	a.edit = s
	if resumed {
		a.println("Resumed a saved draft")
	}
	return a.Show(ctx, nil)
}

// Show prints the working copy with row numbers, entry states and, for each
// row, the event types it may be switched to.
func (a *App) Show(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}

	entries := a.edit.Entries()
	a.printf("User %d, %s (%s)\n", a.edit.UserID(), a.edit.Day(), a.edit.Day().Weekday())
	if len(entries) == 0 {
		a.println("  no events")
	}
	for i, e := range entries {
		opts, _ := a.edit.Options(e.Event.Key())
		a.printf("  %2d  %s  %-11s  %-9s  [%s]\n", i+1, hhmm(e.Event.Timestamp, a.loc), e.Event.Type, e.State, joinTypes(opts))
	}

	worked := attendance.WorkedHours(a.edit.Events())
	if v := a.edit.Validate(); v != nil {
		a.printf("Worked %.2fh, invalid: %s\n", worked, v.Reason())
	} else {
		a.printf("Worked %.2fh, valid\n", worked)
	}
	return nil
}

// Add inserts a new event: add TYPE HH:MM.
func (a *App) Add(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: add TYPE HH:MM", common.ErrInvalidInput)
	}
	t, err := attendance.ParseEventType(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	h, m, err := timex.ParseClock(args[1])
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if _, err := a.edit.Add(t, h, m); err != nil {
		return err
	}
	return a.afterChange(ctx)
}

// Set changes a row: set ROW HH:MM, set ROW TYPE or set ROW HH:MM TYPE.
func (a *App) Set(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: usage: set ROW HH:MM [TYPE] | set ROW TYPE", common.ErrInvalidInput)
	}
	key, err := a.rowKey(args[0])
	if err != nil {
		return err
	}

	typeArg := args[len(args)-1]
	if h, m, err := timex.ParseClock(args[1]); err == nil {
		if err := a.edit.SetTime(key, h, m); err != nil {
			return err
		}
		if len(args) == 2 {
			return a.afterChange(ctx)
		}
	} else if len(args) == 3 {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	t, err := attendance.ParseEventType(typeArg)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if err := a.edit.SetType(key, t); err != nil {
		return err
	}
	return a.afterChange(ctx)
}

// Remove deletes a row: rm ROW.
func (a *App) Remove(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: rm ROW", common.ErrInvalidInput)
	}
	key, err := a.rowKey(args[0])
	if err != nil {
		return err
	}
	if err := a.edit.Remove(key); err != nil {
		return err
	}
	return a.afterChange(ctx)
}

// Suggest fills in the events the day is missing.
func (a *App) Suggest(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	proposals, err := a.attendance.Suggest(ctx, a.edit)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		a.println("Nothing to suggest")
		return nil
	}
	for _, p := range proposals {
		a.printf("Suggested %s at %s\n", p.Type, hhmm(p.Timestamp, a.loc))
	}
	return a.Show(ctx, nil)
}

// Check validates the working copy without sending anything.
func (a *App) Check(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	v := a.edit.Validate()
	if v == nil {
		a.println("Day is valid")
		return nil
	}
	a.printf("Day is invalid: %s\n", v.Reason())
	return nil
}

// Commit sends the edited day and closes the session.
func (a *App) Commit(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	if !a.edit.Dirty() {
		a.println("Nothing to commit")
		return nil
	}
	resp, err := a.attendance.Commit(ctx, a.edit)
	if err != nil {
		var rej *attendance.RejectedError
		if errors.As(err, &rej) {
			return fmt.Errorf("day rejected: %s", rej.Violation.Reason())
		}
		return err
	}
	a.printf("Saved: %d created, %d updated, %d deleted\n", resp.Created, resp.Updated, resp.Deleted)
	a.edit = nil
	return nil
}

// Cancel drops the session and its draft.
func (a *App) Cancel(ctx context.Context, args []string) error {
	if a.edit == nil {
		return errNoEdit
	}
	if err := a.attendance.Cancel(ctx, a.edit); err != nil {
		return err
	}
	a.printf("Edits of %s discarded\n", a.edit.Day())
	a.edit = nil
	return nil
}

// afterChange parks the session so a crash does not lose edits, then shows it.
func (a *App) afterChange(ctx context.Context) error {
	if err := a.attendance.SaveDraft(ctx, a.edit); err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

// rowKey maps a 1-based row number of Show to the entry key.
func (a *App) rowKey(s string) (string, error) {
	entries := a.edit.Entries()
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(entries) {
		return "", fmt.Errorf("%w: no row %q", common.ErrInvalidInput, s)
	}
	return entries[n-1].Event.Key(), nil
}

func joinTypes(types []attendance.EventType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, clockAlias(t))
	}
	return strings.Join(names, ",")
}
