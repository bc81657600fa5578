package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
	"github.com/dmitrijs2005/punchclock/internal/common"
)

const defaultHistoryLimit = 20

// Status prints today's events, worked hours and the clock actions the
// current state allows.
func (a *App) Status(ctx context.Context, args []string) error {
	userID, err := parseUser(args, 0)
	if err != nil {
		return err
	}

	st, err := a.attendance.Status(ctx, userID)
	if err != nil {
		return err
	}

	a.printf("%s: %s, worked %.2fh\n", st.Date, st.Status, st.WorkedHours)
	for _, e := range st.Events {
		a.printf("  %s  %s\n", hhmm(e.Timestamp, a.loc), e.Type)
	}
	if len(st.Actions) > 0 {
		names := make([]string, 0, len(st.Actions))
		for _, t := range st.Actions {
			names = append(names, clockAlias(t))
		}
		a.printf("Next: clock %s\n", strings.Join(names, "|"))
	}
	return nil
}

// Clock records an event of the given kind at the server's current time.
func (a *App) Clock(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: clock in|out|break|resume", common.ErrInvalidInput)
	}
	t, err := attendance.ParseEventType(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	resp, err := a.attendance.Clock(ctx, t)
	if err != nil {
		return err
	}
	a.printf("%s at %s, now %s\n", resp.Event.Type, hhmm(resp.Event.Timestamp, a.loc), resp.Status)
	return nil
}

// History prints the latest events, newest first.
func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errors.New("limit must be a positive number")
		}
		limit = n
	}
	userID, err := parseUser(args, 1)
	if err != nil {
		return err
	}

	events, err := a.attendance.History(ctx, userID, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		a.println("No events")
		return nil
	}
	for _, e := range events {
		a.printf("%s  %s\n", e.Timestamp.In(a.loc).Format("2006-01-02 15:04"), e.Type)
	}
	return nil
}

func clockAlias(t attendance.EventType) string {
	switch t {
	case attendance.ClockIn:
		return "in"
	case attendance.ClockOut:
		return "out"
	case attendance.BreakStart:
		return "break"
	case attendance.BreakEnd:
		return "resume"
	}
	return string(t)
}
