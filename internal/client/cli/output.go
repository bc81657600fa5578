package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
)

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) today() timex.Date {
	return timex.DateIn(time.Now(), a.loc)
}

// parseDay reads a date argument. Besides YYYY-MM-DD it accepts "today" and
// "yesterday"; an empty value means today.
func (a *App) parseDay(s string) (timex.Date, error) {
	switch strings.ToLower(s) {
	case "", "today":
		return a.today(), nil
	case "yesterday":
		return a.today().AddDays(-1), nil
	}
	return timex.ParseDate(s)
}

// parseRange reads [FROM] [TO] from args. No dates means the last seven days,
// a single date means that day only.
func (a *App) parseRange(args []string) (from, to timex.Date, rest []string, err error) {
	switch {
	case len(args) == 0:
		to = a.today()
		return to.AddDays(-6), to, nil, nil
	case len(args) == 1:
		from, err = a.parseDay(args[0])
		return from, from, nil, err
	}
	if from, err = a.parseDay(args[0]); err != nil {
		return
	}
	if to, err = a.parseDay(args[1]); err != nil {
		return
	}
	return from, to, args[2:], nil
}

// parseUser reads an optional user id argument; 0 is the logged-in user.
func parseUser(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, nil
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", args[i])
	}
	return id, nil
}

func hhmm(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
