package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/attendance"
)

// Report prints the compliance verdict of every day in the range.
func (a *App) Report(ctx context.Context, args []string) error {
	from, to, rest, err := a.parseRange(args)
	if err != nil {
		return err
	}
	userID, err := parseUser(rest, 0)
	if err != nil {
		return err
	}

	target, verdicts, err := a.attendance.Compliance(ctx, userID, from, to)
	if err != nil {
		return err
	}

	a.printf("Compliance of user %d, %s .. %s\n", target, from, to)
	writeVerdicts(a, verdicts)
	return nil
}

func writeVerdicts(a *App, verdicts []attendance.DailyVerdict) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tEXPECTED\tACTUAL\tOK")

	var expected, actual float64
	for _, v := range verdicts {
		ok := "-"
		if v.IsWorkDay {
			ok = yesNo(v.Compliant)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s\n",
			v.Date, time.Weekday(v.DayOfWeek).String()[:3], v.ExpectedHours, v.ActualHours, ok)
		expected += v.ExpectedHours
		actual += v.ActualHours
	}
	fmt.Fprintf(tw, "total\t\t%.2f\t%.2f\t\n", expected, actual)
	tw.Flush()
}

// Export asks the server for an XLSX report and stores it under reports/.
func (a *App) Export(ctx context.Context, args []string) error {
	from, to, rest, err := a.parseRange(args)
	if err != nil {
		return err
	}
	userID, err := parseUser(rest, 0)
	if err != nil {
		return err
	}

	path, err := a.attendance.Export(ctx, userID, from, to)
	if err != nil {
		return err
	}
	a.printf("Report saved to %s\n", path)
	return nil
}

// Open lists the days of the range that have a clock-in but no clock-out.
func (a *App) Open(ctx context.Context, args []string) error {
	from, to, rest, err := a.parseRange(args)
	if err != nil {
		return err
	}
	userID, err := parseUser(rest, 0)
	if err != nil {
		return err
	}

	target, days, err := a.attendance.OpenDays(ctx, userID, from, to)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		a.printf("No open days for user %d\n", target)
		return nil
	}
	a.printf("Open days of user %d:\n", target)
	for _, d := range days {
		a.printf("  %s (%s)\n", d, d.Weekday())
	}
	return nil
}

// Drafts lists the parked day edits, newest first.
func (a *App) Drafts(ctx context.Context, args []string) error {
	list, err := a.attendance.Drafts(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No drafts")
		return nil
	}
	for _, d := range list {
		a.printf("  user %d  %s  saved %s\n", d.UserID, d.Day, d.UpdatedAt.In(a.loc).Format("2006-01-02 15:04"))
	}
	return nil
}
