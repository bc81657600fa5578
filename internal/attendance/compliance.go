package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/punchclock/internal/timex"
)

// ScheduleDay is the expected working time for one weekday (Sunday = 0).
type ScheduleDay struct {
	DayOfWeek     int     `json:"day_of_week" yaml:"day_of_week"`
	ExpectedHours float64 `json:"expected_hours" yaml:"expected_hours"`
}

// SchedulePlan is a named weekly schedule shared by many users.
type SchedulePlan struct {
	ID   int64         `json:"id" yaml:"-"`
	Name string        `json:"name" yaml:"name"`
	Days []ScheduleDay `json:"days" yaml:"days"`
}

// Validate checks the plan's invariants: weekdays 0–6, at most one entry per
// weekday, non-negative hours.
func (p *SchedulePlan) Validate() error {
	seen := make(map[int]bool, len(p.Days))
	for _, d := range p.Days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return fmt.Errorf("plan %q: day of week %d out of range", p.Name, d.DayOfWeek)
		}
		if d.ExpectedHours < 0 {
			return fmt.Errorf("plan %q: negative hours for day %d", p.Name, d.DayOfWeek)
		}
		if seen[d.DayOfWeek] {
			return fmt.Errorf("plan %q: day %d listed twice", p.Name, d.DayOfWeek)
		}
		seen[d.DayOfWeek] = true
	}
	return nil
}

// ExpectedHours returns the hours scheduled for weekday wd, 0 when the plan is
// nil or has no entry for that day.
func (p *SchedulePlan) ExpectedHours(wd time.Weekday) float64 {
	if p == nil {
		return 0
	}
	for _, d := range p.Days {
		if d.DayOfWeek == int(wd) {
			return d.ExpectedHours
		}
	}
	return 0
}

// DailyVerdict is the derived compliance record of one calendar day.
type DailyVerdict struct {
	Date          timex.Date `json:"date"`
	DayOfWeek     int        `json:"day_of_week"`
	ExpectedHours float64    `json:"expected_hours"`
	ActualHours   float64    `json:"actual_hours"`
	IsWorkDay     bool       `json:"is_work_day"`
	Compliant     bool       `json:"compliant"`
}

// Evaluate produces one verdict per day of [from, to], in order. Events may
// cover more than the range and arrive in any order; each day only sees the
// events falling on it in loc. A reversed range yields an empty result.
func Evaluate(plan *SchedulePlan, events []Event, from, to timex.Date, loc *time.Location) []DailyVerdict {
	days := timex.Days(from, to)
	if len(days) == 0 {
		return []DailyVerdict{}
	}

	byDay := GroupByDay(events, loc)

	verdicts := make([]DailyVerdict, 0, len(days))
	for _, d := range days {
		expected := plan.ExpectedHours(d.Weekday())
		actual := WorkedHours(Sorted(byDay[d]))
		verdicts = append(verdicts, DailyVerdict{
			Date:          d,
			DayOfWeek:     int(d.Weekday()),
			ExpectedHours: expected,
			ActualHours:   actual,
			IsWorkDay:     expected > 0,
			Compliant:     actual >= expected,
		})
	}
	return verdicts
}

// GroupByDay partitions events by their calendar date in loc. Order inside a
// bucket follows the input.
func GroupByDay(events []Event, loc *time.Location) map[timex.Date][]Event {
	out := make(map[timex.Date][]Event)
	for _, e := range events {
		d := timex.DateIn(e.Timestamp, loc)
		out[d] = append(out[d], e)
	}
	return out
}

// OpenDays returns, in date order, the days that have a ClockIn but no
// ClockOut: shifts somebody forgot to close.
func OpenDays(events []Event, loc *time.Location) []timex.Date {
	byDay := GroupByDay(events, loc)

	var open []timex.Date
	for d, evs := range byDay {
		var in, out bool
		for _, e := range evs {
			in = in || e.Type == ClockIn
			out = out || e.Type == ClockOut
		}
		if in && !out {
			open = append(open, d)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Before(open[j]) })
	return open
}
