package notifier

import (
	"time"

	"github.com/samber/mo"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

// onceSchedule fires a single time. After that Next returns the zero time,
// which cron treats as never.
type onceSchedule struct {
	at time.Time
}

func (s onceSchedule) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}

// seriesSchedule fires at a fixed wall-clock time on every step of a series,
// stepping exactly like the expander so monthly triggers clamp to short
// months without drifting.
type seriesSchedule struct {
	anchor  reminder.Date
	cadence models.Cadence
	tod     reminder.TimeOfDay
	end     mo.Option[reminder.Date]
	loc     *time.Location
}

func newSeriesSchedule(trigger reminder.Trigger, end mo.Option[reminder.Date], loc *time.Location) seriesSchedule {
	return seriesSchedule{
		anchor:  trigger.Anchor,
		cadence: trigger.Cadence,
		tod:     trigger.TimeOfDay(),
		end:     end,
		loc:     loc,
	}
}

func (s seriesSchedule) Next(t time.Time) time.Time {
	from := reminder.DateOf(t.In(s.loc))
	if from.Before(s.anchor) {
		from = s.anchor
	}

	// Start one step early so the candidate on the same day is considered.
	n := s.stepsBefore(from) - 1
	if n < 0 {
		n = 0
	}
	for {
		d := reminder.Step(s.anchor, s.cadence, n)
		if end, ok := s.end.Get(); ok && d.After(end) {
			return time.Time{}
		}
		if at := d.At(s.tod, s.loc); at.After(t) {
			return at
		}
		n++
	}
}

func (s seriesSchedule) stepsBefore(d reminder.Date) int {
	switch s.cadence {
	case models.CadenceDaily:
		return d.DaysSince(s.anchor)
	case models.CadenceWeekly:
		return d.DaysSince(s.anchor) / 7
	case models.CadenceMonthly:
		return d.MonthsSince(s.anchor)
	}
	return 0
}
