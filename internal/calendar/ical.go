package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

// EventDuration is the length given to exported reminders.
const EventDuration = 15 * time.Minute

// NewCalendar returns an empty VCALENDAR carrying the product id.
func NewCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, constants.ICalProductID)
	return cal
}

// EventUID is stable per occurrence so re-exports overwrite instead of duplicating.
func EventUID(occ models.HabitOccurrence) string {
	return fmt.Sprintf("%s-%s@%s", occ.SeriesID, occ.Date, constants.AppName)
}

// NewEvent converts one occurrence into a VEVENT in loc.
func NewEvent(occ models.HabitOccurrence, loc *time.Location) (*ical.Event, error) {
	date, err := reminder.ParseDate(occ.Date)
	if err != nil {
		return nil, err
	}
	tod, err := reminder.ParseTimeOfDay(occ.Time)
	if err != nil {
		return nil, err
	}
	start := date.At(tod, loc)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, EventUID(occ))
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s %s", occ.Mood, occ.Description))
	event.Props.SetText(ical.PropDescription, describe(occ))
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(EventDuration))
	stamp := occ.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	return event, nil
}

func describe(occ models.HabitOccurrence) string {
	if !occ.Cadence.Repeats() {
		return "One-off habit"
	}
	return fmt.Sprintf("Repeats %s until %s", occ.Cadence, occ.SeriesEndDate)
}

// Export builds one calendar holding a VEVENT per occurrence.
func Export(occs []models.HabitOccurrence, loc *time.Location) (*ical.Calendar, error) {
	cal := NewCalendar()
	for _, occ := range occs {
		event, err := NewEvent(occ, loc)
		if err != nil {
			return nil, fmt.Errorf("occurrence %s: %w", occ.Date, err)
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return cal, nil
}

// Write encodes cal as text/calendar.
func Write(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
