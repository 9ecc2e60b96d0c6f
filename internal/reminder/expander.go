// Package reminder expands a habit specification into dated occurrences and
// the notification requests that go with them. It performs no I/O.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/julianstephens/dearme/internal/models"
)

// Spec is a user-submitted habit series.
type Spec struct {
	OwnerID       string
	Description   string
	StartDate     mo.Option[Date]      // defaults to today
	TimeOfDay     mo.Option[TimeOfDay] // defaults to now
	Mood          mo.Option[models.Mood]
	Cadence       models.Cadence
	SeriesEndDate mo.Option[Date] // required iff Cadence repeats
}

// Trigger tells the scheduler when to fire. Anchor selects the weekday for
// weekly triggers and the day of month for monthly ones.
type Trigger struct {
	Hour    int
	Minute  int
	Repeats bool
	Cadence models.Cadence
	Anchor  Date
}

func (t Trigger) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: t.Hour, Minute: t.Minute}
}

// Payload is the visible content of a notification.
type Payload struct {
	Title string
	Body  string
}

// NotificationRequest is one schedule(trigger, payload) call.
type NotificationRequest struct {
	SeriesID       string
	OccurrenceDate Date
	SeriesEndDate  mo.Option[Date]
	Trigger        Trigger
	Payload        Payload
}

// Key identifies requests that would produce the same notifications.
func (r NotificationRequest) Key() string {
	anchor := r.OccurrenceDate.String()
	if r.Trigger.Repeats {
		anchor = r.Trigger.Anchor.String()
	}
	return fmt.Sprintf("%s|%s|%v|%s|%s|%s",
		r.Trigger.Cadence, r.Trigger.TimeOfDay(), r.Trigger.Repeats, anchor, r.Payload.Title, r.Payload.Body)
}

// Expander turns specs into series. Now and NewID are injectable for tests.
type Expander struct {
	Now   func() time.Time
	NewID func() string
}

// NewExpander returns an Expander backed by the wall clock and random UUIDs.
func NewExpander() *Expander {
	return &Expander{
		Now:   time.Now,
		NewID: func() string { return uuid.New().String() },
	}
}

// Expand is a convenience wrapper around NewExpander().Expand.
func Expand(spec Spec) ([]models.HabitOccurrence, []NotificationRequest, error) {
	return NewExpander().Expand(spec)
}

// Expand validates spec and returns every occurrence of the series together
// with one notification request per occurrence. Nothing is returned on error.
func (e *Expander) Expand(spec Spec) ([]models.HabitOccurrence, []NotificationRequest, error) {
	description := strings.TrimSpace(spec.Description)
	if description == "" {
		return nil, nil, invalid("description", "must not be empty")
	}

	cadence := spec.Cadence
	if cadence == "" {
		cadence = models.CadenceNone
	}
	if !cadence.Valid() {
		return nil, nil, invalid("cadence", "unknown cadence %q", cadence)
	}

	mood := spec.Mood.OrElse(models.DefaultMood)
	if !mood.Valid() {
		return nil, nil, invalid("mood", "%q is not in the palette", mood)
	}

	now := e.Now()
	start := spec.StartDate.OrElse(DateOf(now))
	if !start.Valid() {
		return nil, nil, invalid("start_date", "%s is not a valid date", start)
	}
	tod := spec.TimeOfDay.OrElse(TimeOfDayOf(now))
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return nil, nil, invalid("time", "%s is not a valid time of day", tod)
	}

	end, hasEnd := spec.SeriesEndDate.Get()
	if hasEnd && !end.Valid() {
		return nil, nil, invalid("series_end_date", "%s is not a valid date", end)
	}
	if cadence.Repeats() {
		if !hasEnd {
			return nil, nil, invalid("series_end_date", "required for %s cadence", cadence)
		}
		if end.Before(start) {
			return nil, nil, invalid("series_end_date", "%s precedes start date %s", end, start)
		}
	}

	seriesID := e.NewID()
	payload := payloadFor(mood, description)
	base := models.HabitOccurrence{
		OwnerID:     spec.OwnerID,
		SeriesID:    seriesID,
		Description: description,
		Time:        tod.String(),
		Mood:        mood,
		Cadence:     cadence,
		CreatedAt:   now,
	}

	if !cadence.Repeats() {
		occ := base
		occ.Date = start.String()
		req := NotificationRequest{
			SeriesID:       seriesID,
			OccurrenceDate: start,
			SeriesEndDate:  mo.None[Date](),
			Trigger:        Trigger{Hour: tod.Hour, Minute: tod.Minute, Cadence: cadence, Anchor: start},
			Payload:        payload,
		}
		return []models.HabitOccurrence{occ}, []NotificationRequest{req}, nil
	}

	var occurrences []models.HabitOccurrence
	var requests []NotificationRequest
	trigger := Trigger{Hour: tod.Hour, Minute: tod.Minute, Repeats: true, Cadence: cadence, Anchor: start}
	for i, cursor := 0, start; !cursor.After(end); i, cursor = i+1, Step(start, cadence, i+1) {
		occ := base
		occ.Date = cursor.String()
		occ.SeriesStartDate = start.String()
		occ.SeriesEndDate = end.String()
		occurrences = append(occurrences, occ)
		requests = append(requests, NotificationRequest{
			SeriesID:       seriesID,
			OccurrenceDate: cursor,
			SeriesEndDate:  mo.Some(end),
			Trigger:        trigger,
			Payload:        payload,
		})
	}

	return occurrences, requests, nil
}

// RequestFromOccurrence rebuilds the notification request of a stored
// occurrence, as Expand produced it when the series was created.
func RequestFromOccurrence(occ models.HabitOccurrence) (NotificationRequest, error) {
	date, err := ParseDate(occ.Date)
	if err != nil {
		return NotificationRequest{}, err
	}
	tod, err := ParseTimeOfDay(occ.Time)
	if err != nil {
		return NotificationRequest{}, err
	}

	req := NotificationRequest{
		SeriesID:       occ.SeriesID,
		OccurrenceDate: date,
		SeriesEndDate:  mo.None[Date](),
		Trigger:        Trigger{Hour: tod.Hour, Minute: tod.Minute, Cadence: occ.Cadence, Anchor: date},
		Payload:        payloadFor(occ.Mood, occ.Description),
	}
	if !occ.Cadence.Repeats() {
		return req, nil
	}

	end, err := ParseDate(occ.SeriesEndDate)
	if err != nil {
		return NotificationRequest{}, err
	}
	req.SeriesEndDate = mo.Some(end)
	req.Trigger.Repeats = true
	if occ.SeriesStartDate != "" {
		if req.Trigger.Anchor, err = ParseDate(occ.SeriesStartDate); err != nil {
			return NotificationRequest{}, err
		}
	}
	return req, nil
}

func payloadFor(mood models.Mood, description string) Payload {
	return Payload{
		Title: fmt.Sprintf("%s Habit reminder", mood),
		Body:  description,
	}
}

// Step returns the n-th date of a series that starts on start. Monthly steps
// are anchored on start's day of month and clamped to shorter months, so the
// series never drifts after passing through February.
func Step(start Date, cadence models.Cadence, n int) Date {
	switch cadence {
	case models.CadenceDaily:
		return start.AddDays(n)
	case models.CadenceWeekly:
		return start.AddDays(7 * n)
	case models.CadenceMonthly:
		return start.AddMonthsClamped(n, start.Day)
	default:
		return start
	}
}
