// Package calendar builds month views of habit occurrences and exports
// series to iCalendar and CalDAV.
package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

// MaxDots caps the dot level of a day.
const MaxDots = 3

// Mark summarises one day of a month view.
type Mark struct {
	Date  reminder.Date
	Count int
	Dots  int
	Today bool
}

// DotsFor returns one dot per habit, up to MaxDots.
func DotsFor(count int) int {
	if count > MaxDots {
		return MaxDots
	}
	return count
}

// BuildMonth returns one Mark per day of month, in order.
func BuildMonth(year int, month time.Month, occs []models.HabitOccurrence, today reminder.Date) []Mark {
	counts := make(map[string]int)
	for _, occ := range occs {
		counts[occ.Date]++
	}

	days := reminder.DaysIn(year, month)
	marks := make([]Mark, days)
	for i := range marks {
		d := reminder.NewDate(year, month, i+1)
		n := counts[d.String()]
		marks[i] = Mark{Date: d, Count: n, Dots: DotsFor(n), Today: d == today}
	}
	return marks
}

// HabitLister is the read side of the habit store.
type HabitLister interface {
	List(ctx context.Context, ownerID string, date reminder.Date) ([]models.HabitOccurrence, error)
}

type Service struct {
	habits HabitLister
	now    func() time.Time
}

func NewService(habits HabitLister) *Service {
	return &Service{habits: habits, now: time.Now}
}

// WithClock sets the clock that decides which day is flagged as today.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Month marks every day of the given month for ownerID.
func (s *Service) Month(ctx context.Context, ownerID string, year int, month time.Month) ([]Mark, error) {
	all, err := s.habits.List(ctx, ownerID, reminder.Date{})
	if err != nil {
		return nil, err
	}

	prefix := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(constants.MonthFormat) + "-"
	var inMonth []models.HabitOccurrence
	for _, occ := range all {
		if strings.HasPrefix(occ.Date, prefix) {
			inMonth = append(inMonth, occ)
		}
	}
	return BuildMonth(year, month, inMonth, reminder.DateOf(s.now())), nil
}

// HabitsOn lists the occurrences of one day.
func (s *Service) HabitsOn(ctx context.Context, ownerID string, date reminder.Date) ([]models.HabitOccurrence, error) {
	return s.habits.List(ctx, ownerID, date)
}
