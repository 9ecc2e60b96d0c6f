package notifier

import (
	"testing"
	"time"

	"github.com/samber/mo"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

func TestOnceSchedule(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := onceSchedule{at: at}

	if got := s.Next(at.Add(-time.Hour)); !got.Equal(at) {
		t.Errorf("Next(before) = %v, want %v", got, at)
	}
	if got := s.Next(at); !got.IsZero() {
		t.Errorf("Next(at) = %v, want zero", got)
	}
}

// fireTimes collects every firing of s starting at from.
func fireTimes(s seriesSchedule, from time.Time, limit int) []string {
	var out []string
	t := from
	for i := 0; i < limit; i++ {
		t = s.Next(t)
		if t.IsZero() {
			break
		}
		out = append(out, t.Format("2006-01-02 15:04"))
	}
	return out
}

func TestSeriesSchedule(t *testing.T) {
	tests := []struct {
		name    string
		cadence models.Cadence
		anchor  reminder.Date
		end     mo.Option[reminder.Date]
		from    time.Time
		want    []string
	}{
		{
			name:    "daily from before anchor",
			cadence: models.CadenceDaily,
			anchor:  reminder.NewDate(2024, time.February, 28),
			end:     mo.Some(reminder.NewDate(2024, time.March, 1)),
			from:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want:    []string{"2024-02-28 07:30", "2024-02-29 07:30", "2024-03-01 07:30"},
		},
		{
			name:    "weekly keeps the anchor weekday",
			cadence: models.CadenceWeekly,
			anchor:  reminder.NewDate(2024, time.March, 1),
			end:     mo.Some(reminder.NewDate(2024, time.March, 22)),
			from:    time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
			want:    []string{"2024-03-08 07:30", "2024-03-15 07:30", "2024-03-22 07:30"},
		},
		{
			name:    "monthly clamps without drifting",
			cadence: models.CadenceMonthly,
			anchor:  reminder.NewDate(2024, time.January, 31),
			end:     mo.Some(reminder.NewDate(2024, time.April, 30)),
			from:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want:    []string{"2024-01-31 07:30", "2024-02-29 07:30", "2024-03-31 07:30", "2024-04-30 07:30"},
		},
		{
			name:    "same day before the time still fires",
			cadence: models.CadenceDaily,
			anchor:  reminder.NewDate(2024, time.March, 1),
			end:     mo.Some(reminder.NewDate(2024, time.March, 2)),
			from:    time.Date(2024, 3, 2, 7, 29, 0, 0, time.UTC),
			want:    []string{"2024-03-02 07:30"},
		},
		{
			name:    "after end never fires",
			cadence: models.CadenceWeekly,
			anchor:  reminder.NewDate(2024, time.March, 1),
			end:     mo.Some(reminder.NewDate(2024, time.March, 8)),
			from:    time.Date(2024, 3, 8, 8, 0, 0, 0, time.UTC),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeriesSchedule(reminder.Trigger{
				Hour:    7,
				Minute:  30,
				Repeats: true,
				Cadence: tt.cadence,
				Anchor:  tt.anchor,
			}, tt.end, time.UTC)

			got := fireTimes(s, tt.from, 50)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("firing %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSeriesScheduleUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	s := newSeriesSchedule(reminder.Trigger{
		Hour:    8,
		Repeats: true,
		Cadence: models.CadenceDaily,
		Anchor:  reminder.NewDate(2024, time.March, 1),
	}, mo.Some(reminder.NewDate(2024, time.March, 1)), loc)

	got := s.Next(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	want := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
}
