package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/samber/mo"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

// HabitFormModel holds the raw values of the add-habit form.
type HabitFormModel struct {
	Description string
	Date        string
	Time        string
	Mood        models.Mood
	Cadence     models.Cadence
	EndDate     string
}

// NewHabitFormModel prefills the form for date at tod.
func NewHabitFormModel(date reminder.Date, tod reminder.TimeOfDay) *HabitFormModel {
	return &HabitFormModel{
		Date:    date.String(),
		Time:    tod.String(),
		Mood:    models.DefaultMood,
		Cadence: models.CadenceNone,
	}
}

// NewHabitForm builds the huh form bound to fm.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	moods := make([]huh.Option[models.Mood], len(models.Moods))
	for i, mood := range models.Moods {
		moods[i] = huh.NewOption(string(mood), mood)
	}
	cadences := make([]huh.Option[models.Cadence], len(models.Cadences))
	for i, c := range models.Cadences {
		cadences[i] = huh.NewOption(strings.ToUpper(string(c[:1]))+string(c[1:]), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Value(&fm.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(validDate),
			huh.NewInput().
				Title("Time").
				Description("HH:MM").
				Value(&fm.Time).
				Validate(func(s string) error {
					_, err := reminder.ParseTimeOfDay(strings.TrimSpace(s))
					return err
				}),
			huh.NewSelect[models.Mood]().
				Title("Mood").
				Options(moods...).
				Value(&fm.Mood),
			huh.NewSelect[models.Cadence]().
				Title("Repeat").
				Options(cadences...).
				Value(&fm.Cadence),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Repeat until").
				Description("YYYY-MM-DD").
				Value(&fm.EndDate).
				Validate(validDate),
		).WithHideFunc(func() bool { return !fm.Cadence.Repeats() }),
	)
}

func validDate(s string) error {
	_, err := reminder.ParseDate(strings.TrimSpace(s))
	return err
}

// Spec converts the form values into a habit specification. Empty date and
// time fields fall back to the expander defaults.
func (fm *HabitFormModel) Spec() (reminder.Spec, error) {
	spec := reminder.Spec{
		Description: fm.Description,
		Cadence:     fm.Cadence,
	}
	if fm.Mood != "" {
		spec.Mood = mo.Some(fm.Mood)
	}

	if s := strings.TrimSpace(fm.Date); s != "" {
		d, err := reminder.ParseDate(s)
		if err != nil {
			return reminder.Spec{}, err
		}
		spec.StartDate = mo.Some(d)
	}
	if s := strings.TrimSpace(fm.Time); s != "" {
		tod, err := reminder.ParseTimeOfDay(s)
		if err != nil {
			return reminder.Spec{}, err
		}
		spec.TimeOfDay = mo.Some(tod)
	}
	if fm.Cadence.Repeats() {
		if s := strings.TrimSpace(fm.EndDate); s != "" {
			end, err := reminder.ParseDate(s)
			if err != nil {
				return reminder.Spec{}, err
			}
			spec.SeriesEndDate = mo.Some(end)
		}
	}
	return spec, nil
}
