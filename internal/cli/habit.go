package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/dearme/internal/calendar"
	"github.com/julianstephens/dearme/internal/habits"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/tui"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a habit series."`
	List   HabitListCmd   `cmd:"" help:"List habit occurrences."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete an occurrence or a whole series."`
	Export HabitExportCmd `cmd:"" help:"Export a series as iCalendar or push it to CalDAV."`
}

// habitService expands habits against the configured time zone and returns
// the clock it uses.
func habitService(ctx *Context) (*habits.Service, func() time.Time, error) {
	now, err := ctx.Clock()
	if err != nil {
		return nil, nil, err
	}
	expander := reminder.NewExpander()
	expander.Now = now
	return habits.NewService(ctx.Store, expander), now, nil
}

type HabitAddCmd struct {
	Description string `arg:"" optional:"" help:"What to do."`
	Date        string `short:"d" help:"Start date (YYYY-MM-DD). Defaults to today."`
	Time        string `short:"t" help:"Reminder time (HH:MM). Defaults to now."`
	Mood        string `short:"m" help:"Mood emoji."`
	Cadence     string `short:"c" help:"Repeat cadence (none|daily|weekly|monthly)." default:"none" enum:"none,daily,weekly,monthly"`
	Until       string `short:"u" help:"Last date of a repeating series (YYYY-MM-DD)."`
	Interactive bool   `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}

	svc, clock, err := habitService(ctx)
	if err != nil {
		return err
	}

	fm := &tui.HabitFormModel{
		Description: c.Description,
		Date:        c.Date,
		Time:        c.Time,
		Mood:        models.Mood(c.Mood),
		Cadence:     models.Cadence(c.Cadence),
		EndDate:     c.Until,
	}
	if c.Interactive {
		now := clock()
		defaults := tui.NewHabitFormModel(reminder.DateOf(now), reminder.TimeOfDayOf(now))
		defaults.Description = fm.Description
		if fm.Date != "" {
			defaults.Date = fm.Date
		}
		if fm.Time != "" {
			defaults.Time = fm.Time
		}
		fm = defaults
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return err
		}
	} else if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("a description is required (or use --interactive)")
	}

	spec, err := fm.Spec()
	if err != nil {
		return err
	}

	occs, err := svc.Add(bg, user.ID, spec)
	if err != nil {
		return err
	}

	first := occs[0]
	ctx.printf("Added %s %s (series %s)\n", first.Mood, first.Description, first.SeriesID)
	if first.Cadence.Repeats() {
		ctx.printf("  %s at %s, %d occurrence(s) from %s to %s\n",
			first.Cadence, first.Time, len(occs), first.Date, first.SeriesEndDate)
	} else {
		ctx.printf("  %s at %s\n", first.Date, first.Time)
	}
	ctx.println("Reminders are delivered by 'dearme daemon'.")
	return nil
}

type HabitListCmd struct {
	Date string `short:"d" help:"Only this day (YYYY-MM-DD or 'today')."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}

	svc, clock, err := habitService(ctx)
	if err != nil {
		return err
	}

	var date reminder.Date
	switch c.Date {
	case "":
	case "today":
		date = reminder.DateOf(clock())
	default:
		if date, err = reminder.ParseDate(c.Date); err != nil {
			return err
		}
	}

	occs, err := svc.List(bg, user.ID, date)
	if err != nil {
		return err
	}
	if len(occs) == 0 {
		ctx.println("No habits found")
		return nil
	}

	for _, occ := range occs {
		line := fmt.Sprintf("  %s %s  %s %s", occ.Date, occ.Time, occ.Mood, occ.Description)
		if occ.Cadence.Repeats() {
			line += fmt.Sprintf(" (%s)", occ.Cadence)
		}
		ctx.printf("%s\n      id: %s  series: %s\n", line, occ.ID, occ.SeriesID)
	}
	return nil
}

type HabitDeleteCmd struct {
	ID     string `arg:"" help:"Occurrence ID, or series ID with --series."`
	Series bool   `short:"s" help:"Delete every occurrence of the series."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	svc, _, err := habitService(ctx)
	if err != nil {
		return err
	}
	if c.Series {
		n, err := svc.DeleteSeries(bg, user.ID, c.ID)
		if err != nil {
			return err
		}
		ctx.printf("Deleted %d occurrence(s) of series %s\n", n, c.ID)
		return nil
	}

	if err := svc.Delete(bg, user.ID, c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit %s\n", c.ID)
	return nil
}

type HabitExportCmd struct {
	SeriesID string `arg:"" help:"Series to export."`
	Output   string `short:"o" help:"Write the .ics file here instead of stdout." type:"path"`
	Push     bool   `help:"Push the series to a CalDAV collection."`

	CalDAVURL        string `name:"caldav-url" help:"CalDAV server URL." env:"DEARME_CALDAV_URL"`
	CalDAVUsername   string `name:"caldav-username" help:"CalDAV username." env:"DEARME_CALDAV_USERNAME"`
	CalDAVPassword   string `name:"caldav-password" help:"CalDAV password." env:"DEARME_CALDAV_PASSWORD"`
	CalDAVCollection string `name:"caldav-collection" help:"Calendar collection path." env:"DEARME_CALDAV_COLLECTION"`
}

func (c *HabitExportCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	svc, _, err := habitService(ctx)
	if err != nil {
		return err
	}
	occs, err := svc.Series(bg, user.ID, c.SeriesID)
	if err != nil {
		return err
	}

	if c.Push {
		pusher, err := calendar.NewPusher(calendar.CalDAVConfig{
			URL:        c.CalDAVURL,
			Username:   c.CalDAVUsername,
			Password:   c.CalDAVPassword,
			Collection: c.CalDAVCollection,
		})
		if err != nil {
			return err
		}
		n, err := pusher.Push(bg, occs, loc)
		if err != nil {
			return err
		}
		ctx.printf("Pushed %d occurrence(s) to %s\n", n, c.CalDAVCollection)
		return nil
	}

	cal, err := calendar.Export(occs, loc)
	if err != nil {
		return err
	}

	var w io.Writer = ctx.Out
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}
	if err := calendar.Write(w, cal); err != nil {
		return err
	}
	if c.Output != "" {
		ctx.printf("Exported %d occurrence(s) to %s\n", len(occs), c.Output)
	}
	return nil
}
