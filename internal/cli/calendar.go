package cli

import (
	"context"
	"time"

	"github.com/julianstephens/dearme/internal/calendar"
	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/tui/components/month"
)

type CalendarCmd struct {
	Month string `short:"m" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}

	svc, clock, err := habitService(ctx)
	if err != nil {
		return err
	}

	cursor := reminder.DateOf(clock())
	if c.Month != "" {
		t, err := time.Parse(constants.MonthFormat, c.Month)
		if err != nil {
			return err
		}
		cursor = reminder.DateOf(t)
	}

	marks, err := calendar.NewService(svc).WithClock(clock).Month(bg, user.ID, cursor.Year, cursor.Month)
	if err != nil {
		return err
	}

	view := month.New(cursor)
	view.SetMarks(marks)
	ctx.println(view.View())

	total := 0
	for _, m := range marks {
		total += m.Count
	}
	ctx.printf("%d habit(s) this month\n", total)
	return nil
}
