package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dearme/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	bg := context.Background()
	user, err := ctx.CurrentUser(bg)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	svc, clock, err := habitService(ctx)
	if err != nil {
		return err
	}
	p := tea.NewProgram(tui.NewModel(bg, svc, user.ID, clock), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
