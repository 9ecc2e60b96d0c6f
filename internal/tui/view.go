package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dearme/internal/errors"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateCalendar:
		content = docStyle.Render(m.monthModel.View())
	case StateDay:
		content = docStyle.Render(m.dayModel.View())
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active > StateDay {
		active = m.previousState
	}
	var tabs []string
	for i, title := range []string{"Calendar", "Day"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render(errors.Format(m.err))
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	prompt := "Delete " + m.toDelete.Description + " on " + m.toDelete.Date + "?"
	if m.deleteSeries {
		prompt = "Delete every occurrence of " + m.toDelete.Description + "?"
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
