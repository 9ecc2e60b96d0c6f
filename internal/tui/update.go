package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/tui/components/daylist"
	"github.com/julianstephens/dearme/internal/tui/components/month"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.dayModel.SetSize(size.Width-4, size.Height-8)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case month.ChangedMsg, month.SelectMsg:
		m.refresh()
		if _, ok := msg.(month.SelectMsg); ok {
			m.state = StateDay
		}
		return m, nil

	case daylist.AddHabitMsg:
		m.habitForm = NewHabitFormModel(msg.Date, reminder.TimeOfDayOf(m.now()))
		m.form = NewHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = StateAddHabit
		return m, m.form.Init()

	case daylist.DeleteHabitMsg:
		m.toDelete = msg.Habit
		m.deleteSeries = false
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case daylist.DeleteSeriesMsg:
		m.toDelete = msg.Habit
		m.deleteSeries = true
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == StateCalendar {
				m.state = StateDay
			} else {
				m.state = StateCalendar
			}
			return m, nil
		case key.Matches(msg, m.keys.Today) && m.state == StateCalendar:
			m.monthModel.SetCursor(reminder.DateOf(m.now()))
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateCalendar:
		before := m.monthModel.Cursor()
		m.monthModel, cmd = m.monthModel.Update(msg)
		after := m.monthModel.Cursor()
		if after != before && after.Year == before.Year && after.Month == before.Month {
			m.refresh()
		}
	case StateDay:
		m.dayModel, cmd = m.dayModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateDay
		if err := m.addHabit(); err != nil {
			m.err = err
			return m, cmd
		}
		m.refresh()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) addHabit() error {
	spec, err := m.habitForm.Spec()
	if err != nil {
		return err
	}
	occs, err := m.habits.Add(m.ctx, m.ownerID, spec)
	if err != nil && len(occs) == 0 {
		return err
	}
	if err != nil {
		logger.Warn("Habit stored without reminders", "error", err)
	}
	m.status = fmt.Sprintf("Added %d occurrence(s)", len(occs))
	m.monthModel.SetCursor(parseOr(occs[0].Date, m.monthModel.Cursor()))
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.state = m.previousState
		if err := m.deleteSelected(); err != nil {
			m.err = err
			return m, nil
		}
		m.refresh()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = m.previousState
	}
	return m, nil
}

func (m *Model) deleteSelected() error {
	if m.deleteSeries {
		n, err := m.habits.DeleteSeries(m.ctx, m.ownerID, m.toDelete.SeriesID)
		if err != nil {
			return err
		}
		m.status = fmt.Sprintf("Deleted %d occurrence(s)", n)
		return nil
	}
	if err := m.habits.Delete(m.ctx, m.ownerID, m.toDelete.ID); err != nil {
		return err
	}
	m.status = "Deleted " + m.toDelete.Description
	return nil
}

func parseOr(s string, fallback reminder.Date) reminder.Date {
	d, err := reminder.ParseDate(s)
	if err != nil {
		return fallback
	}
	return d
}

// Err returns the last error shown in the status line.
func (m Model) Err() error {
	return m.err
}
