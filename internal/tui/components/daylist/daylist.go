// Package daylist lists the habit occurrences of a single day.
package daylist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
)

type AddHabitMsg struct {
	Date reminder.Date
}

type DeleteHabitMsg struct {
	Habit models.HabitOccurrence
}

type DeleteSeriesMsg struct {
	Habit models.HabitOccurrence
}

type Item struct {
	Habit models.HabitOccurrence
}

func (i Item) Title() string {
	return fmt.Sprintf("%s %s", i.Habit.Mood, i.Habit.Description)
}

func (i Item) Description() string {
	desc := i.Habit.Time
	if i.Habit.Cadence.Repeats() {
		desc += fmt.Sprintf(" | %s until %s", i.Habit.Cadence, i.Habit.SeriesEndDate)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Description }

type KeyMap struct {
	Add          key.Binding
	Delete       key.Binding
	DeleteSeries key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		DeleteSeries: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete series"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	date reminder.Date
}

func New(date reminder.Date, habits []models.HabitOccurrence, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.DeleteSeries}
	}

	m := Model{list: l, keys: keys}
	m.SetHabits(date, habits)
	return m
}

func (m Model) Date() reminder.Date {
	return m.date
}

func (m *Model) SetHabits(date reminder.Date, habits []models.HabitOccurrence) {
	m.date = date
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h}
	}
	m.list.SetItems(items)
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(keyMsg, m.keys.Add):
			date := m.date
			return m, func() tea.Msg { return AddHabitMsg{Date: date} }
		case key.Matches(keyMsg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg(i) }
			}
			return m, nil
		case key.Matches(keyMsg, m.keys.DeleteSeries):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteSeriesMsg(i) }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := m.date.String()
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return header + "\n\n  No habits on this day.\n  Press 'a' to add one."
	}
	return header + "\n\n" + m.list.View()
}
