// Package month renders a month grid with one to three habit dots per day.
package month

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dearme/internal/calendar"
	"github.com/julianstephens/dearme/internal/reminder"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Center)

	dayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center)

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = dayStyle.
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("229"))

	dotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
)

const cellWidth = 5

// ChangedMsg is sent when the cursor leaves the displayed month.
type ChangedMsg struct {
	Year  int
	Month time.Month
}

// SelectMsg is sent when a day is chosen.
type SelectMsg struct {
	Date reminder.Date
}

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Select    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next month"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open day"),
		),
	}
}

type Model struct {
	keys   KeyMap
	cursor reminder.Date
	marks  []calendar.Mark
}

func New(cursor reminder.Date) Model {
	return Model{keys: DefaultKeyMap(), cursor: cursor}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Cursor() reminder.Date {
	return m.cursor
}

// SetMarks replaces the marks of the displayed month.
func (m *Model) SetMarks(marks []calendar.Mark) {
	m.marks = marks
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	next := m.cursor
	switch {
	case key.Matches(keyMsg, m.keys.Left):
		next = m.cursor.AddDays(-1)
	case key.Matches(keyMsg, m.keys.Right):
		next = m.cursor.AddDays(1)
	case key.Matches(keyMsg, m.keys.Up):
		next = m.cursor.AddDays(-7)
	case key.Matches(keyMsg, m.keys.Down):
		next = m.cursor.AddDays(7)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		next = m.cursor.AddMonthsClamped(-1, m.cursor.Day)
	case key.Matches(keyMsg, m.keys.NextMonth):
		next = m.cursor.AddMonthsClamped(1, m.cursor.Day)
	case key.Matches(keyMsg, m.keys.Select):
		d := m.cursor
		return m, func() tea.Msg { return SelectMsg{Date: d} }
	default:
		return m, nil
	}

	changed := next.Year != m.cursor.Year || next.Month != m.cursor.Month
	m.cursor = next
	if changed {
		m.marks = nil
		y, mo := next.Year, next.Month
		return m, func() tea.Msg { return ChangedMsg{Year: y, Month: mo} }
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := time.Date(m.cursor.Year, m.cursor.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		b.WriteString(weekdayStyle.Render(wd.String()[:2]))
	}
	b.WriteString("\n")

	lead := int(m.cursor.In(time.UTC).AddDate(0, 0, 1-m.cursor.Day).Weekday())
	b.WriteString(strings.Repeat(" ", lead*cellWidth))

	days := reminder.DaysIn(m.cursor.Year, m.cursor.Month)
	var dots strings.Builder
	dots.WriteString(strings.Repeat(" ", lead*cellWidth))
	for day := 1; day <= days; day++ {
		b.WriteString(m.styleFor(day).Render(fmt.Sprintf("%2d", day)))
		dots.WriteString(dayStyle.Render(dotStyle.Render(strings.Repeat("•", m.dots(day)))))

		if (lead+day)%7 == 0 || day == days {
			b.WriteString("\n")
			b.WriteString(dots.String())
			b.WriteString("\n")
			dots.Reset()
		}
	}
	return b.String()
}

func (m Model) styleFor(day int) lipgloss.Style {
	switch {
	case day == m.cursor.Day:
		return cursorStyle
	case m.mark(day).Today:
		return todayStyle
	}
	return dayStyle
}

func (m Model) dots(day int) int {
	return m.mark(day).Dots
}

func (m Model) mark(day int) calendar.Mark {
	if day-1 < len(m.marks) {
		return m.marks[day-1]
	}
	return calendar.Mark{}
}

// SetCursor moves the cursor and reports whether the month changed.
func (m *Model) SetCursor(d reminder.Date) bool {
	changed := d.Year != m.cursor.Year || d.Month != m.cursor.Month
	m.cursor = d
	if changed {
		m.marks = nil
	}
	return changed
}
