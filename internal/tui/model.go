// Package tui is the interactive month calendar.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dearme/internal/calendar"
	"github.com/julianstephens/dearme/internal/habits"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/tui/components/daylist"
	"github.com/julianstephens/dearme/internal/tui/components/month"
)

// Initial component size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 60
	defaultHeight = 20
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateAddHabit
	StateConfirmDelete
)

type Model struct {
	ctx           context.Context
	ownerID       string
	habits        *habits.Service
	calendar      *calendar.Service
	now           func() time.Time
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	monthModel    month.Model
	dayModel      daylist.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	toDelete      models.HabitOccurrence
	deleteSeries  bool
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

// NewModel builds the calendar for ownerID. now decides which day is today
// and defaults new habits to its date and time.
func NewModel(ctx context.Context, svc *habits.Service, ownerID string, now func() time.Time) Model {
	return newModel(ctx, svc, ownerID, now)
}

func newModel(ctx context.Context, svc *habits.Service, ownerID string, now func() time.Time) Model {
	today := reminder.DateOf(now())
	m := Model{
		ctx:        ctx,
		ownerID:    ownerID,
		habits:     svc,
		calendar:   calendar.NewService(svc).WithClock(now),
		now:        now,
		state:      StateCalendar,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		monthModel: month.New(today),
		dayModel:   daylist.New(today, nil, defaultWidth, defaultHeight),
	}
	m.refresh()
	return m
}

// refresh reloads the marks of the displayed month and the selected day.
func (m *Model) refresh() {
	cursor := m.monthModel.Cursor()
	marks, err := m.calendar.Month(m.ctx, m.ownerID, cursor.Year, cursor.Month)
	if err != nil {
		m.err = err
		return
	}
	m.monthModel.SetMarks(marks)

	day, err := m.calendar.HabitsOn(m.ctx, m.ownerID, cursor)
	if err != nil {
		m.err = err
		return
	}
	m.dayModel.SetHabits(cursor, day)
	m.err = nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCalendar:
		mk := m.monthModel.Keys()
		keys = append(keys, mk.Select, m.keys.Today)
	case StateDay:
		dk := daylist.DefaultKeyMap()
		keys = append(keys, dk.Add, dk.Delete)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Today}
	mk := m.monthModel.Keys()
	calendarKeys := []key.Binding{mk.Left, mk.Right, mk.Up, mk.Down, mk.PrevMonth, mk.NextMonth, mk.Select}
	dk := daylist.DefaultKeyMap()
	dayKeys := []key.Binding{dk.Add, dk.Delete, dk.DeleteSeries}
	return [][]key.Binding{global, calendarKeys, dayKeys}
}

func (m Model) Init() tea.Cmd {
	return nil
}
