package models

import "time"

// Cadence is the recurrence interval of a habit series
type Cadence string

const (
	CadenceNone    Cadence = "none"
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// Cadences lists every supported cadence in display order.
var Cadences = []Cadence{CadenceNone, CadenceDaily, CadenceWeekly, CadenceMonthly}

// Valid reports whether c is one of the known cadences.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceNone, CadenceDaily, CadenceWeekly, CadenceMonthly:
		return true
	}
	return false
}

// Repeats reports whether the cadence produces more than one occurrence.
func (c Cadence) Repeats() bool {
	return c != CadenceNone && c != ""
}

// Mood is a purely descriptive marker attached to a habit occurrence
type Mood string

// DefaultMood is used when no mood is supplied.
const DefaultMood Mood = "🙂"

// Moods is the fixed palette offered when adding a habit.
var Moods = []Mood{"🙂", "😌", "😅", "😔", "😎", "😂", "😍", "🤔", "😴", "🤩"}

// Valid reports whether m belongs to the palette.
func (m Mood) Valid() bool {
	for _, candidate := range Moods {
		if m == candidate {
			return true
		}
	}
	return false
}

// HabitOccurrence is one concrete dated instance of a habit series
type HabitOccurrence struct {
	ID              string    `json:"id,omitempty"`
	OwnerID         string    `json:"owner_id"`
	SeriesID        string    `json:"series_id"`
	Description     string    `json:"description"`
	Date            string    `json:"date"` // YYYY-MM-DD format
	Time            string    `json:"time"` // HH:MM format
	Mood            Mood      `json:"mood"`
	Cadence         Cadence   `json:"cadence"`
	SeriesStartDate string    `json:"series_start_date,omitempty"` // YYYY-MM-DD, anchors recurring triggers
	SeriesEndDate   string    `json:"series_end_date,omitempty"`   // YYYY-MM-DD, unset for single occurrences
	CreatedAt       time.Time `json:"created_at"`
}
