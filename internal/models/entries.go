package models

import "time"

// JournalEntry is a free-form journal page
type JournalEntry struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	Entry     string    `json:"entry" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Gratitude is a single item of the gratitude list
type Gratitude struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	Gratitude string    `json:"gratitude" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Reflection is a daily reflection note
type Reflection struct {
	ID         string    `json:"id,omitempty"`
	OwnerID    string    `json:"owner_id"`
	Reflection string    `json:"reflection" validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
}

// ABCDE holds one cognitive reframing exercise.
// A: activating event, B: beliefs, C: consequences, D: disputation, E: new effect.
type ABCDE struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	A         string    `json:"a" validate:"required"`
	B         string    `json:"b" validate:"required"`
	C         string    `json:"c" validate:"required"`
	D         string    `json:"d" validate:"required"`
	E         string    `json:"e" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal is one of today's goals
type Goal struct {
	ID        string    `json:"id,omitempty"`
	OwnerID   string    `json:"owner_id"`
	Goal      string    `json:"goal" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}
