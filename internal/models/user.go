package models

import "time"

// User is a registered account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Video is an entry of the shared meditation video library
type Video struct {
	ID          string    `json:"id,omitempty" yaml:"-"`
	Title       string    `json:"title" yaml:"title" validate:"required"`
	URL         string    `json:"url" yaml:"url" validate:"required,url"`
	Thumbnail   string    `json:"thumbnail,omitempty" yaml:"thumbnail" validate:"omitempty,url"`
	DurationMin int       `json:"duration_min,omitempty" yaml:"duration_min" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}
