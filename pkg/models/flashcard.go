package models

import "time"

// Flashcard represents a single learning item shown during review sessions
type Flashcard struct {
	ID        int64     `json:"id" db:"id"`
	Front     string    `json:"front" db:"front"`
	Back      string    `json:"back" db:"back"`
	Deck      string    `json:"deck" db:"deck"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
