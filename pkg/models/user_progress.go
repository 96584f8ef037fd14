package models

import "time"

// UserProgress tracks a user's spaced-repetition state for a specific flashcard.
// There is at most one record per (user, flashcard) pair.
type UserProgress struct {
	ID                int64      `json:"id" db:"id"`
	UserID            int64      `json:"user_id" db:"user_id"`
	FlashcardID       int64      `json:"flashcard_id" db:"flashcard_id"`
	EaseFactor        float64    `json:"ease_factor" db:"ease_factor"`                 // SM-2 style easiness factor
	IntervalDays      int        `json:"interval_days" db:"interval_days"`             // Current interval in days
	Repetitions       int        `json:"repetitions" db:"repetitions"`                 // Number of successful reviews
	CorrectAfterBreak float64    `json:"correct_after_break" db:"correct_after_break"` // Recall rate after a long gap, 0-100
	IsMastered        bool       `json:"is_mastered" db:"is_mastered"`
	IsSynthetic       bool       `json:"is_synthetic" db:"is_synthetic"` // Row was fabricated by the synthetic generator
	LastReviewedAt    *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewDate    time.Time  `json:"next_review_date" db:"next_review_date"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
