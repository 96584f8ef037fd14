package models

import "time"

// Prediction is the scheduling recommendation for one (user, flashcard) pair.
// It is returned to callers and never persisted.
type Prediction struct {
	FlashcardID           int64     `json:"flashcard_id"`
	UserID                int64     `json:"user_id"`
	OptimalReviewHours    float64   `json:"optimal_review_hours"`
	Confidence            float64   `json:"confidence"` // 0-1
	RecommendedReviewDate time.Time `json:"recommended_review_date"`
	Reason                string    `json:"reason"`
	CreatedAt             time.Time `json:"created_at"`
}
