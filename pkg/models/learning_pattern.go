package models

import "time"

// LearningPattern holds per-user aggregate memory-performance statistics
// consumed as model features
type LearningPattern struct {
	ID                   int64     `json:"id" db:"id"`
	UserID               int64     `json:"user_id" db:"user_id"`
	AverageRetentionRate float64   `json:"average_retention_rate" db:"average_retention_rate"` // 0-100
	ForgettingSpeed      float64   `json:"forgetting_speed" db:"forgetting_speed"`             // nominal range 0.1-5.0
	SessionsProcessed    int       `json:"sessions_processed" db:"sessions_processed"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
