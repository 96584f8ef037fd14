// Package patterns maintains per-user learning aggregates consumed as model
// features and updated by the training data curator.
package patterns

import (
	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/pkg/models"
)

// Defaults for users with no curated samples yet
const (
	DefaultRetentionRate   = 70.0
	DefaultForgettingSpeed = 1.0
)

// Tracker exposes per-user learning patterns with sensible defaults
type Tracker struct {
	patterns *database.LearningPatternRepository
}

// NewTracker creates a new tracker instance
func NewTracker() *Tracker {
	return &Tracker{patterns: database.NewLearningPatternRepository()}
}

// Get returns the user's pattern, or a default (not persisted) when none
// exists yet
func (t *Tracker) Get(userID int64) (*models.LearningPattern, error) {
	pattern, err := t.patterns.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		return &models.LearningPattern{
			UserID:               userID,
			AverageRetentionRate: DefaultRetentionRate,
			ForgettingSpeed:      DefaultForgettingSpeed,
			SessionsProcessed:    0,
		}, nil
	}
	return pattern, nil
}

// Blend folds a new retention/forgetting sample into the user's pattern.
// The first sample seeds the pattern; later samples replace the stored values
// with the plain mean of old and new. This is a two-point average, not a
// count-weighted one.
func (t *Tracker) Blend(userID int64, retentionRate, forgettingSpeed float64) error {
	pattern, err := t.patterns.GetByUser(userID)
	if err != nil {
		return err
	}
	if pattern == nil {
		return t.patterns.Create(&models.LearningPattern{
			UserID:               userID,
			AverageRetentionRate: retentionRate,
			ForgettingSpeed:      forgettingSpeed,
			SessionsProcessed:    1,
		})
	}
	pattern.AverageRetentionRate = (pattern.AverageRetentionRate + retentionRate) / 2
	pattern.ForgettingSpeed = (pattern.ForgettingSpeed + forgettingSpeed) / 2
	pattern.SessionsProcessed++
	return t.patterns.Update(pattern)
}
