// Package features turns progress records and learning patterns into the
// fixed-order numeric vectors consumed by the review-time regressor.
package features

import (
	"time"

	"github.com/example/reviewengine/pkg/models"
)

// Dim is the number of features in the trained vector
const Dim = 7

// Input carries the raw quantities for one (user, flashcard) pair. IsMastered
// rides along for downstream heuristics but is not part of the trained
// feature set.
type Input struct {
	EaseFactor          float64
	IntervalDays        float64
	Repetitions         float64
	DaysSinceLastReview float64
	UserRetentionRate   float64
	UserForgettingSpeed float64
	CorrectAfterBreak   float64
	IsMastered          bool
}

// Vector returns the features in their fixed training order
func (in Input) Vector() []float64 {
	return []float64{
		in.EaseFactor,
		in.IntervalDays,
		in.Repetitions,
		in.DaysSinceLastReview,
		in.UserRetentionRate,
		in.UserForgettingSpeed,
		in.CorrectAfterBreak,
	}
}

// FromProgress builds the input for a progress record joined to its user's
// learning pattern. Days since last review is zero for never-reviewed records
// and never negative.
func FromProgress(progress *models.UserProgress, pattern *models.LearningPattern, now time.Time) Input {
	daysSince := 0.0
	if progress.LastReviewedAt != nil {
		daysSince = now.Sub(*progress.LastReviewedAt).Hours() / 24
		if daysSince < 0 {
			daysSince = 0
		}
	}
	return Input{
		EaseFactor:          progress.EaseFactor,
		IntervalDays:        float64(progress.IntervalDays),
		Repetitions:         float64(progress.Repetitions),
		DaysSinceLastReview: daysSince,
		UserRetentionRate:   pattern.AverageRetentionRate,
		UserForgettingSpeed: pattern.ForgettingSpeed,
		CorrectAfterBreak:   progress.CorrectAfterBreak,
		IsMastered:          progress.IsMastered,
	}
}
