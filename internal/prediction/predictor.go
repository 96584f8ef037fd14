// Package prediction computes per-item review-time recommendations, backed by
// the trained regressor with a deterministic spaced-repetition fallback.
package prediction

import (
	"log"
	"time"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/internal/features"
	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/internal/patterns"
	"github.com/example/reviewengine/pkg/models"
)

// Bounds applied to every model inference result, in hours
const (
	MinReviewHours = 1
	MaxReviewHours = 8760
)

// Reason strings attached to predictions
const (
	ReasonMastered       = "mastered, spaced for retention"
	ReasonEarlyStage     = "early stage, frequent review"
	ReasonHighRetention  = "high retention, interval extended"
	ReasonFastForgetting = "fast forgetting, review sooner"
	ReasonFromHistory    = "optimal interval from history"
	ReasonFallback       = "standard spaced-repetition algorithm"
)

// Confidence levels: low for the fallback formula, and a two-level step for
// model inference depending on how much pattern history the user has
const (
	fallbackConfidence = 0.3
	lowConfidence      = 0.5
	highConfidence     = 0.85
	confidenceSessions = 10
)

type outcome int

const (
	outcomePredicted outcome = iota
	outcomeFallback
)

// decision is the tagged result of the predict-or-fall-back choice
type decision struct {
	outcome    outcome
	hours      float64
	confidence float64
	reason     string
}

// Predictor produces review-time recommendations for (user, flashcard) pairs
type Predictor struct {
	progress *database.UserProgressRepository
	tracker  *patterns.Tracker
	store    *ml.Store
}

// NewPredictor creates a predictor reading from the given model store
func NewPredictor(store *ml.Store) *Predictor {
	return &Predictor{
		progress: database.NewUserProgressRepository(),
		tracker:  patterns.NewTracker(),
		store:    store,
	}
}

// Predict returns the recommendation for one pair, or nil when the pair has
// no progress record yet. Failures never escape this boundary: an untrained
// or failing model resolves to the deterministic fallback, and a missing
// record is a legitimate nil.
func (p *Predictor) Predict(userID, flashcardID int64) *models.Prediction {
	record, err := p.progress.GetByUserAndFlashcard(userID, flashcardID)
	if err != nil {
		log.Printf("predict: failed to load progress for user %d flashcard %d: %v", userID, flashcardID, err)
		return nil
	}
	if record == nil {
		return nil
	}

	pattern, err := p.tracker.Get(userID)
	if err != nil {
		log.Printf("predict: failed to load pattern for user %d: %v", userID, err)
		pattern = &models.LearningPattern{
			UserID:               userID,
			AverageRetentionRate: patterns.DefaultRetentionRate,
			ForgettingSpeed:      patterns.DefaultForgettingSpeed,
		}
	}

	now := time.Now()
	d := p.decide(record, pattern, now)
	return &models.Prediction{
		FlashcardID:           flashcardID,
		UserID:                userID,
		OptimalReviewHours:    d.hours,
		Confidence:            d.confidence,
		RecommendedReviewDate: now.Add(time.Duration(d.hours * float64(time.Hour))),
		Reason:                d.reason,
		CreatedAt:             now,
	}
}

// decide is the single branch point between model inference and the
// deterministic fallback
func (p *Predictor) decide(record *models.UserProgress, pattern *models.LearningPattern, now time.Time) decision {
	if !p.store.IsTrained() {
		return fallbackDecision(record)
	}

	in := features.FromProgress(record, pattern, now)
	raw, err := p.store.Predict(in.Vector())
	if err != nil {
		log.Printf("predict: inference failed for user %d flashcard %d: %v", record.UserID, record.FlashcardID, err)
		return fallbackDecision(record)
	}

	hours := raw
	if hours < MinReviewHours {
		hours = MinReviewHours
	}
	if hours > MaxReviewHours {
		hours = MaxReviewHours
	}

	confidence := lowConfidence
	if pattern.SessionsProcessed > confidenceSessions {
		confidence = highConfidence
	}

	return decision{
		outcome:    outcomePredicted,
		hours:      hours,
		confidence: confidence,
		reason:     reasonFor(record, pattern),
	}
}

// fallbackDecision applies the legacy formula: the current interval replayed
// as hours
func fallbackDecision(record *models.UserProgress) decision {
	return decision{
		outcome:    outcomeFallback,
		hours:      float64(record.IntervalDays * 24),
		confidence: fallbackConfidence,
		reason:     ReasonFallback,
	}
}

// reasonFor picks the explanation for a model-backed prediction, first match
// wins
func reasonFor(record *models.UserProgress, pattern *models.LearningPattern) string {
	switch {
	case record.IsMastered:
		return ReasonMastered
	case record.Repetitions < 3:
		return ReasonEarlyStage
	case pattern.AverageRetentionRate > 80:
		return ReasonHighRetention
	case pattern.ForgettingSpeed > 2:
		return ReasonFastForgetting
	default:
		return ReasonFromHistory
	}
}
