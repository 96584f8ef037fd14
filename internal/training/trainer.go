package training

import (
	"log"
	"time"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/internal/features"
	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/pkg/models"
)

// LookbackDays bounds how far back the trainer reaches for progress history
const LookbackDays = 90

// Trainer builds the labeled corpus from real progress history and fits the
// review-time regressor
type Trainer struct {
	progress *database.UserProgressRepository
	patterns *database.LearningPatternRepository
	store    *ml.Store
	cfg      ml.Config
}

// NewTrainer creates a trainer that swaps trained models into the given store
func NewTrainer(store *ml.Store) *Trainer {
	return &Trainer{
		progress: database.NewUserProgressRepository(),
		patterns: database.NewLearningPatternRepository(),
		store:    store,
		cfg:      ml.DefaultConfig(),
	}
}

// Retrain fits a new model on the last LookbackDays of reviewed progress
// records joined to their users' learning patterns. Rows whose user has no
// pattern yet are skipped. Below MinTrainingExamples qualifying examples the
// loaded model is left untouched and false is returned. Training, data, and
// persistence failures are logged and surface as false, never as errors.
func (t *Trainer) Retrain() bool {
	now := time.Now()
	records, err := t.progress.GetReviewedSince(now.AddDate(0, 0, -LookbackDays))
	if err != nil {
		log.Printf("retrain: failed to load progress history: %v", err)
		return false
	}

	var vectors [][]float64
	var labels []float64
	patternCache := make(map[int64]*models.LearningPattern)
	for i := range records {
		record := &records[i]
		pattern, seen := patternCache[record.UserID]
		if !seen {
			pattern, err = t.patterns.GetByUser(record.UserID)
			if err != nil {
				log.Printf("retrain: failed to load pattern for user %d: %v", record.UserID, err)
				return false
			}
			patternCache[record.UserID] = pattern
		}
		if pattern == nil {
			continue
		}
		in := features.FromProgress(record, pattern, now)
		vectors = append(vectors, in.Vector())
		labels = append(labels, float64(record.IntervalDays*24))
	}

	if len(vectors) < MinTrainingExamples {
		log.Printf("retrain: %d qualifying examples, need %d; keeping current model",
			len(vectors), MinTrainingExamples)
		return false
	}

	model, err := ml.Train(vectors, labels, t.cfg)
	if err != nil {
		log.Printf("retrain: training failed: %v", err)
		return false
	}
	if err := t.store.Replace(model); err != nil {
		log.Printf("retrain: failed to persist model: %v", err)
		return false
	}

	log.Printf("retrain: fitted %d trees on %d examples, artifact at %s",
		len(model.Trees), len(vectors), t.store.Path())
	return true
}
