// Package engine exposes the review-scheduling operations consumed by
// upstream callers.
package engine

import (
	"io"

	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/internal/prediction"
	"github.com/example/reviewengine/internal/training"
	"github.com/example/reviewengine/pkg/models"
)

// Engine wires the curator, trainer, predictor, and planner around one model
// store
type Engine struct {
	store     *ml.Store
	curator   *training.Curator
	trainer   *training.Trainer
	predictor *prediction.Predictor
	planner   *prediction.Planner
}

// New creates the engine around the given model store
func New(store *ml.Store) *Engine {
	predictor := prediction.NewPredictor(store)
	return &Engine{
		store:     store,
		curator:   training.NewCurator(store),
		trainer:   training.NewTrainer(store),
		predictor: predictor,
		planner:   prediction.NewPlanner(predictor),
	}
}

// PredictNextReviewTime returns the recommendation for one (user, flashcard)
// pair, or nil when no progress record exists yet
func (e *Engine) PredictNextReviewTime(userID, flashcardID int64) *models.Prediction {
	return e.predictor.Predict(userID, flashcardID)
}

// GenerateStudyPlan returns the ranked, capped list of due items with
// predicted review delays
func (e *Engine) GenerateStudyPlan(userID int64) ([]models.Prediction, error) {
	return e.planner.GeneratePlan(userID)
}

// RetrainModel fits a new model on recent progress history. Returns false,
// with the loaded model untouched, when the corpus is too small or training
// fails.
func (e *Engine) RetrainModel() bool {
	return e.trainer.Retrain()
}

// IsModelTrained reports whether a model is currently loaded
func (e *Engine) IsModelTrained() bool {
	return e.store.IsTrained()
}

// AddManualTrainingData ingests a batch of training rows
func (e *Engine) AddManualTrainingData(rows []models.TrainingRow) (*models.ImportResult, error) {
	return e.curator.AddManualRows(rows)
}

// ImportFromCSV ingests training rows from comma-separated text
func (e *Engine) ImportFromCSV(r io.Reader) (*models.ImportResult, error) {
	return e.curator.ImportFromCSV(r)
}

// ImportFromExcel ingests training rows from an XLSX file
func (e *Engine) ImportFromExcel(path string) (*models.ImportResult, error) {
	return e.curator.ImportFromExcel(path)
}

// GenerateSyntheticData fabricates training rows for free (user, flashcard)
// pairs
func (e *Engine) GenerateSyntheticData(count int) (*models.ImportResult, error) {
	return e.curator.GenerateSyntheticData(count)
}

// GetTrainingStats summarizes the curated corpus and model state
func (e *Engine) GetTrainingStats() (*models.TrainingStats, error) {
	return e.curator.GetTrainingStats()
}

// DeleteSyntheticData purges generator-fabricated records and returns the
// count removed
func (e *Engine) DeleteSyntheticData() (int64, error) {
	return e.curator.DeleteSyntheticData()
}
