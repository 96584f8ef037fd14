// Package training curates the labeled data used to train the review-time
// regressor and runs the training pipeline itself.
package training

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/internal/patterns"
	"github.com/example/reviewengine/pkg/models"
)

// MinTrainingExamples is the smallest corpus the trainer will fit a model on
const MinTrainingExamples = 100

// MaxReviewHours caps any review delay at one year
const MaxReviewHours = 8760

// syntheticAttemptFactor bounds the rejection-sampling loop: generation gives
// up after 10x the requested count of draws, which protects against collapsed
// acceptance rates near pair saturation
const syntheticAttemptFactor = 10

// Curator accepts manual, bulk-imported, and synthetic training rows,
// validates and deduplicates them, and keeps progress and pattern state in
// sync
type Curator struct {
	users        *database.UserRepository
	cards        *database.FlashcardRepository
	progress     *database.UserProgressRepository
	patternsRepo *database.LearningPatternRepository
	tracker      *patterns.Tracker
	store        *ml.Store
}

// NewCurator creates a curator backed by the given model store
func NewCurator(store *ml.Store) *Curator {
	return &Curator{
		users:        database.NewUserRepository(),
		cards:        database.NewFlashcardRepository(),
		progress:     database.NewUserProgressRepository(),
		patternsRepo: database.NewLearningPatternRepository(),
		tracker:      patterns.NewTracker(),
		store:        store,
	}
}

// AddManualRows ingests a batch of training rows. Each row is validated
// against existing users and flashcards; a failing row records an error and
// never aborts its siblings. Valid rows blend the user's learning pattern and
// upsert the progress record: new (user, flashcard) pairs count toward
// RecordsAdded, resubmissions overwrite values without counting.
func (c *Curator) AddManualRows(rows []models.TrainingRow) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: make([]string, 0)}
	now := time.Now()

	for i, row := range rows {
		ok, err := c.users.Exists(row.UserID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: user %d does not exist", i+1, row.UserID))
			continue
		}
		ok, err = c.cards.Exists(row.FlashcardID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: flashcard %d does not exist", i+1, row.FlashcardID))
			continue
		}

		if err := c.tracker.Blend(row.UserID, row.UserRetentionRate, row.UserForgettingSpeed); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		lastReviewed := now.Add(-time.Duration(row.DaysSinceLastReview * 24 * float64(time.Hour)))
		record := &models.UserProgress{
			UserID:            row.UserID,
			FlashcardID:       row.FlashcardID,
			EaseFactor:        row.EaseFactor,
			IntervalDays:      row.IntervalDays,
			Repetitions:       row.Repetitions,
			CorrectAfterBreak: row.CorrectAfterBreak,
			IsMastered:        row.IsMastered,
			IsSynthetic:       row.Synthetic,
			LastReviewedAt:    &lastReviewed,
			NextReviewDate:    now.Add(time.Duration(row.OptimalReviewHours * float64(time.Hour))),
		}
		created, err := c.progress.Upsert(record)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if created {
			result.RecordsAdded++
		}
	}

	total, err := c.progress.CountQualifying()
	if err != nil {
		return result, err
	}
	result.TotalRecords = total
	result.Success = result.RecordsAdded > 0 || len(result.Errors) == 0
	return result, nil
}

// GenerateSyntheticData fabricates up to count training rows for (user,
// flashcard) pairs that have no progress record yet. The requested count is
// clamped to the number of free pairs; zero free pairs is an error. Generated
// rows go through the manual-ingestion path, so validation and dedup apply.
func (c *Curator) GenerateSyntheticData(count int) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: make([]string, 0)}
	if count <= 0 {
		result.Errors = append(result.Errors, "count must be positive")
		return result, nil
	}

	userIDs, err := c.users.GetAllIDs()
	if err != nil {
		return result, err
	}
	cardIDs, err := c.cards.GetAllIDs()
	if err != nil {
		return result, err
	}
	existing, err := c.progress.ExistingPairs()
	if err != nil {
		return result, err
	}

	// Budget is based on the requested count, before clamping, so generation
	// still converges when only a handful of free pairs remain
	attemptBudget := syntheticAttemptFactor * count

	maxCombinations := len(userIDs) * len(cardIDs)
	availableSlots := maxCombinations - len(existing)
	if availableSlots <= 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no free user/flashcard pairs: %d users x %d flashcards all have progress records",
				len(userIDs), len(cardIDs)))
		return result, nil
	}
	if count > availableSlots {
		log.Printf("requested %d synthetic rows but only %d free pairs remain, clamping", count, availableSlots)
		count = availableSlots
	}

	generated := make(map[database.Pair]bool, count)
	rows := make([]models.TrainingRow, 0, count)
	for attempts := 0; attempts < attemptBudget && len(rows) < count; attempts++ {
		pair := database.Pair{
			UserID:      userIDs[rand.Intn(len(userIDs))],
			FlashcardID: cardIDs[rand.Intn(len(cardIDs))],
		}
		if existing[pair] || generated[pair] {
			continue
		}
		generated[pair] = true
		rows = append(rows, synthesizeRow(pair.UserID, pair.FlashcardID))
	}

	return c.AddManualRows(rows)
}

// synthesizeRow produces plausible spaced-repetition parameters for one pair
func synthesizeRow(userID, flashcardID int64) models.TrainingRow {
	repetitions := 1 + rand.Intn(19)
	easeFactor := 1.3 + rand.Float64()*1.2

	intervalDays := int(math.Pow(2, float64(repetitions)/3.0))
	if intervalDays > 365 {
		intervalDays = 365
	}

	retention := 50 + rand.Float64()*40
	optimalHours := float64(intervalDays) * 24 * retention / 100
	if optimalHours > MaxReviewHours {
		optimalHours = MaxReviewHours
	}

	return models.TrainingRow{
		UserID:              userID,
		FlashcardID:         flashcardID,
		EaseFactor:          easeFactor,
		IntervalDays:        intervalDays,
		Repetitions:         repetitions,
		DaysSinceLastReview: rand.Float64() * float64(intervalDays),
		UserRetentionRate:   retention,
		UserForgettingSpeed: 0.5 + rand.Float64()*2.0,
		CorrectAfterBreak:   retention * (0.7 + rand.Float64()*0.3),
		IsMastered:          repetitions > 8 && easeFactor > 2.0,
		OptimalReviewHours:  optimalHours,
		Synthetic:           true,
	}
}

// DeleteSyntheticData removes all generator-fabricated progress records and
// returns the count removed
func (c *Curator) DeleteSyntheticData() (int64, error) {
	return c.progress.DeleteSynthetic()
}

// GetTrainingStats summarizes the curated corpus and model state
func (c *Curator) GetTrainingStats() (*models.TrainingStats, error) {
	now := time.Now()

	total, err := c.progress.CountQualifying()
	if err != nil {
		return nil, err
	}
	lastDay, err := c.progress.CountReviewedSince(now.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	lastWeek, err := c.progress.CountReviewedSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	lastMonth, err := c.progress.CountReviewedSince(now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	agg, err := c.progress.Aggregates()
	if err != nil {
		return nil, err
	}
	avgRetention, err := c.patternsRepo.AvgRetentionRate()
	if err != nil {
		return nil, err
	}

	return &models.TrainingStats{
		TotalRecords:     total,
		RecordsLastDay:   lastDay,
		RecordsLastWeek:  lastWeek,
		RecordsLastMonth: lastMonth,
		CanTrain:         total >= MinTrainingExamples,
		IsModelTrained:   c.store.IsTrained(),
		UniqueUsers:      agg.UniqueUsers,
		UniqueFlashcards: agg.UniqueFlashcards,
		AvgEaseFactor:    agg.AvgEaseFactor,
		AvgIntervalDays:  agg.AvgIntervalDays,
		AvgRetentionRate: avgRetention,
	}, nil
}
