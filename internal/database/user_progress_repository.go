package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/reviewengine/pkg/models"
)

// Pair identifies one (user, flashcard) combination
type Pair struct {
	UserID      int64 `db:"user_id"`
	FlashcardID int64 `db:"flashcard_id"`
}

// ProgressAggregates holds corpus-wide averages over qualifying progress rows
type ProgressAggregates struct {
	AvgEaseFactor    float64 `db:"avg_ease_factor"`
	AvgIntervalDays  float64 `db:"avg_interval_days"`
	UniqueUsers      int     `db:"unique_users"`
	UniqueFlashcards int     `db:"unique_flashcards"`
}

// UserProgressRepository handles database operations for user progress
type UserProgressRepository struct{}

// NewUserProgressRepository creates a new repository instance
func NewUserProgressRepository() *UserProgressRepository {
	return &UserProgressRepository{}
}

// GetByUserAndFlashcard returns progress for a specific user and flashcard.
// A missing record is a legitimate state and returns (nil, nil).
func (r *UserProgressRepository) GetByUserAndFlashcard(userID, flashcardID int64) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := DB.Get(&progress,
		"SELECT * FROM user_progress WHERE user_id = $1 AND flashcard_id = $2",
		userID, flashcardID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %v", err)
	}
	return &progress, nil
}

// GetDueForUser returns progress records due for review before the cutoff,
// soonest first, capped at limit
func (r *UserProgressRepository) GetDueForUser(userID int64, before time.Time, limit int) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := DB.Select(&progress, `
		SELECT * FROM user_progress
		WHERE user_id = $1 AND next_review_date <= $2
		ORDER BY next_review_date ASC
		LIMIT $3
	`, userID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %v", err)
	}
	return progress, nil
}

// GetReviewedSince returns qualifying records (repetitions > 0) whose last
// review falls within the lookback window. Used to build the training corpus.
func (r *UserProgressRepository) GetReviewedSince(since time.Time) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := DB.Select(&progress, `
		SELECT * FROM user_progress
		WHERE repetitions > 0 AND last_reviewed_at IS NOT NULL AND last_reviewed_at >= $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewed records: %v", err)
	}
	return progress, nil
}

// Create inserts a new progress record
func (r *UserProgressRepository) Create(progress *models.UserProgress) error {
	query := `
		INSERT INTO user_progress (
			user_id, flashcard_id, ease_factor, interval_days, repetitions,
			correct_after_break, is_mastered, is_synthetic, last_reviewed_at, next_review_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(query+" RETURNING id, created_at, updated_at",
			progress.UserID,
			progress.FlashcardID,
			progress.EaseFactor,
			progress.IntervalDays,
			progress.Repetitions,
			progress.CorrectAfterBreak,
			progress.IsMastered,
			progress.IsSynthetic,
			progress.LastReviewedAt,
			progress.NextReviewDate,
		).Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	}

	result, err := DB.Exec(query,
		progress.UserID,
		progress.FlashcardID,
		progress.EaseFactor,
		progress.IntervalDays,
		progress.Repetitions,
		progress.CorrectAfterBreak,
		progress.IsMastered,
		progress.IsSynthetic,
		progress.LastReviewedAt,
		progress.NextReviewDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress record: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	progress.ID = id
	return DB.QueryRow("SELECT created_at, updated_at FROM user_progress WHERE id = $1",
		progress.ID).Scan(&progress.CreatedAt, &progress.UpdatedAt)
}

// Update modifies an existing progress record
func (r *UserProgressRepository) Update(progress *models.UserProgress) error {
	result, err := DB.Exec(`
		UPDATE user_progress SET
			ease_factor = $1,
			interval_days = $2,
			repetitions = $3,
			correct_after_break = $4,
			is_mastered = $5,
			is_synthetic = $6,
			last_reviewed_at = $7,
			next_review_date = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
	`,
		progress.EaseFactor,
		progress.IntervalDays,
		progress.Repetitions,
		progress.CorrectAfterBreak,
		progress.IsMastered,
		progress.IsSynthetic,
		progress.LastReviewedAt,
		progress.NextReviewDate,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress record: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("progress record %d not found", progress.ID)
	}
	return nil
}

// Upsert creates the record if the (user, flashcard) pair is new, otherwise
// overwrites the existing record's fields in place. Returns whether a new
// record was created.
func (r *UserProgressRepository) Upsert(progress *models.UserProgress) (bool, error) {
	var existingID int64
	err := DB.QueryRow("SELECT id FROM user_progress WHERE user_id = $1 AND flashcard_id = $2",
		progress.UserID, progress.FlashcardID).Scan(&existingID)
	if err == nil {
		progress.ID = existingID
		return false, r.Update(progress)
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up progress record: %v", err)
	}
	return true, r.Create(progress)
}

// CountQualifying returns the number of records usable as training examples
func (r *UserProgressRepository) CountQualifying() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM user_progress WHERE repetitions > 0")
	if err != nil {
		return 0, fmt.Errorf("failed to count qualifying records: %v", err)
	}
	return count, nil
}

// CountReviewedSince returns the number of qualifying records reviewed after
// the given time
func (r *UserProgressRepository) CountReviewedSince(since time.Time) (int, error) {
	var count int
	err := DB.Get(&count, `
		SELECT COUNT(*) FROM user_progress
		WHERE repetitions > 0 AND last_reviewed_at IS NOT NULL AND last_reviewed_at >= $1
	`, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent records: %v", err)
	}
	return count, nil
}

// ExistingPairs returns the set of (user, flashcard) pairs that already have
// a progress record
func (r *UserProgressRepository) ExistingPairs() (map[Pair]bool, error) {
	var pairs []Pair
	err := DB.Select(&pairs, "SELECT user_id, flashcard_id FROM user_progress")
	if err != nil {
		return nil, fmt.Errorf("failed to get existing pairs: %v", err)
	}
	set := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		set[p] = true
	}
	return set, nil
}

// DeleteSynthetic removes all generator-fabricated records and returns the
// number removed
func (r *UserProgressRepository) DeleteSynthetic() (int64, error) {
	result, err := DB.Exec("DELETE FROM user_progress WHERE is_synthetic = $1", true)
	if err != nil {
		return 0, fmt.Errorf("failed to delete synthetic records: %v", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return count, nil
}

// Aggregates returns corpus-wide averages and distinct user/flashcard counts
// over qualifying records
func (r *UserProgressRepository) Aggregates() (*ProgressAggregates, error) {
	var agg ProgressAggregates
	err := DB.Get(&agg, `
		SELECT
			COALESCE(AVG(ease_factor), 0) AS avg_ease_factor,
			COALESCE(AVG(interval_days), 0) AS avg_interval_days,
			COUNT(DISTINCT user_id) AS unique_users,
			COUNT(DISTINCT flashcard_id) AS unique_flashcards
		FROM user_progress
		WHERE repetitions > 0
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress aggregates: %v", err)
	}
	return &agg, nil
}
