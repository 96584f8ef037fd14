package database

import (
	"database/sql"
	"fmt"

	"github.com/example/reviewengine/pkg/models"
)

// LearningPatternRepository handles database operations for learning patterns
type LearningPatternRepository struct{}

// NewLearningPatternRepository creates a new repository instance
func NewLearningPatternRepository() *LearningPatternRepository {
	return &LearningPatternRepository{}
}

// GetByUser returns the learning pattern for a user, or (nil, nil) if the
// user has no pattern yet
func (r *LearningPatternRepository) GetByUser(userID int64) (*models.LearningPattern, error) {
	var pattern models.LearningPattern
	err := DB.Get(&pattern, "SELECT * FROM learning_patterns WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning pattern: %v", err)
	}
	return &pattern, nil
}

// Create inserts a new learning pattern
func (r *LearningPatternRepository) Create(pattern *models.LearningPattern) error {
	query := `
		INSERT INTO learning_patterns (
			user_id, average_retention_rate, forgetting_speed, sessions_processed
		) VALUES ($1, $2, $3, $4)
	`
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(query+" RETURNING id, created_at, updated_at",
			pattern.UserID,
			pattern.AverageRetentionRate,
			pattern.ForgettingSpeed,
			pattern.SessionsProcessed,
		).Scan(&pattern.ID, &pattern.CreatedAt, &pattern.UpdatedAt)
	}

	result, err := DB.Exec(query,
		pattern.UserID,
		pattern.AverageRetentionRate,
		pattern.ForgettingSpeed,
		pattern.SessionsProcessed,
	)
	if err != nil {
		return fmt.Errorf("failed to create learning pattern: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	pattern.ID = id
	return DB.QueryRow("SELECT created_at, updated_at FROM learning_patterns WHERE id = $1",
		pattern.ID).Scan(&pattern.CreatedAt, &pattern.UpdatedAt)
}

// Update modifies an existing learning pattern
func (r *LearningPatternRepository) Update(pattern *models.LearningPattern) error {
	result, err := DB.Exec(`
		UPDATE learning_patterns SET
			average_retention_rate = $1,
			forgetting_speed = $2,
			sessions_processed = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`,
		pattern.AverageRetentionRate,
		pattern.ForgettingSpeed,
		pattern.SessionsProcessed,
		pattern.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update learning pattern: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("learning pattern %d not found", pattern.ID)
	}
	return nil
}

// AvgRetentionRate returns the mean retention rate across all patterns
func (r *LearningPatternRepository) AvgRetentionRate() (float64, error) {
	var avg float64
	err := DB.Get(&avg, "SELECT COALESCE(AVG(average_retention_rate), 0) FROM learning_patterns")
	if err != nil {
		return 0, fmt.Errorf("failed to get average retention rate: %v", err)
	}
	return avg, nil
}
