package models

// TrainingRow is one labeled example submitted to the training data curator.
// All fields except Synthetic mirror the bulk-import wire format.
type TrainingRow struct {
	UserID              int64   `json:"user_id"`
	FlashcardID         int64   `json:"flashcard_id"`
	EaseFactor          float64 `json:"ease_factor"`
	IntervalDays        int     `json:"interval_days"`
	Repetitions         int     `json:"repetitions"`
	DaysSinceLastReview float64 `json:"days_since_last_review"`
	UserRetentionRate   float64 `json:"user_retention_rate"`
	UserForgettingSpeed float64 `json:"user_forgetting_speed"`
	CorrectAfterBreak   float64 `json:"correct_after_break"`
	IsMastered          bool    `json:"is_mastered"`
	OptimalReviewHours  float64 `json:"optimal_review_hours"`
	Synthetic           bool    `json:"synthetic"`
}

// ImportResult reports the outcome of a training-data ingestion batch.
// Individual row failures are collected in Errors and never abort the batch.
type ImportResult struct {
	Success      bool     `json:"success"`
	RecordsAdded int      `json:"records_added"` // newly created records only
	TotalRecords int      `json:"total_records"` // qualifying records after the batch
	Errors       []string `json:"errors"`
}

// TrainingStats summarizes the curated training corpus
type TrainingStats struct {
	TotalRecords     int     `json:"total_records"`
	RecordsLastDay   int     `json:"records_last_day"`
	RecordsLastWeek  int     `json:"records_last_week"`
	RecordsLastMonth int     `json:"records_last_month"`
	CanTrain         bool    `json:"can_train"`
	IsModelTrained   bool    `json:"is_model_trained"`
	UniqueUsers      int     `json:"unique_users"`
	UniqueFlashcards int     `json:"unique_flashcards"`
	AvgEaseFactor    float64 `json:"avg_ease_factor"`
	AvgIntervalDays  float64 `json:"avg_interval_days"`
	AvgRetentionRate float64 `json:"avg_retention_rate"`
}
