package database

import (
	"database/sql"
	"fmt"

	"github.com/example/reviewengine/pkg/models"
)

// FlashcardRepository handles database operations for flashcards
type FlashcardRepository struct{}

// NewFlashcardRepository creates a new repository instance
func NewFlashcardRepository() *FlashcardRepository {
	return &FlashcardRepository{}
}

// GetByID returns a flashcard by ID
func (r *FlashcardRepository) GetByID(id int64) (*models.Flashcard, error) {
	var card models.Flashcard
	err := DB.Get(&card, "SELECT * FROM flashcards WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard by ID: %v", err)
	}
	return &card, nil
}

// Exists reports whether a flashcard with the given ID is present
func (r *FlashcardRepository) Exists(id int64) (bool, error) {
	var found int64
	err := DB.Get(&found, "SELECT id FROM flashcards WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check flashcard existence: %v", err)
	}
	return true, nil
}

// GetAllIDs returns the IDs of all flashcards
func (r *FlashcardRepository) GetAllIDs() ([]int64, error) {
	var ids []int64
	err := DB.Select(&ids, "SELECT id FROM flashcards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard IDs: %v", err)
	}
	return ids, nil
}

// Create inserts a new flashcard
func (r *FlashcardRepository) Create(card *models.Flashcard) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(
			"INSERT INTO flashcards (front, back, deck) VALUES ($1, $2, $3) RETURNING id, created_at",
			card.Front, card.Back, card.Deck,
		).Scan(&card.ID, &card.CreatedAt)
	}

	result, err := DB.Exec(
		"INSERT INTO flashcards (front, back, deck) VALUES ($1, $2, $3)",
		card.Front, card.Back, card.Deck,
	)
	if err != nil {
		return fmt.Errorf("failed to create flashcard: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	card.ID = id
	return DB.QueryRow("SELECT created_at FROM flashcards WHERE id = $1", card.ID).Scan(&card.CreatedAt)
}
