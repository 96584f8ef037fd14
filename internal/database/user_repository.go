package database

import (
	"database/sql"
	"fmt"

	"github.com/example/reviewengine/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := DB.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}
	return &user, nil
}

// Exists reports whether a user with the given ID is present
func (r *UserRepository) Exists(id int64) (bool, error) {
	var found int64
	err := DB.Get(&found, "SELECT id FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %v", err)
	}
	return true, nil
}

// GetAllIDs returns the IDs of all users
func (r *UserRepository) GetAllIDs() ([]int64, error) {
	var ids []int64
	err := DB.Select(&ids, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %v", err)
	}
	return ids, nil
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(
			"INSERT INTO users (username) VALUES ($1) RETURNING id, created_at",
			user.Username,
		).Scan(&user.ID, &user.CreatedAt)
	}

	result, err := DB.Exec("INSERT INTO users (username) VALUES ($1)", user.Username)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	user.ID = id
	return DB.QueryRow("SELECT created_at FROM users WHERE id = $1", user.ID).Scan(&user.CreatedAt)
}
