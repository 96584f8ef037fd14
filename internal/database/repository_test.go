package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/example/reviewengine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, Connect())
	t.Cleanup(func() { Close() })
}

func seedUser(t *testing.T, username string) int64 {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, NewUserRepository().Create(user))
	return user.ID
}

func seedFlashcard(t *testing.T, front string) int64 {
	t.Helper()
	card := &models.Flashcard{Front: front, Back: "back", Deck: "default"}
	require.NoError(t, NewFlashcardRepository().Create(card))
	return card.ID
}

func TestUserExists(t *testing.T) {
	setupTestDB(t)
	id := seedUser(t, "alice")

	repo := NewUserRepository()
	ok, err := repo.Exists(id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(id + 1000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgressUpsertReportsCreation(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	cardID := seedFlashcard(t, "hello")
	repo := NewUserProgressRepository()

	now := time.Now().UTC()
	record := &models.UserProgress{
		UserID:         userID,
		FlashcardID:    cardID,
		EaseFactor:     2.1,
		IntervalDays:   4,
		Repetitions:    2,
		LastReviewedAt: &now,
		NextReviewDate: now.Add(96 * time.Hour),
	}

	created, err := repo.Upsert(record)
	require.NoError(t, err)
	assert.True(t, created)

	record.EaseFactor = 2.4
	created, err = repo.Upsert(record)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.GetByUserAndFlashcard(userID, cardID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 2.4, stored.EaseFactor, 1e-9)
}

func TestGetByUserAndFlashcardMissingIsNotAnError(t *testing.T) {
	setupTestDB(t)

	stored, err := NewUserProgressRepository().GetByUserAndFlashcard(1, 1)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGetDueForUserOrderingAndCap(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	repo := NewUserProgressRepository()

	now := time.Now().UTC()
	for i := 0; i < 6; i++ {
		cardID := seedFlashcard(t, "card")
		record := &models.UserProgress{
			UserID:         userID,
			FlashcardID:    cardID,
			Repetitions:    1,
			NextReviewDate: now.Add(time.Duration(5-i) * time.Hour),
		}
		require.NoError(t, repo.Create(record))
	}
	// One item far in the future stays out of the window
	farCard := seedFlashcard(t, "later")
	require.NoError(t, repo.Create(&models.UserProgress{
		UserID:         userID,
		FlashcardID:    farCard,
		NextReviewDate: now.Add(72 * time.Hour),
	}))

	due, err := repo.GetDueForUser(userID, now.Add(24*time.Hour), 4)
	require.NoError(t, err)
	require.Len(t, due, 4)
	for i := 1; i < len(due); i++ {
		assert.False(t, due[i].NextReviewDate.Before(due[i-1].NextReviewDate))
	}
}

func TestDeleteSyntheticLeavesRealRows(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	repo := NewUserProgressRepository()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		cardID := seedFlashcard(t, "card")
		require.NoError(t, repo.Create(&models.UserProgress{
			UserID:         userID,
			FlashcardID:    cardID,
			Repetitions:    1,
			IsSynthetic:    i < 2,
			LastReviewedAt: &now,
			NextReviewDate: now,
		}))
	}

	removed, err := repo.DeleteSynthetic()
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	count, err := repo.CountQualifying()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExistingPairs(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	cardA := seedFlashcard(t, "a")
	cardB := seedFlashcard(t, "b")
	repo := NewUserProgressRepository()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(&models.UserProgress{UserID: userID, FlashcardID: cardA, NextReviewDate: now}))

	pairs, err := repo.ExistingPairs()
	require.NoError(t, err)
	assert.True(t, pairs[Pair{UserID: userID, FlashcardID: cardA}])
	assert.False(t, pairs[Pair{UserID: userID, FlashcardID: cardB}])
}
