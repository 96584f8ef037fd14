package patterns

import (
	"path/filepath"
	"testing"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) int64 {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })

	user := &models.User{Username: "alice"}
	require.NoError(t, database.NewUserRepository().Create(user))
	return user.ID
}

func TestGetReturnsDefaultsForUnknownUser(t *testing.T) {
	userID := setupTestDB(t)
	tracker := NewTracker()

	pattern, err := tracker.Get(userID)
	require.NoError(t, err)
	assert.Equal(t, DefaultRetentionRate, pattern.AverageRetentionRate)
	assert.Equal(t, DefaultForgettingSpeed, pattern.ForgettingSpeed)
	assert.Zero(t, pattern.SessionsProcessed)
}

func TestBlendSeedsFirstSample(t *testing.T) {
	userID := setupTestDB(t)
	tracker := NewTracker()

	require.NoError(t, tracker.Blend(userID, 85, 1.8))

	pattern, err := tracker.Get(userID)
	require.NoError(t, err)
	assert.InDelta(t, 85, pattern.AverageRetentionRate, 1e-9)
	assert.InDelta(t, 1.8, pattern.ForgettingSpeed, 1e-9)
	assert.Equal(t, 1, pattern.SessionsProcessed)
}

func TestBlendAveragesWithExistingPattern(t *testing.T) {
	userID := setupTestDB(t)
	tracker := NewTracker()

	require.NoError(t, tracker.Blend(userID, 80, 1.5))
	require.NoError(t, tracker.Blend(userID, 60, 2.5))

	pattern, err := tracker.Get(userID)
	require.NoError(t, err)
	assert.InDelta(t, 70, pattern.AverageRetentionRate, 1e-9)
	assert.InDelta(t, 2.0, pattern.ForgettingSpeed, 1e-9)
	assert.Equal(t, 2, pattern.SessionsProcessed)
}
