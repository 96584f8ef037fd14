package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })

	return New(ml.NewStore(filepath.Join(t.TempDir(), "model.gob")))
}

func TestEngineEndToEndUntrainedFlow(t *testing.T) {
	eng := setupEngine(t)

	user := &models.User{Username: "alice"}
	require.NoError(t, database.NewUserRepository().Create(user))
	card := &models.Flashcard{Front: "front", Back: "back"}
	require.NoError(t, database.NewFlashcardRepository().Create(card))

	assert.False(t, eng.IsModelTrained())

	csv := strings.Join([]string{
		"userId,flashcardId,easeFactor,interval,repetitions,daysSinceLastReview,userRetentionRate,userForgettingSpeed,correctAfterBreak,isMastered,optimalReviewHours",
		// Next review lands 12h out, inside the study-plan window
		fmt.Sprintf("%d,%d,2.5,5,3,0.5,75,1.2,70,false,12", user.ID, card.ID),
	}, "\n")
	result, err := eng.ImportFromCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsAdded)

	// Untrained model routes through the fallback: interval x 24 hours
	pred := eng.PredictNextReviewTime(user.ID, card.ID)
	require.NotNil(t, pred)
	assert.InDelta(t, 120, pred.OptimalReviewHours, 1e-9)

	plan, err := eng.GenerateStudyPlan(user.ID)
	require.NoError(t, err)
	require.Len(t, plan, 1)

	// One example is far below the training threshold
	assert.False(t, eng.RetrainModel())
	assert.False(t, eng.IsModelTrained())

	stats, err := eng.GetTrainingStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRecords)
	assert.False(t, stats.CanTrain)

	removed, err := eng.DeleteSyntheticData()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestEngineGenerateSyntheticRoundTrip(t *testing.T) {
	eng := setupEngine(t)

	for i := 0; i < 3; i++ {
		user := &models.User{Username: fmt.Sprintf("user-%d", i)}
		require.NoError(t, database.NewUserRepository().Create(user))
		card := &models.Flashcard{Front: fmt.Sprintf("card-%d", i), Back: "back"}
		require.NoError(t, database.NewFlashcardRepository().Create(card))
	}

	result, err := eng.GenerateSyntheticData(4)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.RecordsAdded)

	removed, err := eng.DeleteSyntheticData()
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)
}
