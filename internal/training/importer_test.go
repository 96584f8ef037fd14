package training

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "userId,flashcardId,easeFactor,interval,repetitions,daysSinceLastReview,userRetentionRate,userForgettingSpeed,correctAfterBreak,isMastered,optimalReviewHours"

func csvLine(userID, cardID int64) string {
	return fmt.Sprintf("%d,%d,2.3,6,4,1.5,78,1.1,70,false,144", userID, cardID)
}

func TestImportFromCSVTolerance(t *testing.T) {
	setupTestDB(t)
	curator := newTestCurator(t)
	users := seedUsers(t, 2)
	cards := seedFlashcards(t, 4)

	lines := []string{csvHeader}
	for _, userID := range users {
		for _, cardID := range cards {
			lines = append(lines, csvLine(userID, cardID))
		}
	}
	// Two malformed lines among the ten data lines
	lines = append(lines, "1,2,three")
	lines = append(lines, "1,2,not-a-float,6,4,1.5,78,1.1,70,false,144")

	result, err := curator.ImportFromCSV(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 8, result.RecordsAdded)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 10")
	assert.Contains(t, result.Errors[1], "line 11")
}

func TestImportFromCSVSkipsHeaderAndBlankLines(t *testing.T) {
	setupTestDB(t)
	curator := newTestCurator(t)
	users := seedUsers(t, 1)
	cards := seedFlashcards(t, 1)

	content := csvHeader + "\n\n" + csvLine(users[0], cards[0]) + "\n\n"
	result, err := curator.ImportFromCSV(strings.NewReader(content))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsAdded)
	assert.Empty(t, result.Errors)
}

func TestImportFromCSVValidationErrorsMerge(t *testing.T) {
	setupTestDB(t)
	curator := newTestCurator(t)
	users := seedUsers(t, 1)
	cards := seedFlashcards(t, 1)

	content := strings.Join([]string{
		csvHeader,
		csvLine(users[0], cards[0]),
		csvLine(users[0], cards[0]+999), // parses fine, fails validation
	}, "\n")

	result, err := curator.ImportFromCSV(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsAdded)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "does not exist")
}

func TestParseTrainingFieldsFieldCount(t *testing.T) {
	_, err := parseTrainingFields([]string{"1", "2", "3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 11 fields")
}
