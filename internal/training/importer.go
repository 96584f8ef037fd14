package training

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/reviewengine/pkg/models"
	"github.com/xuri/excelize/v2"
)

// trainingColumns is the bulk-import wire format: a header line followed by
// comma-separated rows with exactly these fields in order
const trainingColumns = 11

// ImportFromCSV reads training rows from UTF-8 comma-separated text. The
// first line is a header and is ignored. A malformed line records a
// "line N" error and is skipped; the rest of the file continues parsing.
// Parsed rows are submitted as one manual-ingestion batch.
func (c *Curator) ImportFromCSV(r io.Reader) (*models.ImportResult, error) {
	scanner := bufio.NewScanner(r)

	var rows []models.TrainingRow
	var parseErrors []string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 || line == "" {
			continue
		}
		row, err := parseTrainingFields(strings.Split(line, ","))
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", lineNum, err))
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import file: %v", err)
	}

	result, err := c.AddManualRows(rows)
	if err != nil {
		return result, err
	}
	result.Errors = append(parseErrors, result.Errors...)
	result.Success = result.RecordsAdded > 0 || len(result.Errors) == 0
	return result, nil
}

// ImportFromExcel reads training rows from the first sheet of an XLSX file,
// using the same column contract as the CSV format
func (c *Curator) ImportFromExcel(path string) (*models.ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	var rows []models.TrainingRow
	var parseErrors []string
	for i, cells := range sheetRows {
		if i == 0 || isBlankRow(cells) {
			continue
		}
		row, err := parseTrainingFields(cells)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		rows = append(rows, row)
	}

	result, err := c.AddManualRows(rows)
	if err != nil {
		return result, err
	}
	result.Errors = append(parseErrors, result.Errors...)
	result.Success = result.RecordsAdded > 0 || len(result.Errors) == 0
	return result, nil
}

// parseTrainingFields converts one row of the wire format into a training
// row. Numeric fields are parsed locale-independently.
func parseTrainingFields(fields []string) (models.TrainingRow, error) {
	var row models.TrainingRow
	if len(fields) != trainingColumns {
		return row, fmt.Errorf("expected %d fields, got %d", trainingColumns, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var err error
	if row.UserID, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
		return row, fmt.Errorf("invalid user ID %q", fields[0])
	}
	if row.FlashcardID, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
		return row, fmt.Errorf("invalid flashcard ID %q", fields[1])
	}
	if row.EaseFactor, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return row, fmt.Errorf("invalid ease factor %q", fields[2])
	}
	if row.IntervalDays, err = strconv.Atoi(fields[3]); err != nil {
		return row, fmt.Errorf("invalid interval %q", fields[3])
	}
	if row.Repetitions, err = strconv.Atoi(fields[4]); err != nil {
		return row, fmt.Errorf("invalid repetitions %q", fields[4])
	}
	if row.DaysSinceLastReview, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return row, fmt.Errorf("invalid days since last review %q", fields[5])
	}
	if row.UserRetentionRate, err = strconv.ParseFloat(fields[6], 64); err != nil {
		return row, fmt.Errorf("invalid retention rate %q", fields[6])
	}
	if row.UserForgettingSpeed, err = strconv.ParseFloat(fields[7], 64); err != nil {
		return row, fmt.Errorf("invalid forgetting speed %q", fields[7])
	}
	if row.CorrectAfterBreak, err = strconv.ParseFloat(fields[8], 64); err != nil {
		return row, fmt.Errorf("invalid correct-after-break %q", fields[8])
	}
	if row.IsMastered, err = strconv.ParseBool(fields[9]); err != nil {
		return row, fmt.Errorf("invalid mastered flag %q", fields[9])
	}
	if row.OptimalReviewHours, err = strconv.ParseFloat(fields[10], 64); err != nil {
		return row, fmt.Errorf("invalid optimal review hours %q", fields[10])
	}
	return row, nil
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
