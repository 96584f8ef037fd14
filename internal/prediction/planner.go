package prediction

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/pkg/models"
)

// Scheduling policy: how far ahead an item may be due to make the plan, and
// how many items one plan holds
const (
	PlanWindow   = 24 * time.Hour
	PlanMaxItems = 50
)

// Planner assembles the ranked list of due items with predicted review delays
type Planner struct {
	progress  *database.UserProgressRepository
	predictor *Predictor
}

// NewPlanner creates a planner using the given predictor
func NewPlanner(predictor *Predictor) *Planner {
	return &Planner{
		progress:  database.NewUserProgressRepository(),
		predictor: predictor,
	}
}

// GeneratePlan returns predictions for the user's due items, soonest need
// first. Items the predictor cannot score are skipped, never aborting the
// plan.
func (g *Planner) GeneratePlan(userID int64) ([]models.Prediction, error) {
	due, err := g.progress.GetDueForUser(userID, time.Now().Add(PlanWindow), PlanMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %v", err)
	}

	plan := make([]models.Prediction, 0, len(due))
	for _, record := range due {
		pred := g.predictor.Predict(record.UserID, record.FlashcardID)
		if pred == nil {
			continue
		}
		plan = append(plan, *pred)
	}

	sort.Slice(plan, func(i, j int) bool {
		return plan[i].OptimalReviewHours < plan[j].OptimalReviewHours
	})
	return plan, nil
}
