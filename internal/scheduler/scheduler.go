package scheduler

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultRetrainHour is the UTC hour for the nightly retraining run
const DefaultRetrainHour = 3

// Trainer is the collaborator invoked by the nightly job
type Trainer interface {
	RetrainModel() bool
}

// Scheduler manages scheduled tasks for the engine
type Scheduler struct {
	scheduler *gocron.Scheduler
	trainer   Trainer
}

// New creates a new scheduler instance
func New(trainer Trainer) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		trainer:   trainer,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	hour := DefaultRetrainHour
	if hourStr := os.Getenv("RETRAIN_HOUR"); hourStr != "" {
		if h, err := strconv.Atoi(hourStr); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
	}

	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", hour)).Do(s.runRetrain)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runRetrain triggers one training run. Retrain never errors; a skipped or
// failed run has already been logged by the trainer.
func (s *Scheduler) runRetrain() {
	log.Println("scheduled retraining starting")
	if s.trainer.RetrainModel() {
		log.Println("scheduled retraining finished, model swapped")
	} else {
		log.Println("scheduled retraining skipped, model unchanged")
	}
}
