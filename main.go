package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/example/reviewengine/internal/database"
	"github.com/example/reviewengine/internal/engine"
	"github.com/example/reviewengine/internal/ml"
	"github.com/example/reviewengine/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = filepath.Join("data", "models", "review_predictor.gob")
	}

	store := ml.NewStore(modelPath)
	eng := engine.New(store)

	sched := scheduler.New(eng)
	sched.Start()
	defer sched.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Review engine started. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
