package ml

import (
	"errors"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// ErrNotTrained is returned by Predict when no model has been loaded or
// trained yet
var ErrNotTrained = errors.New("no model loaded")

// Store owns the current model reference and the on-disk artifact. Reads go
// through an atomic pointer without locking, so a prediction may see the
// model version that existed at dereference time even if a retrain swap
// completes a moment later. The mutex serializes the load-at-startup read
// and every save-then-swap write.
type Store struct {
	mu      sync.Mutex
	path    string
	current atomic.Pointer[Model]
}

// NewStore creates a store and attempts one load of the artifact. A missing
// file leaves the store untrained without error; a corrupt file is logged and
// likewise leaves the store untrained.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.mu.Lock()
	defer s.mu.Unlock()

	model, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("no model artifact at %s, starting untrained", path)
		} else {
			log.Printf("failed to load model artifact %s: %v", path, err)
		}
		return s
	}
	s.current.Store(model)
	log.Printf("loaded model artifact from %s (%d trees)", path, len(model.Trees))
	return s
}

// IsTrained reports whether a model is currently loaded
func (s *Store) IsTrained() bool {
	return s.current.Load() != nil
}

// Predict runs inference against the currently loaded model
func (s *Store) Predict(features []float64) (float64, error) {
	model := s.current.Load()
	if model == nil {
		return 0, ErrNotTrained
	}
	return model.Predict(features)
}

// Replace persists the model to the artifact path and swaps the in-memory
// reference. Overlapping retrains are not excluded at the call level; the
// later swap wins.
func (s *Store) Replace(model *Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := model.Save(s.path); err != nil {
		return err
	}
	s.current.Store(model)
	return nil
}

// Path returns the artifact location
func (s *Store) Path() string {
	return s.path
}
