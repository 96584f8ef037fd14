package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	features, labels := linearDataset(40)
	model, err := Train(features, labels, Config{Trees: 5, MaxLeaves: 4, MinSamplesLeaf: 2, LearningRate: 0.5})
	require.NoError(t, err)
	return model
}

func TestNewStoreMissingArtifact(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "model.gob"))
	assert.False(t, store.IsTrained())

	_, err := store.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestNewStoreCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0644))

	store := NewStore(path)
	assert.False(t, store.IsTrained())
}

func TestReplacePersistsAndSwaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "model.gob")
	store := NewStore(path)
	require.False(t, store.IsTrained())

	model := trainedModel(t)
	require.NoError(t, store.Replace(model))
	assert.True(t, store.IsTrained())

	_, err := os.Stat(path)
	require.NoError(t, err)

	// A fresh store sees the persisted artifact
	reloaded := NewStore(path)
	assert.True(t, reloaded.IsTrained())

	want, err := store.Predict([]float64{10, -10})
	require.NoError(t, err)
	got, err := reloaded.Predict([]float64{10, -10})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
