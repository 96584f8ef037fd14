// Package ml implements the trained review-time regressor and the store that
// owns the currently loaded model artifact.
package ml

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// Config holds the tunable training parameters for the boosted ensemble
type Config struct {
	Trees          int     // number of boosting rounds
	MaxLeaves      int     // leaf budget per tree
	MinSamplesLeaf int     // minimum examples per leaf
	LearningRate   float64 // shrinkage applied to each tree's contribution
}

// DefaultConfig returns the default training parameters
func DefaultConfig() Config {
	return Config{
		Trees:          100,
		MaxLeaves:      20,
		MinSamplesLeaf: 10,
		LearningRate:   0.1,
	}
}

// TreeNode is one node of a regression tree. Exported fields so the model
// serializes with encoding/gob.
type TreeNode struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// Model is a gradient-boosted ensemble of regression trees together with the
// min-max bounds used to normalize features at training time
type Model struct {
	Base         float64 // mean label, the starting prediction
	LearningRate float64
	FeatureMin   []float64
	FeatureMax   []float64
	Trees        []*TreeNode
}

// Train fits a boosted ensemble to the given feature matrix and labels
func Train(features [][]float64, labels []float64, cfg Config) (*Model, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no training examples")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("feature/label count mismatch: %d vs %d", len(features), len(labels))
	}
	dim := len(features[0])
	for i, row := range features {
		if len(row) != dim {
			return nil, fmt.Errorf("example %d has %d features, want %d", i, len(row), dim)
		}
	}
	if cfg.Trees <= 0 || cfg.MaxLeaves < 2 || cfg.MinSamplesLeaf < 1 || cfg.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid training config: %+v", cfg)
	}

	model := &Model{
		LearningRate: cfg.LearningRate,
		FeatureMin:   make([]float64, dim),
		FeatureMax:   make([]float64, dim),
	}
	for f := 0; f < dim; f++ {
		model.FeatureMin[f] = math.Inf(1)
		model.FeatureMax[f] = math.Inf(-1)
		for _, row := range features {
			if row[f] < model.FeatureMin[f] {
				model.FeatureMin[f] = row[f]
			}
			if row[f] > model.FeatureMax[f] {
				model.FeatureMax[f] = row[f]
			}
		}
	}

	normalized := make([][]float64, len(features))
	for i, row := range features {
		normalized[i] = model.normalize(row)
	}

	for _, y := range labels {
		model.Base += y
	}
	model.Base /= float64(len(labels))

	preds := make([]float64, len(labels))
	for i := range preds {
		preds[i] = model.Base
	}

	residuals := make([]float64, len(labels))
	indices := make([]int, len(labels))
	for round := 0; round < cfg.Trees; round++ {
		for i := range labels {
			residuals[i] = labels[i] - preds[i]
			indices[i] = i
		}
		leaves := 1
		tree := buildTree(normalized, residuals, indices, cfg, &leaves)
		model.Trees = append(model.Trees, tree)
		for i, row := range normalized {
			preds[i] += cfg.LearningRate * evalTree(tree, row)
		}
	}

	return model, nil
}

// Predict returns the raw regression output for one feature vector
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != len(m.FeatureMin) {
		return 0, fmt.Errorf("got %d features, model expects %d", len(features), len(m.FeatureMin))
	}
	row := m.normalize(features)
	out := m.Base
	for _, tree := range m.Trees {
		out += m.LearningRate * evalTree(tree, row)
	}
	return out, nil
}

// Save writes the model to the artifact path, creating parent directories as
// needed
func (m *Model) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %v", err)
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create model file: %v", err)
	}
	if err := gob.NewEncoder(file).Encode(m); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode model: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close model file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move model into place: %v", err)
	}
	return nil
}

// Load reads a model from the artifact path. A missing file yields
// os.ErrNotExist so callers can treat absence as the untrained state.
func Load(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var model Model
	if err := gob.NewDecoder(file).Decode(&model); err != nil {
		return nil, fmt.Errorf("failed to decode model: %v", err)
	}
	if len(model.FeatureMin) == 0 || len(model.Trees) == 0 {
		return nil, fmt.Errorf("model artifact is empty")
	}
	return &model, nil
}

func (m *Model) normalize(features []float64) []float64 {
	row := make([]float64, len(features))
	for f, v := range features {
		span := m.FeatureMax[f] - m.FeatureMin[f]
		if span > 0 {
			row[f] = (v - m.FeatureMin[f]) / span
		}
	}
	return row
}

// buildTree grows a regression tree on the residuals, greedily choosing the
// split with the largest squared-error reduction. leaves tracks the tree-wide
// leaf budget: each split converts one prospective leaf into two.
func buildTree(features [][]float64, residuals []float64, indices []int, cfg Config, leaves *int) *TreeNode {
	if len(indices) < 2*cfg.MinSamplesLeaf || *leaves >= cfg.MaxLeaves {
		return leafNode(residuals, indices)
	}

	bestScore := math.Inf(-1)
	bestFeature := -1
	bestThreshold := 0.0
	var bestLeft, bestRight []int

	dim := len(features[indices[0]])
	sorted := make([]int, len(indices))
	for f := 0; f < dim; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool {
			return features[sorted[i]][f] < features[sorted[j]][f]
		})

		leftSum := 0.0
		total := 0.0
		for _, i := range sorted {
			total += residuals[i]
		}
		for k := 1; k < len(sorted); k++ {
			leftSum += residuals[sorted[k-1]]
			if k < cfg.MinSamplesLeaf || len(sorted)-k < cfg.MinSamplesLeaf {
				continue
			}
			lo, hi := features[sorted[k-1]][f], features[sorted[k]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			score := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(len(sorted)-k)
			if score > bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (lo + hi) / 2
				bestLeft = append(bestLeft[:0], sorted[:k]...)
				bestRight = append(bestRight[:0], sorted[k:]...)
			}
		}
	}

	if bestFeature < 0 {
		return leafNode(residuals, indices)
	}

	*leaves++
	left := make([]int, len(bestLeft))
	copy(left, bestLeft)
	right := make([]int, len(bestRight))
	copy(right, bestRight)
	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      buildTree(features, residuals, left, cfg, leaves),
		Right:     buildTree(features, residuals, right, cfg, leaves),
	}
}

func leafNode(residuals []float64, indices []int) *TreeNode {
	sum := 0.0
	for _, i := range indices {
		sum += residuals[i]
	}
	value := 0.0
	if len(indices) > 0 {
		value = sum / float64(len(indices))
	}
	return &TreeNode{Leaf: true, Value: value}
}

func evalTree(node *TreeNode, row []float64) float64 {
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}
