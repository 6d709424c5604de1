package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const onlineBoardingSlot = 10

// boardingStump splits on the online boarding rating.
func boardingStump() []TreeNode {
	return []TreeNode{
		{FeatureIdx: onlineBoardingSlot, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 0, IsLeaf: true, Confidence: 0.8},
		{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: 1, IsLeaf: true},
	}
}

func leaf(label int) []TreeNode {
	return []TreeNode{{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: label, IsLeaf: true}}
}

func vectorWith(slot int, value float64) []float64 {
	v := make([]float64, FeatureCount)
	v[slot] = value
	return v
}

func TestDecisionTreePredict(t *testing.T) {
	model, err := NewDecisionTree(boardingStump())
	require.NoError(t, err)

	label, confidence, err := model.Predict(vectorWith(onlineBoardingSlot, 0.2))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.Equal(t, 0.8, confidence)

	label, confidence, err = model.Predict(vectorWith(onlineBoardingSlot, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 0, label, "threshold is inclusive on the left")

	label, confidence, err = model.Predict(vectorWith(onlineBoardingSlot, 1.0))
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Equal(t, 1.0, confidence)
}

func TestDecisionTreeShortVector(t *testing.T) {
	model, err := NewDecisionTree(boardingStump())
	require.NoError(t, err)
	_, _, err = model.Predict([]float64{0.1})
	assert.Error(t, err)
}

func TestDecisionTreeRejectsInvalidNodes(t *testing.T) {
	_, err := NewDecisionTree(nil)
	assert.Error(t, err)

	cyclic := boardingStump()
	cyclic[0].RightChild = 0
	_, err = NewDecisionTree(cyclic)
	assert.Error(t, err)

	wide := boardingStump()
	wide[0].FeatureIdx = FeatureCount
	_, err = NewDecisionTree(wide)
	assert.Error(t, err)

	dangling := boardingStump()
	dangling[0].LeftChild = 7
	_, err = NewDecisionTree(dangling)
	assert.Error(t, err)
}

func TestDecisionTreeSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	model, err := NewDecisionTree(boardingStump())
	require.NoError(t, err)
	require.NoError(t, model.Save(path))

	loaded, err := LoadModel(ModelTypeDecisionTree, path)
	require.NoError(t, err)
	label, _, err := loaded.Predict(vectorWith(onlineBoardingSlot, 0.8))
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestRandomForestVote(t *testing.T) {
	forest, err := NewRandomForest(boardingStump(), leaf(1), leaf(0))
	require.NoError(t, err)

	label, confidence, err := forest.Predict(vectorWith(onlineBoardingSlot, 1.0))
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.InDelta(t, 2.0/3.0, confidence, 1e-9)

	label, confidence, err = forest.Predict(vectorWith(onlineBoardingSlot, 0.0))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.InDelta(t, 2.0/3.0, confidence, 1e-9)
}

func TestRandomForestTieGoesToLowerLabel(t *testing.T) {
	forest, err := NewRandomForest(leaf(1), leaf(0))
	require.NoError(t, err)
	label, confidence, err := forest.Predict(make([]float64, FeatureCount))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.Equal(t, 0.5, confidence)
}

func TestRandomForestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.json")
	forest, err := NewRandomForest(boardingStump(), boardingStump(), leaf(0))
	require.NoError(t, err)
	require.NoError(t, forest.Save(path))

	loaded, err := LoadModel(ModelTypeRandomForest, path)
	require.NoError(t, err)
	label, _, err := loaded.Predict(vectorWith(onlineBoardingSlot, 1.0))
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestLoadModelFailuresAreUnavailable(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel("svm", filepath.Join(dir, "model.json"))
	assert.ErrorIs(t, err, ErrClassifierUnavailable)

	_, err = LoadModel(ModelTypeRandomForest, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o600))
	_, err = LoadModel(ModelTypeDecisionTree, garbage)
	assert.ErrorIs(t, err, ErrClassifierUnavailable)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"trees":[]}`), 0o600))
	_, err = LoadModel(ModelTypeRandomForest, empty)
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestBundledArtifact(t *testing.T) {
	model, err := LoadModel(ModelTypeRandomForest, filepath.Join("..", "models", "random_forest.json"))
	require.NoError(t, err)

	v, err := Encode(samplePassenger())
	require.NoError(t, err)
	label, confidence, err := model.Predict(v[:])
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.InDelta(t, 2.0/3.0, confidence, 1e-9)
}
