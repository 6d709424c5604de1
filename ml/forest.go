package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// RandomForest takes a majority vote over independently stored trees.
type RandomForest struct {
	trees [][]TreeNode
}

type forestArtifact struct {
	Trees [][]TreeNode `json:"trees"`
}

func NewRandomForest(trees ...[]TreeNode) (*RandomForest, error) {
	if err := validateForest(trees); err != nil {
		return nil, err
	}
	return &RandomForest{trees: trees}, nil
}

// Predict returns the label with the most votes and the share of trees that voted
// for it. Ties go to the lower label.
func (f *RandomForest) Predict(features []float64) (int, float64, error) {
	if len(f.trees) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	votes := make(map[int]int)
	for i, tree := range f.trees {
		label, _, err := predictNodes(tree, features)
		if err != nil {
			return 0, 0, fmt.Errorf("tree %d: %w", i, err)
		}
		votes[label]++
	}

	best, bestVotes := 0, -1
	for label, count := range votes {
		if count > bestVotes || (count == bestVotes && label < best) {
			best, bestVotes = label, count
		}
	}
	return best, float64(bestVotes) / float64(len(f.trees)), nil
}

func (f *RandomForest) Save(path string) error {
	if len(f.trees) == 0 {
		return errors.New("model not loaded")
	}
	payload, err := json.Marshal(forestArtifact{Trees: f.trees})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (f *RandomForest) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact forestArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return fmt.Errorf("decode forest: %w", err)
	}
	if err := validateForest(artifact.Trees); err != nil {
		return err
	}
	f.trees = artifact.Trees
	return nil
}

func validateForest(trees [][]TreeNode) error {
	if len(trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i, tree := range trees {
		if err := validateNodes(tree); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
