package ml

import (
	"fmt"
)

const (
	ModelTypeDecisionTree = "decision_tree"
	ModelTypeRandomForest = "random_forest"
)

// LoadModel reads a classifier artifact from disk. Every failure is reported as
// ErrClassifierUnavailable.
func LoadModel(modelType, path string) (Model, error) {
	switch modelType {
	case ModelTypeDecisionTree:
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, unavailable("load "+path, err)
		}
		return model, nil
	case ModelTypeRandomForest:
		model := &RandomForest{}
		if err := model.Load(path); err != nil {
			return nil, unavailable("load "+path, err)
		}
		return model, nil
	default:
		return nil, unavailable(fmt.Sprintf("unsupported model type %q", modelType), nil)
	}
}
