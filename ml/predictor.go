package ml

import (
	"fmt"
)

// Prediction is the outcome of one encode-and-predict cycle.
type Prediction struct {
	Label      Label         `json:"label"`
	Confidence float64       `json:"confidence"`
	Features   FeatureVector `json:"features"`
}

func (p Prediction) Display() string {
	return p.Label.Display()
}

// Predictor runs the encoder and hands the vector to the model.
type Predictor struct {
	model Model
}

func NewPredictor(model Model) *Predictor {
	return &Predictor{model: model}
}

func (p *Predictor) Predict(in PassengerInput) (Prediction, error) {
	features, err := Encode(in)
	if err != nil {
		return Prediction{}, err
	}
	return p.PredictVector(features)
}

// PredictVector classifies an already encoded vector. Labels other than 0 and 1
// mean the artifact does not honour the satisfaction contract.
func (p *Predictor) PredictVector(features FeatureVector) (Prediction, error) {
	if p.model == nil {
		return Prediction{}, unavailable("no model configured", nil)
	}
	label, confidence, err := p.model.Predict(features[:])
	if err != nil {
		if IsInputError(err) {
			return Prediction{}, err
		}
		return Prediction{}, unavailable("predict", err)
	}
	switch Label(label) {
	case LabelNeutralOrDissatisfied, LabelSatisfied:
	default:
		return Prediction{}, unavailable(fmt.Sprintf("model returned unknown label %d", label), nil)
	}
	return Prediction{Label: Label(label), Confidence: confidence, Features: features}, nil
}
