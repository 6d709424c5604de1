package ml

// Model is a loaded classifier artifact.
type Model interface {
	Predict(features []float64) (int, float64, error)
}

type Label int

const (
	LabelNeutralOrDissatisfied Label = 0
	LabelSatisfied             Label = 1
)

// Display is the text shown to the passenger for a prediction.
func (l Label) Display() string {
	if l == LabelSatisfied {
		return "Satisfied"
	}
	return "Neutral or Dissatisfied"
}
