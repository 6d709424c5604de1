package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	label      int
	confidence float64
	err        error
	seen       []float64
}

func (f *fakeModel) Predict(features []float64) (int, float64, error) {
	f.seen = append([]float64(nil), features...)
	return f.label, f.confidence, f.err
}

func TestPredictorSatisfied(t *testing.T) {
	model := &fakeModel{label: 1, confidence: 0.7}
	p := NewPredictor(model)

	pred, err := p.Predict(samplePassenger())
	require.NoError(t, err)
	assert.Equal(t, LabelSatisfied, pred.Label)
	assert.Equal(t, "Satisfied", pred.Display())
	assert.Equal(t, 0.7, pred.Confidence)

	expected, err := Encode(samplePassenger())
	require.NoError(t, err)
	assert.Equal(t, expected, pred.Features)
	assert.Equal(t, expected[:], model.seen)
}

func TestPredictorNeutral(t *testing.T) {
	pred, err := NewPredictor(&fakeModel{label: 0}).Predict(samplePassenger())
	require.NoError(t, err)
	assert.Equal(t, LabelNeutralOrDissatisfied, pred.Label)
	assert.Equal(t, "Neutral or Dissatisfied", pred.Display())
}

func TestPredictorInputErrorSkipsModel(t *testing.T) {
	model := &fakeModel{label: 1}
	in := samplePassenger()
	in.Gender = "?"
	_, err := NewPredictor(model).Predict(in)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Nil(t, model.seen)
}

func TestPredictorUnavailable(t *testing.T) {
	_, err := NewPredictor(nil).Predict(samplePassenger())
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.False(t, IsInputError(err))

	_, err = NewPredictor(&fakeModel{err: errors.New("corrupt")}).Predict(samplePassenger())
	assert.ErrorIs(t, err, ErrClassifierUnavailable)

	_, err = NewPredictor(&fakeModel{label: 2}).Predict(samplePassenger())
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}
