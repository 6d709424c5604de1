package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingModel struct {
	calls int
	label int
	err   error
}

func (m *countingModel) Predict(features []float64) (int, float64, error) {
	m.calls++
	return m.label, 0.9, m.err
}

func TestCachedModelMemoizes(t *testing.T) {
	inner := &countingModel{label: 1}
	cached, err := NewCachedModel(inner, 8)
	require.NoError(t, err)

	v := vectorWith(3, 1)
	for i := 0; i < 3; i++ {
		label, confidence, err := cached.Predict(v)
		require.NoError(t, err)
		assert.Equal(t, 1, label)
		assert.Equal(t, 0.9, confidence)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.Len())

	_, _, err = cached.Predict(vectorWith(4, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	cached.Purge()
	assert.Equal(t, 0, cached.Len())
	_, _, err = cached.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedModelDoesNotCacheErrors(t *testing.T) {
	inner := &countingModel{err: errors.New("boom")}
	cached, err := NewCachedModel(inner, 8)
	require.NoError(t, err)

	v := vectorWith(0, 1)
	_, _, err = cached.Predict(v)
	assert.Error(t, err)
	_, _, err = cached.Predict(v)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedModelInvalidSize(t *testing.T) {
	_, err := NewCachedModel(&countingModel{}, 0)
	assert.Error(t, err)
}

// reloadingModel purges its cache while a prediction is in flight, the way a
// hot reload can land between inference and the cache write.
type reloadingModel struct {
	cache *CachedModel
	calls int
}

func (m *reloadingModel) Predict(features []float64) (int, float64, error) {
	m.calls++
	if m.calls == 1 {
		m.cache.Purge()
		return 0, 0.5, nil
	}
	return 1, 0.9, nil
}

func TestCachedModelIgnoresPredictionRacingPurge(t *testing.T) {
	inner := &reloadingModel{}
	cached, err := NewCachedModel(inner, 8)
	require.NoError(t, err)
	inner.cache = cached

	v := vectorWith(5, 1)
	label, _, err := cached.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	label, confidence, err := cached.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Equal(t, 0.9, confidence)
	assert.Equal(t, 2, inner.calls)

	label, _, err = cached.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.Equal(t, 2, inner.calls)
}
