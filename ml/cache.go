package ml

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type prediction struct {
	label      int
	confidence float64
	// generation is the cache generation the model was queried under.
	generation uint64
}

// CachedModel memoizes predictions by exact feature vector. Encoding and
// inference are both deterministic, so a hit is always the answer the model
// would give.
type CachedModel struct {
	model Model
	cache *lru.Cache[FeatureVector, prediction]
	// generation is bumped by Purge. Entries from an older generation are
	// misses, so a prediction that raced a purge is never served.
	generation atomic.Uint64
}

func NewCachedModel(model Model, size int) (*CachedModel, error) {
	cache, err := lru.New[FeatureVector, prediction](size)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}
	return &CachedModel{model: model, cache: cache}, nil
}

func (c *CachedModel) Predict(features []float64) (int, float64, error) {
	if len(features) != FeatureCount {
		return c.model.Predict(features)
	}
	var key FeatureVector
	copy(key[:], features)
	gen := c.generation.Load()
	if hit, ok := c.cache.Get(key); ok && hit.generation == gen {
		return hit.label, hit.confidence, nil
	}
	label, confidence, err := c.model.Predict(features)
	if err != nil {
		return 0, 0, err
	}
	c.cache.Add(key, prediction{label: label, confidence: confidence, generation: gen})
	return label, confidence, nil
}

// Purge drops every memoized prediction. Call it when the underlying model
// changes.
func (c *CachedModel) Purge() {
	c.generation.Add(1)
	c.cache.Purge()
}

func (c *CachedModel) Len() int {
	return c.cache.Len()
}
