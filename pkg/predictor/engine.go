package predictor

import (
	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/churnlabs/churnserve/pkg/feature"
)

// Engine invokes a snapshot's predictor. Label and probability are always
// computed against the same snapshot, so a reload completing mid-request can
// never mix an old label with a new probability.
type Engine struct {
	cache *PredictionCache
}

// NewEngine creates an engine. cache may be nil to disable memoization.
func NewEngine(cache *PredictionCache) *Engine {
	return &Engine{cache: cache}
}

// Predict returns the label and class-1 probability for one vector. Both
// values come directly from the predictor; neither is derived from the other.
func (e *Engine) Predict(snap *Snapshot, vec feature.Vector) (int, float64, error) {
	if e.cache != nil {
		if label, prob, ok := e.cache.Get(snap.Version, vec); ok {
			return label, prob, nil
		}
	}

	label, err := snap.Predictor.Classify(vec)
	if err != nil {
		return 0, 0, &errors.EngineError{Err: err}
	}
	prob, err := snap.Predictor.Score(vec)
	if err != nil {
		return 0, 0, &errors.EngineError{Err: err}
	}

	if e.cache != nil {
		e.cache.Put(snap.Version, vec, label, prob)
	}
	return label, prob, nil
}

// PredictBatch predicts each vector in input order, one output per input.
// Vectors are structurally validated by the codec before this runs, so a
// failure here is an engine failure and fails the whole batch.
func (e *Engine) PredictBatch(snap *Snapshot, vecs []feature.Vector) ([]int, []float64, error) {
	labels := make([]int, len(vecs))
	probs := make([]float64, len(vecs))
	for i, vec := range vecs {
		label, prob, err := e.Predict(snap, vec)
		if err != nil {
			return nil, nil, err
		}
		labels[i] = label
		probs[i] = prob
	}
	return labels, probs, nil
}
