package predictor

import (
	"fmt"
	"math"

	"github.com/churnlabs/churnserve/pkg/feature"
)

// LogisticModel scores with a fitted logistic regression. The decision
// threshold comes from the artifact, so the label is the model's own rule
// rather than a hard-coded 0.5 cut.
type LogisticModel struct {
	weights   []float64
	intercept float64
	threshold float64
}

func NewLogisticModel(weights []float64, intercept, threshold float64) (*LogisticModel, error) {
	if len(weights) != feature.VectorSize {
		return nil, fmt.Errorf("expected %d weights, got %d", feature.VectorSize, len(weights))
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]", threshold)
	}
	m := &LogisticModel{
		weights:   append([]float64(nil), weights...),
		intercept: intercept,
		threshold: threshold,
	}
	return m, nil
}

func (m *LogisticModel) Classify(vec feature.Vector) (int, error) {
	score, err := m.Score(vec)
	if err != nil {
		return 0, err
	}
	if score >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

func (m *LogisticModel) Score(vec feature.Vector) (float64, error) {
	if len(vec) != len(m.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.weights), len(vec))
	}
	z := m.intercept
	for i, w := range m.weights {
		z += w * vec[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
