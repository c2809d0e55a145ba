// Package predictor holds the loaded classifier and the machinery that
// invokes it: the capability interface, its concrete artifact-backed
// implementations, the atomically swappable registry, and the engine.
package predictor

import (
	"time"

	"github.com/churnlabs/churnserve/pkg/feature"
)

// Predictor is the fixed capability surface of a loaded classifier. Both
// capabilities must be present for an artifact to load. Implementations are
// immutable after construction and safe for concurrent use.
type Predictor interface {
	// Classify returns the class label (0 or 1) using the model's own
	// decision rule.
	Classify(vec feature.Vector) (int, error)
	// Score returns the model's continuous estimate of class-1 membership
	// in [0,1]. Not necessarily thresholded at 0.5 to produce the label.
	Score(vec feature.Vector) (float64, error)
}

// Snapshot is one complete loaded predictor plus its provenance. A snapshot
// is never mutated; reloads replace it wholesale.
type Snapshot struct {
	Predictor Predictor
	Version   string
	ModelType string
	LoadedAt  time.Time
}
