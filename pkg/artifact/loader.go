package artifact

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/spaolacci/murmur3"
)

const (
	ModelTypeLogisticRegression = "logistic_regression"
	ModelTypeDecisionTree       = "decision_tree"

	// Default decision cut applied when a logistic artifact omits its
	// threshold, matching the trainer's default decision rule.
	defaultThreshold = 0.5
)

// Manifest is the on-disk artifact layout: a JSON envelope with the model
// type, the declared feature order, and type-specific parameters.
type Manifest struct {
	FormatVersion int      `json:"format_version"`
	ModelType     string   `json:"model_type"`
	FeatureNames  []string `json:"feature_names"`

	// logistic_regression
	Weights   []float64 `json:"weights,omitempty"`
	Intercept float64   `json:"intercept,omitempty"`
	Threshold *float64  `json:"threshold,omitempty"`

	// decision_tree
	Nodes []predictor.TreeNode `json:"nodes,omitempty"`
}

// Load fetches and deserializes one artifact into an invocable snapshot.
// The declared feature order must equal the canonical schema exactly: the
// schema is not transmitted with predictions, so positional disagreement
// between training and serving would produce silently wrong answers.
func Load(store Store, location string) (*predictor.Snapshot, error) {
	raw, err := store.Fetch(location)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: err.Error()}
	}

	if err := checkFeatureOrder(manifest.FeatureNames); err != nil {
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: err.Error()}
	}

	var model predictor.Predictor
	switch manifest.ModelType {
	case ModelTypeLogisticRegression:
		threshold := defaultThreshold
		if manifest.Threshold != nil {
			threshold = *manifest.Threshold
		}
		model, err = predictor.NewLogisticModel(manifest.Weights, manifest.Intercept, threshold)
	case ModelTypeDecisionTree:
		model, err = predictor.NewTreeModel(manifest.Nodes)
	default:
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: fmt.Sprintf("unsupported model type %q", manifest.ModelType)}
	}
	if err != nil {
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: err.Error()}
	}

	if err := probeCapabilities(model); err != nil {
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: err.Error()}
	}

	return &predictor.Snapshot{
		Predictor: model,
		Version:   fmt.Sprintf("%016x", murmur3.Sum64(raw)),
		ModelType: manifest.ModelType,
		LoadedAt:  time.Now().UTC(),
	}, nil
}

func checkFeatureOrder(declared []string) error {
	if len(declared) != len(feature.FieldNames) {
		return fmt.Errorf("declared %d features, schema has %d", len(declared), len(feature.FieldNames))
	}
	for i, name := range declared {
		if name != feature.FieldNames[i] {
			return fmt.Errorf("feature order mismatch at position %d: artifact declares %q, schema expects %q", i, name, feature.FieldNames[i])
		}
	}
	return nil
}

// probeCapabilities exercises both predictor capabilities once before the
// artifact is declared loaded.
func probeCapabilities(model predictor.Predictor) error {
	probe := make(feature.Vector, feature.VectorSize)
	label, err := model.Classify(probe)
	if err != nil {
		return fmt.Errorf("classification capability check failed: %v", err)
	}
	if label != 0 && label != 1 {
		return fmt.Errorf("classification capability check returned label %d outside {0,1}", label)
	}
	prob, err := model.Score(probe)
	if err != nil {
		return fmt.Errorf("scoring capability check failed: %v", err)
	}
	if prob < 0 || prob > 1 {
		return fmt.Errorf("scoring capability check returned probability %v outside [0,1]", prob)
	}
	return nil
}
