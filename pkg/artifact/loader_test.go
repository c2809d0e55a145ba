package artifact

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logisticArtifact = `{
	"format_version": 1,
	"model_type": "logistic_regression",
	"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
	"weights": [0.02, -0.05, 0.01, 0.0005, 0.3],
	"intercept": -1.0,
	"threshold": 0.5
}`

const treeArtifact = `{
	"format_version": 1,
	"model_type": "decision_tree",
	"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
	"nodes": [
		{"feature_idx": 4, "threshold": 2, "left_child": 1, "right_child": 2},
		{"is_leaf": true, "class_label": 0, "probability": 0.12},
		{"is_leaf": true, "class_label": 1, "probability": 0.81}
	]
}`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "churn_model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLogisticArtifact(t *testing.T) {
	path := writeArtifact(t, logisticArtifact)

	snap, err := Load(FileStore{}, path)
	require.NoError(t, err)
	assert.Equal(t, ModelTypeLogisticRegression, snap.ModelType)
	assert.NotEmpty(t, snap.Version)

	label, err := snap.Predictor.Classify(feature.Vector{45, 24, 79.99, 1920.00, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	prob, err := snap.Predictor.Score(feature.Vector{45, 24, 79.99, 1920.00, 3})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, prob, 0.0)
	assert.LessOrEqual(t, prob, 1.0)
}

func TestLoadTreeArtifact(t *testing.T) {
	path := writeArtifact(t, treeArtifact)

	snap, err := Load(FileStore{}, path)
	require.NoError(t, err)
	assert.Equal(t, ModelTypeDecisionTree, snap.ModelType)

	prob, err := snap.Predictor.Score(feature.Vector{45, 24, 79.99, 1920.00, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.81, prob)
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(FileStore{}, filepath.Join(t.TempDir(), "nope.json"))
	var notFound *errors.ArtifactNotFoundError
	assert.True(t, goerrors.As(err, &notFound))
}

func TestLoadCorruptArtifacts(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not json", "definitely not json"},
		{"unknown model type", `{
			"model_type": "gradient_boosting",
			"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"]
		}`},
		{"feature order mismatch", `{
			"model_type": "logistic_regression",
			"feature_names": ["tenure_months", "age", "monthly_charges", "total_charges", "num_support_calls"],
			"weights": [1, 1, 1, 1, 1]
		}`},
		{"wrong feature count", `{
			"model_type": "logistic_regression",
			"feature_names": ["age", "tenure_months", "monthly_charges"],
			"weights": [1, 1, 1]
		}`},
		{"weight arity mismatch", `{
			"model_type": "logistic_regression",
			"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
			"weights": [1, 1]
		}`},
		{"threshold out of range", `{
			"model_type": "logistic_regression",
			"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
			"weights": [1, 1, 1, 1, 1],
			"threshold": 1.7
		}`},
		{"empty tree", `{
			"model_type": "decision_tree",
			"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
			"nodes": []
		}`},
		{"tree child out of range", `{
			"model_type": "decision_tree",
			"feature_names": ["age", "tenure_months", "monthly_charges", "total_charges", "num_support_calls"],
			"nodes": [{"feature_idx": 0, "threshold": 1, "left_child": 5, "right_child": 6}]
		}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeArtifact(t, tc.content)
			_, err := Load(FileStore{}, path)
			var corrupt *errors.ArtifactCorruptError
			assert.True(t, goerrors.As(err, &corrupt), "expected ArtifactCorruptError, got %v", err)
		})
	}
}

func TestLoadVersionTracksBytes(t *testing.T) {
	first, err := Load(FileStore{}, writeArtifact(t, logisticArtifact))
	require.NoError(t, err)
	second, err := Load(FileStore{}, writeArtifact(t, treeArtifact))
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, second.Version)
}
