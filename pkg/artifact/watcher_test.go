package artifact

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceArtifact mimics a model rollout: write the new bytes to a temp file
// in the same directory, then rename it over the artifact.
func replaceArtifact(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".next"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o644))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatchReloadsOnceOnReplacement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn_model.json")
	require.NoError(t, os.WriteFile(path, []byte(logisticArtifact), 0o644))

	var reloads atomic.Int64
	watcher, err := Watch(path, func() error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer watcher.Close()

	replaceArtifact(t, path, treeArtifact)

	require.Eventually(t, func() bool {
		return reloads.Load() == 1
	}, 3*time.Second, 20*time.Millisecond)

	// The rollout produced several filesystem events; the debounce must
	// collapse them into a single reload.
	time.Sleep(2 * debounceWindow)
	assert.Equal(t, int64(1), reloads.Load())
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "churn_model.json")
	require.NoError(t, os.WriteFile(path, []byte(logisticArtifact), 0o644))

	var reloads atomic.Int64
	watcher, err := Watch(path, func() error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	time.Sleep(2 * debounceWindow)
	assert.Equal(t, int64(0), reloads.Load())
}

func TestWatchCorruptReplacementKeepsServing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn_model.json")
	require.NoError(t, os.WriteFile(path, []byte(logisticArtifact), 0o644))

	registry := predictor.NewRegistry()
	load := func() (*predictor.Snapshot, error) {
		return Load(FileStore{}, path)
	}
	require.NoError(t, registry.Reload(load))
	snap, ok := registry.Current()
	require.True(t, ok)
	servingVersion := snap.Version

	var attempts atomic.Int64
	watcher, err := Watch(path, func() error {
		attempts.Add(1)
		return registry.Reload(load)
	})
	require.NoError(t, err)
	defer watcher.Close()

	replaceArtifact(t, path, `{"model_type": "logistic_regression"`)

	require.Eventually(t, func() bool {
		return attempts.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	snap, ok = registry.Current()
	require.True(t, ok)
	assert.Equal(t, servingVersion, snap.Version)
}
