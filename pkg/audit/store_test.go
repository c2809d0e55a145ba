package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRecordsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(path)
	require.NoError(t, err)

	store.Record(Entry{
		RequestID:    "req-1",
		Endpoint:     "named",
		ModelVersion: "v1",
		Features:     []float64{45, 24, 79.99, 1920.00, 3},
		Label:        1,
		Probability:  0.73,
		LatencyMs:    2,
		At:           time.Now().UTC(),
	})
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	var label int
	var features string
	row := reopened.db.QueryRow("SELECT COUNT(*), label, features FROM prediction_audit")
	require.NoError(t, row.Scan(&count, &label, &features))
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, label)
	assert.Contains(t, features, "79.99")
}
