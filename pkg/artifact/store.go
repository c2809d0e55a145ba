// Package artifact resolves serialized classifier artifacts into ready
// predictor snapshots.
package artifact

import (
	"os"

	"github.com/churnlabs/churnserve/internal/errors"
)

// Store fetches serialized artifacts. The service only reads; versioning and
// uploads belong to the model version-control tooling outside this process.
type Store interface {
	Fetch(location string) ([]byte, error)
}

// FileStore reads artifacts from the local filesystem, typically a volume the
// orchestrator mounts into the container.
type FileStore struct{}

func (FileStore) Fetch(location string) ([]byte, error) {
	raw, err := os.ReadFile(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.ArtifactNotFoundError{Location: location}
		}
		return nil, &errors.ArtifactCorruptError{Location: location, Reason: err.Error()}
	}
	return raw, nil
}
