package errors

import "fmt"

// ValidationError reports a client-supplied field or vector that violates a
// request rule. It is never fatal and always maps to a 4xx response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ArtifactNotFoundError indicates the artifact store has nothing at the
// requested location.
type ArtifactNotFoundError struct {
	Location string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("artifact not found at %s", e.Location)
}

// ArtifactCorruptError indicates the artifact exists but cannot be turned
// into a working predictor.
type ArtifactCorruptError struct {
	Location string
	Reason   string
}

func (e *ArtifactCorruptError) Error() string {
	return fmt.Sprintf("artifact at %s is corrupt: %s", e.Location, e.Reason)
}

// PredictorUnavailableError indicates no predictor snapshot is ready to
// serve traffic. Maps to 503.
type PredictorUnavailableError struct{}

func (e *PredictorUnavailableError) Error() string {
	return "no predictor is ready"
}

// EngineError wraps an unexpected failure inside a predictor invocation.
// Logged server-side, surfaced to callers as a generic 500.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("prediction engine failure: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
