package churn

// BatchPredictRequest is the array-protocol body: ordered feature vectors in
// the canonical field order, no names on the wire.
type BatchPredictRequest struct {
	Instances [][]float64 `json:"instances"`
}

// BatchPredictResponse carries one label per input vector, in input order.
type BatchPredictResponse struct {
	Predictions []int `json:"predictions"`
}

// ModelMetadataResponse is the per-model status surface.
type ModelMetadataResponse struct {
	Name      string `json:"name"`
	Ready     bool   `json:"ready"`
	ModelType string `json:"model_type,omitempty"`
	Version   string `json:"version,omitempty"`
	LoadedAt  string `json:"loaded_at,omitempty"`
}

// ReloadResponse reports the outcome of a manual reload.
type ReloadResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
