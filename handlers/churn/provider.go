package churn

import (
	"fmt"
	"time"

	"github.com/churnlabs/churnserve/pkg/artifact"
	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/churnlabs/churnserve/pkg/predictor"
)

// artifactPathKey is the dynamic-config key that re-points the artifact.
const artifactPathKey = "artifact-path"

// Options carries the collaborators main wires in.
type Options struct {
	Store   artifact.Store
	Cache   *predictor.PredictionCache
	Auditor *Auditor
}

// InitChurnHandler loads the artifact and builds the serving handler. A load
// failure here is startup-fatal: the caller must not begin accepting traffic.
func InitChurnHandler(appConfigs *configs.AppConfigs, opts Options) (*Handler, error) {
	store := opts.Store
	if store == nil {
		store = artifact.FileStore{}
	}
	auditor := opts.Auditor
	if auditor == nil {
		auditor = NewAuditor(nil, 0)
	}

	handler := &Handler{
		modelName: appConfigs.Configs.ModelName,
		registry:  predictor.NewRegistry(),
		engine:    predictor.NewEngine(opts.Cache),
		auditor:   auditor,
		store:     store,
		cache:     opts.Cache,
		location:  appConfigs.Configs.ModelArtifactPath,
	}

	if err := handler.ReloadModel(); err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Churn handler initialized with model %s", appConfigs.Configs.ModelName))
	return handler, nil
}

// Registry exposes the snapshot registry for readiness reporting.
func (h *Handler) Registry() *predictor.Registry {
	return h.registry
}

// ArtifactPath returns the current artifact location.
func (h *Handler) ArtifactPath() string {
	h.locationMu.Lock()
	defer h.locationMu.Unlock()
	return h.location
}

// ReloadModel is the single reload path used at startup and by every reload
// trigger (SIGHUP, admin endpoint, fsnotify, etcd). Single-flight through the
// registry; failure leaves the previous snapshot serving.
func (h *Handler) ReloadModel() error {
	location := h.ArtifactPath()

	startTime := time.Now()
	tags := []string{"model:" + h.modelName}
	metrics.Count("model.reload.total", 1, tags)

	err := h.registry.Reload(func() (*predictor.Snapshot, error) {
		return artifact.Load(h.store, location)
	})
	if err != nil {
		metrics.Count("model.reload.failure", 1, tags)
		logger.Error(fmt.Sprintf("Model reload from %s failed", location), err)
		return err
	}

	if h.cache != nil {
		h.cache.Clear()
	}
	snap, _ := h.registry.Current()
	metrics.Timing("model.reload.latency", time.Since(startTime), tags)
	logger.Info(fmt.Sprintf("Model %s version %s loaded from %s", h.modelName, snap.Version, location))
	return nil
}

// DynamicConfigCallback reacts to dynamic-config changes: an artifact-path
// update re-points and reloads, any other key change reloads in place.
func (h *Handler) DynamicConfigCallback(key, value string) error {
	if key == artifactPathKey && value != "" {
		h.locationMu.Lock()
		h.location = value
		h.locationMu.Unlock()
		logger.Info(fmt.Sprintf("Artifact location set to %s", value))
	}
	return h.ReloadModel()
}
