package churn

import (
	goerrors "errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/churnlabs/churnserve/internal/errors"
	"github.com/churnlabs/churnserve/pkg/artifact"
	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/churnlabs/churnserve/pkg/middleware"
	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/gin-gonic/gin"
)

const (
	endpointNamed = "named"
	endpointBatch = "batch"

	predictVerb = "predict"

	defaultErrMsg = "something went wrong!"
)

// Handler serves both prediction surfaces. Request handling is stateless per
// call; the only shared state is the registry's current snapshot, read once
// per request.
type Handler struct {
	modelName string
	registry  *predictor.Registry
	engine    *predictor.Engine
	auditor   *Auditor

	store artifact.Store
	cache *predictor.PredictionCache

	locationMu sync.Mutex
	location   string
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/predict", h.PredictNamed)
	router.POST("/v1/models/:model", h.ModelAction)
	router.GET("/v1/models/:model", h.ModelMetadata)
	router.POST("/internal/reload", h.ReloadHandler)
}

// PredictNamed handles the named-field convenience endpoint.
func (h *Handler) PredictNamed(c *gin.Context) {
	startTime := time.Now()
	tags := []string{"model:" + h.modelName, "endpoint:" + endpointNamed}
	metrics.Count("predict.request.total", 1, tags)

	snap, ok := h.registry.Current()
	if !ok {
		writeError(c, &errors.PredictorUnavailableError{})
		return
	}

	record, err := bindNamedRequest(c)
	if err != nil {
		metrics.Count("predict.validation.failure", 1, tags)
		writeError(c, err)
		return
	}

	vec, err := feature.EncodeNamed(record)
	if err != nil {
		metrics.Count("predict.validation.failure", 1, tags)
		writeError(c, err)
		return
	}

	label, prob, err := h.engine.Predict(snap, vec)
	if err != nil {
		logger.Error("named prediction failed", err)
		writeError(c, err)
		return
	}

	h.auditor.MaybeRecord(middleware.RequestIDFromContext(c), endpointNamed, snap.Version, vec, label, prob, time.Since(startTime))
	metrics.Timing("predict.request.latency", time.Since(startTime), tags)
	c.JSON(http.StatusOK, feature.DecodeResult(label, prob))
}

// ModelAction routes the array-protocol verb form /v1/models/{name}:{verb}.
func (h *Handler) ModelAction(c *gin.Context) {
	name, verb, ok := splitModelAction(c.Param("model"))
	if !ok || verb != predictVerb {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown model action"})
		return
	}
	if name != h.modelName {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown model " + name})
		return
	}
	h.predictBatch(c)
}

func (h *Handler) predictBatch(c *gin.Context) {
	startTime := time.Now()
	tags := []string{"model:" + h.modelName, "endpoint:" + endpointBatch}
	metrics.Count("predict.request.total", 1, tags)

	snap, ok := h.registry.Current()
	if !ok {
		writeError(c, &errors.PredictorUnavailableError{})
		return
	}

	request, err := bindBatchRequest(c)
	if err != nil {
		metrics.Count("predict.validation.failure", 1, tags)
		writeError(c, err)
		return
	}

	vectors, err := feature.EncodeBatch(request.Instances)
	if err != nil {
		metrics.Count("predict.validation.failure", 1, tags)
		writeError(c, err)
		return
	}

	labels, probs, err := h.engine.PredictBatch(snap, vectors)
	if err != nil {
		logger.Error("batch prediction failed", err)
		writeError(c, err)
		return
	}

	requestID := middleware.RequestIDFromContext(c)
	for i := range vectors {
		h.auditor.MaybeRecord(requestID, endpointBatch, snap.Version, vectors[i], labels[i], probs[i], time.Since(startTime))
	}

	metrics.Timing("predict.request.latency", time.Since(startTime), tags)
	metrics.Count("predict.request.batch.size", int64(len(vectors)), tags)
	c.JSON(http.StatusOK, BatchPredictResponse{Predictions: labels})
}

// ModelMetadata reports per-model serving status.
func (h *Handler) ModelMetadata(c *gin.Context) {
	name := c.Param("model")
	if name != h.modelName {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown model " + name})
		return
	}

	response := ModelMetadataResponse{Name: h.modelName}
	if snap, ok := h.registry.Current(); ok {
		response.Ready = true
		response.ModelType = snap.ModelType
		response.Version = snap.Version
		response.LoadedAt = snap.LoadedAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, response)
}

// ReloadHandler triggers a manual artifact reload. A failed reload keeps the
// previous model serving, so the error response is retryable.
func (h *Handler) ReloadHandler(c *gin.Context) {
	if err := h.ReloadModel(); err != nil {
		c.JSON(http.StatusBadGateway, ReloadResponse{Status: "reload failed, previous model still serving"})
		return
	}
	snap, _ := h.registry.Current()
	c.JSON(http.StatusOK, ReloadResponse{Status: "ok", Version: snap.Version})
}

func splitModelAction(param string) (name, verb string, ok bool) {
	idx := strings.LastIndex(param, ":")
	if idx <= 0 || idx == len(param)-1 {
		return "", "", false
	}
	return param[:idx], param[idx+1:], true
}

func writeError(c *gin.Context, err error) {
	var validationErr *errors.ValidationError
	if goerrors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Reason, Field: validationErr.Field})
		return
	}

	var unavailableErr *errors.PredictorUnavailableError
	if goerrors.As(err, &unavailableErr) {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: unavailableErr.Error()})
		return
	}

	// Engine and unexpected failures: logged upstream, generic to the caller.
	c.JSON(http.StatusInternalServerError, errorResponse{Error: defaultErrMsg})
}
