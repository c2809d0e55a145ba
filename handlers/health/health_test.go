package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type staticPredictor struct{}

func (staticPredictor) Classify(vec feature.Vector) (int, error)  { return 1, nil }
func (staticPredictor) Score(vec feature.Vector) (float64, error) { return 0.73, nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestReadinessFollowsLoadLifecycle(t *testing.T) {
	registry := predictor.NewRegistry()
	handler := NewHandler(registry)
	engine := gin.New()
	handler.RegisterRoutes(engine)

	// Alive but not ready before the first successful load.
	assert.Equal(t, http.StatusOK, get(engine, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/readyz").Code)

	err := registry.Reload(func() (*predictor.Snapshot, error) {
		return &predictor.Snapshot{Predictor: staticPredictor{}, Version: "v1"}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(engine, "/readyz").Code)
}

func TestGRPCHealthTracksReadiness(t *testing.T) {
	registry := predictor.NewRegistry()
	handler := NewHandler(registry)

	resp, err := handler.GRPCHealthServer().Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	err = registry.Reload(func() (*predictor.Snapshot, error) {
		return &predictor.Snapshot{Predictor: staticPredictor{}, Version: "v1"}, nil
	})
	require.NoError(t, err)

	resp, err = handler.GRPCHealthServer().Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
