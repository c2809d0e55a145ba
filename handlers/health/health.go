// Package health reports process liveness and model readiness to the
// orchestrator, over HTTP probes and the standard gRPC health service.
package health

import (
	"net/http"

	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/gin-gonic/gin"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Handler gates readiness on the predictor registry. Liveness never depends
// on the model: a failed load must surface as not-ready, not as not-alive.
type Handler struct {
	registry   *predictor.Registry
	grpcHealth *grpchealth.Server
}

func NewHandler(registry *predictor.Registry) *Handler {
	h := &Handler{
		registry:   registry,
		grpcHealth: grpchealth.NewServer(),
	}
	h.syncReadiness(registry.Ready())
	registry.OnChange(h.syncReadiness)
	return h
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// GRPCHealthServer exposes the grpc.health.v1 service for registration on
// the shared-port gRPC server.
func (h *Handler) GRPCHealthServer() *grpchealth.Server {
	return h.grpcHealth
}

func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Readiness(c *gin.Context) {
	if !h.registry.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no predictor is ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) syncReadiness(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.grpcHealth.SetServingStatus("", status)
}
