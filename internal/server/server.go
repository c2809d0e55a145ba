package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/middleware"
	"github.com/cockroachdb/cmux"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// RouteRegistrar attaches a handler group to the shared gin engine.
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

// Options wires the server to its collaborators.
type Options struct {
	Registrars []RouteRegistrar
	// GRPCHealth backs the grpc.health.v1 service the orchestrator probes.
	GRPCHealth *grpchealth.Server
	// OnReloadSignal runs on SIGHUP.
	OnReloadSignal func() error
}

// NewEngine builds the gin engine with the standard middleware chain.
func NewEngine(appConfigs *configs.AppConfigs, opts Options) *gin.Engine {
	if appConfigs.Configs.ApplicationEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Telemetry(),
		middleware.CORS(appConfigs.Configs.CorsAllowedOrigins),
	)
	for _, registrar := range opts.Registrars {
		registrar.RegisterRoutes(engine)
	}
	return engine
}

// Run serves gRPC and HTTP multiplexed on one port and blocks until a
// shutdown signal drains the server. In-flight requests finish; new
// connections are refused.
func Run(appConfigs *configs.AppConfigs, opts Options) {
	address := fmt.Sprintf(":%d", appConfigs.Configs.ApplicationPort)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Panic("Failed to start churnserve application!", err)
	}

	// cmux splits 2 protocols on one port: gRPC by content-type header,
	// everything else is HTTP.
	mux := cmux.New(listener)
	grpcListener := mux.Match(cmux.HTTP2HeaderField("content-type", "application/grpc"))
	httpListener := mux.Match(cmux.Any())

	grpcServer := grpc.NewServer()
	reflection.Register(grpcServer)
	if opts.GRPCHealth != nil {
		healthpb.RegisterHealthServer(grpcServer, opts.GRPCHealth)
	}

	httpServer := &http.Server{
		Handler:      NewEngine(appConfigs, opts),
		ReadTimeout:  time.Duration(appConfigs.Configs.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(appConfigs.Configs.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErrors := make(chan error, 3)
	go func() { serveErrors <- grpcServer.Serve(grpcListener) }()
	go func() { serveErrors <- httpServer.Serve(httpListener) }()
	go func() { serveErrors <- mux.Serve() }()

	logger.Info(fmt.Sprintf("churnserve started on port %s", address))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				logger.Info("SIGHUP received, reloading model")
				if opts.OnReloadSignal != nil {
					go func() {
						if err := opts.OnReloadSignal(); err != nil {
							logger.Error("Signal-triggered reload failed, previous model keeps serving", err)
						}
					}()
				}
				continue
			}
			logger.Info(fmt.Sprintf("%s received, shutting down", sig))
			shutdown(appConfigs, httpServer, grpcServer, listener)
			return
		case err := <-serveErrors:
			if err != nil && !isClosedError(err) {
				logger.Error("protocol serve error", err)
				shutdown(appConfigs, httpServer, grpcServer, listener)
				os.Exit(1)
			}
		}
	}
}

func shutdown(appConfigs *configs.AppConfigs, httpServer *http.Server, grpcServer *grpc.Server, listener net.Listener) {
	timeout := time.Duration(appConfigs.Configs.ShutdownTimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server forced to shutdown", err)
	}
	grpcServer.GracefulStop()
	listener.Close()
	logger.Info("churnserve stopped")
}

func isClosedError(err error) bool {
	return err == http.ErrServerClosed ||
		err == cmux.ErrListenerClosed ||
		errors.Is(err, net.ErrClosed)
}
