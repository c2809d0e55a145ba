package main

import (
	"github.com/churnlabs/churnserve/handlers/churn"
	"github.com/churnlabs/churnserve/handlers/health"
	"github.com/churnlabs/churnserve/internal/server"
	"github.com/churnlabs/churnserve/pkg/artifact"
	"github.com/churnlabs/churnserve/pkg/audit"
	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/churnlabs/churnserve/pkg/etcd"
	"github.com/churnlabs/churnserve/pkg/inmemorycache"
	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/churnlabs/churnserve/pkg/middleware"
	"github.com/churnlabs/churnserve/pkg/predictor"
	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"
)

var AppConfigs configs.AppConfigs

func main() {
	viper.AutomaticEnv()
	configs.InitConfig(&AppConfigs)
	logger.InitLogger(&AppConfigs)
	metrics.InitMetrics(&AppConfigs)
	middleware.Init()

	opts := churn.Options{}

	if AppConfigs.Configs.PredictionCacheEnabled {
		inmemorycache.Init(AppConfigs.Configs.InMemoryCacheSizeInBytes, AppConfigs.Configs.AppGcPercentage)
		opts.Cache = predictor.NewPredictionCache(inmemorycache.Instance())
	}

	if AppConfigs.Configs.AuditEnabled {
		auditStore, err := audit.Open(AppConfigs.Configs.AuditDBPath)
		if err != nil {
			logger.Panic("Failed to open audit store", err)
		}
		defer auditStore.Close()
		opts.Auditor = churn.NewAuditor(auditStore, AppConfigs.Configs.AuditSamplingPercent)
	}

	// Startup load is fatal on failure: the process must not begin
	// accepting traffic without a loaded predictor.
	churnHandler, err := churn.InitChurnHandler(&AppConfigs, opts)
	if err != nil {
		logger.Panic("Failed to load model artifact", err)
	}

	healthHandler := health.NewHandler(churnHandler.Registry())

	if AppConfigs.Configs.ModelWatcherEnabled {
		watcher, err := artifact.Watch(churnHandler.ArtifactPath(), churnHandler.ReloadModel)
		if err != nil {
			logger.Panic("Failed to start artifact watcher", err)
		}
		defer watcher.Close()
	}

	if AppConfigs.Configs.ETCD_WATCHER_ENABLED {
		etcdWatcher, err := etcd.New(&AppConfigs)
		if err != nil {
			logger.Panic("Failed to connect to etcd", err)
		}
		defer etcdWatcher.Close()
		etcdWatcher.RegisterCallback(churnHandler.DynamicConfigCallback)
		etcdWatcher.Start()
	}

	server.Run(&AppConfigs, server.Options{
		Registrars:     []server.RouteRegistrar{churnHandler, healthHandler},
		GRPCHealth:     healthHandler.GRPCHealthServer(),
		OnReloadSignal: churnHandler.ReloadModel,
	})
}
