package configs

import (
	"log"

	"github.com/spf13/viper"
)

// InitConfig binds environment variables into the static config struct.
// Defaults cover local runs; deployments override via the orchestrator's env.
func InitConfig(appConfigs *AppConfigs) {
	staticConfig := appConfigs.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}

	setDefaults()
	bindEnvVars()

	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}

	log.Println("Configuration loaded from environment variables")
}

func setDefaults() {
	viper.SetDefault("app_env", "dev")
	viper.SetDefault("app_log_level", "INFO")
	viper.SetDefault("app_name", "churnserve")
	viper.SetDefault("app_port", 8080)
	viper.SetDefault("app_gc_percentage", -1)

	viper.SetDefault("http_read_timeout_sec", 10)
	viper.SetDefault("http_write_timeout_sec", 30)
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("cors_allowed_origins", "*")

	viper.SetDefault("model_name", "churn")
	viper.SetDefault("model_artifact_path", "artifacts/churn_model.json")

	viper.SetDefault("in-memory-cache_size-in-bytes", 32*1024*1024)

	viper.SetDefault("metrics_sampling_rate", "1.0")
	viper.SetDefault("telegraf_host", "localhost")
	viper.SetDefault("telegraf_port", "8125")

	viper.SetDefault("audit_dbPath", "churnserve_audit.db")
	viper.SetDefault("audit_samplingPercent", 10)

	viper.SetDefault("log_file_max_size_mb", 100)
	viper.SetDefault("log_file_max_backups", 3)
}

func bindEnvVars() {
	// Application config
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("app_gc_percentage", "APP_GC_PERCENTAGE")

	// HTTP server config
	viper.BindEnv("http_read_timeout_sec", "HTTP_READ_TIMEOUT_SEC")
	viper.BindEnv("http_write_timeout_sec", "HTTP_WRITE_TIMEOUT_SEC")
	viper.BindEnv("shutdown_timeout_sec", "SHUTDOWN_TIMEOUT_SEC")
	viper.BindEnv("cors_allowed_origins", "CORS_ALLOWED_ORIGINS")

	// Model config
	viper.BindEnv("model_name", "MODEL_NAME")
	viper.BindEnv("model_artifact_path", "MODEL_ARTIFACT_PATH")
	viper.BindEnv("model_watcherEnabled", "MODEL_WATCHER_ENABLED")

	// Prediction cache config
	viper.BindEnv("predictionCache_enabled", "PREDICTION_CACHE_ENABLED")
	viper.BindEnv("in-memory-cache_size-in-bytes", "IN_MEMORY_CACHE_SIZE_IN_BYTES")

	// Metrics / Telegraf config
	viper.BindEnv("metrics_sampling_rate", "METRIC_SAMPLING_RATE")
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")

	// ETCD config
	viper.BindEnv("etcd_watcherEnabled", "ETCD_WATCHER_ENABLED")
	viper.BindEnv("etcd_server", "ETCD_SERVER")
	viper.BindEnv("etcd_username", "ETCD_USERNAME")
	viper.BindEnv("etcd_password", "ETCD_PASSWORD")

	// Audit config
	viper.BindEnv("audit_enabled", "AUDIT_ENABLED")
	viper.BindEnv("audit_dbPath", "AUDIT_DB_PATH")
	viper.BindEnv("audit_samplingPercent", "AUDIT_SAMPLING_PERCENT")

	// Log file config
	viper.BindEnv("log_file_path", "LOG_FILE_PATH")
	viper.BindEnv("log_file_max_size_mb", "LOG_FILE_MAX_SIZE_MB")
	viper.BindEnv("log_file_max_backups", "LOG_FILE_MAX_BACKUPS")
}
