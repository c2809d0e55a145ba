package configs

type Configs struct {
	ApplicationEnv      string `mapstructure:"app_env"`
	ApplicationLogLevel string `mapstructure:"app_log_level"`
	ApplicationName     string `mapstructure:"app_name"`
	ApplicationPort     int    `mapstructure:"app_port"`
	AppGcPercentage     int    `mapstructure:"app_gc_percentage"`

	//http-server-config
	HTTPReadTimeoutSec  int    `mapstructure:"http_read_timeout_sec"`
	HTTPWriteTimeoutSec int    `mapstructure:"http_write_timeout_sec"`
	ShutdownTimeoutSec  int    `mapstructure:"shutdown_timeout_sec"`
	CorsAllowedOrigins  string `mapstructure:"cors_allowed_origins"`

	//model-config
	ModelName           string `mapstructure:"model_name"`
	ModelArtifactPath   string `mapstructure:"model_artifact_path"`
	ModelWatcherEnabled bool   `mapstructure:"model_watcherEnabled"`

	//prediction-cache-config
	PredictionCacheEnabled   bool `mapstructure:"predictionCache_enabled"`
	InMemoryCacheSizeInBytes int  `mapstructure:"in-memory-cache_size-in-bytes"`

	//telegraf-config
	MetricsSamplingRate string `mapstructure:"metrics_sampling_rate"`
	Telegraf_Host       string `mapstructure:"telegraf_host"`
	Telegraf_Port       string `mapstructure:"telegraf_port"`

	//etcd-config
	ETCD_WATCHER_ENABLED bool   `mapstructure:"etcd_watcherEnabled"`
	ETCD_SERVER          string `mapstructure:"etcd_server"`
	ETCD_USERNAME        string `mapstructure:"etcd_username"`
	ETCD_PASSWORD        string `mapstructure:"etcd_password"`

	//audit-config
	AuditEnabled         bool   `mapstructure:"audit_enabled"`
	AuditDBPath          string `mapstructure:"audit_dbPath"`
	AuditSamplingPercent int    `mapstructure:"audit_samplingPercent"`

	//log-file-config
	LogFilePath       string `mapstructure:"log_file_path"`
	LogFileMaxSizeMB  int    `mapstructure:"log_file_max_size_mb"`
	LogFileMaxBackups int    `mapstructure:"log_file_max_backups"`
}

type AppConfigs struct {
	Configs Configs
}

func (a *AppConfigs) GetStaticConfig() interface{} {
	return &a.Configs
}
