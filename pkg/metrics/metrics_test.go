package metrics

import (
	"testing"
	"time"

	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/stretchr/testify/assert"
)

func TestEmitHelpersSafeWithoutInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Count("boot.counter", 1, []string{"env:test"})
		Timing("boot.timing", time.Millisecond, nil)
		Gauge("boot.gauge", 1.0, nil)
	})
}

func TestInitMetricsAppliesSamplingRate(t *testing.T) {
	appConfigs := &configs.AppConfigs{}
	appConfigs.Configs.MetricsSamplingRate = "0.25"
	appConfigs.Configs.Telegraf_Host = "localhost"
	appConfigs.Configs.Telegraf_Port = "8125"
	appConfigs.Configs.ApplicationEnv = "test"
	appConfigs.Configs.ApplicationName = "churnserve"

	InitMetrics(appConfigs)
	assert.Equal(t, 0.25, sampleRate)
}

func TestInitMetricsRejectsMalformedRate(t *testing.T) {
	appConfigs := &configs.AppConfigs{}
	appConfigs.Configs.MetricsSamplingRate = "not-a-rate"

	assert.Panics(t, func() {
		InitMetrics(appConfigs)
	})
}
