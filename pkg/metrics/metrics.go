// Package metrics ships counters, timings, and gauges to the local telegraf
// agent over statsd. The emit helpers are safe to call before InitMetrics
// runs: the package boots with a client at the default agent address and a
// zero sampling rate, so early startup code never hits a nil client and
// nothing leaves the process until the service is configured.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/churnlabs/churnserve/pkg/configs"
	"github.com/churnlabs/churnserve/pkg/logger"
)

const defaultAgentAddress = "localhost:8125"

var (
	client     = newClient(defaultAgentAddress)
	sampleRate = 0.0
)

// InitMetrics points the statsd client at the configured telegraf agent,
// tagging every metric with the environment and service name. Telegraf is
// optional in local runs: when the agent address cannot be dialed the service
// keeps the boot-time client at rate zero and serves without metrics rather
// than failing startup. A malformed sampling rate is a config bug and panics.
func InitMetrics(appConfigs *configs.AppConfigs) {
	cfg := appConfigs.Configs

	rate, err := strconv.ParseFloat(cfg.MetricsSamplingRate, 64)
	if err != nil {
		logger.Panic(fmt.Sprintf("Invalid metric sampling rate %q", cfg.MetricsSamplingRate), err)
	}

	address := cfg.Telegraf_Host + ":" + cfg.Telegraf_Port
	fresh, err := statsd.New(
		address,
		statsd.WithTags([]string{
			"env:" + cfg.ApplicationEnv,
			"service:" + cfg.ApplicationName,
		}),
	)
	if err != nil {
		logger.Error(fmt.Sprintf("StatsD client for %s unavailable, serving without metrics", address), err)
		return
	}

	client = fresh
	sampleRate = rate
	logger.Info(fmt.Sprintf("Metrics client ready, agent %s, sampling rate %v", address, rate))
}

func newClient(address string) *statsd.Client {
	c, err := statsd.New(address)
	if err != nil {
		c, _ = statsd.New(address, statsd.WithoutTelemetry())
	}
	return c
}

// Timing records a duration, typically request or reload latency.
func Timing(name string, value time.Duration, tags []string) {
	if err := client.Timing(name, value, tags, sampleRate); err != nil {
		logger.Warn(fmt.Sprintf("statsd timing %s failed: %v", name, err))
	}
}

// Count adds value to a counter.
func Count(name string, value int64, tags []string) {
	if err := client.Count(name, value, tags, sampleRate); err != nil {
		logger.Warn(fmt.Sprintf("statsd count %s failed: %v", name, err))
	}
}

// Gauge reports a point-in-time value, used for cache occupancy.
func Gauge(name string, value float64, tags []string) {
	if err := client.Gauge(name, value, tags, sampleRate); err != nil {
		logger.Warn(fmt.Sprintf("statsd gauge %s failed: %v", name, err))
	}
}
