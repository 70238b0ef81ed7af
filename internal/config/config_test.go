package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
shards: 2
clock:
  interval: 500ms
sources:
  reqs:
    type: random_int
    min: 1
    max: 10
values:
  requests_total:
    source: reqs
    transforms: [accumulate]
metrics:
  - name: requests.total
    group: rpc
    type: derive
    flavor: total_operations
    description: Total simulated requests
    value: requests_total
    labels:
      service: demo
export:
  prometheus:
    enabled: true
    aggregate_shards: true
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Shards)
	assert.Equal(t, 500*time.Millisecond, cfg.Clock.Interval)
	require.Len(t, cfg.Metrics, 1)
	assert.Equal(t, "derive", cfg.Metrics[0].Type)
	assert.Equal(t, "total_operations", cfg.Metrics[0].Flavor)
	assert.Equal(t, "demo", cfg.Metrics[0].Labels["service"])

	// Defaults applied by validation.
	require.NotNil(t, cfg.Export.Prometheus)
	assert.Equal(t, DefaultPrometheusPort, cfg.Export.Prometheus.Port)
	assert.Equal(t, DefaultPrometheusPath, cfg.Export.Prometheus.Path)
	assert.True(t, cfg.Export.Prometheus.AggregateShards)
}

func TestLoadAppliesSimulationDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
sources:
  s:
    type: random_int
    min: 0
    max: 1
values:
  v:
    source: s
metrics:
  - name: m
    group: g
    type: gauge
    description: d
    value: v
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultShards, cfg.Shards)
	assert.Equal(t, DefaultClockInterval, cfg.Clock.Interval)
	// No exporters configured defaults to Prometheus enabled.
	require.NotNil(t, cfg.Export.Prometheus)
	assert.True(t, cfg.Export.Prometheus.Enabled)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no metrics", func(c *Config) { c.Metrics = nil }, "at least one metric"},
		{"empty metric name", func(c *Config) { c.Metrics[0].Name = "" }, "name cannot be empty"},
		{"empty group", func(c *Config) { c.Metrics[0].Group = "" }, "group cannot be empty"},
		{"bad type", func(c *Config) { c.Metrics[0].Type = "histogram" }, "unknown type"},
		{"unknown value", func(c *Config) { c.Metrics[0].Value = "nope" }, "not defined"},
		{"unknown source", func(c *Config) { c.Values["requests_total"] = ValueConfig{Source: "nope"} }, "not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(writeConfig(t, validConfig))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOTELDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, validConfig))
	require.NoError(t, err)
	cfg.Export.Prometheus = nil
	cfg.Export.OTEL = &OTELExportConfig{Enabled: true}

	require.NoError(t, Validate(cfg))
	assert.Equal(t, DefaultOTELTransport, cfg.Export.OTEL.Transport)
	assert.Equal(t, "localhost:4317", cfg.Export.OTEL.Endpoint())
	assert.Equal(t, DefaultOTELPushInterval, cfg.Export.OTEL.Interval.Push)
}

func TestValidateRejectsNoExporters(t *testing.T) {
	cfg, err := Parse(writeConfig(t, validConfig))
	require.NoError(t, err)
	cfg.Export.Prometheus.Enabled = false

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one exporter")
}

func TestIntervalConfigForms(t *testing.T) {
	cfg, err := Parse(writeConfig(t, validConfig+`
  otel:
    enabled: true
    interval: 10s
`))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Export.OTEL.Interval.Read)
	assert.Equal(t, 10*time.Second, cfg.Export.OTEL.Interval.Push)

	cfg, err = Parse(writeConfig(t, validConfig+`
  otel:
    enabled: true
    interval:
      read: 1s
      push: 5s
`))
	require.NoError(t, err)
	assert.Equal(t, 1*time.Second, cfg.Export.OTEL.Interval.Read)
	assert.Equal(t, 5*time.Second, cfg.Export.OTEL.Interval.Push)
}
