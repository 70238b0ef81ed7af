package config

import (
	"time"

	"go.yaml.in/yaml/v4"
)

const (
	// Prometheus defaults
	DefaultPrometheusPort = 9090
	DefaultPrometheusPath = "/metrics"

	// OTEL defaults
	DefaultOTELTransport    = "grpc"
	DefaultOTELHost         = "localhost"
	DefaultOTELPortGRPC     = 4317
	DefaultOTELPortHTTP     = 4318
	DefaultOTELPushInterval = 1 * time.Second

	// Simulation defaults
	DefaultShards        = 1
	DefaultClockInterval = 1 * time.Second
)

// Config holds the complete demo application configuration.
type Config struct {
	Shards   int                     `yaml:"shards"`
	Clock    ClockConfig             `yaml:"clock"`
	Sources  map[string]SourceConfig `yaml:"sources"`
	Values   map[string]ValueConfig  `yaml:"values"`
	Metrics  []MetricConfig          `yaml:"metrics"`
	Export   ExportConfig            `yaml:"export"`
	Settings SettingsConfig          `yaml:"settings"`
}

// ClockConfig drives the simulated sources.
type ClockConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SourceConfig defines one simulated value source.
type SourceConfig struct {
	Type string `yaml:"type"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

// ValueConfig defines a named value derived from a source.
type ValueConfig struct {
	Source     string   `yaml:"source"`
	Transforms []string `yaml:"transforms,omitempty"`
}

// MetricConfig declares one metric over a named value.
type MetricConfig struct {
	Name        string            `yaml:"name"`
	Group       string            `yaml:"group"`
	Type        string            `yaml:"type"`
	Flavor      string            `yaml:"flavor,omitempty"`
	Description string            `yaml:"description"`
	Value       string            `yaml:"value"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Disabled    bool              `yaml:"disabled,omitempty"`
}

// ExportConfig defines how metrics are exposed.
type ExportConfig struct {
	Prometheus *PrometheusExportConfig `yaml:"prometheus,omitempty"`
	OTEL       *OTELExportConfig       `yaml:"otel,omitempty"`
}

// PrometheusExportConfig defines Prometheus pull endpoint settings.
type PrometheusExportConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Port            int    `yaml:"port"`
	Path            string `yaml:"path"`
	AggregateShards bool   `yaml:"aggregate_shards"`
	InternalMetrics bool   `yaml:"internal_metrics"`
}

// OTELExportConfig defines OTLP push settings.
type OTELExportConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Transport string            `yaml:"transport"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Interval  IntervalConfig    `yaml:"interval"`
	Resource  map[string]string `yaml:"resource,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// IntervalConfig defines read and push intervals for OTEL.
type IntervalConfig struct {
	Read time.Duration
	Push time.Duration
}

// UnmarshalYAML handles both simple (10s) and detailed (read/push) forms.
func (i *IntervalConfig) UnmarshalYAML(value *yaml.Node) error {
	// Try simple duration form first
	var simple time.Duration
	if err := value.Decode(&simple); err == nil {
		i.Read = simple
		i.Push = simple
		return nil
	}

	// Fall back to detailed form
	type intervalConfig struct {
		Read time.Duration `yaml:"read"`
		Push time.Duration `yaml:"push"`
	}
	var detailed intervalConfig
	if err := value.Decode(&detailed); err != nil {
		return err
	}
	i.Read = detailed.Read
	i.Push = detailed.Push
	return nil
}

// SettingsConfig holds general application settings.
type SettingsConfig struct {
	ProcessMetrics bool `yaml:"process_metrics"`
}
