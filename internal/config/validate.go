package config

import "fmt"

var validMetricTypes = map[string]bool{
	"gauge":    true,
	"counter":  true,
	"derive":   true,
	"absolute": true,
}

// Validate applies defaults and checks the configuration for
// consistency.
func Validate(cfg *Config) error {
	if cfg.Shards == 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.Shards < 0 {
		return fmt.Errorf("shards must be positive, got %d", cfg.Shards)
	}
	if cfg.Clock.Interval == 0 {
		cfg.Clock.Interval = DefaultClockInterval
	}

	if len(cfg.Metrics) == 0 {
		return fmt.Errorf("at least one metric must be defined")
	}

	for i, m := range cfg.Metrics {
		if m.Name == "" {
			return fmt.Errorf("metric at index %d: name cannot be empty", i)
		}
		if m.Group == "" {
			return fmt.Errorf("metric %q: group cannot be empty", m.Name)
		}
		if !validMetricTypes[m.Type] {
			return fmt.Errorf("metric %q: unknown type %q (must be gauge, counter, derive or absolute)", m.Name, m.Type)
		}
		if m.Value == "" {
			return fmt.Errorf("metric %q: value cannot be empty", m.Name)
		}
		if _, ok := cfg.Values[m.Value]; !ok {
			return fmt.Errorf("metric %q: value %q not defined", m.Name, m.Value)
		}
	}

	for name, v := range cfg.Values {
		if v.Source == "" {
			return fmt.Errorf("value %q: source cannot be empty", name)
		}
		if _, ok := cfg.Sources[v.Source]; !ok {
			return fmt.Errorf("value %q: source %q not defined", name, v.Source)
		}
	}

	return validateExport(&cfg.Export)
}

// validateExport applies export defaults and requires at least one
// enabled exporter.
func validateExport(e *ExportConfig) error {
	// Default to Prometheus enabled if no exporters configured
	if e.Prometheus == nil && e.OTEL == nil {
		e.Prometheus = &PrometheusExportConfig{
			Enabled: true,
			Port:    DefaultPrometheusPort,
			Path:    DefaultPrometheusPath,
		}
		return nil
	}

	if e.Prometheus != nil && e.Prometheus.Enabled {
		if e.Prometheus.Port == 0 {
			e.Prometheus.Port = DefaultPrometheusPort
		}
		if e.Prometheus.Path == "" {
			e.Prometheus.Path = DefaultPrometheusPath
		}
	}

	if e.OTEL != nil && e.OTEL.Enabled {
		if e.OTEL.Transport == "" {
			e.OTEL.Transport = DefaultOTELTransport
		}
		if e.OTEL.Transport != "grpc" && e.OTEL.Transport != "http" {
			return fmt.Errorf("otel transport must be grpc or http, got %q", e.OTEL.Transport)
		}
		if e.OTEL.Host == "" {
			e.OTEL.Host = DefaultOTELHost
		}
		if e.OTEL.Port == 0 {
			if e.OTEL.Transport == "http" {
				e.OTEL.Port = DefaultOTELPortHTTP
			} else {
				e.OTEL.Port = DefaultOTELPortGRPC
			}
		}
		if e.OTEL.Interval.Push == 0 {
			e.OTEL.Interval.Push = DefaultOTELPushInterval
		}
	}

	promEnabled := e.Prometheus != nil && e.Prometheus.Enabled
	otelEnabled := e.OTEL != nil && e.OTEL.Enabled
	if !promEnabled && !otelEnabled {
		return fmt.Errorf("at least one exporter must be enabled")
	}

	return nil
}

// Endpoint joins the OTEL host and port.
func (o *OTELExportConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}
