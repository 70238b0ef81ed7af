package app

import (
	"fmt"

	"github.com/perfline/shardmetrics/exporter"
	"github.com/perfline/shardmetrics/internal/config"
	"github.com/perfline/shardmetrics/internal/generator"
	"github.com/perfline/shardmetrics/metrics"
	"github.com/perfline/shardmetrics/monitor"
	"github.com/perfline/shardmetrics/registry"
)

// App holds initialized application components: one generator and one
// registry per simulated shard, plus the exporters reading them.
type App struct {
	Config             *config.Config
	Generators         []*generator.Generator
	Registries         []*registry.Registry
	Monitor            *monitor.Monitor
	PrometheusExporter *exporter.PrometheusExporter
	OTELExporter       *exporter.OTELExporter
}

// New initializes the application from a configuration file.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &App{Config: cfg}

	// One registry and one producer set per shard.
	for i := 0; i < cfg.Shards; i++ {
		shard := metrics.ShardID(uint(i))
		reg := registry.New()

		gen, err := generator.New(cfg, shard)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator for shard %d: %w", i, err)
		}
		if err := gen.Register(reg); err != nil {
			return nil, fmt.Errorf("failed to register metrics for shard %d: %w", i, err)
		}
		if regErr := reg.Err(); regErr != nil {
			return nil, fmt.Errorf("shard %d registry: %w", i, regErr)
		}

		a.Generators = append(a.Generators, gen)
		a.Registries = append(a.Registries, reg)
	}

	// Process self-metrics live on shard 0.
	if cfg.Settings.ProcessMetrics {
		mon, err := monitor.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor: %w", err)
		}
		if err := mon.Register(metrics.NewFactory(metrics.ShardID(0)), a.Registries[0]); err != nil {
			return nil, fmt.Errorf("failed to register process metrics: %w", err)
		}
		a.Monitor = mon
	}

	if cfg.Export.Prometheus != nil && cfg.Export.Prometheus.Enabled {
		a.PrometheusExporter = exporter.NewPrometheusExporter(
			exporter.PrometheusConfig{
				Port:            cfg.Export.Prometheus.Port,
				Path:            cfg.Export.Prometheus.Path,
				AggregateShards: cfg.Export.Prometheus.AggregateShards,
				InternalMetrics: cfg.Export.Prometheus.InternalMetrics,
			},
			a.Registries...,
		)
	}

	if cfg.Export.OTEL != nil && cfg.Export.OTEL.Enabled {
		a.OTELExporter, err = exporter.NewOTELExporter(
			exporter.OTELConfig{
				Transport:    cfg.Export.OTEL.Transport,
				Endpoint:     cfg.Export.OTEL.Endpoint(),
				PushInterval: cfg.Export.OTEL.Interval.Push,
				Resource:     cfg.Export.OTEL.Resource,
				Headers:      cfg.Export.OTEL.Headers,
			},
			a.Registries...,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL exporter: %w", err)
		}
	}

	return a, nil
}

// Start begins value generation on all shards.
func (a *App) Start() {
	for _, gen := range a.Generators {
		gen.Start()
	}
}

// Stop halts value generation on all shards.
func (a *App) Stop() {
	for _, gen := range a.Generators {
		gen.Stop()
	}
}
