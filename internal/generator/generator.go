// Package generator builds simulated per-shard metric producers for
// the demo binary. Each shard owns its own clock, sources and values,
// and declares its metrics through the declaration layer.
package generator

import (
	"fmt"

	"github.com/neox5/simv/clock"
	"github.com/neox5/simv/source"
	"github.com/neox5/simv/transform"
	"github.com/neox5/simv/value"

	"github.com/perfline/shardmetrics/internal/config"
	"github.com/perfline/shardmetrics/metrics"
)

// Generator manages one shard's simv components and metric
// definitions.
type Generator struct {
	cfg    *config.Config
	shard  metrics.Shard
	clock  clock.Clock
	values map[string]*value.Value[int]
}

// New creates a generator for one shard from configuration.
func New(cfg *config.Config, shard metrics.Shard) (*Generator, error) {
	clk := clock.NewPeriodicClock(cfg.Clock.Interval)

	sources := make(map[string]source.Publisher[int])
	for name, srcCfg := range cfg.Sources {
		switch srcCfg.Type {
		case "random_int":
			sources[name] = source.NewRandomIntSource(clk, srcCfg.Min, srcCfg.Max)
		default:
			return nil, fmt.Errorf("unknown source type: %s", srcCfg.Type)
		}
	}

	values := make(map[string]*value.Value[int])
	for name, valCfg := range cfg.Values {
		src, exists := sources[valCfg.Source]
		if !exists {
			return nil, fmt.Errorf("source %q not found for value %q", valCfg.Source, name)
		}

		var transforms []transform.Transformation[int]
		for _, tfName := range valCfg.Transforms {
			switch tfName {
			case "accumulate":
				transforms = append(transforms, transform.NewAccumulate[int]())
			default:
				return nil, fmt.Errorf("unknown transform: %s", tfName)
			}
		}

		val := value.New(src)
		for _, t := range transforms {
			val.AddTransform(t)
		}
		values[name] = val
	}

	return &Generator{
		cfg:    cfg,
		shard:  shard,
		clock:  clk,
		values: values,
	}, nil
}

// Register declares the configured metrics and publishes them through
// the grouper.
func (g *Generator) Register(reg metrics.Grouper) error {
	factory := metrics.NewFactory(g.shard)

	for _, metricCfg := range g.cfg.Metrics {
		val, exists := g.values[metricCfg.Value]
		if !exists {
			return fmt.Errorf("value %q not found for metric %q", metricCfg.Value, metricCfg.Name)
		}

		opts := []metrics.Option{
			metrics.WithDescription(metricCfg.Description),
			metrics.WithEnabled(!metricCfg.Disabled),
		}
		if metricCfg.Flavor != "" {
			opts = append(opts, metrics.WithTypeName(metricCfg.Flavor))
		}
		for key, v := range metricCfg.Labels {
			opts = append(opts, metrics.WithLabels(metrics.NewLabel(key).Value(v)))
		}

		src := metrics.Func(val.Value)

		var def metrics.Definition
		var err error
		switch metricCfg.Type {
		case "gauge":
			def, err = factory.Gauge(metricCfg.Name, src, opts...)
		case "counter":
			def, err = factory.Counter(metricCfg.Name, src, opts...)
		case "derive":
			def, err = factory.Derive(metricCfg.Name, src, opts...)
		case "absolute":
			def, err = factory.Absolute(metricCfg.Name, src, opts...)
		default:
			return fmt.Errorf("unsupported metric type: %s", metricCfg.Type)
		}
		if err != nil {
			return fmt.Errorf("failed to build metric %q: %w", metricCfg.Name, err)
		}

		reg.AddMetric(metricCfg.Group, def)
	}

	return nil
}

// Start begins value generation.
func (g *Generator) Start() {
	g.clock.Start()
}

// Stop halts value generation.
func (g *Generator) Stop() {
	g.clock.Stop()
}

// GetValue returns a named value.
func (g *Generator) GetValue(name string) (*value.Value[int], bool) {
	val, exists := g.values[name]
	return val, exists
}
