package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/perfline/shardmetrics/metrics"
	"github.com/perfline/shardmetrics/registry"
)

// OTELConfig defines the OTLP push settings.
type OTELConfig struct {
	Transport    string // "grpc" or "http"
	Endpoint     string
	PushInterval time.Duration
	Resource     map[string]string
	Headers      map[string]string
}

// OTELExporter pushes metric snapshots to an OTLP collector.
type OTELExporter struct {
	config        OTELConfig
	meterProvider *sdkmetric.MeterProvider
	meter         otelmetric.Meter
	instruments   []instrument
	cancelFunc    context.CancelFunc
}

// instrument holds an OTEL observable instrument and the definition it
// observes.
type instrument struct {
	counter    otelmetric.Int64ObservableCounter
	upDown     otelmetric.Int64ObservableUpDownCounter
	gauge      otelmetric.Float64ObservableGauge
	def        metrics.Definition
	attributes []attribute.KeyValue
}

// NewOTELExporter creates a push exporter over the given shard
// registries.
func NewOTELExporter(cfg OTELConfig, regs ...*registry.Registry) (*OTELExporter, error) {
	res, err := createOTELResource(cfg.Resource)
	if err != nil {
		return nil, err
	}

	meterProvider, err := createMeterProvider(cfg, res)
	if err != nil {
		return nil, err
	}

	e := &OTELExporter{
		config:        cfg,
		meterProvider: meterProvider,
		meter:         meterProvider.Meter("shardmetrics"),
	}

	if err := registerOTELInstruments(e, regs); err != nil {
		return nil, err
	}

	return e, nil
}

// registerOTELInstruments creates an observable instrument for every
// enabled definition and registers the observation callback.
func registerOTELInstruments(e *OTELExporter, regs []*registry.Registry) error {
	var instruments []instrument

	for _, reg := range regs {
		for _, group := range reg.Groups() {
			for _, def := range reg.Group(group) {
				if !def.Enabled() {
					continue
				}

				inst := instrument{
					def:        def,
					attributes: otelAttributes(def),
				}

				name := group + "." + def.Name()

				var err error
				switch def.Kind() {
				case metrics.KindGauge:
					inst.gauge, err = e.meter.Float64ObservableGauge(
						name,
						otelmetric.WithDescription(def.Description()),
					)
				case metrics.KindDerive:
					inst.upDown, err = e.meter.Int64ObservableUpDownCounter(
						name,
						otelmetric.WithDescription(def.Description()),
					)
				default:
					inst.counter, err = e.meter.Int64ObservableCounter(
						name,
						otelmetric.WithDescription(def.Description()),
					)
				}
				if err != nil {
					return fmt.Errorf("failed to create instrument %q: %w", name, err)
				}

				instruments = append(instruments, inst)
				slog.Debug("registered otel metric",
					"name", name,
					"type", def.Kind().String(),
					"shard", def.InstanceID())
			}
		}
	}

	e.instruments = instruments
	return registerOTELCallback(e)
}

// registerOTELCallback registers the observation callback for all
// instruments. Each push invokes the definition accessors.
func registerOTELCallback(e *OTELExporter) error {
	var observables []otelmetric.Observable
	for _, inst := range e.instruments {
		if inst.counter != nil {
			observables = append(observables, inst.counter)
		}
		if inst.upDown != nil {
			observables = append(observables, inst.upDown)
		}
		if inst.gauge != nil {
			observables = append(observables, inst.gauge)
		}
	}
	if len(observables) == 0 {
		return nil
	}

	_, err := e.meter.RegisterCallback(
		func(ctx context.Context, observer otelmetric.Observer) error {
			slog.Debug("otel push", "metrics", len(e.instruments))

			for _, inst := range e.instruments {
				val := inst.def.Snapshot()
				attrs := otelmetric.WithAttributes(inst.attributes...)

				switch {
				case inst.gauge != nil:
					f, err := val.Float64()
					if err != nil {
						return err
					}
					observer.ObserveFloat64(inst.gauge, f, attrs)
				case inst.upDown != nil:
					i, err := val.Int64()
					if err != nil {
						return err
					}
					observer.ObserveInt64(inst.upDown, i, attrs)
				case inst.counter != nil:
					u, err := val.Uint64()
					if err != nil {
						return err
					}
					observer.ObserveInt64(inst.counter, int64(u), attrs)
				}
			}
			return nil
		},
		observables...,
	)
	if err != nil {
		return fmt.Errorf("failed to register callback: %w", err)
	}

	return nil
}

// otelAttributes converts a definition's label set, shard and flavor
// into OTEL attributes.
func otelAttributes(def metrics.Definition) []attribute.KeyValue {
	labels := def.Labels()
	attrs := make([]attribute.KeyValue, 0, len(labels)+2)
	for _, li := range labels {
		attrs = append(attrs, attribute.String(li.Key(), li.Value()))
	}
	if def.InstanceID() != "" {
		attrs = append(attrs, attribute.String(metrics.ShardLabel.Name(), def.InstanceID()))
	}
	if def.TypeName() != def.Kind().String() {
		attrs = append(attrs, attribute.String("flavor", def.TypeName()))
	}
	return attrs
}

// Start blocks until the context is cancelled; the periodic reader
// pushes in the background.
func (e *OTELExporter) Start(ctx context.Context) error {
	slog.Info("starting otel exporter",
		"transport", e.config.Transport,
		"endpoint", e.config.Endpoint,
		"push_interval", e.config.PushInterval,
	)

	readCtx, cancel := context.WithCancel(ctx)
	e.cancelFunc = cancel

	<-readCtx.Done()
	return e.Stop()
}

// Stop gracefully stops the exporter, flushing pending pushes.
func (e *OTELExporter) Stop() error {
	slog.Info("shutting down otel exporter")

	if e.cancelFunc != nil {
		e.cancelFunc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return e.meterProvider.Shutdown(ctx)
}
