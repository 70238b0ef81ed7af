// Package exporter consumes registered metric definitions and exposes
// them to external collection systems: a Prometheus pull endpoint and
// an OTLP push pipeline. Exporters poll accessors at collection time
// and never cache or store series.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/perfline/shardmetrics/registry"
)

const (
	promScrapesTotal   = "shardmetrics_prometheus_scrapes_total"
	promScrapeDuration = "shardmetrics_prometheus_scrape_duration_seconds"
)

// PrometheusConfig defines the pull endpoint settings.
type PrometheusConfig struct {
	Port int
	Path string

	// AggregateShards sums identical metrics across shard registries
	// into one series instead of exposing a per-shard series with a
	// shard label.
	AggregateShards bool

	// InternalMetrics adds scrape count and duration self-metrics.
	InternalMetrics bool
}

// PrometheusExporter serves metric snapshots over HTTP for scraping.
type PrometheusExporter struct {
	addr         string
	path         string
	server       *http.Server
	promRegistry *prometheus.Registry

	scrapesTotal   prometheus.Counter
	scrapeDuration prometheus.Histogram
}

// NewPrometheusExporter creates a pull exporter over the given shard
// registries.
func NewPrometheusExporter(cfg PrometheusConfig, regs ...*registry.Registry) *PrometheusExporter {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(newCollector(regs, cfg.AggregateShards))

	mux := http.NewServeMux()
	addr := fmt.Sprintf(":%d", cfg.Port)

	e := &PrometheusExporter{
		addr:         addr,
		path:         cfg.Path,
		promRegistry: promRegistry,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	if cfg.InternalMetrics {
		e.scrapesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: promScrapesTotal,
			Help: "Total number of scrape requests",
		})
		e.scrapeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    promScrapeDuration,
			Help:    "Duration of scrape requests in seconds",
			Buckets: prometheus.DefBuckets,
		})
		promRegistry.MustRegister(e.scrapesTotal, e.scrapeDuration)
	}

	mux.Handle(cfg.Path, e.instrumentedHandler(promhttp.HandlerFor(
		promRegistry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)))

	return e
}

// Registry returns the underlying Prometheus registry, mainly for
// tests and embedding into an existing HTTP mux.
func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.promRegistry
}

// instrumentedHandler wraps the Prometheus handler with scrape
// self-metrics when enabled.
func (e *PrometheusExporter) instrumentedHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if e.scrapesTotal != nil {
				e.scrapesTotal.Inc()
			}
			if e.scrapeDuration != nil {
				e.scrapeDuration.Observe(time.Since(start).Seconds())
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Start begins serving HTTP requests until the context is cancelled.
func (e *PrometheusExporter) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting prometheus exporter", "addr", e.addr, "path", e.path)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return e.Stop()
	}
}

// Stop gracefully stops the exporter.
func (e *PrometheusExporter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down prometheus exporter")
	return e.server.Shutdown(ctx)
}
