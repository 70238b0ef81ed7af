package exporter

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/perfline/shardmetrics/metrics"
	"github.com/perfline/shardmetrics/registry"
)

// promDescriptor holds one Prometheus series and the definitions whose
// snapshots feed it. In per-shard mode there is exactly one definition;
// in aggregated mode identical metrics from multiple shards share a
// descriptor and their snapshots are combined on scrape.
type promDescriptor struct {
	desc        *prometheus.Desc
	valueType   prometheus.ValueType
	labelValues []string
	defs        []metrics.Definition
}

// collector implements prometheus.Collector over shard registries,
// invoking definition accessors on each scrape.
type collector struct {
	descriptors []promDescriptor
}

// newCollector walks the registries and builds one descriptor per
// series. Disabled definitions stay registered but are excluded here.
func newCollector(regs []*registry.Registry, aggregate bool) *collector {
	var descriptors []promDescriptor
	index := make(map[string]int)

	for _, reg := range regs {
		for _, group := range reg.Groups() {
			for _, def := range reg.Group(group) {
				if !def.Enabled() {
					continue
				}

				labels := def.Labels()
				labelNames := make([]string, 0, len(labels)+1)
				labelValues := make([]string, 0, len(labels)+1)
				for _, li := range labels {
					labelNames = append(labelNames, li.Key())
					labelValues = append(labelValues, li.Value())
				}
				if !aggregate && def.InstanceID() != "" {
					labelNames = append(labelNames, metrics.ShardLabel.Name())
					labelValues = append(labelValues, def.InstanceID())
				}

				if aggregate {
					// Same series from another shard: fold into the
					// existing descriptor and combine on scrape.
					key := seriesKey(group, def)
					if i, ok := index[key]; ok {
						descriptors[i].defs = append(descriptors[i].defs, def)
						continue
					}
					index[key] = len(descriptors)
				}

				descriptors = append(descriptors, promDescriptor{
					desc: prometheus.NewDesc(
						fqName(group, def.Name()),
						def.Description(),
						labelNames,
						nil,
					),
					valueType:   promValueType(def.Kind()),
					labelValues: labelValues,
					defs:        []metrics.Definition{def},
				})

				slog.Debug("registered prometheus metric",
					"name", fqName(group, def.Name()),
					"type", def.Kind().String(),
					"flavor", def.TypeName(),
					"shard", def.InstanceID())
			}
		}
	}

	return &collector{descriptors: descriptors}
}

// Describe sends metric descriptors to the channel.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descriptors {
		ch <- d.desc
	}
}

// Collect invokes accessors and sends snapshots to the channel. This
// is called on each Prometheus scrape.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.descriptors {
		val := d.defs[0].Snapshot()
		for _, def := range d.defs[1:] {
			combined, err := metrics.Combine(val, def.Snapshot())
			if err != nil {
				slog.Warn("skipping shard during aggregation",
					"metric", def.Name(), "shard", def.InstanceID(), "error", err)
				continue
			}
			val = combined
		}

		m, err := prometheus.NewConstMetric(
			d.desc,
			d.valueType,
			val.AsFloat64(),
			d.labelValues...,
		)
		if err != nil {
			continue
		}
		ch <- m
	}
}

// promValueType maps the four base kinds onto Prometheus value types.
// Derive may decrease and absolute resets on read, so neither can
// honestly claim counter monotonicity.
func promValueType(k metrics.Kind) prometheus.ValueType {
	switch k {
	case metrics.KindGauge:
		return prometheus.GaugeValue
	case metrics.KindCounter:
		return prometheus.CounterValue
	default:
		return prometheus.UntypedValue
	}
}

// fqName joins group and metric name into a Prometheus-safe series name.
func fqName(group, name string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return r.Replace(group) + "_" + r.Replace(name)
}

// seriesKey identifies a series independently of the producing shard.
func seriesKey(group string, def metrics.Definition) string {
	var b strings.Builder
	b.WriteString(group)
	b.WriteByte(0)
	b.WriteString(def.Name())
	for _, li := range def.Labels() {
		b.WriteByte(0)
		b.WriteString(li.Key())
		b.WriteByte('=')
		b.WriteString(li.Value())
	}
	return b.String()
}
