package exporter

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfline/shardmetrics/metrics"
	"github.com/perfline/shardmetrics/registry"
)

func TestCollectorPerShard(t *testing.T) {
	f := metrics.NewFactory(metrics.ShardID(0))
	x := 10.0

	def, err := f.Gauge("bytes.used", metrics.Ref(&x),
		metrics.WithDescription("Bytes in use"))
	require.NoError(t, err)

	reg := registry.New()
	reg.AddMetric("cache", def)
	require.NoError(t, reg.Err())

	c := newCollector([]*registry.Registry{reg}, false)

	expected := `# HELP cache_bytes_used Bytes in use
# TYPE cache_bytes_used gauge
cache_bytes_used{shard="0"} 10
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "cache_bytes_used"))

	// A scrape after mutation observes the new value.
	x = 42
	expected = `# HELP cache_bytes_used Bytes in use
# TYPE cache_bytes_used gauge
cache_bytes_used{shard="0"} 42
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "cache_bytes_used"))
}

func TestCollectorLabels(t *testing.T) {
	f := metrics.NewFactory(metrics.ShardID(1))
	queue := metrics.NewLabel("queue")
	depth := 3

	def, err := f.QueueLength("depth", metrics.Ref(&depth),
		metrics.WithDescription("Queue depth"),
		metrics.WithLabels(queue.Value(2)))
	require.NoError(t, err)

	reg := registry.New()
	reg.AddMetric("net", def)

	c := newCollector([]*registry.Registry{reg}, false)

	expected := `# HELP net_depth Queue depth
# TYPE net_depth gauge
net_depth{queue="2",shard="1"} 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollectorSkipsDisabled(t *testing.T) {
	f := metrics.NewFactory(metrics.ShardID(0))
	x := 1.0

	enabled, err := f.Gauge("on", metrics.Ref(&x), metrics.WithDescription("on"))
	require.NoError(t, err)
	disabled, err := f.Gauge("off", metrics.Ref(&x), metrics.WithDescription("off"), metrics.Disabled())
	require.NoError(t, err)

	reg := registry.New()
	reg.AddGroup("g", []metrics.Definition{enabled, disabled})
	require.NoError(t, reg.Err())

	c := newCollector([]*registry.Registry{reg}, false)
	assert.Equal(t, 1, testutil.CollectAndCount(c))
}

func TestCollectorAggregatesShards(t *testing.T) {
	a := int64(7)
	b := int64(5)

	defA, err := metrics.NewFactory(metrics.ShardID(0)).Derive("requests.total", metrics.Ref(&a),
		metrics.WithDescription("Total requests"))
	require.NoError(t, err)
	defB, err := metrics.NewFactory(metrics.ShardID(1)).Derive("requests.total", metrics.Ref(&b),
		metrics.WithDescription("Total requests"))
	require.NoError(t, err)

	regA := registry.New()
	regA.AddMetric("rpc", defA)
	regB := registry.New()
	regB.AddMetric("rpc", defB)

	c := newCollector([]*registry.Registry{regA, regB}, true)

	expected := `# HELP rpc_requests_total Total requests
# TYPE rpc_requests_total untyped
rpc_requests_total 12
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollectorWithoutAggregationKeepsShardSeries(t *testing.T) {
	a := int64(7)
	b := int64(5)

	defA, err := metrics.NewFactory(metrics.ShardID(0)).Derive("requests.total", metrics.Ref(&a),
		metrics.WithDescription("Total requests"))
	require.NoError(t, err)
	defB, err := metrics.NewFactory(metrics.ShardID(1)).Derive("requests.total", metrics.Ref(&b),
		metrics.WithDescription("Total requests"))
	require.NoError(t, err)

	regA := registry.New()
	regA.AddMetric("rpc", defA)
	regB := registry.New()
	regB.AddMetric("rpc", defB)

	c := newCollector([]*registry.Registry{regA, regB}, false)

	expected := `# HELP rpc_requests_total Total requests
# TYPE rpc_requests_total untyped
rpc_requests_total{shard="0"} 7
rpc_requests_total{shard="1"} 5
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestPromValueType(t *testing.T) {
	f := metrics.NewFactory(metrics.ShardID(0))
	n := uint64(1)

	counter, err := f.Counter("ops", metrics.Ref(&n), metrics.WithDescription("ops"))
	require.NoError(t, err)

	reg := registry.New()
	reg.AddMetric("g", counter)

	c := newCollector([]*registry.Registry{reg}, false)
	expected := `# HELP g_ops ops
# TYPE g_ops counter
g_ops{shard="0"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestFQName(t *testing.T) {
	assert.Equal(t, "cache_bytes_used", fqName("cache", "bytes.used"))
	assert.Equal(t, "io_queue_send_batch", fqName("io-queue", "send.batch"))
}
