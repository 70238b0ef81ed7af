package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfline/shardmetrics/metrics"
	"github.com/perfline/shardmetrics/registry"
)

func TestRegisterProcessMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, m.Register(metrics.NewFactory(metrics.ShardID(0)), reg))
	require.NoError(t, reg.Err())

	defs := reg.Group(GroupName)
	require.Len(t, defs, 5)

	byName := make(map[string]metrics.Definition, len(defs))
	for _, def := range defs {
		byName[def.Name()] = def
	}

	cpu := byName["cpu_percent"]
	assert.Equal(t, metrics.KindGauge, cpu.Kind())

	rss := byName["memory_rss"]
	assert.Equal(t, metrics.KindDerive, rss.Kind())
	assert.Equal(t, "bytes", rss.TypeName())

	goroutines := byName["goroutines"]
	assert.Equal(t, metrics.KindGauge, goroutines.Kind())
	assert.Equal(t, "queue_length", goroutines.TypeName())

	gc := byName["gc_cycles"]
	assert.Equal(t, metrics.KindDerive, gc.Kind())
	assert.Equal(t, "total_operations", gc.TypeName())
}

func TestAccessorsProduceValues(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, m.Register(metrics.NewFactory(metrics.ShardID(0)), reg))

	for _, def := range reg.Group(GroupName) {
		v := def.Snapshot()
		assert.Equal(t, def.Kind(), v.Kind(), def.Name())
	}

	// There is always at least this goroutine.
	for _, def := range reg.Group(GroupName) {
		if def.Name() == "goroutines" {
			n, err := def.Snapshot().Float64()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 1.0)
		}
	}
}
