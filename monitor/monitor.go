// Package monitor publishes process self-metrics through the metric
// declaration layer. The accessors read gopsutil and the Go runtime on
// demand, so values are as fresh as the scrape that asks for them.
package monitor

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/perfline/shardmetrics/metrics"
)

// GroupName is the registry group the monitor publishes into.
const GroupName = "process"

// Monitor owns the process handle backing the registered accessors.
// Keep it alive as long as the definitions are registered.
type Monitor struct {
	proc *process.Process
	defs []metrics.Definition
}

// New creates a monitor for the current process.
func New() (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}
	return &Monitor{proc: proc}, nil
}

// Register declares the process metrics with the given factory and
// publishes them through the grouper.
func (m *Monitor) Register(f metrics.Factory, g metrics.Grouper) error {
	cpu, err := f.Gauge("cpu_percent", metrics.Func(m.cpuPercent),
		metrics.WithDescription("Process CPU usage in percent"))
	if err != nil {
		return err
	}

	rss, err := f.CurrentBytes("memory_rss", metrics.Func(m.rssBytes),
		metrics.WithDescription("Resident set size"))
	if err != nil {
		return err
	}

	heap, err := f.CurrentBytes("heap_alloc", metrics.Func(heapAlloc),
		metrics.WithDescription("Bytes of allocated heap objects"))
	if err != nil {
		return err
	}

	goroutines, err := f.QueueLength("goroutines", metrics.Func(numGoroutine),
		metrics.WithDescription("Number of live goroutines"))
	if err != nil {
		return err
	}

	gc, err := f.TotalOperations("gc_cycles", metrics.Func(gcCycles),
		metrics.WithDescription("Completed GC cycles"))
	if err != nil {
		return err
	}

	m.defs = []metrics.Definition{cpu, rss, heap, goroutines, gc}
	g.AddGroup(GroupName, m.defs)
	return nil
}

// Definitions returns the registered definitions, for unregistration
// at teardown.
func (m *Monitor) Definitions() []metrics.Definition {
	out := make([]metrics.Definition, len(m.defs))
	copy(out, m.defs)
	return out
}

// cpuPercent reads CPU usage; a read failure yields zero rather than
// breaking collection.
func (m *Monitor) cpuPercent() float64 {
	pct, err := m.proc.CPUPercent()
	if err != nil {
		slog.Warn("failed to get CPU percent", "error", err)
		return 0
	}
	return pct
}

func (m *Monitor) rssBytes() int64 {
	info, err := m.proc.MemoryInfo()
	if err != nil {
		slog.Warn("failed to get memory info", "error", err)
		return 0
	}
	return int64(info.RSS)
}

func heapAlloc() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.HeapAlloc)
}

func numGoroutine() int {
	return runtime.NumGoroutine()
}

func gcCycles() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.NumGC)
}
