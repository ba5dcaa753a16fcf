package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a snapshot of process health reported by the server.
type RuntimeStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SystemMB      float64 `json:"system_mb"`
	GCCount       uint32  `json:"gc_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RuntimeMonitor exposes Go runtime statistics as observable gauges.
type RuntimeMonitor struct {
	startTime time.Time
}

// NewRuntimeMonitor registers runtime gauges on meter. Values are read on
// every collection rather than by a background ticker.
func NewRuntimeMonitor(meter metric.Meter) (*RuntimeMonitor, error) {
	rm := &RuntimeMonitor{startTime: time.Now()}

	goroutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64ObservableGauge(
		"system_memory_usage_bytes",
		metric.WithDescription("Heap bytes allocated and in use"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heapAlloc, int64(memStats.Alloc))
		o.ObserveFloat64(uptime, time.Since(rm.startTime).Seconds())
		return nil
	}, goroutines, heapAlloc, uptime)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// Snapshot reads the current runtime statistics.
func (rm *RuntimeMonitor) Snapshot() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(memStats.Alloc) / 1024 / 1024,
		SystemMB:      float64(memStats.Sys) / 1024 / 1024,
		GCCount:       memStats.NumGC,
		UptimeSeconds: time.Since(rm.startTime).Seconds(),
	}
}
