package utils

import (
	"sync"
	"time"
)

// MetricsCollector tracks request counts and per-operation latencies across
// the system.
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// OperationStats holds the aggregate latency view for one operation.
type OperationStats struct {
	Count     int           `json:"count"`
	AvgMillis float64       `json:"avgMillis"`
	Max       time.Duration `json:"-"`
}

// Snapshot returns request totals, uptime and per-operation averages. Used by
// the health endpoint when debug mode is on.
func (mc *MetricsCollector) Snapshot() (requests, errors uint64, uptime time.Duration, ops map[string]OperationStats) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	ops = make(map[string]OperationStats, len(mc.operationTimes))
	for name, samples := range mc.operationTimes {
		var total, max int64
		for _, ns := range samples {
			total += ns
			if ns > max {
				max = ns
			}
		}
		stats := OperationStats{Count: len(samples), Max: time.Duration(max)}
		if len(samples) > 0 {
			stats.AvgMillis = float64(total) / float64(len(samples)) / 1e6
		}
		ops[name] = stats
	}
	return mc.requestCount, mc.errorCount, time.Since(mc.systemStartTime), ops
}
