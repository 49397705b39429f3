package cache

import (
	"sync"
	"time"
)

// Metrics is a point-in-time snapshot of cache performance counters
type Metrics struct {
	Hits            uint64        `json:"hits"`
	Misses          uint64        `json:"misses"`
	Evictions       uint64        `json:"evictions"`
	HitRatio        float64       `json:"hit_ratio"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	MemoryUsage     int64         `json:"memory_usage"`
}

// Collector accumulates hit/miss/eviction counters and an exponentially
// smoothed response time. One collector lives per service instance; counters
// reset only on process restart.
type Collector struct {
	mu          sync.Mutex
	hits        uint64
	misses      uint64
	evictions   uint64
	avgResponse float64 // nanoseconds
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordHit increments the hit counter
func (c *Collector) RecordHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits++
}

// RecordMiss increments the miss counter
func (c *Collector) RecordMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
}

// RecordEvictions adds to the eviction counter
func (c *Collector) RecordEvictions(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictions += uint64(n)
}

// ObserveLatency folds a response time sample into the moving average:
// new_avg = old_avg * 0.9 + sample * 0.1. The first sample seeds the average.
func (c *Collector) ObserveLatency(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sample := float64(d.Nanoseconds())
	if c.avgResponse == 0 {
		c.avgResponse = sample
		return
	}
	c.avgResponse = c.avgResponse*0.9 + sample*0.1
}

// Snapshot returns current counter values. memoryUsage is supplied by the
// caller since entry sizes are owned by the stores.
func (c *Collector) Snapshot(memoryUsage int64) Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := Metrics{
		Hits:            c.hits,
		Misses:          c.misses,
		Evictions:       c.evictions,
		AvgResponseTime: time.Duration(c.avgResponse),
		MemoryUsage:     memoryUsage,
	}

	if total := c.hits + c.misses; total > 0 {
		m.HitRatio = float64(c.hits) / float64(total)
	}

	return m
}
