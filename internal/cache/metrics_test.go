package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_HitRatio(t *testing.T) {
	c := NewCollector()

	assert.Equal(t, float64(0), c.Snapshot(0).HitRatio)

	for i := 0; i < 3; i++ {
		c.RecordHit()
	}
	c.RecordMiss()

	m := c.Snapshot(0)
	assert.Equal(t, uint64(3), m.Hits)
	assert.Equal(t, uint64(1), m.Misses)
	assert.InDelta(t, 0.75, m.HitRatio, 1e-9)
}

func TestCollector_Evictions(t *testing.T) {
	c := NewCollector()

	c.RecordEvictions(2)
	c.RecordEvictions(0)
	c.RecordEvictions(-1)
	c.RecordEvictions(1)

	assert.Equal(t, uint64(3), c.Snapshot(0).Evictions)
}

func TestCollector_LatencySmoothing(t *testing.T) {
	c := NewCollector()

	// First sample seeds the average
	c.ObserveLatency(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.Snapshot(0).AvgResponseTime)

	// new_avg = 100ms*0.9 + 200ms*0.1 = 110ms
	c.ObserveLatency(200 * time.Millisecond)
	assert.InDelta(t, float64(110*time.Millisecond), float64(c.Snapshot(0).AvgResponseTime), float64(time.Millisecond))
}

func TestCollector_SnapshotMemoryUsage(t *testing.T) {
	c := NewCollector()
	assert.Equal(t, int64(4096), c.Snapshot(4096).MemoryUsage)
}
