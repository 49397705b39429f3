package cache

import "time"

// Entry is the unit of state resident in the L1 store. Entries are built
// fully before insertion and owned exclusively by the store; they are never
// handed out to callers.
type Entry struct {
	Key          string
	Wrapper      *Wrapper
	CreatedAt    time.Time
	ExpiresAt    time.Time
	AccessCount  int64
	LastAccessed *time.Time
	SizeBytes    int
}

// Expired reports whether the entry's time-to-live has passed
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CompressionRatio reports stored size relative to the pre-compression size.
// A ratio of 1 means the value was stored raw.
func (e *Entry) CompressionRatio() float64 {
	if e.Wrapper == nil || e.Wrapper.OriginalSize == 0 {
		return 1
	}
	return float64(len(e.Wrapper.Data)) / float64(e.Wrapper.OriginalSize)
}

// touch records a read hit
func (e *Entry) touch(now time.Time) {
	e.AccessCount++
	t := now
	e.LastAccessed = &t
}
