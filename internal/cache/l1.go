package cache

import (
	"container/list"
	"sync"
	"time"
)

// L1Store is the bounded in-process tier. Entries are evicted in insertion
// order once the configured capacity is reached, and expired entries are
// removed lazily on read. All operations are synchronous and guarded by a
// mutex so the store is safe under Go's preemptive scheduler.
//
// The eviction policy is FIFO by insertion: the insertion order list is
// never reordered on read access, so recency of use has no effect.
type L1Store struct {
	mu        sync.Mutex
	capacity  int
	entries   map[string]*list.Element
	order     *list.List // of *Entry, oldest at the front
	sizeBytes int64
}

// NewL1Store creates a store bounded to the given entry count
func NewL1Store(capacity int) *L1Store {
	if capacity < 1 {
		capacity = 1
	}
	return &L1Store{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the entry for a key, removing it first if it has expired.
// A hit updates the entry's access metadata.
func (s *L1Store) Get(key string, now time.Time) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*Entry)
	if entry.Expired(now) {
		s.removeLocked(key, elem)
		return nil, false
	}

	entry.touch(now)
	return entry, true
}

// Set inserts or replaces an entry, evicting the oldest entry when the
// store is full. Returns the number of entries evicted. Replacing an
// existing key keeps its position in the insertion order.
func (s *L1Store) Set(entry *Entry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[entry.Key]; ok {
		old := elem.Value.(*Entry)
		s.sizeBytes += int64(entry.SizeBytes) - int64(old.SizeBytes)
		elem.Value = entry
		return 0
	}

	evicted := 0
	for len(s.entries) >= s.capacity {
		oldest := s.order.Front()
		if oldest == nil {
			break
		}
		s.removeLocked(oldest.Value.(*Entry).Key, oldest)
		evicted++
	}

	elem := s.order.PushBack(entry)
	s.entries[entry.Key] = elem
	s.sizeBytes += int64(entry.SizeBytes)
	return evicted
}

// Delete removes a key, reporting whether it was resident
func (s *L1Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return false
	}
	s.removeLocked(key, elem)
	return true
}

// Keys returns a snapshot of resident keys
func (s *L1Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of resident entries
func (s *L1Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MemoryUsage returns the sum of stored entry sizes in bytes
func (s *L1Store) MemoryUsage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sizeBytes
}

// CleanupExpired proactively removes entries whose expiry has passed,
// independent of read-triggered lazy removal. Returns the removal count.
func (s *L1Store) CleanupExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*Entry)
		if entry.Expired(now) {
			s.removeLocked(entry.Key, elem)
			removed++
		}
		elem = next
	}
	return removed
}

// removeLocked removes an element; s.mu must be held
func (s *L1Store) removeLocked(key string, elem *list.Element) {
	s.order.Remove(elem)
	delete(s.entries, key)
	s.sizeBytes -= int64(elem.Value.(*Entry).SizeBytes)
}
