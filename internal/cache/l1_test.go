package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(key string, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Key:       key,
		Wrapper:   &Wrapper{Data: []byte(`"` + key + `"`), OriginalSize: len(key) + 2},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		SizeBytes: len(key) + 2,
	}
}

func TestL1Store_SetGet(t *testing.T) {
	store := NewL1Store(10)
	now := time.Now()

	evicted := store.Set(newEntry("a", time.Minute))
	assert.Equal(t, 0, evicted)

	entry, ok := store.Get("a", now)
	require.True(t, ok)
	assert.Equal(t, "a", entry.Key)
	assert.Equal(t, int64(1), entry.AccessCount)
	require.NotNil(t, entry.LastAccessed)

	_, ok = store.Get("missing", now)
	assert.False(t, ok)
}

func TestL1Store_FIFOEviction(t *testing.T) {
	store := NewL1Store(3)
	now := time.Now()

	for _, key := range []string{"a", "b", "c"} {
		assert.Equal(t, 0, store.Set(newEntry(key, time.Minute)))
	}

	// Read "a" so a recency-based policy would keep it; FIFO must not
	_, ok := store.Get("a", now)
	require.True(t, ok)

	evicted := store.Set(newEntry("d", time.Minute))
	assert.Equal(t, 1, evicted)

	_, ok = store.Get("a", now)
	assert.False(t, ok, "oldest inserted entry should be evicted")
	_, ok = store.Get("d", now)
	assert.True(t, ok)
	assert.Equal(t, 3, store.Len())
}

func TestL1Store_ReplaceKeepsInsertionOrder(t *testing.T) {
	store := NewL1Store(2)
	now := time.Now()

	store.Set(newEntry("a", time.Minute))
	store.Set(newEntry("b", time.Minute))

	// Rewriting "a" must not move it to the back of the eviction order
	assert.Equal(t, 0, store.Set(newEntry("a", time.Minute)))

	store.Set(newEntry("c", time.Minute))

	_, ok := store.Get("a", now)
	assert.False(t, ok)
	_, ok = store.Get("b", now)
	assert.True(t, ok)
}

func TestL1Store_LazyExpiry(t *testing.T) {
	store := NewL1Store(10)

	store.Set(newEntry("a", 10*time.Millisecond))

	_, ok := store.Get("a", time.Now().Add(20*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "expired entry should be removed on read")
}

func TestL1Store_CleanupExpired(t *testing.T) {
	store := NewL1Store(10)

	store.Set(newEntry("keep", time.Hour))
	store.Set(newEntry("drop1", time.Millisecond))
	store.Set(newEntry("drop2", time.Millisecond))

	removed := store.CleanupExpired(time.Now().Add(time.Second))
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get("keep", time.Now())
	assert.True(t, ok)
}

func TestL1Store_MemoryUsage(t *testing.T) {
	store := NewL1Store(10)

	assert.Equal(t, int64(0), store.MemoryUsage())

	store.Set(newEntry("aa", time.Minute)) // 4 bytes
	store.Set(newEntry("bb", time.Minute)) // 4 bytes
	assert.Equal(t, int64(8), store.MemoryUsage())

	store.Delete("aa")
	assert.Equal(t, int64(4), store.MemoryUsage())

	store.Delete("bb")
	assert.Equal(t, int64(0), store.MemoryUsage())
}

func TestL1Store_Delete(t *testing.T) {
	store := NewL1Store(10)

	store.Set(newEntry("a", time.Minute))
	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))
}

func TestL1Store_Keys(t *testing.T) {
	store := NewL1Store(10)

	store.Set(newEntry("a", time.Minute))
	store.Set(newEntry("b", time.Minute))

	assert.ElementsMatch(t, []string{"a", "b"}, store.Keys())
}

func TestL1Store_ConcurrentAccess(t *testing.T) {
	store := NewL1Store(100)
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(worker int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("w%d:k%d", worker, j%20)
				store.Set(newEntry(key, time.Minute))
				store.Get(key, time.Now())
				if j%10 == 0 {
					store.Delete(key)
				}
			}
		}(i)
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}
