package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmCache_PopulatesMissingKeys(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	loader := func(ctx context.Context, key string) (interface{}, error) {
		return "loaded:" + key, nil
	}

	done := svc.WarmCache(ctx, []string{"a", "b", "c"}, loader)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("warming did not complete")
	}

	for _, key := range []string{"a", "b", "c"} {
		got, ok := svc.Get(ctx, key)
		require.True(t, ok, "key %q should be warm", key)
		assert.Equal(t, "loaded:"+key, got)
	}
}

func TestWarmCache_Idempotent(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	require.True(t, svc.Set(ctx, "k", 1, time.Minute))

	var calls int64
	loader := func(ctx context.Context, key string) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return 99, nil
	}

	<-svc.WarmCache(ctx, []string{"k"}, loader)

	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "loader must not run for cached keys")

	got, ok := svc.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, float64(1), got, "warming must not overwrite live data")
}

func TestWarmCache_LoaderFailureIsIsolated(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	loader := func(ctx context.Context, key string) (interface{}, error) {
		if key == "bad" {
			return nil, fmt.Errorf("source of truth unavailable")
		}
		return "v", nil
	}

	<-svc.WarmCache(ctx, []string{"good1", "bad", "good2"}, loader)

	_, ok := svc.Get(ctx, "bad")
	assert.False(t, ok)

	for _, key := range []string{"good1", "good2"} {
		_, ok := svc.Get(ctx, key)
		assert.True(t, ok, "failure of one key must not abort key %q", key)
	}
}

func TestWarmCache_RespectsConcurrencyBound(t *testing.T) {
	config := testConfig()
	config.WarmConcurrency = 2
	svc, err := New(config, nil, testLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	var inFlight, peak int64
	var mu sync.Mutex

	loader := func(ctx context.Context, key string) (interface{}, error) {
		current := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if current > peak {
			peak = current
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return "v", nil
	}

	keys := make([]string, 12)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d", i)
	}

	<-svc.WarmCache(ctx, keys, loader)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(2), "fan-out must stay within the configured bound")
}

func TestWarmCache_Cancellation(t *testing.T) {
	svc, err := New(testConfig(), nil, testLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	var calls int64
	loader := func(ctx context.Context, key string) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return "v", nil
	}

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d", i)
	}

	done := svc.WarmCache(ctx, keys, loader)
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("warming did not stop after cancellation")
	}

	assert.Less(t, atomic.LoadInt64(&calls), int64(100), "cancellation should stop remaining keys")
}

func TestWarmCache_EmptyKeys(t *testing.T) {
	svc, err := New(testConfig(), nil, testLogger(t))
	require.NoError(t, err)

	loader := func(ctx context.Context, key string) (interface{}, error) {
		t.Fatal("loader must not be called")
		return nil, nil
	}

	select {
	case <-svc.WarmCache(context.Background(), nil, loader):
	case <-time.After(time.Second):
		t.Fatal("warming of zero keys should complete immediately")
	}
}
