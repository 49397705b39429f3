package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"

	"dashboard-cache/internal/common/logging"
)

// Outcome is the explicit result of a tier operation. Tier faults are
// expected, frequent conditions, so they travel as values rather than
// errors: an unavailable tier degrades the orchestrator, it never fails
// the request.
type Outcome int

const (
	// OutcomeOK means the operation completed; for reads, the key was found
	OutcomeOK Outcome = iota
	// OutcomeMiss means the key was absent or expired
	OutcomeMiss
	// OutcomeUnavailable means the tier could not be reached
	OutcomeUnavailable
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeMiss:
		return "miss"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// entryMeta is the companion metadata record the adapter keeps alongside
// each value, used only for observability.
type entryMeta struct {
	AccessCount  int64  `json:"access_count"`
	LastAccessed string `json:"last_accessed"`
	SizeBytes    int    `json:"size_bytes"`
}

// L2Adapter wraps the external clustered key-value store. Every call is
// defensively isolated: any fault maps to OutcomeUnavailable instead of an
// error, and a circuit breaker keeps a dead cluster from being hammered on
// every request while its half-open state preserves per-call recovery.
type L2Adapter struct {
	client     *redis.Client
	keyPrefix  string
	metaPrefix string
	breaker    *gobreaker.CircuitBreaker
	logger     logging.Logger
}

// NewL2Adapter creates an adapter over an established redis client
func NewL2Adapter(client *redis.Client, keyPrefix string, logger logging.Logger) *L2Adapter {
	if keyPrefix == "" {
		keyPrefix = "cache:"
	}

	adapter := &L2Adapter{
		client:     client,
		keyPrefix:  keyPrefix,
		metaPrefix: "meta:" + keyPrefix,
		logger:     logger.WithFields(logging.String("component", "l2")),
	}

	adapter.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "l2-redis",
		MaxRequests: 2,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			adapter.logger.Warn("Circuit breaker state changed",
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
	})

	return adapter
}

// Get fetches the stored bytes for a key. A hit also bumps the companion
// metadata record.
func (a *L2Adapter) Get(ctx context.Context, key string) ([]byte, Outcome) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		data, err := a.client.Get(ctx, a.keyPrefix+key).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, OutcomeUnavailable
	}
	if result == nil {
		return nil, OutcomeMiss
	}

	a.touchMeta(ctx, key)
	return result.([]byte), OutcomeOK
}

// Set stores bytes under a key with the given TTL and writes the companion
// metadata record with the same TTL.
func (a *L2Adapter) Set(ctx context.Context, key string, data []byte, ttl time.Duration) Outcome {
	meta, _ := json.Marshal(entryMeta{
		LastAccessed: time.Now().UTC().Format(time.RFC3339),
		SizeBytes:    len(data),
	})

	_, err := a.breaker.Execute(func() (interface{}, error) {
		pipe := a.client.TxPipeline()
		pipe.Set(ctx, a.keyPrefix+key, data, ttl)
		pipe.Set(ctx, a.metaPrefix+key, meta, ttl)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		return OutcomeUnavailable
	}
	return OutcomeOK
}

// Delete removes a key and its metadata record
func (a *L2Adapter) Delete(ctx context.Context, key string) Outcome {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.client.Del(ctx, a.keyPrefix+key, a.metaPrefix+key).Err()
	})
	if err != nil {
		return OutcomeUnavailable
	}
	return OutcomeOK
}

// Keys enumerates stored logical keys matching a glob pattern. Matching is
// case-insensitive, so enumeration scans the adapter's namespace and filters
// client-side rather than relying on the store's case-sensitive MATCH.
func (a *L2Adapter) Keys(ctx context.Context, pattern string) ([]string, Outcome) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		var matched []string
		iter := a.client.Scan(ctx, 0, a.keyPrefix+"*", 0).Iterator()
		for iter.Next(ctx) {
			key := strings.TrimPrefix(iter.Val(), a.keyPrefix)
			if matchKey(pattern, key) {
				matched = append(matched, key)
			}
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return matched, nil
	})
	if err != nil {
		return nil, OutcomeUnavailable
	}
	return result.([]string), OutcomeOK
}

// Ping probes liveness of the cluster
func (a *L2Adapter) Ping(ctx context.Context) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.client.Ping(ctx).Err()
	})
	return err
}

// MemoryUsage reports the cluster's used memory when the store exposes it
func (a *L2Adapter) MemoryUsage(ctx context.Context) (int64, bool) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		return a.client.Info(ctx, "memory").Result()
	})
	if err != nil {
		return 0, false
	}

	for _, line := range strings.Split(result.(string), "\n") {
		if strings.HasPrefix(line, "used_memory:") {
			value := strings.TrimSpace(strings.TrimPrefix(line, "used_memory:"))
			if used, err := strconv.ParseInt(value, 10, 64); err == nil {
				return used, true
			}
		}
	}
	return 0, false
}

// touchMeta bumps the access count and last-access time on a read hit.
// Metadata is observability-only, so failures are ignored.
func (a *L2Adapter) touchMeta(ctx context.Context, key string) {
	metaKey := a.metaPrefix + key

	data, err := a.client.Get(ctx, metaKey).Bytes()
	if err != nil {
		return
	}

	var meta entryMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return
	}

	meta.AccessCount++
	meta.LastAccessed = time.Now().UTC().Format(time.RFC3339)

	updated, _ := json.Marshal(meta)
	a.client.Set(ctx, metaKey, updated, redis.KeepTTL)
}
