package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"dashboard-cache/internal/common/logging"
)

// Config holds cache service tuning accepted at construction
type Config struct {
	MaxEntries           int           // L1 entry capacity before FIFO eviction
	DefaultTTL           time.Duration // applied when a set passes no TTL
	CompressionThreshold int           // serialized bytes above which values compress
	KeyPrefix            string        // namespace prefix for L2 keys
	WarmConcurrency      int           // worker count for cache warming
}

// DefaultConfig returns cache defaults suitable for a dashboard workload
func DefaultConfig() Config {
	return Config{
		MaxEntries:           10000,
		DefaultTTL:           5 * time.Minute,
		CompressionThreshold: 1024,
		KeyPrefix:            "cache:",
		WarmConcurrency:      8,
	}
}

// Service is the tier orchestrator. It composes the L1 store, the L2
// adapter, the codec and the metrics collector behind one API. The service
// is constructed explicitly and passed to collaborators; there is no
// process-wide singleton.
//
// A tier fault never propagates out of Get or Set: the request proceeds
// against the remaining tiers, so an L2 outage costs hit ratio and latency,
// never correctness.
type Service struct {
	config  Config
	codec   *Codec
	l1      *L1Store
	l2      *L2Adapter // nil when no distributed tier is configured
	metrics *Collector
	warmer  *Warmer
	logger  logging.Logger
}

// New creates a cache service. rdb may be nil, in which case the service
// runs on the L1 tier alone.
func New(config Config, rdb *redis.Client, logger logging.Logger) (*Service, error) {
	codec, err := NewCodec(config.CompressionThreshold)
	if err != nil {
		return nil, err
	}

	s := &Service{
		config:  config,
		codec:   codec,
		l1:      NewL1Store(config.MaxEntries),
		metrics: NewCollector(),
		logger:  logger.WithFields(logging.String("component", "cache")),
	}

	if rdb != nil {
		s.l2 = NewL2Adapter(rdb, config.KeyPrefix, logger)
	}

	s.warmer = newWarmer(s, config.WarmConcurrency, logger)
	return s, nil
}

// Get looks a key up tier by tier in the requested order and returns the
// first hit. Expired entries are evicted lazily; corrupt payloads and
// unreachable tiers count as misses for that tier only.
func (s *Service) Get(ctx context.Context, key string, opts ...Option) (interface{}, bool) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLatency(time.Since(start))
	}()

	o := resolveOptions(CacheFirst, opts)

	for _, tier := range o.Tiers {
		switch tier {
		case TierL1Memory:
			if value, ok := s.getL1(key); ok {
				s.metrics.RecordHit()
				return value, true
			}
		case TierL2Distributed:
			if value, ok := s.getL2(ctx, key); ok {
				s.metrics.RecordHit()
				return value, true
			}
		}
	}

	s.metrics.RecordMiss()
	return nil, false
}

func (s *Service) getL1(key string) (interface{}, bool) {
	entry, ok := s.l1.Get(key, time.Now())
	if !ok {
		return nil, false
	}

	value, err := s.codec.Decode(entry.Wrapper)
	if err != nil {
		// Corrupt payload: drop the entry and fall through as a miss
		s.l1.Delete(key)
		s.logger.Warn("Dropping corrupt L1 entry",
			logging.String("key", key),
			logging.Err(err),
		)
		return nil, false
	}

	return value, true
}

func (s *Service) getL2(ctx context.Context, key string) (interface{}, bool) {
	if s.l2 == nil {
		return nil, false
	}

	data, outcome := s.l2.Get(ctx, key)
	switch outcome {
	case OutcomeMiss:
		return nil, false
	case OutcomeUnavailable:
		s.logger.Debug("L2 unavailable, serving from remaining tiers",
			logging.String("key", key),
		)
		return nil, false
	}

	var wrapper Wrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		s.dropCorruptL2(ctx, key, err)
		return nil, false
	}

	value, err := s.codec.Decode(&wrapper)
	if err != nil {
		s.dropCorruptL2(ctx, key, err)
		return nil, false
	}

	return value, true
}

func (s *Service) dropCorruptL2(ctx context.Context, key string, err error) {
	s.l2.Delete(ctx, key)
	s.logger.Warn("Dropping corrupt L2 entry",
		logging.String("key", key),
		logging.Err(err),
	)
}

// Set encodes the value once and writes it to every requested tier
// independently. A failure writing one tier is logged and does not prevent
// writing the others; the return value reflects whether the call completed
// without an unhandled fault, not whether every tier succeeded. A
// non-positive ttl applies the configured default.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, opts ...Option) bool {
	o := resolveOptions(WriteThrough, opts)

	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	wrapper, err := s.codec.Encode(value)
	if err != nil {
		s.logger.Warn("Rejecting unserializable value",
			logging.String("key", key),
			logging.Err(err),
		)
		return false
	}

	switch o.Strategy {
	case WriteThrough, CacheFirst:
		for _, tier := range o.Tiers {
			s.writeTier(ctx, tier, key, wrapper, ttl)
		}
	case CacheAside:
		// The caller owns population of the other tiers
		s.writeTier(ctx, TierL1Memory, key, wrapper, ttl)
	case WriteBehind:
		if len(o.Tiers) > 0 {
			s.writeTier(ctx, o.Tiers[0], key, wrapper, ttl)
			for _, tier := range o.Tiers[1:] {
				go s.writeTier(context.WithoutCancel(ctx), tier, key, wrapper, ttl)
			}
		}
	}

	return true
}

func (s *Service) writeTier(ctx context.Context, tier Tier, key string, wrapper *Wrapper, ttl time.Duration) {
	switch tier {
	case TierL1Memory:
		now := time.Now()
		evicted := s.l1.Set(&Entry{
			Key:       key,
			Wrapper:   wrapper,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
			SizeBytes: len(wrapper.Data),
		})
		s.metrics.RecordEvictions(evicted)
	case TierL2Distributed:
		if s.l2 == nil {
			return
		}
		payload, err := json.Marshal(wrapper)
		if err != nil {
			s.logger.Error("Failed to marshal wrapper for L2", err, logging.String("key", key))
			return
		}
		if outcome := s.l2.Set(ctx, key, payload, ttl); outcome == OutcomeUnavailable {
			s.logger.Warn("L2 write skipped, tier unavailable", logging.String("key", key))
		}
	}
}

// Delete removes the key and its metadata from each requested tier. An
// unreachable tier is logged and skipped, matching Set's best-effort
// semantics.
func (s *Service) Delete(ctx context.Context, key string, opts ...Option) bool {
	o := resolveOptions(WriteThrough, opts)

	for _, tier := range o.Tiers {
		switch tier {
		case TierL1Memory:
			s.l1.Delete(key)
		case TierL2Distributed:
			if s.l2 == nil {
				continue
			}
			if outcome := s.l2.Delete(ctx, key); outcome == OutcomeUnavailable {
				s.logger.Warn("L2 delete skipped, tier unavailable", logging.String("key", key))
			}
		}
	}

	return true
}

// WarmCache concurrently pre-populates the given keys through the loader,
// skipping keys that are already cached. It returns immediately; the
// returned channel closes once all keys have been processed.
func (s *Service) WarmCache(ctx context.Context, keys []string, loader Loader) <-chan struct{} {
	return s.warmer.Warm(ctx, keys, loader)
}

// Metrics returns a snapshot of the collector, with memory usage summed
// from L1 entry sizes plus the L2 store's own introspection when available.
func (s *Service) Metrics() Metrics {
	usage := s.l1.MemoryUsage()
	if s.l2 != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if l2Usage, ok := s.l2.MemoryUsage(ctx); ok {
			usage += l2Usage
		}
	}
	return s.metrics.Snapshot(usage)
}

// ComponentHealth describes one tier's condition
type ComponentHealth struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Health describes the service's overall condition
type Health struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthCheck probes each tier. L2 unreachability degrades the service
// rather than failing it.
func (s *Service) HealthCheck(ctx context.Context) Health {
	health := Health{
		Status: "healthy",
		Components: map[string]ComponentHealth{
			"l1": {Status: "healthy"},
		},
	}

	switch {
	case s.l2 == nil:
		health.Status = "degraded"
		health.Components["l2"] = ComponentHealth{Status: "unhealthy", Reason: "not configured"}
	default:
		if err := s.l2.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Components["l2"] = ComponentHealth{Status: "unhealthy", Reason: err.Error()}
		} else {
			health.Components["l2"] = ComponentHealth{Status: "healthy"}
		}
	}

	return health
}

// CleanupExpired sweeps L1 for entries whose expiry has passed. Intended to
// be invoked periodically by a scheduler. Returns the removal count.
func (s *Service) CleanupExpired() int {
	removed := s.l1.CleanupExpired(time.Now())
	if removed > 0 {
		s.logger.Debug("Expired entries swept", logging.Int("removed", removed))
	}
	return removed
}
