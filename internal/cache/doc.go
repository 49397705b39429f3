// Package cache implements the multi-tier dashboard cache.
//
// Two storage tiers sit behind one orchestrating Service:
//
//  1. L1 - a bounded in-process store with FIFO-by-insertion eviction and
//     lazy expiry, safe for concurrent use.
//  2. L2 - an external clustered key-value store (Redis) behind a thin,
//     fault-isolated adapter. Any adapter fault maps to an explicit
//     unavailable outcome, so a remote outage degrades the service to
//     L1-only instead of failing requests.
//
// Values pass through a size-aware codec on the way in: they are JSON
// serialized, and serialized forms above a configured threshold are zstd
// compressed. The tiers themselves only move bytes.
//
// Higher-level operations build on the same tier primitives: glob-style
// pattern invalidation across tiers, and concurrent bulk pre-population
// ("warming") through a bounded worker pool.
//
// Usage:
//
//	svc, err := cache.New(cache.DefaultConfig(), redisClient, logger)
//	if err != nil {
//		return err
//	}
//
//	svc.Set(ctx, "dashboard:main:42", payload, 5*time.Minute)
//	value, ok := svc.Get(ctx, "dashboard:main:42")
//
//	count, err := svc.InvalidatePattern(ctx, "dashboard:*")
//	done := svc.WarmCache(ctx, keys, loadFromDB)
package cache
