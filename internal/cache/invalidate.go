package cache

import (
	"context"
	"path"
	"strings"

	"dashboard-cache/internal/common/errors"
	"dashboard-cache/internal/common/logging"
)

// InvalidatePattern removes every key matching a glob pattern (`*`, `?`)
// across the tiers. Matching is case-insensitive. The returned count sums
// per-tier removals without deduplication: a key resident in both tiers
// counts twice. A malformed pattern is caller misuse and returns a
// validation error.
func (s *Service) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if err := validatePattern(pattern); err != nil {
		return 0, err
	}

	count := 0

	// L1: linear scan of resident keys
	for _, key := range s.l1.Keys() {
		if matchKey(pattern, key) && s.l1.Delete(key) {
			count++
		}
	}

	// L2: adapter enumeration then delete
	if s.l2 != nil {
		keys, outcome := s.l2.Keys(ctx, pattern)
		if outcome == OutcomeUnavailable {
			s.logger.Warn("L2 invalidation skipped, tier unavailable",
				logging.String("pattern", pattern),
			)
			return count, nil
		}
		for _, key := range keys {
			if s.l2.Delete(ctx, key) == OutcomeOK {
				count++
			}
		}
	}

	s.logger.Info("Pattern invalidated",
		logging.String("pattern", pattern),
		logging.Int("count", count),
	)
	return count, nil
}

// validatePattern rejects malformed glob expressions
func validatePattern(pattern string) error {
	if pattern == "" {
		return errors.ValidationError("invalidation pattern must not be empty")
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return errors.ValidationError("malformed invalidation pattern").WithContext("pattern", pattern)
	}
	return nil
}

// matchKey reports whether a key matches a glob pattern, case-insensitively
func matchKey(pattern, key string) bool {
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(key))
	return err == nil && ok
}
