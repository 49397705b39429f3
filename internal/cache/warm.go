package cache

import (
	"context"
	"sync"

	"dashboard-cache/internal/common/logging"
)

// Loader fetches the value for a key from the source of truth during warming
type Loader func(ctx context.Context, key string) (interface{}, error)

// Warmer pre-populates cache entries ahead of real traffic. Fan-out is
// bounded by a worker pool consuming a queue of keys; per-key loader
// failures are logged and do not abort the remaining keys. Keys already
// cached are skipped, so warming is idempotent and never overwrites live
// data.
type Warmer struct {
	service     *Service
	concurrency int
	logger      logging.Logger
}

func newWarmer(service *Service, concurrency int, logger logging.Logger) *Warmer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Warmer{
		service:     service,
		concurrency: concurrency,
		logger:      logger.WithFields(logging.String("component", "warmer")),
	}
}

// Warm schedules warming of the given keys and returns immediately. The
// returned channel closes once every key has been processed or the context
// is cancelled.
func (w *Warmer) Warm(ctx context.Context, keys []string, loader Loader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx, keys, loader)
	}()
	return done
}

func (w *Warmer) run(ctx context.Context, keys []string, loader Loader) {
	if len(keys) == 0 {
		return
	}

	workers := w.concurrency
	if workers > len(keys) {
		workers = len(keys)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				w.warmKey(ctx, key, loader)
			}
		}()
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			w.logger.Warn("Warming cancelled", logging.Err(ctx.Err()))
			close(jobs)
			wg.Wait()
			return
		case jobs <- key:
		}
	}

	close(jobs)
	wg.Wait()
	w.logger.Info("Warming completed", logging.Int("keys", len(keys)))
}

func (w *Warmer) warmKey(ctx context.Context, key string, loader Loader) {
	if _, ok := w.service.Get(ctx, key); ok {
		w.logger.Debug("Key already cached, skipping", logging.String("key", key))
		return
	}

	value, err := loader(ctx, key)
	if err != nil {
		w.logger.Warn("Loader failed for key",
			logging.String("key", key),
			logging.Err(err),
		)
		return
	}

	w.service.Set(ctx, key, value, 0)
}
