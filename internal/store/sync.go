package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/remote"
)

// commit finishes a mutation: it advances the revision, writes the named
// cache keys, and schedules a push of all three collections. The push is
// scheduled even when the cache write fails. Callers hold s.mu and have
// already published.
func (s *Store) commit(ctx context.Context, op string, keys ...string) error {
	rev := s.revision.Next()

	err := s.persist(ctx, keys...)
	if err != nil {
		s.logger.Error("local commit failed", "op", op, "revision", rev, "error", err)
	}

	s.schedulePush(op, rev)

	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
	}
	return nil
}

// persist writes the current value of each named collection to the cache.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context, keys ...string) error {
	if s.cache == nil {
		return nil
	}
	for _, key := range keys {
		var err error
		switch key {
		case cache.KeyOrders:
			err = cache.Save(ctx, s.cache, key, s.orders.Value())
		case cache.KeyCustomers:
			err = cache.Save(ctx, s.cache, key, s.customers.Value())
		case cache.KeyExpenses:
			err = cache.Save(ctx, s.cache, key, s.expenses.Value())
		default:
			err = fmt.Errorf("unknown cache key %q", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// schedulePush enqueues a push job holding copies of all three current
// collections and returns its token. Callers hold s.mu.
func (s *Store) schedulePush(op string, rev int64) string {
	job := syncJob{
		token:    s.tokens(),
		revision: rev,
		snapshot: s.snapshot(),
	}
	if !s.queue.Enqueue(job) {
		s.logger.Warn("push not scheduled: store closing", "op", op, "revision", rev)
		return ""
	}
	s.logger.Debug("push scheduled", "op", op, "sync_token", job.token, "revision", rev)
	return job.token
}

func (s *Store) snapshot() model.Collections {
	return model.Collections{
		Orders:    s.orders.Value(),
		Customers: s.customers.Value(),
		Expenses:  s.expenses.Value(),
	}
}

// SyncNow schedules a push of the current state without changing it and
// returns the push's token. Like every push it is best-effort.
func (s *Store) SyncNow() (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedulePush("manual sync", s.revision.Current()), nil
}

// runSync is the sync worker. It is the only goroutine that dequeues, so
// pushes are dispatched one job at a time in enqueue order. A run of
// pushes waiting behind a slow one is coalesced to its newest job.
func (s *Store) runSync() {
	defer close(s.workerDone)

	for {
		job, superseded, ok := s.queue.TryDequeueLatest()
		if ok {
			if superseded > 0 {
				s.logger.Debug("pushes superseded by newer state", "count", superseded, "sync_token", job.token)
			}
			s.process(job)
			continue
		}

		select {
		case <-s.workerCtx.Done():
			return
		case <-s.queue.Wait():
			if s.queue.Drained() {
				return
			}
		}
	}
}

func (s *Store) process(job syncJob) {
	if job.isBarrier() {
		close(job.done)
		return
	}

	if s.remote == nil {
		s.logger.Debug("push skipped: remote store not configured",
			"sync_token", job.token,
			"revision", job.revision,
		)
		return
	}

	start := time.Now()
	remote.PushAll(s.workerCtx, s.remote, s.codec.Tables(job.snapshot))

	s.logger.Debug("push dispatched",
		"sync_token", job.token,
		"revision", job.revision,
		"orders", len(job.snapshot.Orders),
		"customers", len(job.snapshot.Customers),
		"expenses", len(job.snapshot.Expenses),
		"duration", time.Since(start),
	)
}
