package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/ident"
	"github.com/roach88/cakeledger/internal/merge"
	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/remote"
)

// Clock supplies the current wall-clock time. It decides what "today"
// means for upcoming orders and the default order date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store is the single source of truth for the three collections.
//
// Construct one per application with New, start it with Start (or Load),
// and shut it down with Close. All methods are safe for concurrent use;
// mutations are applied one at a time in call order.
type Store struct {
	mu sync.Mutex // serializes mutations and startup publishes

	orders    *Subject[[]model.Order]
	customers *Subject[[]model.Customer]
	expenses  *Subject[[]model.Expense]
	loading   *Subject[bool]

	revision Revision

	cache  cache.Cache
	remote remote.Transport
	codec  *codec.Codec
	ids    ident.Generator
	tokens func() string
	clock  Clock
	logger *slog.Logger

	queue      *syncQueue
	workerCtx  context.Context
	stopWorker context.CancelFunc
	workerDone chan struct{}

	loadOnce  sync.Once
	ready     chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithCache sets the local cache. Without one the store keeps state in
// memory only.
func WithCache(c cache.Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithRemote sets the remote transport. Without one, Load reports a
// configuration problem in the log and keeps local state, and pushes are
// skipped.
func WithRemote(t remote.Transport) Option {
	return func(s *Store) {
		s.remote = t
	}
}

// WithCodec sets the row codec used to build push tables.
func WithCodec(c *codec.Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// WithIDGenerator sets the entity id source (tests use fixed ids).
func WithIDGenerator(g ident.Generator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithSyncTokens sets the source of per-push log tokens.
func WithSyncTokens(next func() string) Option {
	return func(s *Store) {
		s.tokens = next
	}
}

// WithClock sets the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New constructs a store in the loading state with empty collections and
// starts its sync worker. Call Start or Load to bring it to ready.
func New(opts ...Option) *Store {
	s := &Store{
		orders:     NewSubject[[]model.Order](nil, slices.Clone[[]model.Order]),
		customers:  NewSubject[[]model.Customer](nil, slices.Clone[[]model.Customer]),
		expenses:   NewSubject[[]model.Expense](nil, slices.Clone[[]model.Expense]),
		loading:    NewSubject(true, nil),
		codec:      codec.New(),
		ids:        ident.ULIDGenerator{},
		tokens:     ident.NewSyncToken,
		clock:      systemClock{},
		logger:     slog.Default(),
		queue:      newSyncQueue(),
		workerDone: make(chan struct{}),
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.workerCtx, s.stopWorker = context.WithCancel(context.Background())
	go s.runSync()

	return s
}

// Start runs Load in the background and returns immediately.
// Use Ready to wait for the startup sequence to finish.
func (s *Store) Start(ctx context.Context) {
	go s.Load(ctx)
}

// Ready is closed once the startup sequence has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Load runs the startup sequence and returns when the store is ready.
// It never fails: every problem degrades to cached or empty state and is
// logged. Only the first call does any work.
func (s *Store) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		defer s.finishLoading()
		s.load(ctx)
	})
}

func (s *Store) load(ctx context.Context) {
	cached := s.readCache(ctx)

	s.mu.Lock()
	s.publishAll(cached)
	s.mu.Unlock()

	if s.remote == nil {
		s.logger.Warn("remote store not configured; using local data",
			"error", remote.ErrNotConfigured,
			"orders", len(cached.Orders),
		)
		return
	}

	fetched, err := s.remote.FetchAll(ctx)
	if err != nil {
		attrs := []any{
			"error", err,
			"orders", len(cached.Orders),
			"customers", len(cached.Customers),
			"expenses", len(cached.Expenses),
		}
		if at, ok := cache.LastWrite(ctx, s.cache); ok {
			attrs = append(attrs, "cache_age", time.Since(at).Round(time.Second))
		}
		s.logger.Warn("remote fetch failed; using local data", attrs...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Local side is the cache contents plus anything committed since.
	fetched.Orders = merge.Reconcile(fetched.Orders, s.orders.Value())
	s.publishAll(fetched)
	if err := s.persist(ctx, cache.KeyOrders, cache.KeyCustomers, cache.KeyExpenses); err != nil {
		s.logger.Error("caching fetched data failed", "error", err)
	}

	s.logger.Info("loaded remote data",
		"orders", len(fetched.Orders),
		"customers", len(fetched.Customers),
		"expenses", len(fetched.Expenses),
		"revision", s.revision.Current(),
	)
}

func (s *Store) readCache(ctx context.Context) model.Collections {
	if s.cache == nil {
		return model.Collections{}
	}
	cached, err := cache.LoadCollections(ctx, s.cache)
	if err != nil {
		s.logger.Warn("reading local cache failed", "error", err)
	}
	return cached
}

func (s *Store) finishLoading() {
	s.loading.Next(false)
	close(s.ready)
}

// publishAll publishes a whole snapshot. Callers hold s.mu.
func (s *Store) publishAll(c model.Collections) {
	s.orders.Next(c.Orders)
	s.customers.Next(c.Customers)
	s.expenses.Next(c.Expenses)
	s.revision.Next()
}

// Flush waits until every push enqueued before the call has been
// dispatched, or ctx is done.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !s.queue.Enqueue(syncJob{done: done}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting mutations, drains queued pushes, and closes the
// cache. If ctx ends before the queue drains, outstanding pushes are
// cancelled. The store's state is already cached after every mutation, so
// nothing is lost locally.
func (s *Store) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.queue.Close()

		select {
		case <-s.workerDone:
		case <-ctx.Done():
			s.stopWorker()
			<-s.workerDone
			err = ctx.Err()
		}
		s.stopWorker()

		if s.cache != nil {
			if cerr := s.cache.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		s.logger.Info("store closed", "revision", s.revision.Current())
	})
	return err
}
