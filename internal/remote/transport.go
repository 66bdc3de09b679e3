package remote

import (
	"context"
	"sync"

	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/model"
)

// Pusher writes full tables to the remote store.
//
// Push is best-effort: it returns once the write has been dispatched (or
// abandoned) and reports nothing. Callers must not treat its return as
// confirmation that the remote copy changed.
type Pusher interface {
	Push(ctx context.Context, table codec.Table)
}

// Fetcher reads every collection from the remote store.
type Fetcher interface {
	FetchAll(ctx context.Context) (model.Collections, error)
}

// Transport is the full remote contract used by the store.
type Transport interface {
	Pusher
	Fetcher
}

// PushAll pushes each table in its own goroutine and returns when every
// push has been dispatched or abandoned. Tables are independent: there is
// no ordering between them and no all-or-nothing behaviour.
func PushAll(ctx context.Context, p Pusher, tables []codec.Table) {
	var wg sync.WaitGroup
	for _, table := range tables {
		wg.Add(1)
		go func(t codec.Table) {
			defer wg.Done()
			p.Push(ctx, t)
		}(table)
	}
	wg.Wait()
}
