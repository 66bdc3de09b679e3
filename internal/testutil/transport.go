package testutil

import (
	"context"
	"sync"

	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/model"
)

// RecordingTransport is an in-process remote.Transport that records every
// pushed table and answers fetches with a canned result.
//
// Set Gate to a channel to hold every Push until the channel is closed;
// tests use this to show that mutations never wait for pushes.
//
// Thread-safety: safe for concurrent use.
type RecordingTransport struct {
	mu       sync.Mutex
	pushes   []codec.Table
	fetch    model.Collections
	fetchErr error
	fetches  int

	Gate chan struct{}
}

// NewRecordingTransport returns a transport whose FetchAll returns fetch.
func NewRecordingTransport(fetch model.Collections) *RecordingTransport {
	return &RecordingTransport{fetch: fetch}
}

// FailFetch makes every later FetchAll return err.
func (t *RecordingTransport) FailFetch(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetchErr = err
}

// Push records the table.
func (t *RecordingTransport) Push(ctx context.Context, table codec.Table) {
	if t.Gate != nil {
		select {
		case <-t.Gate:
		case <-ctx.Done():
			return
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushes = append(t.pushes, table)
}

// FetchAll returns the canned collections or the configured error.
func (t *RecordingTransport) FetchAll(ctx context.Context) (model.Collections, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetches++
	if t.fetchErr != nil {
		return model.Collections{}, t.fetchErr
	}
	if err := ctx.Err(); err != nil {
		return model.Collections{}, err
	}
	return t.fetch.Clone(), nil
}

// Pushes returns every table pushed so far, in arrival order.
func (t *RecordingTransport) Pushes() []codec.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]codec.Table(nil), t.pushes...)
}

// Fetches returns how many times FetchAll was called.
func (t *RecordingTransport) Fetches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetches
}

// LastPush returns the most recently pushed table with the given name.
func (t *RecordingTransport) LastPush(name string) (codec.Table, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.pushes) - 1; i >= 0; i-- {
		if t.pushes[i].Name == name {
			return t.pushes[i], true
		}
	}
	return codec.Table{}, false
}
