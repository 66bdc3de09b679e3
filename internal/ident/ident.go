// Package ident generates record identities and sync-pass tokens.
//
// Record ids are ULIDs: a millisecond timestamp followed by random bits,
// monotonic within one process. There is no central authority; collisions
// between clients are improbable and not defended against.
package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces unique record ids.
// Implemented by ULIDGenerator (production) and FixedGenerator,
// SequenceGenerator (tests).
type Generator interface {
	NewID() string
}

// ULIDGenerator generates time-sortable ULID ids.
//
// Thread-safety: ulid.Make uses a process-wide monotonic entropy source
// guarded by a mutex, so the generator is safe for concurrent use.
type ULIDGenerator struct{}

// NewID returns a 26-character ULID string.
func (ULIDGenerator) NewID() string {
	return ulid.Make().String()
}

// NewSyncToken returns a UUIDv7 used to correlate the log lines of one
// push pass.
func NewSyncToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids for testing.
//
// Panics when all ids have been consumed, which flags a test that created
// more records than it declared.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// NewID returns the next predetermined id.
func (g *FixedGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// SequenceGenerator returns prefix-1, prefix-2, ... without limit.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a counting generator.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
