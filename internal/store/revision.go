package store

import "sync/atomic"

// Revision counts published state changes.
//
// Every state transition (a mutation, or a startup publish) takes the next
// value, so push jobs and log lines can be ordered by the state they
// carry. Revision 0 means nothing has been published yet.
//
// Thread-safety: safe for concurrent use.
type Revision struct {
	n atomic.Int64
}

// Next returns the next revision and advances the counter.
func (r *Revision) Next() int64 {
	return r.n.Add(1)
}

// Current returns the last revision handed out.
func (r *Revision) Current() int64 {
	return r.n.Load()
}
