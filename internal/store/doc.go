// Package store implements the reactive, local-first store for orders,
// customers and expenses.
//
// ARCHITECTURE:
//
// The Store owns the only authoritative copy of the three collections and
// a loading flag. Each is held in a Subject: a replay-latest broadcast
// where a new subscriber first receives the current value and then every
// later value. Every mutation publishes a whole new collection, never a
// delta, because the remote store only supports whole-table overwrite.
//
// Write path:
// 1. Mutation takes the store lock and builds the new collection.
// 2. The new snapshot is published to subscribers.
// 3. The touched collections are written to the local cache.
// 4. A push job carrying copies of all three collections is enqueued.
// 5. The call returns. It never waits for the push.
//
// A single sync worker drains the push queue in FIFO order and hands each
// job to remote.PushAll. Pushes that queue up behind a slow push are
// coalesced: of a run of waiting push jobs only the newest is sent, since
// each carries the full tables and would overwrite the ones before it.
// Flush barriers are never coalesced. Push results are never observed: a failed push is
// logged and abandoned, and the already-published state is never rolled
// back.
//
// Startup:
// Load publishes the cache contents, then attempts one remote fetch. On
// success the fetched orders are reconciled against the local copy
// (merge.Reconcile) so images the remote lacks are kept, and the result is
// published and cached. On failure, or with no remote configured, the
// store keeps the cached state. Either way loading becomes false and Ready
// is closed; the store never stays in the loading state.
//
// A slow fetch may publish remote state over a mutation made while it
// was in flight. That mutation's push still runs afterwards, so the next
// fetch sees it again.
//
// Errors:
// Only a failed local cache write surfaces to callers, as an error
// wrapping ErrPersist. Remote failures never cross the store boundary.
package store
