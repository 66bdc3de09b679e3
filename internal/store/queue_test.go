package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushJob(token string) syncJob {
	return syncJob{token: token}
}

func TestSyncQueue_FIFO(t *testing.T) {
	q := newSyncQueue()
	for _, tok := range []string{"A", "B", "C"} {
		require.True(t, q.Enqueue(pushJob(tok)))
	}

	for _, want := range []string{"A", "B", "C"} {
		j, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, j.token)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok)
}

func TestSyncQueue_LatestCoalescesPushRun(t *testing.T) {
	q := newSyncQueue()
	q.Enqueue(pushJob("A"))
	q.Enqueue(pushJob("B"))
	q.Enqueue(pushJob("C"))

	j, superseded, ok := q.TryDequeueLatest()
	require.True(t, ok)
	assert.Equal(t, "C", j.token)
	assert.Equal(t, 2, superseded)
	assert.Equal(t, 0, q.Len())
}

func TestSyncQueue_LatestStopsAtBarrier(t *testing.T) {
	q := newSyncQueue()
	barrier := syncJob{done: make(chan struct{})}
	q.Enqueue(pushJob("A"))
	q.Enqueue(pushJob("B"))
	q.Enqueue(barrier)
	q.Enqueue(pushJob("C"))

	j, superseded, ok := q.TryDequeueLatest()
	require.True(t, ok)
	assert.Equal(t, "B", j.token)
	assert.Equal(t, 1, superseded)

	j, superseded, ok = q.TryDequeueLatest()
	require.True(t, ok)
	assert.True(t, j.isBarrier())
	assert.Equal(t, 0, superseded)

	j, _, ok = q.TryDequeueLatest()
	require.True(t, ok)
	assert.Equal(t, "C", j.token)

	_, _, ok = q.TryDequeueLatest()
	assert.False(t, ok)
}

func TestSyncQueue_Close(t *testing.T) {
	q := newSyncQueue()
	q.Enqueue(pushJob("A"))
	q.Close()
	q.Close()

	assert.False(t, q.Enqueue(pushJob("B")), "enqueue after close fails")
	assert.False(t, q.Drained(), "queued job still pending")

	_, ok := q.TryDequeue()
	require.True(t, ok)
	assert.True(t, q.Drained())

	select {
	case <-q.Wait():
	default:
		t.Fatal("wait channel should be closed")
	}
}

func TestRevision(t *testing.T) {
	var r Revision
	assert.Equal(t, int64(0), r.Current())
	assert.Equal(t, int64(1), r.Next())
	assert.Equal(t, int64(2), r.Next())
	assert.Equal(t, int64(2), r.Current())
}
