package auditspool

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewEventIsFullyIdentified(t *testing.T) {
	event := NewEvent("login_failed", "a@x.com", "password mismatch")
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.At.IsZero())
	assert.Equal(t, "login_failed", event.Kind)
	assert.Equal(t, "a@x.com", event.Email)
	assert.Equal(t, "password mismatch", event.Reason)
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Event{Kind: "login_failed", Email: "a@x.com", Reason: "user not found"}))
	require.NoError(t, store.Enqueue(Event{Kind: "login_succeeded", Email: "a@x.com"}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	events, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "login_failed", events[0].Kind)
	assert.Equal(t, "login_succeeded", events[1].Kind)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].At.IsZero())
}

func TestGetBatchHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Event{Kind: "login_failed", Email: "a@x.com"}))
	}

	events, err := store.GetBatch(3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Event{Kind: "login_failed", Email: "a@x.com"}))
	events, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, store.Remove(events[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRequeueKeepsRetries(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Event{Kind: "login_failed", Email: "a@x.com"}))
	events, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	event.Retries++
	require.NoError(t, store.Remove(event))
	require.NoError(t, store.Requeue(event))

	events, err = store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Retries)
	assert.Equal(t, event.ID, events[0].ID)
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)

	old := Event{Kind: "login_failed", Email: "a@x.com", At: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, store.Enqueue(old))
	require.NoError(t, store.Enqueue(Event{Kind: "login_failed", Email: "b@x.com"}))

	require.NoError(t, store.Cleanup(time.Now().Add(-24*time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	events, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "b@x.com", events[0].Email)
}
