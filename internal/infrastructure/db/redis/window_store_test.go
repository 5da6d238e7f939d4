package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when REDIS_TEST_ADDR points at a disposable instance.
func newTestStore(t *testing.T) *WindowStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewWindowStore(client)
}

func TestWindowStore_CountsWithinWindow(t *testing.T) {
	store := newTestStore(t)
	key := "test:" + uuid.NewString()

	for want := int64(1); want <= 3; want++ {
		n, resetAt, err := store.Hit(context.Background(), key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
		assert.WithinDuration(t, time.Now().Add(time.Minute), resetAt, 2*time.Second)
	}
}

func TestWindowStore_WindowExpires(t *testing.T) {
	store := newTestStore(t)
	key := "test:" + uuid.NewString()

	n, _, err := store.Hit(context.Background(), key, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	time.Sleep(250 * time.Millisecond)

	n, _, err = store.Hit(context.Background(), key, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
