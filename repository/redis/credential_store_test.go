package redis

import (
	"context"
	"os"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreKeys(t *testing.T) {
	store := NewCredentialStore(nil, "", 0).(*credentialStore)
	assert.Equal(t, "taskboard:token", store.tokenKey())
	assert.Equal(t, "taskboard:user", store.userKey())
}

func TestCredentialStoreAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	require.NoError(t, err)
	client := redislib.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewCredentialStore(client, "taskboard-test:", time.Minute)
	t.Cleanup(func() { _ = store.Clear(ctx) })

	require.NoError(t, store.Save(ctx, "tok", []byte(`{"id":"u1"}`)))
	token, snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.JSONEq(t, `{"id":"u1"}`, string(snap))

	require.NoError(t, store.Clear(ctx))
	token, snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, snap)
}
