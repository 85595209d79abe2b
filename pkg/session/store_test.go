package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	values map[string]string
}

func newMemBackend() *memBackend {
	return &memBackend{values: map[string]string{}}
}

func (m *memBackend) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memBackend) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memBackend) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memBackend) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (m *memBackend) SessionKey(sessionID string, parts ...string) string {
	key := "storefront:session:" + sessionID
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(newMemBackend(), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "sid", "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "sid", "cart", `{"a":1}`))
	value, ok, err := store.Get(ctx, "sid", "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, value)

	require.NoError(t, store.Del(ctx, "sid", "cart"))
	_, ok, err = store.Get(ctx, "sid", "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreIsolatesSessions(t *testing.T) {
	store, err := NewStore(newMemBackend(), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice", "cart", "a"))

	_, ok, err := store.Get(ctx, "bob", "cart")
	require.NoError(t, err)
	assert.False(t, ok, "one session must never see another session's state")
}

func TestStoreRejectsEmptySessionID(t *testing.T) {
	store, err := NewStore(newMemBackend(), time.Hour)
	require.NoError(t, err)

	require.Error(t, store.Set(context.Background(), " ", "cart", "x"))
	_, _, err = store.Get(context.Background(), "", "cart")
	require.Error(t, err)
}

func TestNewSessionIDIsOpaqueAndUnique(t *testing.T) {
	a, err := NewSessionID()
	require.NoError(t, err)
	b, err := NewSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 20)
}
