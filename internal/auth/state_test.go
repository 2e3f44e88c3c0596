package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreConsumesOnce(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()
	state := NewState()

	require.NoError(t, store.Save(ctx, state, ProviderKakao))

	ok, err := store.Consume(ctx, state, ProviderKakao)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, state, ProviderKakao)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStateStoreRejectsOtherProviderAndExpired(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", ProviderGoogle))
	ok, _ := store.Consume(ctx, "s1", ProviderNaver)
	assert.False(t, ok)

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(ctx, "s2", ProviderGoogle))
	store.now = func() time.Time { return now.Add(StateTTL + time.Second) }
	ok, _ = store.Consume(ctx, "s2", ProviderGoogle)
	assert.False(t, ok)
}
