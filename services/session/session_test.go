package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/models"
)

func testStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, time.Hour), mr
}

func TestGetMissingSessionReturnsFresh(t *testing.T) {
	store, _ := testStore(t)

	mem, err := store.Get(context.Background(), "new-session", "hi")
	require.NoError(t, err)
	assert.Equal(t, "new-session", mem.SessionID)
	assert.Equal(t, "hi", mem.Language)
	assert.Equal(t, models.StateGreeting, mem.State)
	require.NotNil(t, mem.Intent)
}

func TestSaveGetRoundTrip(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	mem := models.NewConversationMemory("sess-1", "en")
	mem.State = models.StateCollectingDetails
	mem.Intent.Service = "Bridal Makeup Services"
	mem.Intent.Phone = "+919876543210"
	mem.Intent.SetMeta(models.MetaNeedsYear, "true")
	mem.AddMessage("user", "2feb")
	mem.LastShown = &models.ShownList{Kind: models.ShownServices, Items: []string{"a", "b"}}
	mem.OffTopicCount = 1

	require.NoError(t, store.Save(ctx, mem))

	got, err := store.Get(ctx, "sess-1", "en")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollectingDetails, got.State)
	assert.Equal(t, "Bridal Makeup Services", got.Intent.Service)
	assert.Equal(t, "+919876543210", got.Intent.Phone)
	assert.Equal(t, "true", got.Intent.Meta(models.MetaNeedsYear))
	require.Len(t, got.History, 1)
	assert.Equal(t, "2feb", got.History[0].Text)
	require.NotNil(t, got.LastShown)
	assert.Equal(t, []string{"a", "b"}, got.LastShown.Items)
	assert.Equal(t, 1, got.OffTopicCount)

	ttl := mr.TTL(sessionPrefix + "sess-1")
	assert.Equal(t, time.Hour, ttl)
}

func TestGetRevalidatesStoredState(t *testing.T) {
	store, mr := testStore(t)

	// A blob written by an older build can carry a state string the
	// current stage set no longer knows.
	require.NoError(t, mr.Set(sessionPrefix+"sess-2", `{"sessionId":"sess-2","language":"en","state":"haggling"}`))

	got, err := store.Get(context.Background(), "sess-2", "en")
	require.NoError(t, err)
	assert.Equal(t, models.StateGreeting, got.State)
	require.NotNil(t, got.Intent, "a nil intent is replaced, not propagated")
}

func TestDelete(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()

	mem := models.NewConversationMemory("sess-3", "en")
	require.NoError(t, store.Save(ctx, mem))
	require.NoError(t, store.Delete(ctx, "sess-3"))

	assert.False(t, mr.Exists(sessionPrefix+"sess-3"))
}
