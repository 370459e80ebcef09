// internal/session/store_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testPreferences() models.Preferences {
	return models.Preferences{
		Purpose:      "gaming",
		Requirements: map[string]interface{}{"minRAM": 16.0, "requireDiscreteGPU": true},
	}
}

func TestStore_CreateAndLoad(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewStore(client, time.Hour, "")

	sess, err := store.Create(context.Background(), 3, []string{"a", "b"}, testPreferences())
	require.NoError(t, err)

	_, err = uuid.Parse(sess.ID)
	assert.NoError(t, err)
	assert.True(t, mr.Exists("comparex:session:"+sess.ID))
	assert.Equal(t, time.Hour, mr.TTL("comparex:session:"+sess.ID))

	loaded, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.CategoryID)
	assert.Equal(t, []string{"a", "b"}, loaded.ItemIDs)
	assert.Equal(t, "gaming", loaded.Preferences.Purpose)
	assert.Equal(t, true, loaded.Preferences.Requirements["requireDiscreteGPU"])
}

func TestStore_LoadMissing(t *testing.T) {
	_, client := setupRedis(t)
	store := NewStore(client, 0, "")

	_, err := store.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
}

func TestStore_ExpiresWithTTL(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewStore(client, time.Minute, "test:")

	sess, err := store.Create(context.Background(), 1, []string{"a"}, models.Preferences{})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(context.Background(), sess.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
}

func TestStore_ExpiredPayloadRejected(t *testing.T) {
	_, client := setupRedis(t)
	store := NewStore(client, time.Hour, "")
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	sess, err := store.Create(context.Background(), 1, []string{"a"}, models.Preferences{})
	require.NoError(t, err)

	_, err = store.Load(context.Background(), sess.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
}

func TestStore_Delete(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewStore(client, 0, "")

	sess, err := store.Create(context.Background(), 1, []string{"a"}, models.Preferences{})
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), sess.ID))
	assert.False(t, mr.Exists(store.Key(sess.ID)))
}

func TestStore_CorruptPayload(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewStore(client, 0, "")
	require.NoError(t, mr.Set(store.Key("bad"), "{"))

	_, err := store.Load(context.Background(), "bad")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionStoreFailed))
}

func TestStore_RedisUnavailable(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewStore(client, 0, "")
	mr.Close()

	_, err := store.Create(context.Background(), 1, []string{"a"}, models.Preferences{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionStoreFailed))
}
