package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteKV(t *testing.T) KV {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migrations are idempotent")
	return NewSQLite(db)
}

func newRedisKV(t *testing.T) KV {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := DialRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, "memory:")
}

func TestKVBackends(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(*testing.T) KV { return NewMemory() },
		"sqlite": newSQLiteKV,
		"redis":  newRedisKV,
	}
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := mk(t)

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "a", "1"))
			require.NoError(t, kv.Set(ctx, "a", "2"))
			v, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, "2", v)

			require.NoError(t, kv.Delete(ctx, "a"))
			require.NoError(t, kv.Delete(ctx, "a"))
			_, err = kv.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memory.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, NewSQLite(db).Set(ctx, "player:p1:bestTime", "45"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))
	v, err := NewSQLite(db).Get(ctx, "player:p1:bestTime")
	require.NoError(t, err)
	assert.Equal(t, "45", v)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	kv := NewRedis(rdb, "memory:")

	require.NoError(t, kv.Set(ctx, "player:p1:bestTime", "45"))
	raw, err := mr.Get("memory:player:p1:bestTime")
	require.NoError(t, err)
	assert.Equal(t, "45", raw)
	assert.False(t, mr.Exists("player:p1:bestTime"))

	require.NoError(t, mr.Set("player:p2:bestTime", "10"))
	_, err = kv.Get(ctx, "player:p2:bestTime")
	assert.ErrorIs(t, err, ErrNotFound, "unprefixed keys are invisible")

	require.NoError(t, kv.Delete(ctx, "player:p1:bestTime"))
	assert.False(t, mr.Exists("memory:player:p1:bestTime"))
}

func TestDialRedisFailsFast(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := DialRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
