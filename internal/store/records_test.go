package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/memory/internal/game"
)

func TestRecordsBestTime(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	r := NewRecords(kv, "p1")

	_, ok, err := r.BestTime(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetBestTime(ctx, 45))
	best, ok, err := r.BestTime(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 45, best)

	raw, err := kv.Get(ctx, "player:p1:bestTime")
	require.NoError(t, err)
	assert.Equal(t, "45", raw)

	require.NoError(t, r.ClearBestTime(ctx))
	_, ok, _ = r.BestTime(ctx)
	assert.False(t, ok)
}

func TestRecordsMalformedBestTimeIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	r := NewRecords(kv, "p1")
	for _, raw := range []string{"abc", "", "-4", "12s"} {
		require.NoError(t, kv.Set(ctx, "player:p1:bestTime", raw))
		_, ok, err := r.BestTime(ctx)
		assert.NoError(t, err, raw)
		assert.False(t, ok, raw)
	}
}

func TestRecordsZeroBestTimeIsPresent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	r := NewRecords(kv, "p1")
	require.NoError(t, kv.Set(ctx, "player:p1:bestTime", "0"))

	best, ok, err := r.BestTime(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, best)
}

func TestRecordsAreScopedPerPlayer(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, NewRecords(kv, "p1").SetBestTime(ctx, 10))
	_, ok, _ := NewRecords(kv, "p2").BestTime(ctx)
	assert.False(t, ok)
}

func TestRecordsDifficulty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	r := NewRecords(kv, "p1")

	d, ok, err := r.Difficulty(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, game.Normal, d)

	require.NoError(t, r.SetDifficulty(ctx, game.Insane))
	raw, _ := kv.Get(ctx, "player:p1:difficulty")
	assert.Equal(t, "2", raw)
	d, ok, _ = r.Difficulty(ctx)
	assert.True(t, ok)
	assert.Equal(t, game.Insane, d)

	require.NoError(t, kv.Set(ctx, "player:p1:difficulty", "7"))
	_, ok, err = r.Difficulty(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

type brokenKV struct{ KV }

func (brokenKV) Get(context.Context, string) (string, error) { return "", errors.New("connection reset") }

func TestRecordsPropagatesBackendErrors(t *testing.T) {
	r := NewRecords(brokenKV{NewMemory()}, "p1")
	_, _, err := r.BestTime(context.Background())
	assert.Error(t, err)
	_, _, err = r.Difficulty(context.Background())
	assert.Error(t, err)
}
