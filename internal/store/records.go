package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/robalobadob/memory/internal/game"
)

// Keys inside a player's namespace.
const (
	KeyBestTime   = "bestTime"
	KeyDifficulty = "difficulty"
)

// Records is one player's best time and difficulty selection. It does no
// comparison; deciding whether a time is a new best is the session's job.
type Records struct {
	kv     KV
	prefix string
}

var _ game.Records = (*Records)(nil)

// NewRecords scopes kv to playerID.
func NewRecords(kv KV, playerID string) *Records {
	return &Records{kv: kv, prefix: "player:" + playerID + ":"}
}

// BestTime returns the stored best in seconds. Missing, malformed and
// negative values read as "no best yet"; a stored 0 is reported as is.
func (r *Records) BestTime(ctx context.Context) (int, bool, error) {
	v, err := r.kv.Get(ctx, r.prefix+KeyBestTime)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false, nil
	}
	return n, true, nil
}

func (r *Records) SetBestTime(ctx context.Context, seconds int) error {
	return r.kv.Set(ctx, r.prefix+KeyBestTime, strconv.Itoa(seconds))
}

func (r *Records) ClearBestTime(ctx context.Context) error {
	return r.kv.Delete(ctx, r.prefix+KeyBestTime)
}

// Difficulty returns the stored selector ("0", "1" or "2").
func (r *Records) Difficulty(ctx context.Context) (game.Difficulty, bool, error) {
	v, err := r.kv.Get(ctx, r.prefix+KeyDifficulty)
	if errors.Is(err, ErrNotFound) {
		return game.Normal, false, nil
	}
	if err != nil {
		return game.Normal, false, err
	}
	d, err := game.ParseDifficulty(v)
	if err != nil {
		return game.Normal, false, nil
	}
	return d, true, nil
}

func (r *Records) SetDifficulty(ctx context.Context, d game.Difficulty) error {
	return r.kv.Set(ctx, r.prefix+KeyDifficulty, strconv.Itoa(int(d)))
}
