// internal/game/types.go
//
// Core type definitions for the memory game.
// Defines:
//   - Color: the identity shared by the two cards of a pair.
//   - Difficulty: cumulative palette selector (normal/hard/insane).
//   - State: session lifecycle (idle → running → won).
//   - Handle / Card: registry key and the logical card it maps to.

package game

import (
	"errors"
	"strconv"
	"strings"
)

// Color is a palette entry. Two cards match iff their colors are equal.
type Color string

// Difficulty selects how many palettes go into the board.
type Difficulty int

const (
	Normal Difficulty = iota
	Hard
	Insane
)

// String returns the lowercase name used by the HTTP layer.
func (d Difficulty) String() string {
	switch d {
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case Insane:
		return "insane"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool { return d >= Normal && d <= Insane }

// ErrUnknownDifficulty is returned by ParseDifficulty.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty accepts either the name ("normal", "hard", "insane") or
// the stored selector form ("0", "1", "2").
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	case "insane":
		return Insane, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Difficulty(n).Valid() {
		return Normal, ErrUnknownDifficulty
	}
	return Difficulty(n), nil
}

// State is the session lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateWon     State = "won"
)

// Handle is the opaque key the presentation layer uses to refer to a card.
// Handles are assigned in board order when the board is built.
type Handle int

// Card is the logical state behind a handle.
type Card struct {
	Color   Color
	Flipped bool
	Matched bool
}
