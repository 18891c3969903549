package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShufflePreservesContents(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, d := range []Difficulty{Normal, Hard, Insane} {
		board := BuildBoard(d)
		before := countColors(board)
		Shuffle(board, r.Intn)
		assert.Len(t, board, 2*len(Palette(d)))
		assert.Equal(t, before, countColors(board))
	}
}

func TestShuffleShortSlices(t *testing.T) {
	called := false
	never := func(int) int { called = true; return 0 }

	var empty []int
	Shuffle(empty, never)
	one := []int{42}
	Shuffle(one, never)

	assert.Equal(t, []int{42}, one)
	assert.False(t, called)
}

func TestShuffleDrawsFromInclusiveRange(t *testing.T) {
	var bounds []int
	s := []int{0, 1, 2, 3}
	Shuffle(s, func(n int) int {
		bounds = append(bounds, n)
		return n - 1
	})
	assert.Equal(t, []int{4, 3, 2}, bounds)
	assert.Equal(t, []int{0, 1, 2, 3}, s, "j == i never moves anything")
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	const rounds = 6000
	seen := map[[3]int]int{}
	for i := 0; i < rounds; i++ {
		s := []int{0, 1, 2}
		Shuffle(s, nil)
		seen[[3]int{s[0], s[1], s[2]}]++
	}
	assert.Len(t, seen, 6)
	for perm, n := range seen {
		assert.InDelta(t, rounds/6, n, 250, "permutation %v", perm)
	}
}
