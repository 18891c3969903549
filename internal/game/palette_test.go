package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countColors(cs []Color) map[Color]int {
	out := make(map[Color]int, len(cs))
	for _, c := range cs {
		out[c]++
	}
	return out
}

func TestBuildBoard(t *testing.T) {
	tests := []struct {
		name       string
		difficulty Difficulty
		cards      int
	}{
		{"normal", Normal, 10},
		{"hard", Hard, 20},
		{"insane", Insane, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := BuildBoard(tt.difficulty)
			require.Len(t, board, tt.cards)

			counts := countColors(board)
			assert.Len(t, counts, tt.cards/2)
			for c, n := range counts {
				assert.Equal(t, 2, n, "color %s", c)
			}
			assert.ElementsMatch(t, Palette(tt.difficulty), keys(counts))
		})
	}
}

func TestPalettesAreCumulative(t *testing.T) {
	normal, hard, insane := Palette(Normal), Palette(Hard), Palette(Insane)
	assert.Subset(t, hard, normal)
	assert.Subset(t, insane, hard)
	assert.Contains(t, normal, Color("red"))
	assert.Contains(t, hard, Color("hotpink"))
	assert.NotContains(t, hard, Color("teal"))
	assert.Contains(t, insane, Color("olivedrab"))
}

func TestBuildBoardUnknownDifficultyFallsBackToNormal(t *testing.T) {
	assert.Equal(t, BuildBoard(Normal), BuildBoard(Difficulty(7)))
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{
		"normal": Normal, "HARD": Hard, " insane ": Insane,
		"0": Normal, "1": Hard, "2": Insane,
	} {
		got, err := ParseDifficulty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "3", "-1", "easy"} {
		_, err := ParseDifficulty(in)
		assert.ErrorIs(t, err, ErrUnknownDifficulty, in)
	}
}

func keys(m map[Color]int) []Color {
	out := make([]Color, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	return out
}
