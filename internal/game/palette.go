package game

// Palettes are cumulative: hard adds hardColors to normal, insane adds
// insaneColors on top of hard.
var (
	normalColors = []Color{"red", "blue", "green", "orange", "purple"}
	hardColors   = []Color{"hotpink", "yellow", "aqua", "greenyellow", "blueviolet"}
	insaneColors = []Color{"teal", "tan", "lightsalmon", "paleturquoise", "olivedrab"}

	paletteBlocks = [][]Color{normalColors, hardColors, insaneColors}
)

// Palette returns the distinct colors used at difficulty d.
func Palette(d Difficulty) []Color {
	var out []Color
	for _, block := range paletteBlocks[:levels(d)] {
		out = append(out, block...)
	}
	return out
}

// BuildBoard returns every color of the palette for d exactly twice, in
// palette order (each palette block followed by its copy). It does not
// shuffle; callers compose it with Shuffle.
func BuildBoard(d Difficulty) []Color {
	board := make([]Color, 0, 2*len(normalColors)*levels(d))
	for _, block := range paletteBlocks[:levels(d)] {
		board = append(board, block...)
		board = append(board, block...)
	}
	return board
}

// levels is how many palette blocks d uses; unknown values fall back to normal.
func levels(d Difficulty) int {
	if !d.Valid() {
		return 1
	}
	return int(d) + 1
}
