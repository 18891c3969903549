package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	for secs, want := range map[int]string{
		0: "0:00", 5: "0:05", 45: "0:45", 60: "1:00", 61: "1:01", 600: "10:00", 3599: "59:59", -3: "0:00",
	} {
		assert.Equal(t, want, FormatTime(secs), "%d seconds", secs)
	}
	assert.Equal(t, "Time: 1:05", TimeLabel(65))
	assert.Equal(t, "Best Time: 0:45", BestLabel(45, true))
	assert.Equal(t, "Best Time: ?", BestLabel(0, false))
}
