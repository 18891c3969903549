package game

import "fmt"

// FormatTime renders seconds as M:SS; minutes are unpadded.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TimeLabel is the running-clock label, e.g. "Time: 1:05".
func TimeLabel(seconds int) string { return "Time: " + FormatTime(seconds) }

// BestLabel is the best-time label; ok=false renders the "?" sentinel.
func BestLabel(seconds int, ok bool) string {
	if !ok {
		return "Best Time: ?"
	}
	return "Best Time: " + FormatTime(seconds)
}
