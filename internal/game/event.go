package game

// EventKind names a session lifecycle event.
type EventKind string

const (
	EventRestarted  EventKind = "restarted"
	EventStarted    EventKind = "started"
	EventMatched    EventKind = "matched"
	EventMismatched EventKind = "mismatched"
	EventWon        EventKind = "won"
)

// Event is reported through Config.OnEvent.
type Event struct {
	Kind       EventKind
	Difficulty Difficulty
	Handles    []Handle // matched / mismatched pair
	Elapsed    int      // won only
	Best       int      // won only
	NewBest    bool     // won only
}
