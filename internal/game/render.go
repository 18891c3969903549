package game

// Face is what the presentation layer may show for one card.
type Face struct {
	Handle   Handle
	Color    Color
	Revealed bool
	Matched  bool
}

// Presenter is the presentation collaborator. Session calls it while
// holding its lock, so implementations must not call back into the Session
// and should not block.
type Presenter interface {
	// SyncCards receives every card in board order after any change that can
	// alter visibility.
	SyncCards(faces []Face)
	ShowTime(label string)
	ShowBest(label string)
	SetStartEnabled(enabled bool)
}

// Project maps cards to faces: revealed iff flipped. No other logic.
func Project(cards []Card) []Face {
	faces := make([]Face, len(cards))
	for i, c := range cards {
		faces[i] = Face{Handle: Handle(i), Color: c.Color, Revealed: c.Flipped, Matched: c.Matched}
	}
	return faces
}

type nopPresenter struct{}

func (nopPresenter) SyncCards([]Face)     {}
func (nopPresenter) ShowTime(string)      {}
func (nopPresenter) ShowBest(string)      {}
func (nopPresenter) SetStartEnabled(bool) {}
