package game

import (
	"errors"
	"fmt"
)

// ErrCardNotFound means a handle was never registered on the current board.
var ErrCardNotFound = errors.New("card not found")

// Registry owns the handle → card mapping for one board. Handles are dense
// indexes assigned by Register, so lookups are slice accesses and All
// returns cards in board order.
//
// Registry is not safe for concurrent use; Session serialises access.
type Registry struct {
	cards []Card
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register binds a fresh face-down, unmatched card of the given color to
// the next handle and returns it.
func (r *Registry) Register(c Color) Handle {
	r.cards = append(r.cards, Card{Color: c})
	return Handle(len(r.cards) - 1)
}

// Get returns a copy of the card bound to h.
func (r *Registry) Get(h Handle) (Card, error) {
	c, err := r.card(h)
	if err != nil {
		return Card{}, err
	}
	return *c, nil
}

// card returns the mutable card for h; only Session transitions use it.
func (r *Registry) card(h Handle) (*Card, error) {
	if h < 0 || int(h) >= len(r.cards) {
		return nil, fmt.Errorf("handle %d: %w", h, ErrCardNotFound)
	}
	return &r.cards[h], nil
}

// All returns a copy of every card in board order.
func (r *Registry) All() []Card {
	return append([]Card(nil), r.cards...)
}

// Clear discards every entry. Handles issued before Clear are invalid after it.
func (r *Registry) Clear() { r.cards = r.cards[:0] }

// allMatched scans the whole board. Boards hold at most 30 cards.
func (r *Registry) allMatched() bool {
	for _, c := range r.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}
