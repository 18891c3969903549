// internal/events/events.go
//
// Game lifecycle events for outside consumers (stats, dashboards).
// Two publishers:
//   - NATS: JSON on "<prefix>.<kind>", e.g. memory.game.won.
//   - Log: a zerolog line per event, used when no broker is configured.
//
// Publishing is best-effort; the game never waits on or fails because of it.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memory/internal/game"
)

// DefaultPrefix is the subject prefix used by the server.
const DefaultPrefix = "memory.game"

// Event is the wire form of a game.Event.
type Event struct {
	Player     string    `json:"player"`
	Kind       string    `json:"kind"`
	Difficulty string    `json:"difficulty"`
	Elapsed    int       `json:"elapsed,omitempty"`
	Best       int       `json:"best,omitempty"`
	NewBest    bool      `json:"newBest,omitempty"`
	At         time.Time `json:"at"`
}

// FromGame converts a session event for player.
func FromGame(player string, e game.Event, at time.Time) Event {
	return Event{
		Player:     player,
		Kind:       string(e.Kind),
		Difficulty: e.Difficulty.String(),
		Elapsed:    e.Elapsed,
		Best:       e.Best,
		NewBest:    e.NewBest,
		At:         at.UTC(),
	}
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

type natsPublisher struct {
	nc     *nats.Conn
	prefix string
}

// ConnectNATS dials url and returns a publisher on prefix.
func ConnectNATS(url, prefix string) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("memory-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &natsPublisher{nc: nc, prefix: prefix}, nil
}

// Subject is the NATS subject for kind.
func Subject(prefix, kind string) string { return prefix + "." + kind }

func (p *natsPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject(p.prefix, e.Kind), data)
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("nats drain")
	}
}

type logPublisher struct{}

// NewLog returns a publisher that only logs at debug level.
func NewLog() Publisher { return logPublisher{} }

func (logPublisher) Publish(ctx context.Context, e Event) error {
	log.Debug().
		Str("player", e.Player).
		Str("kind", e.Kind).
		Str("difficulty", e.Difficulty).
		Int("elapsed", e.Elapsed).
		Bool("newBest", e.NewBest).
		Msg("game event")
	return nil
}

func (logPublisher) Close() {}
