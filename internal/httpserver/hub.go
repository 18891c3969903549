package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memory/internal/game"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
)

func newUpgrader(clientOrigin string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowOrigin(clientOrigin),
	}
}

// allowOrigin admits clients without an Origin header, the configured
// client origin, and pages served from this host. The player cookie rides
// along on the upgrade, so any other site is refused.
func allowOrigin(clientOrigin string) func(*http.Request) bool {
	want := strings.TrimRight(clientOrigin, "/")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if strings.EqualFold(strings.TrimRight(origin, "/"), want) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// wsMessage is one presentation update pushed to the browser.
type wsMessage struct {
	Type    string     `json:"type"` // snapshot | cards | time | best | start
	Cards   []cardView `json:"cards,omitempty"`
	Label   string     `json:"label,omitempty"`
	Enabled *bool      `json:"enabled,omitempty"`
	Game    *gameView  `json:"game,omitempty"`
}

// client is one websocket connection with its own writer goroutine.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub is the game.Presenter for one player: it fans every update out to
// that player's open sockets. It never blocks; a full client buffer drops
// the message.
type hub struct {
	playerID string

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

var _ game.Presenter = (*hub)(nil)

func newHub(playerID string) *hub {
	return &hub{playerID: playerID, clients: make(map[*client]struct{})}
}

func (h *hub) SyncCards(faces []game.Face) {
	h.broadcast(wsMessage{Type: "cards", Cards: cardViews(faces)})
}

func (h *hub) ShowTime(label string) { h.broadcast(wsMessage{Type: "time", Label: label}) }

func (h *hub) ShowBest(label string) { h.broadcast(wsMessage{Type: "best", Label: label}) }

func (h *hub) SetStartEnabled(enabled bool) {
	h.broadcast(wsMessage{Type: "start", Enabled: &enabled})
}

func (h *hub) broadcast(m wsMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("type", m.Type).Msg("encode ws message")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.enqueue(c, data)
	}
}

// enqueue must hold h.mu.
func (h *hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("player", h.playerID).Msg("ws buffer full, dropping update")
	}
}

// attach registers conn and starts its writer. It returns nil once the hub
// is closed.
func (h *hub) attach(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.clients[c] = struct{}{}
	go c.writeLoop()
	return c
}

// push sends m to one client only.
func (h *hub) push(c *client, m wsMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, data)
	}
}

func (h *hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// close disconnects every client; later attaches are refused.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// handleWS upgrades the request and streams presentation updates until the
// browser goes away. Incoming messages are ignored; the control surface is
// the REST routes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := p.hub.attach(conn)
	if c == nil {
		_ = conn.Close()
		return
	}
	defer p.hub.detach(c)

	v := toGameView(p.session.Snapshot())
	p.hub.push(c, wsMessage{Type: "snapshot", Game: &v})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
