// internal/httpserver/server.go
//
// HTTP server wiring for the memory game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Control surface: restart, start, flip, difficulty, wipe best time.
//   - Presentation push: GET /game/ws streams card/time/best/start updates.
//
// Notes:
//   - Every request is bound to a player through a signed cookie (player.go);
//     each player owns one live game.Session plus a records namespace.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memory/internal/events"
	"github.com/robalobadob/memory/internal/game"
	"github.com/robalobadob/memory/internal/store"
)

// Options configures a Server. KV is required; the rest have defaults.
type Options struct {
	KV           store.KV
	Events       events.Publisher
	Clock        clockwork.Clock
	Rand         game.IntN
	Secret       string
	ClientOrigin string
}

// Server bundles the router, live player sessions and persistence.
type Server struct {
	r        *chi.Mux
	players  *store.Sessions[*player]
	kv       store.KV
	events   events.Publisher
	clock    clockwork.Clock
	rand     game.IntN
	secret   []byte
	validate *validator.Validate
	upgrader *websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Events == nil {
		opts.Events = events.NewLog()
	}
	if opts.Secret == "" {
		opts.Secret = "dev_secret_change_me"
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:        chi.NewRouter(),
		players:  store.NewSessions[*player](opts.Clock),
		kv:       opts.KV,
		events:   opts.Events,
		clock:    opts.Clock,
		rand:     opts.Rand,
		secret:   []byte(opts.Secret),
		validate: validator.New(),
		upgrader: newUpgrader(opts.ClientOrigin),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)               // one zerolog line per request
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"memory-go","endpoints":["/health","GET /game","POST /game/restart","POST /game/start","POST /game/flip","POST /game/difficulty","POST /best/wipe","GET /game/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
	})

	// Game endpoints: every player gets a session on first contact.
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Get("/game/ws", s.handleWS) // long-lived; no timeout

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)
			r.Get("/game", s.handleGetGame)
			r.Post("/game/restart", s.handleRestart)
			r.Post("/game/start", s.handleStart)
			r.Post("/game/flip", s.handleFlip)
			r.Post("/game/difficulty", s.handleDifficulty)
			r.Post("/best/wipe", s.handleWipe)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep evicts players idle for longer than ttl (janitor.Sweeper).
func (s *Server) Sweep(ttl time.Duration) int { return s.players.Sweep(ttl) }

// Len is the number of live players.
func (s *Server) Len() int { return s.players.Len() }

// Close tears down every live session and the event publisher.
func (s *Server) Close() {
	s.players.Close()
	s.events.Close()
}

// publish forwards a session event; failures are logged and dropped.
func (s *Server) publish(playerID string, e game.Event) {
	if err := s.events.Publish(context.Background(), events.FromGame(playerID, e, s.clock.Now())); err != nil {
		log.Warn().Err(err).Str("player", playerID).Str("kind", string(e.Kind)).Msg("publish event")
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog logs method, path, status and latency with the request id.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// writeError writes {"error":code} with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
