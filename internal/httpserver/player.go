package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memory/internal/game"
	"github.com/robalobadob/memory/internal/store"
)

const (
	playerCookieName = "memory_player"
	playerTokenTTL   = 180 * 24 * time.Hour
)

// player is one browser: its live session and the sockets watching it.
type player struct {
	id      string
	session *game.Session
	hub     *hub
}

// Teardown stops the session's timers and disconnects its sockets.
func (p *player) Teardown() {
	p.session.Teardown()
	p.hub.close()
}

// ctxPlayerKey is the context key type for storing *player.
type ctxPlayerKey struct{}

func playerFrom(ctx context.Context) *player {
	p, _ := ctx.Value(ctxPlayerKey{}).(*player)
	return p
}

// withPlayer resolves the player token (issuing a new one when missing or
// invalid) and attaches the player's live session to the request.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.parsePlayerToken(bearerOrCookie(r))
		if !ok {
			id = uuid.NewString()
			tok, exp, err := s.signPlayerToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			setPlayerCookie(w, r, tok, exp)
		}
		p := s.players.Acquire(id, func() *player { return s.newPlayer(r.Context(), id) })
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, p)))
	})
}

// newPlayer loads the player's records and builds their first board.
func (s *Server) newPlayer(ctx context.Context, id string) *player {
	logger := log.With().Str("player", id).Logger()
	p := &player{id: id, hub: newHub(id)}
	p.session = game.New(ctx, game.Config{
		Clock:     s.clock,
		Rand:      s.rand,
		Records:   store.NewRecords(s.kv, id),
		Presenter: p.hub,
		Logger:    &logger,
		OnEvent:   func(e game.Event) { s.publish(id, e) },
	})
	logger.Debug().Msg("new session")
	return p
}

// signPlayerToken creates an HS256 JWT whose subject is the player id.
func (s *Server) signPlayerToken(id string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(playerTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// parsePlayerToken verifies tok and returns its subject.
func (s *Server) parsePlayerToken(tok string) (string, bool) {
	if tok == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// setPlayerCookie writes the player cookie with appropriate security attributes.
func setPlayerCookie(w http.ResponseWriter, r *http.Request, token string, exp time.Time) {
	secure := r.TLS != nil
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the player cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}
