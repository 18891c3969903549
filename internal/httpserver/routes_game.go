// internal/httpserver/routes_game.go
//
// Control surface for the player's game session:
//   - GET  /game            → full snapshot
//   - POST /game/restart    → rebuild board, back to idle
//   - POST /game/start      → start the timer (idle only)
//   - POST /game/flip       → flip one card by handle
//   - POST /game/difficulty → select difficulty (rebuilds unless running)
//   - POST /best/wipe       → forget the best time
//
// Every route answers with the resulting snapshot so a client without a
// websocket can still render.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robalobadob/memory/internal/game"
)

// cardView is a card as the browser sees it. The color is only sent for
// face-up cards.
type cardView struct {
	Handle   int    `json:"handle"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
	Color    string `json:"color,omitempty"`
}

type gameView struct {
	State           string     `json:"state"` // "idle" | "running" | "won"
	Difficulty      string     `json:"difficulty"`
	BoardDifficulty string     `json:"boardDifficulty"`
	Cards           []cardView `json:"cards"`
	Pending         int        `json:"pending"`
	Elapsed         int        `json:"elapsed"`
	TimeLabel       string     `json:"timeLabel"`
	BestLabel       string     `json:"bestLabel"`
	StartEnabled    bool       `json:"startEnabled"`
}

func cardViews(faces []game.Face) []cardView {
	out := make([]cardView, len(faces))
	for i, f := range faces {
		cv := cardView{Handle: int(f.Handle), Revealed: f.Revealed, Matched: f.Matched}
		if f.Revealed {
			cv.Color = string(f.Color)
		}
		out[i] = cv
	}
	return out
}

func toGameView(v game.View) gameView {
	return gameView{
		State:           string(v.State),
		Difficulty:      v.Difficulty.String(),
		BoardDifficulty: v.BoardDifficulty.String(),
		Cards:           cardViews(v.Cards),
		Pending:         v.Pending,
		Elapsed:         v.Elapsed,
		TimeLabel:       v.TimeLabel,
		BestLabel:       v.BestLabel,
		StartEnabled:    v.StartEnabled,
	}
}

func writeGame(w http.ResponseWriter, p *player) {
	_ = json.NewEncoder(w).Encode(toGameView(p.session.Snapshot()))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	writeGame(w, playerFrom(r.Context()))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	p.session.Restart()
	writeGame(w, p)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	p.session.Start()
	writeGame(w, p)
}

// flipReq/Res payloads for POST /game/flip.
type flipReq struct {
	Handle *int `json:"handle" validate:"required,gte=0"`
}
type flipRes struct {
	Accepted bool     `json:"accepted"`
	Game     gameView `json:"game"`
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	var req flipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_handle")
		return
	}
	p := playerFrom(r.Context())
	ok, err := p.session.Flip(r.Context(), game.Handle(*req.Handle))
	if errors.Is(err, game.ErrCardNotFound) {
		writeError(w, http.StatusNotFound, "card_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "flip_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(flipRes{Accepted: ok, Game: toGameView(p.session.Snapshot())})
}

// difficultyReq payload for POST /game/difficulty.
type difficultyReq struct {
	Difficulty string `json:"difficulty" validate:"required"`
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}
	p := playerFrom(r.Context())
	if err := p.session.ChangeDifficulty(r.Context(), d); err != nil {
		writeError(w, http.StatusBadRequest, "unknown_difficulty")
		return
	}
	writeGame(w, p)
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r.Context())
	p.session.WipeBestTime(r.Context())
	writeGame(w, p)
}
