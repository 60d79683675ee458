// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Each player can win once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// The daily secret is picked from the universe by date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    DailyStore
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // keyed by playerID|date
	mu       sync.Mutex               // guards sessions and the games they hold
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	Game        *game.Game
	PlayerID    string
	Date        string
	SecretIndex int
	Start       time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(st DailyStore) {
	dd := &dailyServer{
		srv:      s,
		store:    st,
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	s.r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key and secret index.
func (d *dailyServer) today() (string, int) {
	now := d.now().UTC()
	return daily.DateKey(now), daily.SecretIndex(now, d.salt, d.srv.u.Len())
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID     string `json:"gameId"`
	Date       string `json:"date"`
	Length     int    `json:"length"`
	MaxGuesses int    `json:"maxGuesses"`
	Played     bool   `json:"played"`
}

// handleNew creates or reuses today's session for the player.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.ensureAnonID(w, r)
	date, idx := d.today()

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			Game:        game.New(d.srv.u.At(idx), d.srv.cfg.MaxGuesses),
			PlayerID:    pid,
			Date:        date,
			SecretIndex: idx,
			Start:       d.now(),
		}
		d.sessions[key] = sess
	}
	res := dailyNewRes{
		GameID:     sess.Game.ID,
		Date:       date,
		Length:     sess.Game.Secret.Len(),
		MaxGuesses: sess.Game.Rows,
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type dailyGuessRes struct {
	Feedback int    `json:"feedback"`
	State    string `json:"state"` // playing | won | lost | locked
	Guesses  int    `json:"guesses"`
}

// handleGuess validates and applies a guess for today's session and
// persists the result on a win.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.ensureAnonID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date, _ := d.today()

	d.mu.Lock()
	sess, ok := d.sessions[pid+"|"+date]
	if !ok || sess.Game.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	fb, state, err := sess.Game.ApplyGuess(p.Guess)
	guesses := len(sess.Game.Turns)
	d.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrFinished):
		_ = json.NewEncoder(w).Encode(dailyGuessRes{State: "locked", Guesses: guesses})
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if state == game.StateWon {
		elapsed := int(d.now().Sub(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			PlayerID: pid, Date: date, SecretIndex: sess.SecretIndex, Guesses: guesses, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{Feedback: fb, State: string(state), Guesses: guesses})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
