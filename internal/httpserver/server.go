// internal/httpserver/server.go
//
// HTTP server wiring for the codebreaker backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Human games: POST /game/new, POST /game/guess, POST /game/hint.
//   - Solver endpoints: POST /solve (trace against a known secret) and
//     POST /suggest (next guess from a feedback history).
//   - Batch evaluations: mounted under /evaluations; starting one requires an
//     operator token from POST /auth/token.
//   - Daily Challenge endpoints: mounted under /daily.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every solver call runs on the request context and stops when the
//     request times out.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/evaluate"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/runs"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/space"
	"github.com/robalobadob/codebreaker/internal/store"
)

// RunStore persists batch evaluation reports.
type RunStore interface {
	Create(ctx context.Context, n, secrets int) (*runs.Run, error)
	Finish(ctx context.Context, id string, rep *evaluate.Report) error
	Fail(ctx context.Context, id string, cause error) error
	Get(ctx context.Context, id string) (*runs.Run, error)
	List(ctx context.Context, limit int) ([]*runs.Run, error)
}

// DailyStore persists daily challenge wins.
type DailyStore interface {
	AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error)
	InsertResult(ctx context.Context, r daily.Result) error
	Leaderboard(ctx context.Context, date string, limit int) ([]daily.LBRow, error)
}

// Config carries the environment-derived settings the handlers need.
type Config struct {
	JWTSecret    string
	JWTTTL       time.Duration
	OperatorHash string // bcrypt; empty disables operator login
	DailySalt    string
	MaxGuesses   int
	ClientOrigin string
	Workers      int           // batch evaluation parallelism
	SecureCookie bool          // Secure + SameSite=None cookies (production)
	Timeout      time.Duration // per-request handler bound
}

// Deps bundles everything New needs.
type Deps struct {
	Universe *space.Universe
	Solver   *solver.Solver
	Games    store.Store
	Runs     RunStore
	Daily    DailyStore
	Config   Config
}

// Server bundles router, stores and the shared solver.
type Server struct {
	r      *chi.Mux
	u      *space.Universe
	solver *solver.Solver
	games  store.Store
	runs   RunStore
	cfg    Config
	evals  *evaluations
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Config.Timeout <= 0 {
		d.Config.Timeout = 30 * time.Second
	}
	s := &Server{
		r:      chi.NewRouter(),
		u:      d.Universe,
		solver: d.Solver,
		games:  d.Games,
		runs:   d.Runs,
		cfg:    d.Config,
	}
	s.evals = &evaluations{srv: s}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(s.cfg.Timeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(s.cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service": "codebreaker",
			"length":  s.u.Length(),
			"endpoints": []string{"/health", "/metrics", "POST /game/new", "POST /game/guess", "POST /game/hint",
				"POST /solve", "POST /suggest", "/evaluations", "/daily/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.r.Post("/game/new", s.handleNewGame)
	s.r.Post("/game/guess", s.handleGuess)
	s.r.Post("/game/hint", s.handleHint)
	s.r.Post("/solve", s.handleSolve)
	s.r.Post("/suggest", s.handleSuggest)

	s.r.Post("/auth/token", s.handleToken)
	s.mountEvaluations()
	s.mountDaily(d.Daily)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

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
	if origin == "" {
		origin = "http://localhost:5173"
	}
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

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Secret string `json:"secret"` // optional fixed secret (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Length     int    `json:"length"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNewGame creates a new in-memory game against a random or given secret.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var g *game.Game
	if req.Secret != "" {
		secret, err := code.Parse(req.Secret, s.u.Length())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g = game.New(secret, s.cfg.MaxGuesses)
	} else {
		var err error
		if g, err = game.NewRandom(s.u.Length(), s.cfg.MaxGuesses); err != nil {
			log.Error().Err(err).Msg("random secret")
			writeError(w, http.StatusInternalServerError, "secret_failed")
			return
		}
	}
	if err := s.games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Length: g.Secret.Len(), MaxGuesses: g.Rows})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Feedback int        `json:"feedback"`
	State    game.State `json:"state"`
	Guesses  int        `json:"guesses"`
	Secret   string     `json:"secret,omitempty"` // revealed once finished
}

// handleGuess applies a guess to an in-memory game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res guessRes
	err := s.games.Update(r.Context(), req.GameID, func(g *game.Game) error {
		fb, state, err := g.ApplyGuess(req.Guess)
		if err != nil {
			return err
		}
		res = guessRes{Feedback: fb, State: state, Guesses: len(g.Turns)}
		if g.Finished {
			res.Secret = g.Secret.String()
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		_ = json.NewEncoder(w).Encode(res)
	}
}

type hintReq struct {
	GameID string `json:"gameId"`
}

// handleHint suggests the next guess for a game from its played turns only.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	s.suggest(w, r, g.Observations())
}

// ------------------------------ SOLVER -------------------------------------

type solveReq struct {
	Secret string `json:"secret"`
}
type solveRes struct {
	Secret   code.Candidate `json:"secret"`
	Attempts int            `json:"attempts"`
	Rounds   []solver.Round `json:"rounds"`
}

// handleSolve runs the solver against a caller-supplied secret.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	secret, err := code.Parse(req.Secret, s.u.Length())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.solver.Solve(r.Context(), secret)
	if err != nil {
		log.Warn().Err(err).Str("secret", secret.String()).Msg("solve")
		writeError(w, http.StatusServiceUnavailable, "solve_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(solveRes{Secret: res.Secret, Attempts: res.Attempts(), Rounds: res.Rounds})
}

type suggestReq struct {
	History []solver.Observation `json:"history"`
}

// handleSuggest returns the next guess for a feedback history.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.suggest(w, r, req.History)
}

// suggest writes the solver's next guess for history.
func (s *Server) suggest(w http.ResponseWriter, r *http.Request, history []solver.Observation) {
	sg, err := s.solver.Suggest(r.Context(), history)
	switch {
	case errors.Is(err, solver.ErrBadObservation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, solver.ErrInconsistent):
		writeError(w, http.StatusConflict, "inconsistent_history")
	case err != nil:
		log.Warn().Err(err).Msg("suggest")
		writeError(w, http.StatusServiceUnavailable, "suggest_failed")
	default:
		_ = json.NewEncoder(w).Encode(sg)
	}
}

// ------------------------------- small util --------------------------------

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

const anonCookieName = "codebreaker_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate daily results with a stable player identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	secure := s.cfg.SecureCookie
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}
