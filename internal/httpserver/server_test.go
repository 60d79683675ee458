package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/daily"
	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/runs"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/space"
	"github.com/robalobadob/codebreaker/internal/store"
)

const testSalt = "test_salt"

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	u, err := space.Generate(2)
	require.NoError(t, err)
	db, err := database.Open(filepath.Join(t.TempDir(), "srv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test_secret"
	}
	cfg.DailySalt = testSalt
	return New(Deps{
		Universe: u,
		Solver:   solver.New(u, solver.Config{Workers: 2}),
		Games:    store.NewMemoryStore(),
		Runs:     runs.NewStore(db),
		Daily:    daily.NewStore(db),
		Config:   cfg,
	})
}

func do(t *testing.T, s *Server, method, path string, body any, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, m := range mods {
		m(req)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndRoot(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	root := decode[map[string]any](t, do(t, s, http.MethodGet, "/", nil))
	assert.Equal(t, "codebreaker", root["service"])
	assert.Equal(t, float64(2), root["length"])

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/nope", nil).Code)
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t, Config{MaxGuesses: 4})

	rec := do(t, s, http.MethodPost, "/game/new", map[string]string{"secret": "rg"})
	require.Equal(t, http.StatusOK, rec.Code)
	ng := decode[newGameRes](t, rec)
	assert.Equal(t, 2, ng.Length)
	assert.Equal(t, 4, ng.MaxGuesses)

	gr := decode[guessRes](t, do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rr"}))
	assert.Equal(t, 1, gr.Feedback)
	assert.Equal(t, "playing", string(gr.State))
	assert.Empty(t, gr.Secret)

	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rgb"}).Code)

	gr = decode[guessRes](t, do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RG"}))
	assert.Equal(t, 2, gr.Feedback)
	assert.Equal(t, "won", string(gr.State))
	assert.Equal(t, "rg", gr.Secret)
	assert.Equal(t, 2, gr.Guesses)

	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rg"}).Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: "missing", Guess: "rg"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, s, http.MethodPost, "/game/new", map[string]string{"secret": "rgq"}).Code)

	rec = do(t, s, http.MethodPost, "/game/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[newGameRes](t, rec).GameID)
}

func TestGameHint(t *testing.T) {
	s := newTestServer(t, Config{MaxGuesses: 6})
	ng := decode[newGameRes](t, do(t, s, http.MethodPost, "/game/new", map[string]string{"secret": "rg"}))

	// No turns yet: the opening move over all 16 candidates.
	sg := decode[solver.Suggestion](t, do(t, s, http.MethodPost, "/game/hint", hintReq{GameID: ng.GameID}))
	assert.Equal(t, 16, sg.Remaining)
	assert.False(t, sg.Solved)

	do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rr"})
	sg = decode[solver.Suggestion](t, do(t, s, http.MethodPost, "/game/hint", hintReq{GameID: ng.GameID}))
	assert.Equal(t, 6, sg.Remaining) // exactly one position red
	assert.Greater(t, sg.Entropy, 0.0)

	do(t, s, http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rg"})
	sg = decode[solver.Suggestion](t, do(t, s, http.MethodPost, "/game/hint", hintReq{GameID: ng.GameID}))
	assert.True(t, sg.Solved)
	assert.Equal(t, "rg", sg.Guess.String())

	assert.Equal(t, http.StatusNotFound,
		do(t, s, http.MethodPost, "/game/hint", hintReq{GameID: "missing"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/game/hint", "{").Code)
}

func TestSolveEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/solve", solveReq{Secret: "by"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Secret   string         `json:"secret"`
		Attempts int            `json:"attempts"`
		Rounds   []solver.Round `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "by", res.Secret)
	require.Len(t, res.Rounds, res.Attempts)
	assert.Equal(t, 1, res.Rounds[len(res.Rounds)-1].Remaining)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/solve", solveReq{Secret: "b"}).Code)

	metrics := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "codebreaker_solver_rounds_total")
}

func TestSuggestEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	sg := decode[solver.Suggestion](t, do(t, s, http.MethodPost, "/suggest", map[string]any{"history": []any{}}))
	assert.Equal(t, 16, sg.Remaining)
	assert.False(t, sg.Solved)

	rec := do(t, s, http.MethodPost, "/suggest", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/suggest", map[string]any{"history": []map[string]any{
		{"guess": "rr", "feedback": 2}, {"guess": "rr", "feedback": 1},
	}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/suggest", map[string]any{"history": []map[string]any{
		{"guess": "rr", "feedback": 5},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sg = decode[solver.Suggestion](t, do(t, s, http.MethodPost, "/suggest", map[string]any{"history": []map[string]any{
		{"guess": "gy", "feedback": 2},
	}}))
	assert.True(t, sg.Solved)
	assert.Equal(t, "gy", sg.Guess.String())
}

func TestEvaluationsRequireOperator(t *testing.T) {
	s := newTestServer(t, Config{})
	assert.Equal(t, http.StatusServiceUnavailable,
		do(t, s, http.MethodPost, "/auth/token", tokenReq{Password: "x"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodPost, "/evaluations", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodPost, "/evaluations", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	}).Code)
}

func TestEvaluationLifecycle(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	s := newTestServer(t, Config{OperatorHash: hash, Workers: 2})

	assert.Equal(t, http.StatusUnauthorized,
		do(t, s, http.MethodPost, "/auth/token", tokenReq{Password: "wrong"}).Code)

	rec := do(t, s, http.MethodPost, "/auth/token", tokenReq{Password: "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[tokenRes](t, rec)
	require.NotEmpty(t, tok.Token)
	assert.True(t, tok.ExpiresAt.After(time.Now()))
	auth := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok.Token) }

	rec = do(t, s, http.MethodPost, "/evaluations", nil, auth)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	started := decode[startRes](t, rec)
	assert.Equal(t, runs.StatusRunning, started.Status)

	var final runs.Run
	require.Eventually(t, func() bool {
		rec := do(t, s, http.MethodGet, "/evaluations/"+started.ID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		final = decode[runs.Run](t, rec)
		return final.Status == runs.StatusDone
	}, 10*time.Second, 20*time.Millisecond)

	assert.Equal(t, 16, final.Secrets)
	assert.GreaterOrEqual(t, final.Average, 1.0)
	assert.GreaterOrEqual(t, final.WorstAttempts, 1)
	assert.Len(t, final.WorstSecret, 2)

	list := decode[[]runs.Run](t, do(t, s, http.MethodGet, "/evaluations", nil))
	require.Len(t, list, 1)
	assert.Equal(t, started.ID, list[0].ID)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/evaluations/missing", nil).Code)
}

func TestDailyFlow(t *testing.T) {
	s := newTestServer(t, Config{MaxGuesses: 6})

	rec := do(t, s, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	withCookie := func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
	started := decode[dailyNewRes](t, rec)
	require.NotEmpty(t, started.GameID)
	assert.False(t, started.Played)

	// Same player, same day → same session.
	again := decode[dailyNewRes](t, do(t, s, http.MethodPost, "/daily/new", nil, withCookie))
	assert.Equal(t, started.GameID, again.GameID)

	assert.Equal(t, http.StatusConflict,
		do(t, s, http.MethodPost, "/daily/guess", dailyGuessReq{GameID: "other", Guess: "rr"}, withCookie).Code)

	now := time.Now().UTC()
	secret := s.u.At(daily.SecretIndex(now, testSalt, s.u.Len())).String()
	res := decode[dailyGuessRes](t, do(t, s, http.MethodPost, "/daily/guess",
		dailyGuessReq{GameID: started.GameID, Guess: secret}, withCookie))
	assert.Equal(t, "won", res.State)
	assert.Equal(t, 2, res.Feedback)

	res = decode[dailyGuessRes](t, do(t, s, http.MethodPost, "/daily/guess",
		dailyGuessReq{GameID: started.GameID, Guess: secret}, withCookie))
	assert.Equal(t, "locked", res.State)

	played := decode[dailyNewRes](t, do(t, s, http.MethodPost, "/daily/new", nil, withCookie))
	assert.True(t, played.Played)

	lb := decode[lbRes](t, do(t, s, http.MethodGet, "/daily/leaderboard", nil))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, cookies[0].Value, lb.Top[0].PlayerID)
	assert.Equal(t, 1, lb.Top[0].Guesses)
}
