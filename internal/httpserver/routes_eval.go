// internal/httpserver/routes_eval.go
//
// HTTP routes for batch evaluations:
//   - POST /evaluations      → start an evaluation of the whole problem space (operator only)
//   - GET  /evaluations      → recent runs, newest first
//   - GET  /evaluations/{id} → one run
//
// An evaluation solves every secret and can take minutes, so it runs in the
// background and is persisted when it ends. At most one runs at a time.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/evaluate"
	"github.com/robalobadob/codebreaker/internal/runs"
)

// evaluations tracks the background evaluation.
type evaluations struct {
	srv     *Server
	running atomic.Bool
}

func (s *Server) mountEvaluations() {
	s.r.Route("/evaluations", func(r chi.Router) {
		r.Get("/", s.evals.handleList)
		r.Get("/{id}", s.evals.handleGet)
		r.With(s.requireOperator).Post("/", s.evals.handleStart)
	})
}

type startRes struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// handleStart records a running evaluation and launches it.
func (e *evaluations) handleStart(w http.ResponseWriter, r *http.Request) {
	if !e.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "evaluation_running")
		return
	}
	u := e.srv.u
	run, err := e.srv.runs.Create(r.Context(), u.Length(), u.Len())
	if err != nil {
		e.running.Store(false)
		log.Error().Err(err).Msg("create evaluation run")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	go e.run(run.ID)

	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(startRes{ID: run.ID, Status: run.Status})
}

// run evaluates the universe and stores the outcome. It outlives the request.
func (e *evaluations) run(id string) {
	defer e.running.Store(false)
	ctx := context.Background()
	logger := log.With().Str("run", id).Logger()
	logger.Info().Int("secrets", e.srv.u.Len()).Msg("evaluation started")

	rep, err := evaluate.Run(ctx, e.srv.u, evaluate.Options{
		Workers: e.srv.cfg.Workers,
		Progress: func(i int, secret code.Candidate, attempts int) {
			logger.Debug().Int("index", i).Str("secret", secret.String()).Int("attempts", attempts).Msg("solved")
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("evaluation failed")
		if ferr := e.srv.runs.Fail(ctx, id, err); ferr != nil {
			logger.Warn().Err(ferr).Msg("record failure")
		}
		return
	}
	if err := e.srv.runs.Finish(ctx, id, rep); err != nil {
		logger.Warn().Err(err).Msg("record report")
	}
}

func (e *evaluations) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := e.srv.runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

func (e *evaluations) handleGet(w http.ResponseWriter, r *http.Request) {
	run, err := e.srv.runs.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, runs.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "db_error")
	default:
		_ = json.NewEncoder(w).Encode(run)
	}
}
