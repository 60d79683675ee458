// internal/solver/solver.go
//
// Entropy-maximizing elimination loop.
//
// Each round:
//   1. Score every candidate of the universe (not only the remaining ones)
//      against the remaining set.
//   2. Pick the lowest enumeration index whose entropy is within Tolerance
//      of the round's maximum.
//   3. Ask the secret for feedback. This is the only place the secret is read.
//   4. Keep the bucket of the winning partition that matches the feedback.
//
// The loop ends when one candidate remains. The secret is always consistent
// with its own feedback, so it is never eliminated.

package solver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/entropy"
	"github.com/robalobadob/codebreaker/internal/space"
)

// Tolerance is how far below the round's maximum entropy a guess may score
// and still count as a maximum.
const Tolerance = 1e-9

// defaultChunk is the number of guesses scored per task. Chunking is fixed
// so the selected guess never depends on the worker count.
const defaultChunk = 64

var (
	ErrUnknownSecret = errors.New("solver: secret is not part of the problem space")
	ErrInconsistent  = errors.New("solver: no candidate is consistent with the feedback")
)

// Config tunes a Solver. Zero values pick defaults.
type Config struct {
	// Workers bounds the goroutines used to score one round. <= 0 means
	// runtime.NumCPU(); 1 scores sequentially.
	Workers int
	// ChunkSize is the number of guesses per scoring task.
	ChunkSize int
}

// Solver runs the elimination loop over one shared universe. It is safe for
// concurrent use.
type Solver struct {
	u       *space.Universe
	workers int
	chunk   int

	openingMu sync.Mutex
	opening   *choice
}

// Round records one guess of a solve.
type Round struct {
	Guess     code.Candidate `json:"guess"`
	Feedback  int            `json:"feedback"`
	Entropy   float64        `json:"entropy"`
	Remaining int            `json:"remaining"` // candidates left after this round
}

// Result is the outcome of Solve.
type Result struct {
	Secret code.Candidate `json:"secret"`
	Rounds []Round        `json:"rounds"`
}

// Attempts is the number of guesses made.
func (r Result) Attempts() int { return len(r.Rounds) }

// History returns the guesses in order.
func (r Result) History() []code.Candidate {
	out := make([]code.Candidate, len(r.Rounds))
	for i, rd := range r.Rounds {
		out[i] = rd.Guess
	}
	return out
}

// choice is the winner of one scoring pass.
type choice struct {
	index     int
	entropy   float64
	partition entropy.Partition
}

// New constructs a Solver bound to u.
func New(u *space.Universe, cfg Config) *Solver {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunk
	}
	return &Solver{u: u, workers: workers, chunk: chunk}
}

// Universe returns the problem space the solver guesses from.
func (s *Solver) Universe() *space.Universe { return s.u }

// Solve narrows the universe down to secret and returns every round played.
func (s *Solver) Solve(ctx context.Context, secret code.Candidate) (Result, error) {
	if !s.u.Contains(secret) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownSecret, secret)
	}
	start := time.Now()
	res := Result{Secret: secret}
	remaining := s.u.Candidates()

	for len(remaining) > 1 {
		roundStart := time.Now()
		var (
			best choice
			err  error
		)
		if len(res.Rounds) == 0 {
			best, err = s.openingChoice(ctx)
		} else {
			best, err = s.best(ctx, remaining)
		}
		if err != nil {
			return res, err
		}

		guess := s.u.At(best.index)
		h := code.Feedback(guess, secret)
		next := best.partition.Bucket(h)
		if len(next) == 0 || len(next) == len(remaining) {
			// Unreachable unless enumeration or scoring is broken.
			return res, fmt.Errorf("%w: guess %s feedback %d", ErrInconsistent, guess, h)
		}
		remaining = next

		res.Rounds = append(res.Rounds, Round{
			Guess:     guess,
			Feedback:  h,
			Entropy:   best.entropy,
			Remaining: len(remaining),
		})
		roundsTotal.Inc()
		roundDuration.Observe(time.Since(roundStart).Seconds())
		log.Debug().
			Str("guess", guess.String()).
			Int("feedback", h).
			Float64("entropy", best.entropy).
			Int("remaining", len(remaining)).
			Msg("round")
	}

	if len(remaining) != 1 || remaining[0] != secret {
		return res, fmt.Errorf("%w: ended with %d candidates", ErrInconsistent, len(remaining))
	}
	solvesTotal.Inc()
	solveAttempts.Observe(float64(res.Attempts()))
	log.Debug().Str("secret", secret.String()).Int("attempts", res.Attempts()).
		Dur("took", time.Since(start)).Msg("solved")
	return res, nil
}

// openingChoice scores the full universe once; the first round is the same
// for every secret. A failed (cancelled) computation is not cached.
func (s *Solver) openingChoice(ctx context.Context) (choice, error) {
	s.openingMu.Lock()
	defer s.openingMu.Unlock()
	if s.opening != nil {
		return *s.opening, nil
	}
	c, err := s.best(ctx, s.u.Candidates())
	if err != nil {
		return choice{}, err
	}
	s.opening = &c
	return c, nil
}
