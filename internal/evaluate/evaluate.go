// internal/evaluate/evaluate.go
//
// Batch evaluator: solves every secret of the problem space and reports how
// many guesses the entropy strategy needs.
//
// Responsibilities:
//   - Run one independent solve per secret on a bounded errgroup.
//   - Collect attempt counts by enumeration index, then reduce sequentially:
//     average, attempt histogram, worst case (first secret in enumeration
//     order with the maximum attempt count).
//   - Report progress per secret through an optional callback.
//
// Notes:
//   - Each worker solves with a single-threaded Solver; parallelism lives at
//     the secret level here.
//   - Because results are indexed, completion order never affects the report.

package evaluate

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/solver"
	"github.com/robalobadob/codebreaker/internal/space"
)

// Progress is called once per finished secret. index is the secret's
// enumeration index. Calls may come from several goroutines at once.
type Progress func(index int, secret code.Candidate, attempts int)

// Options configures Run.
type Options struct {
	Workers  int      // concurrent solves; <= 0 means runtime.NumCPU()
	Progress Progress // optional
}

// Report aggregates the attempts needed for every secret.
type Report struct {
	Length        int              `json:"length"`
	Secrets       int              `json:"secrets"`
	Average       float64          `json:"average"`
	WorstSecret   code.Candidate   `json:"worstSecret"`
	WorstAttempts int              `json:"worstAttempts"`
	WorstTies     []code.Candidate `json:"worstTies"` // every secret needing WorstAttempts, in enumeration order
	Histogram     map[int]int      `json:"histogram"` // attempts -> number of secrets
	Duration      time.Duration    `json:"duration"`
}

// Run solves every secret in u.
func Run(ctx context.Context, u *space.Universe, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s := solver.New(u, solver.Config{Workers: 1})
	start := time.Now()

	attempts := make([]int, u.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, secret := range u.Candidates() {
		g.Go(func() error {
			res, err := s.Solve(gctx, secret)
			if err != nil {
				return fmt.Errorf("secret %s: %w", secret, err)
			}
			attempts[i] = res.Attempts()
			if opts.Progress != nil {
				opts.Progress(i, secret, attempts[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := Reduce(u, attempts)
	r.Duration = time.Since(start)
	evaluationDuration.Observe(r.Duration.Seconds())
	log.Info().
		Int("length", r.Length).
		Float64("average", r.Average).
		Str("worst", r.WorstSecret.String()).
		Int("worstAttempts", r.WorstAttempts).
		Dur("took", r.Duration).
		Msg("evaluation finished")
	return r, nil
}

// Reduce aggregates per-secret attempt counts indexed like u.
func Reduce(u *space.Universe, attempts []int) *Report {
	r := &Report{
		Length:    u.Length(),
		Secrets:   len(attempts),
		Histogram: make(map[int]int),
	}
	if len(attempts) == 0 {
		return r
	}
	sum := 0
	worst := -1
	for i, a := range attempts {
		sum += a
		r.Histogram[a]++
		if a > r.WorstAttempts || worst < 0 {
			worst = i
			r.WorstAttempts = a
		}
	}
	r.Average = float64(sum) / float64(len(attempts))
	r.WorstSecret = u.At(worst)
	for i, a := range attempts {
		if a == r.WorstAttempts {
			r.WorstTies = append(r.WorstTies, u.At(i))
		}
	}
	return r
}

// Buckets returns the histogram keys in ascending order.
func (r *Report) Buckets() []int {
	keys := make([]int, 0, len(r.Histogram))
	for k := range r.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
