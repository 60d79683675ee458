package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/entropy"
)

// pick returns the lowest index whose score is within Tolerance of the
// maximum score, or -1 for an empty slice.
func pick(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	top := scores[0]
	for _, h := range scores[1:] {
		if h > top {
			top = h
		}
	}
	for i, h := range scores {
		if h >= top-Tolerance {
			return i
		}
	}
	return -1 // unreachable: top itself qualifies
}

// best scores every guess of the universe against remaining and returns the
// winner with its partition.
//
// Scores are computed in fixed chunks on the errgroup and written by index,
// then reduced sequentially by pick. Completion order of the workers never
// influences the result.
func (s *Solver) best(ctx context.Context, remaining []code.Candidate) (choice, error) {
	pool := s.u.Candidates()
	scores := make([]float64, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for lo := 0; lo < len(pool); lo += s.chunk {
		hi := min(lo+s.chunk, len(pool))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				scores[i] = entropy.Of(pool[i], remaining)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return choice{}, err
	}

	idx := pick(scores)
	h, p := entropy.Score(pool[idx], remaining)
	return choice{index: idx, entropy: h, partition: p}, nil
}
