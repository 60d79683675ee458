package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalobadob/codebreaker/internal/code"
)

var (
	// ErrAssistUnavailable is returned by the interactive assist mode, which
	// is reserved but not implemented.
	ErrAssistUnavailable = errors.New("solver: interactive assist mode is not implemented")
	ErrBadObservation    = errors.New("solver: invalid observation")
)

// Observation is a guess played against an unknown secret and the feedback
// it received.
type Observation struct {
	Guess    code.Candidate `json:"guess"`
	Feedback int            `json:"feedback"`
}

// Suggestion is the next guess for a partially played game.
type Suggestion struct {
	Guess     code.Candidate `json:"guess"`
	Entropy   float64        `json:"entropy"`
	Remaining int            `json:"remaining"` // candidates consistent with the history
	Solved    bool           `json:"solved"`    // Guess is the only consistent candidate
}

// Consistent returns the candidates of the universe that would have produced
// every observed feedback.
func (s *Solver) Consistent(history []Observation) ([]code.Candidate, error) {
	n := s.u.Length()
	for i, o := range history {
		if o.Guess.Len() != n {
			return nil, fmt.Errorf("%w: #%d guess has %d symbols, want %d", ErrBadObservation, i, o.Guess.Len(), n)
		}
		if o.Feedback < 0 || o.Feedback > n {
			return nil, fmt.Errorf("%w: #%d feedback %d outside [0,%d]", ErrBadObservation, i, o.Feedback, n)
		}
	}
	var out []code.Candidate
	for _, c := range s.u.Candidates() {
		if consistent(c, history) {
			out = append(out, c)
		}
	}
	return out, nil
}

func consistent(c code.Candidate, history []Observation) bool {
	for _, o := range history {
		if code.Feedback(o.Guess, c) != o.Feedback {
			return false
		}
	}
	return true
}

// Suggest picks the next guess from a history of observations without
// knowing the secret. With an empty history it returns the opening move.
func (s *Solver) Suggest(ctx context.Context, history []Observation) (Suggestion, error) {
	remaining, err := s.Consistent(history)
	if err != nil {
		return Suggestion{}, err
	}
	switch len(remaining) {
	case 0:
		return Suggestion{}, ErrInconsistent
	case 1:
		return Suggestion{Guess: remaining[0], Remaining: 1, Solved: true}, nil
	}

	var best choice
	if len(history) == 0 {
		best, err = s.openingChoice(ctx)
	} else {
		best, err = s.best(ctx, remaining)
	}
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{
		Guess:     s.u.At(best.index),
		Entropy:   best.entropy,
		Remaining: len(remaining),
	}, nil
}
