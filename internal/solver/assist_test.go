package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/code"
)

func TestSuggestFollowsSolve(t *testing.T) {
	s := newSolver(t, 4, Config{})
	secret := s.Universe().At(141)
	res, err := s.Solve(context.Background(), secret)
	require.NoError(t, err)

	var history []Observation
	for _, rd := range res.Rounds {
		sg, err := s.Suggest(context.Background(), history)
		require.NoError(t, err)
		if sg.Solved {
			break
		}
		assert.Equal(t, rd.Guess, sg.Guess)
		history = append(history, Observation{Guess: rd.Guess, Feedback: rd.Feedback})
	}

	sg, err := s.Suggest(context.Background(), history)
	require.NoError(t, err)
	assert.True(t, sg.Solved)
	assert.Equal(t, secret, sg.Guess)
	assert.Equal(t, 1, sg.Remaining)
}

func TestSuggestOpening(t *testing.T) {
	s := newSolver(t, 3, Config{})
	sg, err := s.Suggest(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, sg.Solved)
	assert.Equal(t, 64, sg.Remaining)
	assert.Greater(t, sg.Entropy, 0.0)
}

func TestSuggestErrors(t *testing.T) {
	s := newSolver(t, 2, Config{})
	rr := code.MustNew(code.Red, code.Red)

	_, err := s.Suggest(context.Background(), []Observation{{Guess: rr, Feedback: 3}})
	assert.ErrorIs(t, err, ErrBadObservation)

	_, err = s.Suggest(context.Background(), []Observation{{Guess: code.MustNew(code.Red), Feedback: 0}})
	assert.ErrorIs(t, err, ErrBadObservation)

	// rr cannot score both 2 and 0.
	_, err = s.Suggest(context.Background(), []Observation{{Guess: rr, Feedback: 2}, {Guess: rr, Feedback: 0}})
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestConsistent(t *testing.T) {
	s := newSolver(t, 2, Config{})
	got, err := s.Consistent([]Observation{{Guess: code.MustNew(code.Red, code.Green), Feedback: 2}})
	require.NoError(t, err)
	assert.Equal(t, []code.Candidate{code.MustNew(code.Red, code.Green)}, got)

	got, err = s.Consistent([]Observation{{Guess: code.MustNew(code.Red, code.Green), Feedback: 0}})
	require.NoError(t, err)
	assert.Len(t, got, 9)
}
