// internal/game/engine.go
//
// Game engine for a single human-played session.
// Responsibilities:
//   - Create new games against a given or random secret.
//   - Validate and apply guesses (length and alphabet).
//   - Score guesses with the positional match count.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/solver"
)

// DefaultRows is used when New is given rows <= 0.
const DefaultRows = 10

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidGuess = errors.New("invalid guess")
)

// New constructs a game for secret allowing rows guesses.
func New(secret code.Candidate, rows int) *Game {
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Game{
		ID:     randomID(),
		Secret: secret,
		Rows:   rows,
		Turns:  []Turn{},
	}
}

// NewRandom constructs a game against a uniformly random secret of length n.
func NewRandom(n, rows int) (*Game, error) {
	secret, err := code.Random(n)
	if err != nil {
		return nil, err
	}
	return New(secret, rows), nil
}

// ApplyGuess parses, validates and scores a guess, mutating the game state.
// Returns the feedback, the new state, or an error.
//
// State transitions:
//   - Feedback equal to the code length → Finished, Won.
//   - Else if the number of guesses reaches g.Rows → Finished (loss).
func (g *Game) ApplyGuess(text string) (int, State, error) {
	if g.Finished {
		return 0, g.State(), ErrFinished
	}
	guess, err := code.Parse(text, g.Secret.Len())
	if err != nil {
		return 0, g.State(), fmt.Errorf("%w: %v", ErrInvalidGuess, err)
	}

	fb := code.Feedback(guess, g.Secret)
	g.Turns = append(g.Turns, Turn{Guess: guess, Feedback: fb})

	if fb == g.Secret.Len() {
		g.Finished, g.Won = true, true
	} else if len(g.Turns) >= g.Rows {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Observations converts the played turns into solver input for suggestions.
func (g *Game) Observations() []solver.Observation {
	out := make([]solver.Observation, len(g.Turns))
	for i, t := range g.Turns {
		out[i] = solver.Observation{Guess: t.Guess, Feedback: t.Feedback}
	}
	return out
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
