// internal/game/types.go
//
// Core type definitions for a human-played code-breaking game.
// Defines:
//   - State: coarse game state (playing/won/lost).
//   - Turn:  one guess and the match count it received.
//   - Game:  state for a single in-progress or finished game.

package game

import "github.com/robalobadob/codebreaker/internal/code"

// State is the lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Turn is one played guess.
type Turn struct {
	Guess    code.Candidate `json:"guess"`
	Feedback int            `json:"feedback"` // positions matching the secret
}

// Game holds the state of a single game session.
type Game struct {
	ID       string         // Unique game identifier (random hex string).
	Secret   code.Candidate // Hidden code; never sent to clients before the game ends.
	Rows     int            // Maximum number of guesses allowed.
	Turns    []Turn         // Guesses made so far, in order.
	Finished bool           // True once the game is over (won or lost).
	Won      bool           // True if the game was finished with a win.
}
