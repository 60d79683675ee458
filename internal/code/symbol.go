// internal/code/symbol.go
//
// Symbol alphabet for the code-breaking game.
// Defines:
//   - Symbol: one of the four peg colors.
//   - Lookup tables keyed by Symbol for the long name, the one-letter
//     abbreviation used in text input, and the terminal color.
//
// Notes:
//   - The zero value is Red so a zeroed Candidate is still well-formed.
//   - Alphabet() order is the enumeration order of the problem space.

package code

import (
	"fmt"
	"strings"

	"github.com/TwiN/go-color"
)

// Symbol is a single position value of a Candidate.
type Symbol uint8

const (
	Red Symbol = iota
	Green
	Blue
	Yellow
)

// AlphabetSize is the number of distinct symbols.
const AlphabetSize = 4

var (
	symbolNames   = [AlphabetSize]string{"Red", "Green", "Blue", "Yellow"}
	symbolLetters = [AlphabetSize]byte{'r', 'g', 'b', 'y'}
	symbolColors  = [AlphabetSize]string{color.Red, color.Green, color.Blue, color.Yellow}
)

// Alphabet returns every symbol in enumeration order.
func Alphabet() [AlphabetSize]Symbol {
	return [AlphabetSize]Symbol{Red, Green, Blue, Yellow}
}

// Valid reports whether s is one of the four defined symbols.
func (s Symbol) Valid() bool { return s < AlphabetSize }

// String returns the long name ("Red", "Green", ...).
func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Symbol(%d)", uint8(s))
	}
	return symbolNames[s]
}

// Letter returns the lowercase abbreviation used in text form.
func Letter(s Symbol) byte { return symbolLetters[s] }

// Colorize returns the abbreviation wrapped in the symbol's terminal color.
func Colorize(s Symbol) string {
	return color.Colorize(symbolColors[s], strings.ToUpper(string(symbolLetters[s])))
}

// ParseSymbol maps a letter (r, g, b, y; any case) to its Symbol.
func ParseSymbol(c byte) (Symbol, error) {
	lc := c | 0x20 // ASCII lowercase
	for i, l := range symbolLetters {
		if l == lc {
			return Symbol(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, c)
}
