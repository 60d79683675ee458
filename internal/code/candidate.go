// internal/code/candidate.go
//
// Candidate: an immutable, fixed-length sequence of symbols used both as a
// secret and as a guess.
//
// Representation:
//   - Backed by a fixed-size array plus a length so the type is comparable;
//     == is structural equality.
//   - Fields are unexported; every constructor copies its input, so a
//     Candidate can never be mutated after it is built.
//
// Text forms:
//   - Short: one letter per position ("rgbyr"), used for input and JSON.
//   - Long:  "[Red, Green, Blue, Yellow, Red]".

package code

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// MaxLength bounds N. 4^10 candidates is already far beyond what the
// solver can evaluate exhaustively in reasonable time.
const MaxLength = 10

var (
	ErrInvalidSymbol = errors.New("code: invalid symbol")
	ErrLength        = errors.New("code: invalid length")
)

// Candidate is a sequence of exactly Len() symbols.
type Candidate struct {
	n    uint8
	syms [MaxLength]Symbol
}

// ValidLength reports whether n is a usable code length.
func ValidLength(n int) bool { return n >= 1 && n <= MaxLength }

// New builds a Candidate from a symbol slice (copied).
func New(syms ...Symbol) (Candidate, error) {
	var c Candidate
	if !ValidLength(len(syms)) {
		return c, fmt.Errorf("%w: %d", ErrLength, len(syms))
	}
	for i, s := range syms {
		if !s.Valid() {
			return Candidate{}, fmt.Errorf("%w: %d", ErrInvalidSymbol, s)
		}
		c.syms[i] = s
	}
	c.n = uint8(len(syms))
	return c, nil
}

// MustNew is New for literals in tests and tables; it panics on bad input.
func MustNew(syms ...Symbol) Candidate {
	c, err := New(syms...)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads the short letter form. Surrounding whitespace is ignored.
// If n > 0 the parsed length must equal n.
func Parse(s string, n int) (Candidate, error) {
	s = strings.TrimSpace(s)
	if n > 0 && len(s) != n {
		return Candidate{}, fmt.Errorf("%w: got %d symbols, want %d", ErrLength, len(s), n)
	}
	syms := make([]Symbol, len(s))
	for i := 0; i < len(s); i++ {
		sym, err := ParseSymbol(s[i])
		if err != nil {
			return Candidate{}, err
		}
		syms[i] = sym
	}
	return New(syms...)
}

// Random draws each of n positions independently and uniformly from the
// alphabet using crypto/rand.
func Random(n int) (Candidate, error) {
	if !ValidLength(n) {
		return Candidate{}, fmt.Errorf("%w: %d", ErrLength, n)
	}
	syms := make([]Symbol, n)
	for i := range syms {
		v, err := rand.Int(rand.Reader, big.NewInt(AlphabetSize))
		if err != nil {
			return Candidate{}, err
		}
		syms[i] = Symbol(v.Int64())
	}
	return New(syms...)
}

// Len returns N for this candidate.
func (c Candidate) Len() int { return int(c.n) }

// At returns the symbol at position i.
func (c Candidate) At(i int) Symbol { return c.syms[i] }

// Symbols returns a copy of the positions.
func (c Candidate) Symbols() []Symbol {
	out := make([]Symbol, c.n)
	copy(out, c.syms[:c.n])
	return out
}

// Extend returns a new candidate with s appended. It panics if c already
// holds MaxLength symbols.
func (c Candidate) Extend(s Symbol) Candidate {
	if int(c.n) >= MaxLength {
		panic(fmt.Sprintf("code: cannot extend candidate beyond %d symbols", MaxLength))
	}
	next := c
	next.syms[c.n] = s
	next.n++
	return next
}

// String returns the short letter form.
func (c Candidate) String() string {
	var b strings.Builder
	b.Grow(int(c.n))
	for _, s := range c.syms[:c.n] {
		b.WriteByte(Letter(s))
	}
	return b.String()
}

// Long returns the bracketed long form, e.g. "[Red, Green]".
func (c Candidate) Long() string {
	names := make([]string, c.n)
	for i, s := range c.syms[:c.n] {
		names[i] = s.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Colorized renders the candidate with one colored letter per position.
func (c Candidate) Colorized() string {
	var b strings.Builder
	for _, s := range c.syms[:c.n] {
		b.WriteString(Colorize(s))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler using the short form.
func (c Candidate) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler; any valid length is accepted.
func (c *Candidate) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b), 0)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
