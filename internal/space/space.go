// internal/space/space.go
//
// Problem space: every Candidate of length N over the four-symbol alphabet.
//
// Responsibilities:
//   - Enumerate the space once by iterative extension (length-1 sequences,
//     then N-1 Cartesian products with the alphabet).
//   - Verify the result (mean length == N, size == 4^N). A failed check is a
//     logic defect in enumeration; callers treat it as fatal.
//   - Hand out the universe as a read-only shared context object.
//
// Notes:
//   - Index(i) order is the fixed enumeration order used by every tie-break
//     rule in the solver and evaluator.

package space

import (
	"errors"
	"fmt"

	"github.com/robalobadob/codebreaker/internal/code"
)

// ErrEnumeration signals that the generated space violates its invariants.
var ErrEnumeration = errors.New("space: enumeration invariant violated")

// Universe is the immutable set of all candidates for one code length.
type Universe struct {
	length     int
	candidates []code.Candidate
	index      map[code.Candidate]int
}

// Generate enumerates all code.AlphabetSize^n candidates.
func Generate(n int) (*Universe, error) {
	if !code.ValidLength(n) {
		return nil, fmt.Errorf("%w: %d", code.ErrLength, n)
	}

	alphabet := code.Alphabet()
	set := make([]code.Candidate, 0, len(alphabet))
	for _, s := range alphabet {
		set = append(set, code.Candidate{}.Extend(s))
	}
	for step := 0; step < n-1; step++ {
		next := make([]code.Candidate, 0, len(set)*len(alphabet))
		for _, left := range set {
			for _, right := range alphabet {
				next = append(next, left.Extend(right))
			}
		}
		set = next
	}

	if err := verify(set, n); err != nil {
		return nil, err
	}

	u := &Universe{
		length:     n,
		candidates: set,
		index:      make(map[code.Candidate]int, len(set)),
	}
	for i, c := range set {
		u.index[c] = i
	}
	return u, nil
}

// verify checks the mean-length and size invariants.
func verify(set []code.Candidate, n int) error {
	if len(set) == 0 {
		return fmt.Errorf("%w: empty set", ErrEnumeration)
	}
	total := 0
	for _, c := range set {
		total += c.Len()
	}
	if total%len(set) != 0 || total/len(set) != n {
		return fmt.Errorf("%w: mean length %d/%d, want %d", ErrEnumeration, total, len(set), n)
	}
	if want := Size(n); len(set) != want {
		return fmt.Errorf("%w: %d candidates, want %d", ErrEnumeration, len(set), want)
	}
	return nil
}

// Size returns code.AlphabetSize^n.
func Size(n int) int {
	size := 1
	for i := 0; i < n; i++ {
		size *= code.AlphabetSize
	}
	return size
}

// Length returns N.
func (u *Universe) Length() int { return u.length }

// Len returns the number of candidates.
func (u *Universe) Len() int { return len(u.candidates) }

// At returns the candidate at enumeration index i.
func (u *Universe) At(i int) code.Candidate { return u.candidates[i] }

// Candidates returns the shared backing slice. Callers must not modify it.
func (u *Universe) Candidates() []code.Candidate { return u.candidates }

// IndexOf returns the enumeration index of c, or -1 if c is not in the space.
func (u *Universe) IndexOf(c code.Candidate) int {
	if i, ok := u.index[c]; ok {
		return i
	}
	return -1
}

// Contains reports whether c belongs to this universe.
func (u *Universe) Contains(c code.Candidate) bool { return u.IndexOf(c) >= 0 }
