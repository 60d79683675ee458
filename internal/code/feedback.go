package code

// Feedback counts the positions where a and b hold the same symbol.
// It is symmetric and Feedback(a, a) == a.Len(). Both inputs are expected
// to have the same length; positions beyond the shorter one never match.
func Feedback(a, b Candidate) int {
	n := a.n
	if b.n < n {
		n = b.n
	}
	matches := 0
	for i := uint8(0); i < n; i++ {
		if a.syms[i] == b.syms[i] {
			matches++
		}
	}
	return matches
}
