package entropy

import (
	"math"

	"github.com/robalobadob/codebreaker/internal/code"
)

// Score returns the Shannon entropy, in bits, of the feedback distribution
// that guess induces over remaining, together with the partition it was
// computed from so callers can narrow without a second pass.
//
// Entropy is 0 when len(remaining) <= 1 or when every candidate lands in
// the same bucket.
func Score(guess code.Candidate, remaining []code.Candidate) (float64, Partition) {
	p := Split(guess, remaining)
	return Bits(p), p
}

// Bits computes Σ -p·log2(p) over the nonempty buckets of p.
func Bits(p Partition) float64 {
	counts := make([]int, len(p.buckets))
	for f, b := range p.buckets {
		counts[f] = len(b)
	}
	return bitsFromCounts(counts, p.total)
}

// Of returns the same value as Score without materializing the partition.
// The solver uses it to rank guesses and only splits the winners.
func Of(guess code.Candidate, remaining []code.Candidate) float64 {
	var counts [code.MaxLength + 1]int
	for _, c := range remaining {
		counts[code.Feedback(guess, c)]++
	}
	return bitsFromCounts(counts[:guess.Len()+1], len(remaining))
}

func bitsFromCounts(counts []int, total int) float64 {
	if total <= 1 {
		return 0
	}
	n := float64(total)
	h := 0.0
	for _, k := range counts {
		if k == 0 || k == total {
			continue
		}
		prob := float64(k) / n
		h -= prob * math.Log2(prob)
	}
	return h
}
