// internal/entropy/partition.go
//
// Partitioner: groups a candidate set by the feedback each member would
// produce against one guess.
//
// A Partition is indexed by feedback value, 0..N. Values that never occur
// have an empty bucket; Buckets() exposes only the occurring ones. Order
// inside a bucket follows the order of the input set.

package entropy

import "github.com/robalobadob/codebreaker/internal/code"

// Partition maps a feedback value to the candidates producing it.
type Partition struct {
	buckets [][]code.Candidate
	total   int
}

// Split buckets every candidate in remaining by code.Feedback(guess, c).
func Split(guess code.Candidate, remaining []code.Candidate) Partition {
	p := Partition{
		buckets: make([][]code.Candidate, guess.Len()+1),
		total:   len(remaining),
	}
	for _, c := range remaining {
		f := code.Feedback(guess, c)
		p.buckets[f] = append(p.buckets[f], c)
	}
	return p
}

// Bucket returns the candidates that produce feedback f, or nil.
func (p Partition) Bucket(f int) []code.Candidate {
	if f < 0 || f >= len(p.buckets) {
		return nil
	}
	return p.buckets[f]
}

// Buckets returns the occurring feedback values and their sizes.
func (p Partition) Buckets() map[int]int {
	out := make(map[int]int, len(p.buckets))
	for f, b := range p.buckets {
		if len(b) > 0 {
			out[f] = len(b)
		}
	}
	return out
}

// Total is the size of the set that was partitioned.
func (p Partition) Total() int { return p.total }
