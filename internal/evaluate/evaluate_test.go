package evaluate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/space"
)

func TestRunSingleSymbol(t *testing.T) {
	u, err := space.Generate(1)
	require.NoError(t, err)

	r, err := Run(context.Background(), u, Options{Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Secrets)
	assert.InDelta(t, 2.25, r.Average, 1e-12)
	assert.Equal(t, 3, r.WorstAttempts)
	assert.Equal(t, code.MustNew(code.Blue), r.WorstSecret)
	assert.Equal(t, []code.Candidate{code.MustNew(code.Blue), code.MustNew(code.Yellow)}, r.WorstTies)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 2}, r.Histogram)
	assert.Equal(t, []int{1, 2, 3}, r.Buckets())
}

func TestRunReproducible(t *testing.T) {
	u, err := space.Generate(3)
	require.NoError(t, err)

	first, err := Run(context.Background(), u, Options{Workers: 1})
	require.NoError(t, err)
	for _, w := range []int{2, 8} {
		again, err := Run(context.Background(), u, Options{Workers: w})
		require.NoError(t, err)
		assert.Equal(t, first.WorstSecret, again.WorstSecret)
		assert.Equal(t, first.WorstAttempts, again.WorstAttempts)
		assert.Equal(t, first.Average, again.Average)
		assert.Equal(t, first.Histogram, again.Histogram)
	}

	assert.GreaterOrEqual(t, first.Average, 1.0)
	assert.LessOrEqual(t, first.Average, float64(first.WorstAttempts))
	assert.Less(t, first.WorstAttempts, u.Len())
	assert.Equal(t, first.WorstSecret, first.WorstTies[0])
}

func TestRunReferenceParameters(t *testing.T) {
	if testing.Short() {
		t.Skip("solves all 1024 secrets twice")
	}
	u, err := space.Generate(5)
	require.NoError(t, err)

	first, err := Run(context.Background(), u, Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, 1024, first.Secrets)
	assert.GreaterOrEqual(t, first.Average, 1.0)
	assert.LessOrEqual(t, first.Average, 6.0)

	again, err := Run(context.Background(), u, Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, first.WorstSecret, again.WorstSecret)
	assert.Equal(t, first.WorstAttempts, again.WorstAttempts)
	assert.Equal(t, first.Average, again.Average)
}

func TestRunProgress(t *testing.T) {
	u, err := space.Generate(2)
	require.NoError(t, err)

	var mu sync.Mutex
	seen := map[int]int{}
	_, err = Run(context.Background(), u, Options{
		Workers: 3,
		Progress: func(i int, secret code.Candidate, attempts int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, u.At(i), secret)
			seen[i] = attempts
		},
	})
	require.NoError(t, err)
	assert.Len(t, seen, u.Len())
}

func TestRunCancelled(t *testing.T) {
	u, err := space.Generate(3)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, u, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReduceFirstWorstWins(t *testing.T) {
	u, err := space.Generate(1)
	require.NoError(t, err)
	r := Reduce(u, []int{2, 4, 1, 4})
	assert.Equal(t, code.MustNew(code.Green), r.WorstSecret)
	assert.Equal(t, 4, r.WorstAttempts)
	assert.InDelta(t, 2.75, r.Average, 1e-12)
}
