package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/code"
)

func TestGenerateSizes(t *testing.T) {
	for n := 1; n <= 6; n++ {
		u, err := Generate(n)
		require.NoError(t, err)
		assert.Equal(t, n, u.Length())
		assert.Equal(t, Size(n), u.Len())

		seen := make(map[code.Candidate]bool, u.Len())
		for i, c := range u.Candidates() {
			require.Equal(t, n, c.Len())
			require.False(t, seen[c], "duplicate %s", c)
			seen[c] = true
			require.Equal(t, i, u.IndexOf(c))
		}
	}
}

func TestGenerateOrder(t *testing.T) {
	u, err := Generate(2)
	require.NoError(t, err)
	assert.Equal(t, "rr", u.At(0).String())
	assert.Equal(t, "rg", u.At(1).String())
	assert.Equal(t, "gr", u.At(4).String())
	assert.Equal(t, "yy", u.At(15).String())
}

func TestGenerateRejectsBadLength(t *testing.T) {
	_, err := Generate(0)
	assert.ErrorIs(t, err, code.ErrLength)
	_, err = Generate(code.MaxLength + 1)
	assert.ErrorIs(t, err, code.ErrLength)
}

func TestVerify(t *testing.T) {
	ok := []code.Candidate{code.MustNew(code.Red), code.MustNew(code.Green), code.MustNew(code.Blue), code.MustNew(code.Yellow)}
	assert.NoError(t, verify(ok, 1))

	short := append([]code.Candidate{}, ok[:3]...)
	assert.ErrorIs(t, verify(short, 1), ErrEnumeration)

	mixed := append([]code.Candidate{code.MustNew(code.Red, code.Red)}, ok[1:]...)
	assert.ErrorIs(t, verify(mixed, 1), ErrEnumeration)

	assert.ErrorIs(t, verify(nil, 1), ErrEnumeration)
}

func TestIndexOfForeign(t *testing.T) {
	u, err := Generate(2)
	require.NoError(t, err)
	assert.Equal(t, -1, u.IndexOf(code.MustNew(code.Red)))
	assert.False(t, u.Contains(code.MustNew(code.Red, code.Red, code.Red)))
}
