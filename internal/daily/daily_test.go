package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codebreaker/internal/database"
)

func TestSecretIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)

	a := SecretIndex(day, "salt", 1024)
	assert.Equal(t, a, SecretIndex(later, "salt", 1024))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 1024)
	assert.Equal(t, 0, SecretIndex(day, "salt", 0))
	assert.Equal(t, "2026-03-14", DateKey(day))

	distinct := map[int]bool{}
	for d := 0; d < 30; d++ {
		distinct[SecretIndex(day.AddDate(0, 0, d), "salt", 1024)] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestStore(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	st := NewStore(db)

	played, err := st.AlreadyPlayed(ctx, "p1", "2026-03-14")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-03-14", SecretIndex: 7, Guesses: 5, ElapsedMs: 900}))
	require.NoError(t, st.InsertResult(ctx, Result{PlayerID: "p2", Date: "2026-03-14", SecretIndex: 7, Guesses: 4, ElapsedMs: 5000}))
	require.NoError(t, st.InsertResult(ctx, Result{PlayerID: "p3", Date: "2026-03-14", SecretIndex: 7, Guesses: 5, ElapsedMs: 100}))
	// duplicate ignored
	require.NoError(t, st.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-03-14", SecretIndex: 7, Guesses: 1, ElapsedMs: 1}))

	played, err = st.AlreadyPlayed(ctx, "p1", "2026-03-14")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := st.Leaderboard(ctx, "2026-03-14", 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"p2", "p3", "p1"}, []string{top[0].PlayerID, top[1].PlayerID, top[2].PlayerID})
}
