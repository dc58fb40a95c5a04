package db

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPlayerBalance(t *testing.T) {
	d := newTestDB(t)

	_, err := d.GetPlayerBalance("alice")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, d.UpdatePlayerBalance("alice", 5, "round", ""), ErrNotFound)

	created, err := d.CreatePlayer("alice", "Alice", 1000)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = d.CreatePlayer("alice", "Alice", 5000)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, d.UpdatePlayerBalance("alice", -25, "round", "t1 round 1"))
	require.NoError(t, d.UpdatePlayerBalance("alice", 40, "round", "t1 round 2"))

	balance, err := d.GetPlayerBalance("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1015), balance)

	txs, err := d.Transactions("alice", 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, int64(40), txs[0].Amount)
	assert.Equal(t, "grant", txs[2].Type)
	assert.Equal(t, int64(1000), txs[2].Amount)
}

func TestSessionStats(t *testing.T) {
	d := newTestDB(t)
	_, err := d.CreatePlayer("alice", "Alice", 1000)
	require.NoError(t, err)

	s := &SessionStats{PlayerID: "alice", TableID: "t1", HandsPlayed: 3, Wins: 2, Net: 15, PeakAttention: 12.5}
	require.NoError(t, d.SaveSessionStats(s))
	s.HandsPlayed = 4
	s.Reports = 1
	require.NoError(t, d.SaveSessionStats(s))
	require.NoError(t, d.SaveSessionStats(&SessionStats{PlayerID: "alice", TableID: "t2", Losses: 1}))

	got, err := d.LoadSessionStats("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	byTable := map[string]*SessionStats{}
	for _, s := range got {
		byTable[s.TableID] = s
	}
	assert.Equal(t, 4, byTable["t1"].HandsPlayed)
	assert.Equal(t, 1, byTable["t1"].Reports)
	assert.Equal(t, 12.5, byTable["t1"].PeakAttention)
	assert.Equal(t, 1, byTable["t2"].Losses)
	assert.False(t, byTable["t2"].UpdatedAt.IsZero())

	none, err := d.LoadSessionStats("bob")
	require.NoError(t, err)
	assert.Empty(t, none)
}
