package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmocoin-trader/market"
)

func TestSQLite_RecordAndList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	first := testRecord(market.Buy, StatusOrdered)
	second := testRecord(market.Sell, StatusErrorClose)
	second.ErrorMessage = "connection reset"

	require.NoError(t, j.RecordTrade(first))
	require.NoError(t, j.RecordTrade(second))

	got, err := j.ListTrades(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first: ULIDs sort by creation time.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, market.Sell, got[0].Side)
	assert.Equal(t, StatusErrorClose, got[0].Status)
	assert.Equal(t, "connection reset", got[0].ErrorMessage)

	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, StatusOrdered, got[1].Status)
	assert.InDelta(t, 0.001, got[1].Size, 1e-12)
	assert.InDelta(t, 5_000_000, got[1].Price, 1e-6)
}

func TestSQLite_ListLimit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordTrade(testRecord(market.Buy, StatusOrdered)))
	}

	got, err := j.ListTrades(3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSQLite_ReopenKeepsRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testRecord(market.Buy, StatusOrdered)))
	require.NoError(t, j.Close())

	j, err = NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.ListTrades(10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
