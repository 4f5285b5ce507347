package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmocoin-trader/market"
)

func testRecord(side market.Side, status Status) TradeRecord {
	rec := NewRecord(side, 0.001, 5_000_000)
	rec.OrderID = "12345"
	rec.SignalSource = "MOVING_AVERAGE_CROSS"
	rec.Status = status
	return rec
}

func TestCSV_HeaderOnCreate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	assert.Equal(t, csvHeader, header)
}

func TestCSV_AppendAcrossReopens(t *testing.T) {
	t.Parallel()

	// Each run-once invocation reopens the same daily file; the header must
	// not be repeated and earlier rows must survive.
	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testRecord(market.Buy, StatusOrdered)))
	require.NoError(t, j.Close())

	j, err = NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(testRecord(market.Sell, StatusClosed)))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 records

	assert.Equal(t, "BUY", rows[1][2])
	assert.Equal(t, "ORDERED", rows[1][7])
	assert.Equal(t, "SELL", rows[2][2])
	assert.Equal(t, "CLOSED", rows[2][7])
}

func TestCSV_RecordFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)

	rec := testRecord(market.Buy, StatusError)
	rec.ErrorMessage = "API Error: ERR-5003"
	require.NoError(t, j.RecordTrade(rec))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, rec.ID, row[0])
	assert.Equal(t, "0.001", row[3])
	assert.Equal(t, "5000000", row[4])
	assert.Equal(t, "12345", row[5])
	assert.Equal(t, "MOVING_AVERAGE_CROSS", row[6])
	assert.Equal(t, "ERROR", row[7])
	assert.Equal(t, "API Error: ERR-5003", row[8])

	_, err = time.Parse(time.RFC3339, row[1])
	assert.NoError(t, err)
}

func TestDailyPath(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, filepath.Join("data", "trade_history_20260829.csv"), DailyPath("data", now))
}
