package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawCandle(openTime, close string) RawCandle {
	return RawCandle{
		OpenTime: openTime,
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		Volume:   "1.5",
	}
}

func TestBuildSeries_SortsAscending(t *testing.T) {
	t.Parallel()

	raw := []RawCandle{
		rawCandle("3000", "103"),
		rawCandle("1000", "101"),
		rawCandle("2000", "102"),
	}

	s := BuildSeries(raw, 10)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, int64(1000), s[0].OpenTime)
	assert.Equal(t, int64(2000), s[1].OpenTime)
	assert.Equal(t, int64(3000), s[2].OpenTime)
}

func TestBuildSeries_DropsMalformedRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bad  RawCandle
	}{
		{"bad open time", rawCandle("not-a-time", "100")},
		{"bad close", rawCandle("2000", "oops")},
		{"negative price", rawCandle("2000", "-5")},
		{"nan close", rawCandle("2000", "NaN")},
		{"infinite close", rawCandle("2000", "+Inf")},
		{"empty fields", RawCandle{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := []RawCandle{rawCandle("1000", "101"), tt.bad, rawCandle("3000", "103")}
			s := BuildSeries(raw, 10)
			require.Equal(t, 2, s.Len())
			assert.Equal(t, int64(1000), s[0].OpenTime)
			assert.Equal(t, int64(3000), s[1].OpenTime)
		})
	}
}

func TestBuildSeries_BadVolumeIsKept(t *testing.T) {
	t.Parallel()

	raw := []RawCandle{{
		OpenTime: "1000",
		Open:     "100",
		High:     "110",
		Low:      "90",
		Close:    "105",
		Volume:   "garbage",
	}}

	s := BuildSeries(raw, 10)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 105.0, s[0].Close)
	assert.Equal(t, 0.0, s[0].Volume)
}

func TestBuildSeries_DuplicateOpenTimeLastSeenWins(t *testing.T) {
	t.Parallel()

	raw := []RawCandle{
		rawCandle("1000", "101"),
		rawCandle("2000", "102"),
		rawCandle("2000", "999"),
	}

	s := BuildSeries(raw, 10)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 999.0, s[1].Close)
}

func TestBuildSeries_TruncatesToMostRecent(t *testing.T) {
	t.Parallel()

	raw := []RawCandle{
		rawCandle("1000", "101"),
		rawCandle("2000", "102"),
		rawCandle("3000", "103"),
		rawCandle("4000", "104"),
	}

	s := BuildSeries(raw, 2)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{103, 104}, s.Closes())
}

func TestBuildSeries_FewerThanRequestedIsValid(t *testing.T) {
	t.Parallel()

	raw := []RawCandle{rawCandle("1000", "101")}
	s := BuildSeries(raw, 50)
	assert.Equal(t, 1, s.Len())
}

func TestBuildSeries_Empty(t *testing.T) {
	t.Parallel()

	s := BuildSeries(nil, 50)
	assert.Equal(t, 0, s.Len())

	_, ok := s.Last()
	assert.False(t, ok)
}

func TestSideOpposite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sell, Buy.Opposite())
	assert.Equal(t, Buy, Sell.Opposite())
}
