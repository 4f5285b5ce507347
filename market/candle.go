// Package market defines the normalized market-data types shared across the
// bot: candles, candle series, and order sides.
package market

import (
	"math"
	"sort"
	"strconv"
)

// Side is an order direction as the exchange spells it.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the closing direction for a position opened with s.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Candle is one normalized OHLCV bar. Prices are in the quote currency (JPY
// for BTC_JPY). Candles are never mutated after construction.
type Candle struct {
	OpenTime int64 // epoch millis
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// RawCandle mirrors the exchange kline payload. The exchange sends every
// numeric field as a string.
type RawCandle struct {
	OpenTime string `json:"openTime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// Series is an ascending, de-duplicated sequence of candles.
type Series []Candle

// Len reports the number of candles in the series.
func (s Series) Len() int { return len(s) }

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}

// Last returns the most recent candle. ok is false for an empty series.
func (s Series) Last() (c Candle, ok bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// BuildSeries normalizes raw exchange records into a Series.
//
// Records whose openTime or any price field fails to parse, or parses to a
// non-finite or negative value, are dropped. The survivors are stable-sorted
// ascending by openTime; among duplicates of the same openTime the last-seen
// record wins. The result is truncated to the most recent count candles.
// Fewer candles than requested is a valid outcome the caller must handle.
func BuildSeries(raw []RawCandle, count int) Series {
	candles := make([]Candle, 0, len(raw))
	for _, r := range raw {
		c, ok := parseCandle(r)
		if !ok {
			continue
		}
		candles = append(candles, c)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].OpenTime < candles[j].OpenTime
	})

	// Collapse duplicate open times: after the stable sort, equal keys keep
	// input order, so the last entry of each run is the last-seen record.
	deduped := candles[:0]
	for i, c := range candles {
		if i+1 < len(candles) && candles[i+1].OpenTime == c.OpenTime {
			continue
		}
		deduped = append(deduped, c)
	}

	if count >= 0 && len(deduped) > count {
		deduped = deduped[len(deduped)-count:]
	}
	return Series(deduped)
}

func parseCandle(r RawCandle) (Candle, bool) {
	openTime, err := strconv.ParseInt(r.OpenTime, 10, 64)
	if err != nil {
		return Candle{}, false
	}

	open, ok := parsePrice(r.Open)
	if !ok {
		return Candle{}, false
	}
	high, ok := parsePrice(r.High)
	if !ok {
		return Candle{}, false
	}
	low, ok := parsePrice(r.Low)
	if !ok {
		return Candle{}, false
	}
	closeP, ok := parsePrice(r.Close)
	if !ok {
		return Candle{}, false
	}

	// A malformed volume does not invalidate the bar; the strategy only
	// consumes prices.
	volume, ok := parsePrice(r.Volume)
	if !ok {
		volume = 0
	}

	return Candle{
		OpenTime: openTime,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closeP,
		Volume:   volume,
	}, true
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
