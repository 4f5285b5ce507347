// Package journal persists the append-only trade history. Every order
// attempt, successful or not, becomes one TradeRecord in a durable sink
// (CSV file or SQLite database).
package journal

import (
	"time"

	"gmocoin-trader/market"
	"gmocoin-trader/pkg/id"
)

// Status classifies the outcome of one order attempt.
type Status string

const (
	// StatusOrdered marks a signal-driven order that was accepted.
	StatusOrdered Status = "ORDERED"
	// StatusClosed marks a successful stop-loss/take-profit close.
	StatusClosed Status = "CLOSED"
	// StatusError marks a signal-driven order the exchange rejected.
	StatusError Status = "ERROR"
	// StatusErrorClose marks a close attempt that failed; the position is
	// still open on the exchange.
	StatusErrorClose Status = "ERROR_CLOSE"
)

// TradeRecord is one row of the durable trade history.
type TradeRecord struct {
	ID           string // ULID, time-sortable
	Timestamp    time.Time
	Side         market.Side
	Size         float64
	Price        float64
	OrderID      string
	SignalSource string
	Status       Status
	ErrorMessage string
}

// NewRecord returns a TradeRecord stamped with a fresh ULID and the current
// time.
func NewRecord(side market.Side, size, price float64) TradeRecord {
	return TradeRecord{
		ID:        id.New(),
		Timestamp: time.Now().UTC(),
		Side:      side,
		Size:      size,
		Price:     price,
	}
}

// Journal is a durable trade-history sink.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}
