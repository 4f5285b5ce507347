// Package strategies implements the moving-average crossover signal.
package strategies

import (
	"go.uber.org/zap"

	"gmocoin-trader/indicators"
	"gmocoin-trader/market"
)

// Signal is the strategy verdict for one evaluation pass.
type Signal string

const (
	SignalNone Signal = ""
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

// Side converts a non-none signal to an order side.
func (s Signal) Side() market.Side { return market.Side(s) }

// Detect classifies a crossover from two moving-average snapshots.
//
// BUY (golden cross): the short average was at or below the long average and
// is now strictly above it. SELL (dead cross) is symmetric. The equality in
// the "was" comparison is an inclusive tie-break: a short average sitting
// exactly on the long average that then moves in either direction fires a
// signal. That boundary is intentional and load-bearing; both crossover
// branches share the tied previous state.
//
// Detect is pure: the same four inputs always produce the same Signal.
func Detect(prev, cur indicators.Pair) Signal {
	switch {
	case prev.Short <= prev.Long && cur.Short > cur.Long:
		return SignalBuy
	case prev.Short >= prev.Long && cur.Short < cur.Long:
		return SignalSell
	default:
		return SignalNone
	}
}

// Crossover evaluates the moving-average crossover over a candle series and
// remembers the last non-none signal for the lifetime of the run.
type Crossover struct {
	shortWindow int
	longWindow  int
	logger      *zap.Logger

	lastSignal Signal
}

// NewCrossover returns a detector with the given window lengths.
func NewCrossover(shortWindow, longWindow int, logger *zap.Logger) *Crossover {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crossover{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		logger:      logger,
	}
}

// Evaluate computes the current and previous moving-average pairs over the
// series and classifies the crossover. An insufficient series yields
// SignalNone. On a non-none result the detector records it as LastSignal.
func (c *Crossover) Evaluate(series market.Series) Signal {
	closes := series.Closes()

	cur, ok := indicators.Compute(closes, c.shortWindow, c.longWindow)
	if !ok {
		c.logger.Warn("not enough candles for moving averages",
			zap.Int("have", len(closes)),
			zap.Int("need", c.longWindow))
		return SignalNone
	}
	prev, _ := indicators.Previous(closes, c.shortWindow, c.longWindow)

	c.logger.Info("moving averages",
		zap.Float64("short", cur.Short),
		zap.Float64("long", cur.Long),
		zap.Float64("prev_short", prev.Short),
		zap.Float64("prev_long", prev.Long))

	sig := Detect(prev, cur)
	if sig != SignalNone {
		c.lastSignal = sig
		c.logger.Info("crossover detected", zap.String("signal", string(sig)))
	}
	return sig
}

// LastSignal returns the most recent non-none signal of this session, or
// SignalNone if nothing has fired yet.
func (c *Crossover) LastSignal() Signal { return c.lastSignal }

// Windows reports the configured short and long window lengths.
func (c *Crossover) Windows() (shortWindow, longWindow int) {
	return c.shortWindow, c.longWindow
}
