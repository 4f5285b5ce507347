// Package risk gates trading signals through fixed per-run limits and decides
// when open positions must be force-closed.
package risk

import (
	"time"

	"go.uber.org/zap"

	"gmocoin-trader/market"
)

// ErrorCounter exposes the transport's live consecutive-failure count. The
// transport owns and mutates the counter; the risk gate only reads it.
type ErrorCounter interface {
	ConsecutiveErrors() int
}

// Trade is the in-process record of an order this run placed. The durable
// copy lives in the journal; this slice only feeds same-run decisions and
// logging.
type Trade struct {
	Time    time.Time
	Side    market.Side
	Size    float64
	Price   float64
	OrderID string
}

// Manager holds the session risk state: the reversal streak, the last order
// side, and the in-process trade history. It is mutated only by the single
// call sequence of one run and is not goroutine safe; none of its state
// survives process exit.
type Manager struct {
	limits  Limits
	counter ErrorCounter
	logger  *zap.Logger

	reversalCount int
	lastOrderSide market.Side
	trades        []Trade
}

// NewManager returns a gate with fresh session state.
func NewManager(limits Limits, counter ErrorCounter, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		limits:  limits,
		counter: counter,
		logger:  logger,
	}
}

// CheckPositionSize reports whether the requested order quantity is within
// the configured maximum. Pure and stateless.
func (m *Manager) CheckPositionSize(size float64) bool {
	if size > m.limits.MaxPositionSize {
		m.logger.Warn("position size over limit",
			zap.Float64("requested", size),
			zap.Float64("max", m.limits.MaxPositionSize))
		return false
	}
	return true
}

// CheckReversalCount reports whether an order on side is within the reversal
// limit. Calling it is a side effect: an order opposing the previous one
// increments the streak, a same-side (or first) order resets it to zero, and
// the last order side is always updated, including on a vetoing call. The
// veto compares the streak after the update.
func (m *Manager) CheckReversalCount(side market.Side) bool {
	if m.lastOrderSide != "" && m.lastOrderSide != side {
		m.reversalCount++
		m.logger.Info("direction reversal",
			zap.Int("reversal_count", m.reversalCount))
	} else {
		m.reversalCount = 0
	}
	m.lastOrderSide = side

	if m.reversalCount >= m.limits.MaxReversalCount {
		m.logger.Error("reversal limit reached",
			zap.Int("reversal_count", m.reversalCount),
			zap.Int("max", m.limits.MaxReversalCount))
		return false
	}
	return true
}

// CheckConsecutiveErrors reports whether the transport's failure streak is
// still under the limit. Read-only; the counter belongs to the transport.
func (m *Manager) CheckConsecutiveErrors() bool {
	count := m.counter.ConsecutiveErrors()
	if count >= m.limits.MaxConsecutiveErrors {
		m.logger.Error("consecutive error limit reached",
			zap.Int("errors", count),
			zap.Int("max", m.limits.MaxConsecutiveErrors))
		return false
	}
	return true
}

// CheckStopLoss reports whether a position's unrealized loss has reached the
// stop-loss threshold. The directional move is priced per side, scaled by
// size, then converted to JPY by multiplying by the current price. A gaining
// position yields a negative JPY figure and can never trip the stop.
//
// TODO: confirm the JPY conversion with the owner. The move is already in
// price units, so multiplying by current price again looks like a double
// scaling, but it matches the live system and the thresholds are tuned to it.
func (m *Manager) CheckStopLoss(currentPrice, entryPrice float64, side market.Side, size float64) bool {
	var loss float64
	if side == market.Buy {
		loss = (entryPrice - currentPrice) * size
	} else {
		loss = (currentPrice - entryPrice) * size
	}
	lossJPY := loss * currentPrice

	if lossJPY >= m.limits.StopLossJPY {
		m.logger.Warn("stop loss triggered", zap.Float64("loss_jpy", lossJPY))
		return true
	}
	return false
}

// CheckTakeProfit is the profit-direction mirror of CheckStopLoss, with the
// same per-side move and the same JPY conversion.
func (m *Manager) CheckTakeProfit(currentPrice, entryPrice float64, side market.Side, size float64) bool {
	var profit float64
	if side == market.Buy {
		profit = (currentPrice - entryPrice) * size
	} else {
		profit = (entryPrice - currentPrice) * size
	}
	profitJPY := profit * currentPrice

	if profitJPY >= m.limits.TakeProfitJPY {
		m.logger.Info("take profit triggered", zap.Float64("profit_jpy", profitJPY))
		return true
	}
	return false
}

// RecordTrade appends an executed order to the in-process history. Pure
// bookkeeping; it never vetoes anything.
func (m *Manager) RecordTrade(side market.Side, size, price float64, orderID string) {
	m.trades = append(m.trades, Trade{
		Time:    time.Now(),
		Side:    side,
		Size:    size,
		Price:   price,
		OrderID: orderID,
	})
	m.logger.Info("trade recorded",
		zap.String("side", string(side)),
		zap.Float64("size", size),
		zap.Float64("price", price),
		zap.String("order_id", orderID))
}

// ResetReversalCount clears the reversal streak without touching the last
// order side. Manual counterpart of the automatic reset inside
// CheckReversalCount.
func (m *Manager) ResetReversalCount() {
	m.reversalCount = 0
	m.logger.Info("reversal count reset")
}

// ReversalCount returns the current reversal streak.
func (m *Manager) ReversalCount() int { return m.reversalCount }

// Trades returns the orders recorded this run, oldest first.
func (m *Manager) Trades() []Trade { return m.trades }
