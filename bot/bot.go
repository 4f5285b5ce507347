// Package bot sequences one trading pass: close positions that hit their
// stop-loss or take-profit, evaluate the crossover signal, gate it through
// the risk limits, and place at most one order.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gmocoin-trader/config"
	"gmocoin-trader/gmo"
	"gmocoin-trader/journal"
	"gmocoin-trader/market"
	"gmocoin-trader/risk"
	"gmocoin-trader/strategies"
)

// Signal sources recorded in the trade journal.
const (
	SourceMACross   = "MOVING_AVERAGE_CROSS"
	SourceAutoClose = "AUTO_CLOSE"
)

// ErrConsecutiveErrors aborts the run when the transport failure streak hits
// its limit. Placing more orders against a degraded connection only compounds
// the damage, so the process exits non-zero instead.
var ErrConsecutiveErrors = errors.New("consecutive error limit reached")

// Exchange is the slice of the exchange API the orchestrator consumes.
// *gmo.Client satisfies it.
type Exchange interface {
	Status(ctx context.Context) (string, error)
	Ticker(ctx context.Context, symbol string) (gmo.Ticker, error)
	Klines(ctx context.Context, symbol, interval, date string) ([]market.RawCandle, error)
	OpenPositions(ctx context.Context, symbol string) ([]gmo.Position, error)
	Assets(ctx context.Context) ([]gmo.Asset, error)
	PlaceOrder(ctx context.Context, req gmo.OrderRequest) (string, error)
}

// Bot owns one run's collaborators. It is single-threaded by design: a run
// is a strictly sequential pass and concurrent runs against the same account
// must be prevented by the scheduler.
type Bot struct {
	exchange  Exchange
	journal   journal.Journal
	riskMgr   *risk.Manager
	crossover *strategies.Crossover
	trading   config.TradingConfig
	logger    *zap.Logger

	now func() time.Time
}

// New wires a Bot from its collaborators.
func New(
	exchange Exchange,
	jrnl journal.Journal,
	riskMgr *risk.Manager,
	crossover *strategies.Crossover,
	trading config.TradingConfig,
	logger *zap.Logger,
) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		exchange:  exchange,
		journal:   jrnl,
		riskMgr:   riskMgr,
		crossover: crossover,
		trading:   trading,
		logger:    logger,
		now:       time.Now,
	}
}

// Run performs one evaluation pass. It returns ErrConsecutiveErrors (fatal,
// exit non-zero) when the transport failure streak breaches its limit; other
// per-step failures are logged and the pass continues or ends cleanly.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("trading pass started", zap.String("symbol", b.trading.Symbol))

	status, err := b.exchange.Status(ctx)
	if err != nil {
		return fmt.Errorf("exchange status: %w", err)
	}
	if status != "OPEN" {
		b.logger.Warn("exchange is not open", zap.String("status", status))
		return nil
	}

	b.checkPositions(ctx)

	if ticker, err := b.exchange.Ticker(ctx, b.trading.Symbol); err == nil {
		b.logger.Info("current price", zap.Float64("price", ticker.Last))
	}

	sig := b.evaluateSignal(ctx)
	if sig == strategies.SignalNone {
		b.logger.Info("no signal")
	} else {
		b.logger.Info("signal detected", zap.String("signal", string(sig)))
		if err := b.executeTrade(ctx, sig); err != nil {
			return err
		}
	}

	b.reportAssets(ctx)
	b.logger.Info("trading pass finished")
	return nil
}

// checkPositions force-closes open positions that hit the stop-loss or
// take-profit threshold. Stop-loss is evaluated first; the first trigger wins
// and the take-profit check is skipped for that position. Every failure here
// is non-fatal: the pass continues.
func (b *Bot) checkPositions(ctx context.Context) {
	positions, err := b.exchange.OpenPositions(ctx, b.trading.Symbol)
	if err != nil {
		b.logger.Error("fetch open positions failed", zap.Error(err))
		return
	}
	if len(positions) == 0 {
		return
	}

	// One price fetch shared across every position checked this run.
	ticker, err := b.exchange.Ticker(ctx, b.trading.Symbol)
	if err != nil {
		b.logger.Warn("current price unavailable, skipping position checks", zap.Error(err))
		return
	}
	price := ticker.Last

	for _, pos := range positions {
		if b.riskMgr.CheckStopLoss(price, pos.EntryPrice, pos.Side, pos.Size) {
			b.logger.Warn("closing position on stop loss", zap.String("position_id", pos.PositionID))
			b.closePosition(ctx, pos, price)
			continue
		}
		if b.riskMgr.CheckTakeProfit(price, pos.EntryPrice, pos.Side, pos.Size) {
			b.logger.Info("closing position on take profit", zap.String("position_id", pos.PositionID))
			b.closePosition(ctx, pos, price)
		}
	}
}

// closePosition issues a market order opposite to the position at its full
// size and journals the outcome. A failed close is journaled as ERROR_CLOSE
// and left for the next run; it never aborts this one.
func (b *Bot) closePosition(ctx context.Context, pos gmo.Position, price float64) {
	closeSide := pos.Side.Opposite()

	orderID, err := b.exchange.PlaceOrder(ctx, gmo.OrderRequest{
		Symbol:        b.trading.Symbol,
		Side:          closeSide,
		ExecutionType: "MARKET",
		Size:          formatSize(pos.Size),
	})
	if err != nil {
		b.logger.Error("close order failed",
			zap.String("position_id", pos.PositionID),
			zap.Error(err))

		rec := journal.NewRecord(pos.Side, pos.Size, 0)
		rec.SignalSource = SourceAutoClose
		rec.Status = journal.StatusErrorClose
		rec.ErrorMessage = err.Error()
		b.record(rec)
		return
	}

	b.logger.Info("position closed",
		zap.String("position_id", pos.PositionID),
		zap.String("side", string(closeSide)),
		zap.Float64("size", pos.Size),
		zap.Float64("price", price),
		zap.String("order_id", orderID))

	rec := journal.NewRecord(closeSide, pos.Size, price)
	rec.OrderID = orderID
	rec.SignalSource = SourceAutoClose
	rec.Status = journal.StatusClosed
	b.record(rec)

	b.riskMgr.RecordTrade(closeSide, pos.Size, price, orderID)
}

// evaluateSignal fetches candles for today, falling back once to the prior
// calendar day when today yields no usable data, and runs the crossover
// detector. Any failure collapses to "no signal this run".
func (b *Bot) evaluateSignal(ctx context.Context) strategies.Signal {
	_, longWindow := b.crossover.Windows()
	count := longWindow + b.trading.MovingAverage.FetchExtra

	series := b.fetchSeries(ctx, b.now(), count)
	if series.Len() == 0 {
		series = b.fetchSeries(ctx, b.now().AddDate(0, 0, -1), count)
	}
	if series.Len() == 0 {
		b.logger.Warn("no candle data available")
		return strategies.SignalNone
	}

	return b.crossover.Evaluate(series)
}

func (b *Bot) fetchSeries(ctx context.Context, date time.Time, count int) market.Series {
	raw, err := b.exchange.Klines(ctx, b.trading.Symbol, b.trading.MovingAverage.Timeframe, date.Format("20060102"))
	if err != nil {
		b.logger.Error("fetch candles failed",
			zap.String("date", date.Format("20060102")),
			zap.Error(err))
		return nil
	}
	return market.BuildSeries(raw, count)
}

// executeTrade gates the signal and places the order. Gate order matters:
// the consecutive-error check is fatal for the whole run, the reversal and
// size checks only suppress this run's order.
func (b *Bot) executeTrade(ctx context.Context, sig strategies.Signal) error {
	if !b.riskMgr.CheckConsecutiveErrors() {
		return ErrConsecutiveErrors
	}
	if !b.riskMgr.CheckReversalCount(sig.Side()) {
		b.logger.Warn("order suppressed by reversal limit")
		return nil
	}
	if !b.riskMgr.CheckPositionSize(b.trading.Amount) {
		b.logger.Warn("order suppressed by position size limit")
		return nil
	}

	ticker, err := b.exchange.Ticker(ctx, b.trading.Symbol)
	if err != nil {
		b.logger.Error("current price unavailable, abandoning order", zap.Error(err))
		return nil
	}
	price := ticker.Last

	req := gmo.OrderRequest{
		Symbol:        b.trading.Symbol,
		Side:          sig.Side(),
		ExecutionType: b.trading.OrderType,
		Size:          formatSize(b.trading.Amount),
	}
	if b.trading.OrderType == "LIMIT" {
		req.Price = strconv.FormatInt(int64(price), 10)
	}

	orderID, err := b.exchange.PlaceOrder(ctx, req)
	if err != nil {
		b.logger.Error("order failed", zap.Error(err))

		rec := journal.NewRecord(sig.Side(), b.trading.Amount, 0)
		rec.SignalSource = SourceMACross
		rec.Status = journal.StatusError
		rec.ErrorMessage = err.Error()
		b.record(rec)
		return nil
	}

	b.logger.Info("order placed",
		zap.String("side", string(sig.Side())),
		zap.Float64("size", b.trading.Amount),
		zap.Float64("price", price),
		zap.String("order_id", orderID))

	rec := journal.NewRecord(sig.Side(), b.trading.Amount, price)
	rec.OrderID = orderID
	rec.SignalSource = SourceMACross
	rec.Status = journal.StatusOrdered
	b.record(rec)

	b.riskMgr.RecordTrade(sig.Side(), b.trading.Amount, price, orderID)
	return nil
}

// record appends to the journal best-effort. A journal failure must never
// mask the trading outcome it is trying to describe.
func (b *Bot) record(rec journal.TradeRecord) {
	if err := b.journal.RecordTrade(rec); err != nil {
		b.logger.Error("journal write failed",
			zap.String("status", string(rec.Status)),
			zap.Error(err))
	}
}

// reportAssets logs the account balances at the end of a pass. Informational
// only; failures are logged and ignored.
func (b *Bot) reportAssets(ctx context.Context) {
	assets, err := b.exchange.Assets(ctx)
	if err != nil {
		b.logger.Error("fetch assets failed", zap.Error(err))
		return
	}
	for _, a := range assets {
		b.logger.Info("asset balance",
			zap.String("symbol", a.Symbol),
			zap.String("amount", a.Amount),
			zap.String("available", a.Available))
	}
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
