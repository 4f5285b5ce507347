package risk

// Limits are the fixed risk thresholds for one run. They are supplied at
// construction and never change while the process lives.
type Limits struct {
	// StopLossJPY is the absolute loss, in JPY, at which an open position is
	// force-closed.
	StopLossJPY float64

	// TakeProfitJPY is the absolute profit, in JPY, at which an open position
	// is closed to realize the gain.
	TakeProfitJPY float64

	// MaxPositionSize is the largest order quantity (BTC) a single trade may
	// request.
	MaxPositionSize float64

	// MaxReversalCount caps consecutive direction flips before new orders are
	// suppressed.
	MaxReversalCount int

	// MaxConsecutiveErrors caps sequential transport failures before the run
	// aborts.
	MaxConsecutiveErrors int
}
