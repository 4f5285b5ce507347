// Package indicators computes the trailing simple moving averages the
// crossover strategy consumes.
package indicators

// Pair holds the short- and long-window simple moving averages computed over
// the same closing-price series. Pairs are recomputed every run and never
// persisted.
type Pair struct {
	Short float64
	Long  float64
}

// Compute returns the trailing means of the last shortWindow and longWindow
// closes. ok is false when fewer than longWindow closes are available; that
// is the insufficient-data signal, not an error, and the zero Pair must not
// be used.
//
// shortWindow < longWindow is the expected configuration. It is a caller
// obligation and deliberately not enforced here.
func Compute(closes []float64, shortWindow, longWindow int) (Pair, bool) {
	if longWindow <= 0 || shortWindow <= 0 || len(closes) < longWindow {
		return Pair{}, false
	}
	return Pair{
		Short: mean(closes[len(closes)-shortWindow:]),
		Long:  mean(closes[len(closes)-longWindow:]),
	}, true
}

// Previous returns the moving-average pair with the windows shifted back by
// one candle (the final close excluded). When the series holds fewer than
// longWindow+1 closes the previous pair degenerates to the current pair,
// which suppresses crossovers on short histories. That also hides genuine
// crossovers near the start of a history; known limitation, kept as-is.
func Previous(closes []float64, shortWindow, longWindow int) (Pair, bool) {
	cur, ok := Compute(closes, shortWindow, longWindow)
	if !ok {
		return Pair{}, false
	}
	if len(closes) < longWindow+1 {
		return cur, true
	}
	return Compute(closes[:len(closes)-1], shortWindow, longWindow)
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
