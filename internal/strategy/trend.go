package strategy

import (
	"fmt"

	sig "github.com/maxx06/cooked-prosperity/internal/signal"
)

// TrendEMA follows the short/long EMA crossover: long while the short EMA
// leads, short while it lags. Position limits gate entries so the engine
// never chases a trend it cannot add to.
type TrendEMA struct {
	limit int
}

// NewTrendEMA builds an EMA-crossover trend follower.
func NewTrendEMA(limit int) *TrendEMA {
	return &TrendEMA{limit: limit}
}

// Name returns the identifier for the strategy implementation.
func (t *TrendEMA) Name() string { return "TrendEMA" }

// Evaluate emits at most one signal in the crossover direction.
func (t *TrendEMA) Evaluate(in Inputs) []sig.Signal {
	short, long, ok := in.Series.EMA()
	if !ok {
		return nil
	}
	reason := fmt.Sprintf("emaShort=%.2f emaLong=%.2f", short, long)
	switch {
	case short > long && in.Position < t.limit:
		return buyAtAsk(in.Book, reason)
	case short < long && in.Position > -t.limit:
		return sellAtBid(in.Book, reason)
	default:
		return nil
	}
}

// TrendMomentum follows raw price momentum over a lookback window, but only
// trades when the touch still clears the minimum edge against fair value.
type TrendMomentum struct {
	window    int
	threshold float64
	minEdge   float64
}

// NewTrendMomentum builds a momentum-threshold trend follower.
func NewTrendMomentum(window int, threshold, minEdge float64) *TrendMomentum {
	return &TrendMomentum{window: window, threshold: threshold, minEdge: minEdge}
}

// Name returns the identifier for the strategy implementation.
func (t *TrendMomentum) Name() string { return "TrendMomentum" }

// Evaluate emits at most one signal when momentum exceeds the threshold and
// the edge check passes. An undefined momentum (short history, zero anchor
// price) stands down silently.
func (t *TrendMomentum) Evaluate(in Inputs) []sig.Signal {
	momentum, ok := in.Series.Momentum(t.window)
	if !ok {
		return nil
	}
	reason := fmt.Sprintf("momentum=%.4f fv=%.1f", momentum, in.FairValue)
	switch {
	case momentum > t.threshold:
		if ask, ok := in.Book.BestAsk(); ok && float64(ask) < in.FairValue+t.minEdge {
			return buyAtAsk(in.Book, reason)
		}
	case momentum < -t.threshold:
		if bid, ok := in.Book.BestBid(); ok && float64(bid) > in.FairValue-t.minEdge {
			return sellAtBid(in.Book, reason)
		}
	}
	return nil
}
