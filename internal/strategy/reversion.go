package strategy

import (
	"fmt"

	sig "github.com/maxx06/cooked-prosperity/internal/signal"
)

// MeanReversion fades moves that stretch the latest fair value beyond a
// z-score threshold from its rolling mean: sell overextension upward, buy
// overextension downward. An optional volatility ceiling stands the strategy
// down entirely in turbulent regimes.
type MeanReversion struct {
	window     int
	threshold  float64
	volWindow  int
	volCeiling float64 // 0 disables the gate
	minEdge    float64
}

// NewMeanReversion builds a z-score mean reversion strategy.
func NewMeanReversion(window int, threshold float64, volWindow int, volCeiling, minEdge float64) *MeanReversion {
	return &MeanReversion{
		window:     window,
		threshold:  threshold,
		volWindow:  volWindow,
		volCeiling: volCeiling,
		minEdge:    minEdge,
	}
}

// Name returns the identifier for the strategy implementation.
func (m *MeanReversion) Name() string { return "MeanReversion" }

// Evaluate emits at most one fading signal. An undefined z-score (history
// shorter than the window) or a zero standard deviation produces no signal.
// Volatility is treated as acceptable while still undefined.
func (m *MeanReversion) Evaluate(in Inputs) []sig.Signal {
	if m.volCeiling > 0 {
		if vol, ok := in.Series.Volatility(m.volWindow); ok && vol > m.volCeiling {
			return nil
		}
	}

	z, ok := in.Series.ZScore(m.window)
	if !ok {
		return nil
	}
	reason := fmt.Sprintf("z=%.2f threshold=%.2f", z, m.threshold)
	switch {
	case z > m.threshold:
		if bid, ok := in.Book.BestBid(); ok && float64(bid) > in.FairValue-m.minEdge {
			return sellAtBid(in.Book, reason)
		}
	case z < -m.threshold:
		if ask, ok := in.Book.BestAsk(); ok && float64(ask) < in.FairValue+m.minEdge {
			return buyAtAsk(in.Book, reason)
		}
	}
	return nil
}
