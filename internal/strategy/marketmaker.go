package strategy

import (
	"fmt"
	"math"

	sig "github.com/maxx06/cooked-prosperity/internal/signal"
)

// MarketMaker quotes around a known fair value: lift asks sitting below fair
// value minus the spread, hit bids sitting above fair value plus the spread.
// It is the one mode that may emit a signal on both sides in the same tick.
type MarketMaker struct {
	spread  float64
	limit   int
	dynamic bool
}

// NewMarketMaker builds a market making strategy. dynamic widens the spread
// as the position concentrates toward the limit.
func NewMarketMaker(spread float64, limit int, dynamic bool) *MarketMaker {
	return &MarketMaker{spread: spread, limit: limit, dynamic: dynamic}
}

// Name returns the identifier for the strategy implementation.
func (m *MarketMaker) Name() string { return "MarketMaker" }

// Evaluate compares the touch against the spread-adjusted fair value.
func (m *MarketMaker) Evaluate(in Inputs) []sig.Signal {
	spread := m.spread
	if m.dynamic && m.limit > 0 {
		spread *= 1 + math.Abs(float64(in.Position))/float64(m.limit)
	}

	var signals []sig.Signal
	if ask, ok := in.Book.BestAsk(); ok && float64(ask) < in.FairValue-spread {
		reason := fmt.Sprintf("ask=%d fv=%.1f spread=%.1f", ask, in.FairValue, spread)
		signals = append(signals, sig.Signal{Side: sig.Buy, Price: ask, Available: in.Book.Asks[ask], Reason: reason})
	}
	if bid, ok := in.Book.BestBid(); ok && float64(bid) > in.FairValue+spread {
		reason := fmt.Sprintf("bid=%d fv=%.1f spread=%.1f", bid, in.FairValue, spread)
		signals = append(signals, sig.Signal{Side: sig.Sell, Price: bid, Available: in.Book.Bids[bid], Reason: reason})
	}
	return signals
}
