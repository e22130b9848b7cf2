// Package strategy contains per-product signal generation logic.
package strategy

import (
	"github.com/maxx06/cooked-prosperity/internal/config"
	"github.com/maxx06/cooked-prosperity/internal/indicator"
	"github.com/maxx06/cooked-prosperity/internal/market"
	sig "github.com/maxx06/cooked-prosperity/internal/signal"
)

// Inputs bundles everything a strategy may inspect for one product this tick.
type Inputs struct {
	Book      market.OrderBook
	FairValue float64
	Position  int
	Series    *indicator.Series
}

// Strategy defines behaviour shared by strategy implementations. Evaluate
// returns at most one signal per side; an empty slice means stand down.
type Strategy interface {
	Evaluate(in Inputs) []sig.Signal
	Name() string
}

// Build returns the strategy implementation matching the product's configured
// mode. Unknown modes fall back to market making, the least aggressive choice.
func Build(p config.Product) Strategy {
	switch p.Mode {
	case config.ModeTrendEMA:
		return NewTrendEMA(p.PositionLimit)
	case config.ModeTrendMomentum:
		return NewTrendMomentum(p.MomentumWindow, p.MomentumThreshold, p.MinEdge)
	case config.ModeMeanReversion:
		return NewMeanReversion(p.ReversionWindow, p.ZThreshold, p.VolatilityWindow, p.VolatilityCeiling, p.MinEdge)
	default:
		return NewMarketMaker(p.Spread, p.PositionLimit, p.DynamicSpread)
	}
}

// buyAtAsk forms a Buy signal against the best ask, or nothing when the ask
// side is empty (no counter-party to trade against).
func buyAtAsk(book market.OrderBook, reason string) []sig.Signal {
	ask, ok := book.BestAsk()
	if !ok {
		return nil
	}
	return []sig.Signal{{Side: sig.Buy, Price: ask, Available: book.Asks[ask], Reason: reason}}
}

// sellAtBid forms a Sell signal against the best bid, or nothing when the bid
// side is empty.
func sellAtBid(book market.OrderBook, reason string) []sig.Signal {
	bid, ok := book.BestBid()
	if !ok {
		return nil
	}
	return []sig.Signal{{Side: sig.Sell, Price: bid, Available: book.Bids[bid], Reason: reason}}
}
