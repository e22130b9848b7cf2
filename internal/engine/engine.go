// Package engine runs the per-tick decision pipeline: restore state, then for
// each snapshotted product estimate fair value, update indicators, generate a
// signal, size it against the position limit, and build orders; finally
// persist state for the next tick.
//
// The engine is single-threaded and synchronous. A tick always returns a
// valid (possibly empty) order set and a valid state blob: products with
// insufficient data, degenerate numerics, or no configuration are skipped
// silently rather than failing the tick.
package engine

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/maxx06/cooked-prosperity/internal/config"
	"github.com/maxx06/cooked-prosperity/internal/fairvalue"
	"github.com/maxx06/cooked-prosperity/internal/indicator"
	"github.com/maxx06/cooked-prosperity/internal/market"
	"github.com/maxx06/cooked-prosperity/internal/metrics"
	"github.com/maxx06/cooked-prosperity/internal/risk"
	sig "github.com/maxx06/cooked-prosperity/internal/signal"
	"github.com/maxx06/cooked-prosperity/internal/state"
	"github.com/maxx06/cooked-prosperity/internal/strategy"
)

// Engine holds the immutable per-product wiring built once at construction.
type Engine struct {
	cfg        *config.Config
	log        zerolog.Logger
	strategies map[string]strategy.Strategy
	sizers     map[string]risk.Sizer
}

// New wires one strategy and sizer per configured product.
func New(cfg *config.Config, log zerolog.Logger) *Engine {
	strategies := make(map[string]strategy.Strategy, len(cfg.Products))
	sizers := make(map[string]risk.Sizer, len(cfg.Products))
	for name, p := range cfg.Products {
		strategies[name] = strategy.Build(p)
		sizers[name] = risk.Sizer{BaseCap: p.BaseOrderCap, RiskScaled: p.RiskScaled}
	}
	return &Engine{cfg: cfg, log: log, strategies: strategies, sizers: sizers}
}

// Run executes one decision cycle. Every snapshotted product gets an entry in
// the result, empty when nothing is actionable. The compute budget slot is
// reserved and always zero.
func (e *Engine) Run(in market.TickInput) market.TickResult {
	snap := state.Restore(in.StateBlob)

	orders := make(map[string][]market.Order, len(in.Books))
	for _, symbol := range sortedSymbols(in.Books) {
		orders[symbol] = e.runProduct(symbol, in, &snap)
	}

	return market.TickResult{
		Orders:        orders,
		ComputeBudget: 0,
		StateBlob:     snap.Encode(),
	}
}

// runProduct executes the pipeline for one product and folds its updated
// history and indicators back into the snapshot.
func (e *Engine) runProduct(symbol string, in market.TickInput, snap *state.Snapshot) []market.Order {
	metrics.TicksTotal.WithLabelValues(symbol).Inc()
	out := []market.Order{}

	p, known := e.cfg.Products[symbol]
	if !known {
		e.log.Debug().Str("sym", symbol).Msg("no product config, skipping")
		return out
	}
	book := in.Books[symbol]
	position := in.Positions[symbol] // absent means flat

	fv, ok := fairvalue.Estimate(fairvalue.Method(p.FairValueMethod), book, in.Trades[symbol], p.FairValue)
	if !ok {
		// Nothing to anchor a decision on: no book, no trades, no static value.
		metrics.SignalsSuppressedTotal.WithLabelValues(symbol, "no_fair_value").Inc()
		return out
	}
	metrics.FairValue.WithLabelValues(symbol).Set(fv)

	series := restoreSeries(symbol, p, e.cfg.HistoryCap(p), snap)
	series.Observe(fv)
	persistSeries(symbol, series, snap)

	volatility, volOK := series.Volatility(p.VolatilityWindow)
	sizer := e.sizers[symbol]
	for _, s := range e.strategies[symbol].Evaluate(strategy.Inputs{
		Book:      book,
		FairValue: fv,
		Position:  position,
		Series:    series,
	}) {
		qty := sizer.Quantity(s.Side, position, p.PositionLimit, s.Available, volatility, volOK)
		if qty == 0 {
			metrics.SignalsSuppressedTotal.WithLabelValues(symbol, "sized_to_zero").Inc()
			continue
		}
		signed := qty
		if s.Side == sig.Sell {
			signed = -qty
		}
		e.log.Debug().
			Str("sym", symbol).
			Str("side", s.Side.String()).
			Int("px", s.Price).
			Int("qty", signed).
			Str("reason", s.Reason).
			Msg("order")
		out = append(out, market.Order{Symbol: symbol, Price: s.Price, Qty: signed})
	}
	return out
}

func restoreSeries(symbol string, p config.Product, cap int, snap *state.Snapshot) *indicator.Series {
	emaShort, seenShort := snap.EMAShort[symbol]
	emaLong, seenLong := snap.EMALong[symbol]
	return indicator.Restore(
		p.EMAShortPeriod, p.EMALongPeriod, cap,
		snap.History[symbol],
		emaShort, emaLong, seenShort && seenLong,
	)
}

func persistSeries(symbol string, series *indicator.Series, snap *state.Snapshot) {
	snap.History[symbol] = series.History()
	if short, long, ok := series.EMA(); ok {
		snap.EMAShort[symbol] = short
		snap.EMALong[symbol] = long
	}
}

// sortedSymbols fixes the processing order. Products are independent, so the
// order does not affect the decisions, only log and metric determinism.
func sortedSymbols(books map[string]market.OrderBook) []string {
	symbols := make([]string, 0, len(books))
	for symbol := range books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
