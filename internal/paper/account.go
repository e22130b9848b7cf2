// Package paper tracks virtual balances while trading against the simulator.
package paper

import (
	"errors"
	"sync"

	"github.com/maxx06/cooked-prosperity/internal/execution"
)

// FillRecorder captures paper fills for later inspection.
type FillRecorder interface {
	Record(execution.Fill)
}

type positionState struct {
	Qty     int // signed: positive long, negative short
	AvgCost float64
}

// Account tracks virtual cash, realized PnL, and signed per-symbol positions
// bounded by symmetric position limits.
type Account struct {
	mu          sync.Mutex
	cash        float64
	realizedPnL float64
	limits      map[string]int // symmetric ±limit per symbol; 0 means unbounded
	positions   map[string]positionState
}

// PositionSnapshot exposes a read-only view of a single symbol position.
type PositionSnapshot struct {
	Qty         int
	AvgCost     float64
	MarketValue float64
	Unrealized  float64
}

// Snapshot represents a view of the account state, optionally marked to
// market using provided prices.
type Snapshot struct {
	Cash        float64
	RealizedPnL float64
	Equity      float64
	Positions   map[string]PositionSnapshot
}

// NewAccount constructs an account with starting cash and per-symbol limits.
func NewAccount(startingCash float64, limits map[string]int) *Account {
	if limits == nil {
		limits = map[string]int{}
	}
	return &Account{
		cash:      startingCash,
		limits:    limits,
		positions: make(map[string]positionState),
	}
}

// Apply books a fill, mutating cash and position if it passes the limit
// check. Shorting is allowed down to the symmetric negative limit; crossing
// through flat realizes PnL on the closed quantity.
func (a *Account) Apply(fill execution.Fill) error {
	if fill.Qty == 0 {
		return errors.New("zero quantity fill")
	}
	if fill.Price <= 0 {
		return errors.New("price must be positive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	pos := a.positions[fill.Symbol]
	newQty := pos.Qty + fill.Qty
	if limit := a.limits[fill.Symbol]; limit > 0 && abs(newQty) > limit {
		return errors.New("position limit exceeded")
	}

	price := float64(fill.Price)
	a.cash -= price * float64(fill.Qty)

	switch {
	case pos.Qty == 0 || sameSign(pos.Qty, fill.Qty):
		// Opening or adding: blend the average cost.
		total := abs(pos.Qty) + abs(fill.Qty)
		pos.AvgCost = (pos.AvgCost*float64(abs(pos.Qty)) + price*float64(abs(fill.Qty))) / float64(total)
	case abs(fill.Qty) <= abs(pos.Qty):
		// Reducing: realize on the closed quantity, cost basis unchanged.
		closed := abs(fill.Qty)
		a.realizedPnL += (price - pos.AvgCost) * float64(closed) * sign(pos.Qty)
	default:
		// Crossing through flat: realize the full old position, open the
		// remainder at the fill price.
		closed := abs(pos.Qty)
		a.realizedPnL += (price - pos.AvgCost) * float64(closed) * sign(pos.Qty)
		pos.AvgCost = price
	}

	pos.Qty = newQty
	if pos.Qty == 0 {
		delete(a.positions, fill.Symbol)
	} else {
		a.positions[fill.Symbol] = pos
	}
	return nil
}

// Snapshot returns a copy of balances, optionally marked using the supplied prices.
func (a *Account) Snapshot(prices map[string]float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	positions := make(map[string]PositionSnapshot, len(a.positions))
	equity := a.cash
	for sym, pos := range a.positions {
		mark := prices[sym]
		marketValue := float64(pos.Qty) * mark
		unrealized := (mark - pos.AvgCost) * float64(pos.Qty)
		if mark == 0 {
			marketValue = 0
			unrealized = 0
		}
		positions[sym] = PositionSnapshot{
			Qty:         pos.Qty,
			AvgCost:     pos.AvgCost,
			MarketValue: marketValue,
			Unrealized:  unrealized,
		}
		equity += marketValue
	}

	return Snapshot{
		Cash:        a.cash,
		RealizedPnL: a.realizedPnL,
		Equity:      equity,
		Positions:   positions,
	}
}

// Position returns the signed position for the supplied symbol.
func (a *Account) Position(symbol string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions[symbol].Qty
}

// Positions returns the signed position per symbol.
func (a *Account) Positions() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.positions))
	for sym, pos := range a.positions {
		out[sym] = pos.Qty
	}
	return out
}

// RealizedPnL returns total closed-trade profit and loss.
func (a *Account) RealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func sameSign(a, b int) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
