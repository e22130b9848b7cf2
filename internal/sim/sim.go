// Package sim is a deterministic synthetic exchange for the paper harness.
// It fabricates order book snapshots around a random-walking mid price,
// matches submitted orders against resting volume, enforces position limits,
// and feeds the resulting trades back as the next tick's trade tape.
package sim

import (
	"math/rand"
	"sort"

	"github.com/maxx06/cooked-prosperity/internal/execution"
	"github.com/maxx06/cooked-prosperity/internal/market"
)

const (
	levelsPerSide = 3
	baseSpread    = 2
	maxLevelVol   = 25
	walkSigma     = 1.5
)

// Exchange owns venue-side state: books, positions, and the trade tape.
type Exchange struct {
	rng        *rand.Rand
	symbols    []string
	mids       map[string]float64
	limits     map[string]int
	positions  map[string]int
	books      map[string]market.OrderBook
	lastTrades map[string][]market.Trade
	tick       int
}

// New seeds an exchange with starting mid prices and position limits per
// symbol. The same seed and order flow reproduce the same run exactly.
func New(seed int64, mids map[string]float64, limits map[string]int) *Exchange {
	symbols := make([]string, 0, len(mids))
	for sym := range mids {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	x := &Exchange{
		rng:        rand.New(rand.NewSource(seed)),
		symbols:    symbols,
		mids:       make(map[string]float64, len(mids)),
		limits:     limits,
		positions:  make(map[string]int),
		lastTrades: make(map[string][]market.Trade),
	}
	for sym, mid := range mids {
		x.mids[sym] = mid
	}
	x.buildBooks()
	return x
}

// Tick returns the current tick index, starting at 0.
func (x *Exchange) Tick() int { return x.tick }

// Mids returns the current mid price per symbol, for marking to market.
func (x *Exchange) Mids() map[string]float64 {
	out := make(map[string]float64, len(x.mids))
	for sym, mid := range x.mids {
		out[sym] = mid
	}
	return out
}

// Snapshot assembles the engine input for the current tick. The state blob is
// the caller's to thread through.
func (x *Exchange) Snapshot(stateBlob string) market.TickInput {
	books := make(map[string]market.OrderBook, len(x.books))
	trades := make(map[string][]market.Trade, len(x.lastTrades))
	positions := make(map[string]int, len(x.positions))
	for sym, book := range x.books {
		books[sym] = book
	}
	for sym, tape := range x.lastTrades {
		trades[sym] = append([]market.Trade(nil), tape...)
	}
	for sym, pos := range x.positions {
		positions[sym] = pos
	}
	return market.TickInput{
		Books:     books,
		Positions: positions,
		Trades:    trades,
		StateBlob: stateBlob,
	}
}

// Execute matches the submitted orders against the current books, then
// advances the venue one tick. Orders that would breach the symbol's position
// limit are rejected whole; partial fills happen when resting volume at or
// better than the order price runs out.
func (x *Exchange) Execute(orders map[string][]market.Order) []execution.Fill {
	var fills []execution.Fill
	x.lastTrades = make(map[string][]market.Trade)
	for _, sym := range x.symbols {
		for _, order := range orders[sym] {
			if fill, ok := x.match(order); ok {
				fills = append(fills, fill)
			}
		}
	}
	x.advance()
	return fills
}

func (x *Exchange) match(order market.Order) (execution.Fill, bool) {
	if order.Qty == 0 {
		return execution.Fill{}, false
	}
	book := x.books[order.Symbol]

	want := order.Qty
	if want < 0 {
		want = -want
	}
	available := 0
	if order.Qty > 0 {
		for price, vol := range book.Asks {
			if price <= order.Price {
				available += vol
			}
		}
	} else {
		for price, vol := range book.Bids {
			if price >= order.Price {
				available += vol
			}
		}
	}
	filled := want
	if filled > available {
		filled = available
	}
	if filled == 0 {
		return execution.Fill{}, false
	}

	signed := filled
	if order.Qty < 0 {
		signed = -filled
	}
	if limit := x.limits[order.Symbol]; limit > 0 {
		next := x.positions[order.Symbol] + signed
		if next > limit || next < -limit {
			return execution.Fill{}, false
		}
	}

	x.positions[order.Symbol] += signed
	x.lastTrades[order.Symbol] = append(x.lastTrades[order.Symbol], market.Trade{Price: order.Price, Qty: signed})
	return execution.Fill{Tick: x.tick, Symbol: order.Symbol, Price: order.Price, Qty: signed}, true
}

// advance walks the mids and rebuilds the books for the next tick. Trades
// recorded during Execute stay on the tape for exactly one tick.
func (x *Exchange) advance() {
	for _, sym := range x.symbols {
		x.mids[sym] += x.rng.NormFloat64() * walkSigma
		if x.mids[sym] < float64(levelsPerSide+baseSpread) {
			x.mids[sym] = float64(levelsPerSide + baseSpread)
		}
	}
	x.tick++
	x.buildBooks()
}

func (x *Exchange) buildBooks() {
	books := make(map[string]market.OrderBook, len(x.symbols))
	for _, sym := range x.symbols {
		mid := int(x.mids[sym])
		half := baseSpread / 2
		if half < 1 {
			half = 1
		}
		book := market.OrderBook{Bids: map[int]int{}, Asks: map[int]int{}}
		for i := 0; i < levelsPerSide; i++ {
			book.Bids[mid-half-i] = 1 + x.rng.Intn(maxLevelVol)
			book.Asks[mid+half+i] = 1 + x.rng.Intn(maxLevelVol)
		}
		books[sym] = book
	}
	x.books = books
}
