// Package market defines the tick-scoped data exchanged with the simulator:
// order book snapshots, trade records, and the orders the engine emits.
package market

// OrderBook is one product's resting orders at a single tick. Keys are price
// levels, values are resting volume at that level. Either side may be empty.
type OrderBook struct {
	Bids map[int]int // price -> resting buy volume
	Asks map[int]int // price -> resting sell volume
}

// BestBid returns the highest bid price, or false when the bid side is empty.
func (b OrderBook) BestBid() (int, bool) {
	found := false
	best := 0
	for price := range b.Bids {
		if !found || price > best {
			best = price
			found = true
		}
	}
	return best, found
}

// BestAsk returns the lowest ask price, or false when the ask side is empty.
func (b OrderBook) BestAsk() (int, bool) {
	found := false
	best := 0
	for price := range b.Asks {
		if !found || price < best {
			best = price
			found = true
		}
	}
	return best, found
}

// Trade records an execution that happened on the venue since the last tick.
type Trade struct {
	Price int
	Qty   int // may be signed by aggressor; consumers take the absolute value
}

// Order is a placement request: positive Qty buys, negative Qty sells.
type Order struct {
	Symbol string
	Price  int
	Qty    int
}

// TickInput carries everything the engine receives for one decision cycle.
type TickInput struct {
	Books     map[string]OrderBook
	Positions map[string]int     // absent symbol means flat
	Trades    map[string][]Trade // venue trades since the previous tick
	StateBlob string             // opaque state from the previous tick, "" on the first
}

// TickResult is what the engine hands back to the simulator.
type TickResult struct {
	Orders        map[string][]Order // one entry per snapshotted product, possibly empty
	ComputeBudget int                // reserved, always 0
	StateBlob     string
}
