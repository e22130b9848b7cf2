// Package signal standardizes payloads shared between strategy and sizing layers.
package signal

// Side enumerates the direction of a trading signal.
type Side int

const (
	// None means the strategy found no actionable edge this tick.
	None Side = iota
	// Buy is a long bias aimed at the ask side.
	Buy
	// Sell is a short bias aimed at the bid side.
	Sell
)

// String renders the side for logs and metrics labels.
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Signal expresses one product's trading intent for the current tick.
type Signal struct {
	Side      Side
	Price     int    // book level the signal trades against
	Available int    // resting counter volume at Price
	Reason    string // human-readable edge justification
}
