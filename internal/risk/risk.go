// Package risk converts signals into bounded order quantities.
package risk

import (
	"math"

	"github.com/maxx06/cooked-prosperity/internal/signal"
)

// Sizer bounds order quantities by position headroom, available counter
// volume, and a per-order cap, with optional volatility and
// position-proximity damping.
type Sizer struct {
	BaseCap    int  // per-order quantity ceiling, default 10
	RiskScaled bool // enable volatility / proximity scaling
}

const (
	defaultBaseCap = 10
	minVolScale    = 0.2
)

// Quantity returns the non-negative order quantity for a signal. Zero means
// do not trade. volatility is ignored unless volOK reports it defined.
func (s Sizer) Quantity(side signal.Side, position, limit, available int, volatility float64, volOK bool) int {
	if side == signal.None || limit <= 0 || available <= 0 {
		return 0
	}

	var headroom int
	switch side {
	case signal.Buy:
		headroom = limit - position
	case signal.Sell:
		headroom = limit + position
	}
	if headroom <= 0 {
		return 0
	}

	cap := s.BaseCap
	if cap <= 0 {
		cap = defaultBaseCap
	}

	qty := cap
	if s.RiskScaled {
		scale := 1.0
		if volOK {
			scale = math.Max(minVolScale, 1-volatility/100)
		}
		proximity := 1 - math.Abs(float64(position))/float64(limit)
		scaled := math.Round(float64(cap) * scale * proximity)
		if scaled < 1 {
			scaled = 1
		}
		qty = int(scaled)
	}

	if qty > headroom {
		qty = headroom
	}
	if qty > available {
		qty = available
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}
