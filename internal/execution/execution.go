// Package execution handles the order hand-off between the engine and the venue.
package execution

import (
	"github.com/maxx06/cooked-prosperity/internal/market"
	"github.com/maxx06/cooked-prosperity/internal/metrics"

	"github.com/rs/zerolog"
)

// Fill records an executed order: positive Qty bought, negative Qty sold.
type Fill struct {
	Tick   int    `json:"tick"`
	Symbol string `json:"symbol"`
	Price  int    `json:"price"`
	Qty    int    `json:"qty"`
}

// Executor logs and counts orders on their way to the venue.
type Executor struct{ log zerolog.Logger }

// NewExecutor wraps a zerolog logger for order submissions.
func NewExecutor(log zerolog.Logger) *Executor { return &Executor{log: log} }

// Submit records the placement before it reaches the venue.
func (e *Executor) Submit(tick int, order market.Order) {
	side := "BUY"
	if order.Qty < 0 {
		side = "SELL"
	}
	metrics.OrdersTotal.WithLabelValues(order.Symbol, side).Inc()
	e.log.Info().
		Int("tick", tick).
		Str("sym", order.Symbol).
		Str("side", side).
		Int("qty", order.Qty).
		Int("px", order.Price).
		Msg("submit order")
}
