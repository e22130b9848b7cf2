// Package fairvalue derives a per-tick fair value scalar from an order book
// snapshot and, optionally, recent venue trades. Estimation is pure: no state
// survives between calls.
package fairvalue

import "github.com/maxx06/cooked-prosperity/internal/market"

// Method selects the estimation strategy for a product.
type Method string

const (
	// MethodVWAPBlend mixes the recent trade VWAP with the book mid price.
	MethodVWAPBlend Method = "vwap_blend"
	// MethodBookWeighted weights full-depth side VWAPs by best-level volume.
	MethodBookWeighted Method = "book_weighted"
)

const (
	tradeWeight = 0.7
	midWeight   = 0.3
)

// Mid returns the mid price, defined only when both book sides are populated.
func Mid(book market.OrderBook) (float64, bool) {
	bid, okBid := book.BestBid()
	ask, okAsk := book.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (float64(bid) + float64(ask)) / 2, true
}

// TradeVWAP computes the volume-weighted average price over recent trades,
// taking quantities by absolute value. Undefined when total volume is zero.
func TradeVWAP(trades []market.Trade) (float64, bool) {
	var notional, volume float64
	for _, tr := range trades {
		qty := tr.Qty
		if qty < 0 {
			qty = -qty
		}
		notional += float64(tr.Price) * float64(qty)
		volume += float64(qty)
	}
	if volume == 0 {
		return 0, false
	}
	return notional / volume, true
}

// Estimate returns the fair value for a product this tick, or false when no
// estimate is possible. static is the configured fallback fair value, nil when
// the product has no static value; a product with neither book data nor a
// static value is untradeable for the tick.
func Estimate(method Method, book market.OrderBook, trades []market.Trade, static *float64) (float64, bool) {
	var est float64
	var ok bool
	switch method {
	case MethodBookWeighted:
		est, ok = bookWeighted(book)
	default:
		est, ok = vwapBlend(book, trades)
	}
	if ok {
		return est, true
	}
	if static != nil {
		return *static, true
	}
	return 0, false
}

// vwapBlend blends trade VWAP and mid price (0.7/0.3), degrading to whichever
// exists when only one is defined.
func vwapBlend(book market.OrderBook, trades []market.Trade) (float64, bool) {
	mid, midOK := Mid(book)
	vwap, vwapOK := TradeVWAP(trades)
	switch {
	case midOK && vwapOK:
		return vwap*tradeWeight + mid*midWeight, true
	case vwapOK:
		return vwap, true
	case midOK:
		return mid, true
	default:
		return 0, false
	}
}

// bookWeighted computes each side's full-depth VWAP and combines them,
// weighting each side by its share of the displayed volume at the best levels.
// Degrades to the single defined side when the book is one-sided.
func bookWeighted(book market.OrderBook) (float64, bool) {
	bidVWAP, bidOK := sideVWAP(book.Bids)
	askVWAP, askOK := sideVWAP(book.Asks)
	switch {
	case bidOK && askOK:
		bestBid, _ := book.BestBid()
		bestAsk, _ := book.BestAsk()
		bidVol := float64(book.Bids[bestBid])
		askVol := float64(book.Asks[bestAsk])
		total := bidVol + askVol
		if total == 0 {
			return (bidVWAP + askVWAP) / 2, true
		}
		return bidVWAP*(bidVol/total) + askVWAP*(askVol/total), true
	case bidOK:
		return bidVWAP, true
	case askOK:
		return askVWAP, true
	default:
		return 0, false
	}
}

func sideVWAP(levels map[int]int) (float64, bool) {
	var notional, volume float64
	for price, vol := range levels {
		if vol < 0 {
			vol = -vol
		}
		notional += float64(price) * float64(vol)
		volume += float64(vol)
	}
	if volume == 0 {
		return 0, false
	}
	return notional / volume, true
}
