// Package indicator maintains rolling per-product numeric state: fair value
// history, exponential moving averages, momentum, volatility, and z-scores.
//
// Every accessor reports whether its value is defined. An indicator is only
// defined once enough history has accumulated for its window; callers must
// treat "not ready" as no-signal, never as zero.
package indicator

import "math"

// Series tracks one product's fair value history and derived indicators.
// History is capped: once more than cap observations arrive the oldest are
// discarded, so the largest window a caller may ask for is cap.
type Series struct {
	shortPeriod int
	longPeriod  int
	cap         int

	prices   []float64
	emaShort float64
	emaLong  float64
	emaSeen  bool
}

// NewSeries builds an empty series with the given EMA periods and history cap.
func NewSeries(shortPeriod, longPeriod, cap int) *Series {
	if shortPeriod <= 0 {
		shortPeriod = 9
	}
	if longPeriod <= 0 {
		longPeriod = 21
	}
	if cap <= 0 {
		cap = 64
	}
	return &Series{shortPeriod: shortPeriod, longPeriod: longPeriod, cap: cap}
}

// Restore rebuilds a series from persisted history and EMA values. emaSeen
// reports whether the persisted state contained EMA entries for the product.
func Restore(shortPeriod, longPeriod, cap int, history []float64, emaShort, emaLong float64, emaSeen bool) *Series {
	s := NewSeries(shortPeriod, longPeriod, cap)
	if len(history) > s.cap {
		history = history[len(history)-s.cap:]
	}
	s.prices = append(s.prices, history...)
	s.emaShort = emaShort
	s.emaLong = emaLong
	s.emaSeen = emaSeen
	return s
}

// Observe appends a fair value observation and updates both EMAs. The first
// observation initializes the EMAs to the price itself, without a warm-up.
func (s *Series) Observe(price float64) {
	s.prices = append(s.prices, price)
	if len(s.prices) > s.cap {
		s.prices = s.prices[len(s.prices)-s.cap:]
	}

	if !s.emaSeen {
		s.emaShort = price
		s.emaLong = price
		s.emaSeen = true
		return
	}
	s.emaShort = ema(price, s.emaShort, s.shortPeriod)
	s.emaLong = ema(price, s.emaLong, s.longPeriod)
}

func ema(price, prev float64, period int) float64 {
	alpha := 2.0 / float64(period+1)
	return price*alpha + prev*(1-alpha)
}

// Len returns the number of retained observations.
func (s *Series) Len() int { return len(s.prices) }

// Last returns the most recent observation.
func (s *Series) Last() (float64, bool) {
	if len(s.prices) == 0 {
		return 0, false
	}
	return s.prices[len(s.prices)-1], true
}

// History returns a copy of the retained observations, oldest first.
func (s *Series) History() []float64 {
	out := make([]float64, len(s.prices))
	copy(out, s.prices)
	return out
}

// EMA returns the short and long exponential moving averages. Not defined
// before the first observation.
func (s *Series) EMA() (short, long float64, ok bool) {
	return s.emaShort, s.emaLong, s.emaSeen
}

// Momentum returns the relative price change over the trailing window:
// (latest - oldest) / oldest. Undefined below window observations, and
// suppressed (not ok) when the anchor price is zero.
func (s *Series) Momentum(window int) (float64, bool) {
	if window < 2 || len(s.prices) < window {
		return 0, false
	}
	latest := s.prices[len(s.prices)-1]
	anchor := s.prices[len(s.prices)-window]
	if anchor == 0 {
		return 0, false
	}
	return (latest - anchor) / anchor, true
}

// Volatility returns the unbiased sample standard deviation over the trailing
// window. Undefined below window observations; windows below 2 are undefined.
func (s *Series) Volatility(window int) (float64, bool) {
	if window < 2 || len(s.prices) < window {
		return 0, false
	}
	return sampleStdev(s.prices[len(s.prices)-window:]), true
}

// ZScore returns how many sample standard deviations the latest observation
// lies from the trailing window mean. A zero standard deviation yields z=0,
// which downstream strategies read as no-signal.
func (s *Series) ZScore(window int) (float64, bool) {
	if window < 2 || len(s.prices) < window {
		return 0, false
	}
	recent := s.prices[len(s.prices)-window:]
	mean := 0.0
	for _, p := range recent {
		mean += p
	}
	mean /= float64(len(recent))
	std := sampleStdev(recent)
	if std == 0 {
		return 0, true
	}
	latest := s.prices[len(s.prices)-1]
	return (latest - mean) / std, true
}

func sampleStdev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
