package indicator

import (
	"math"
	"testing"
)

func TestEMAMatchesRecurrence(t *testing.T) {
	s := NewSeries(9, 21, 64)

	s.Observe(100)
	short, long, ok := s.EMA()
	if !ok {
		t.Fatalf("EMA undefined after first observation")
	}
	if short != 100 || long != 100 {
		t.Fatalf("expected EMAs initialized to first price, got %.4f / %.4f", short, long)
	}

	s.Observe(102)
	s.Observe(104)
	short, long, _ = s.EMA()
	if math.Abs(short-101.12) > 1e-9 {
		t.Fatalf("short EMA mismatch: got %.10f want 101.12", short)
	}
	if math.Abs(long-100.52892561983472) > 1e-9 {
		t.Fatalf("long EMA mismatch: got %.10f", long)
	}
}

func TestEMAUndefinedBeforeObservations(t *testing.T) {
	s := NewSeries(9, 21, 64)
	if _, _, ok := s.EMA(); ok {
		t.Fatalf("expected undefined EMA on empty series")
	}
}

func TestMomentum(t *testing.T) {
	s := NewSeries(9, 21, 64)
	s.Observe(100)
	s.Observe(105)
	if _, ok := s.Momentum(3); ok {
		t.Fatalf("momentum should be undefined below window")
	}
	s.Observe(110)
	m, ok := s.Momentum(3)
	if !ok {
		t.Fatalf("momentum should be defined at window length")
	}
	if math.Abs(m-0.1) > 1e-12 {
		t.Fatalf("momentum mismatch: got %.6f want 0.1", m)
	}
}

func TestMomentumZeroAnchorSuppressed(t *testing.T) {
	s := NewSeries(9, 21, 64)
	s.Observe(0)
	s.Observe(1)
	s.Observe(2)
	if _, ok := s.Momentum(3); ok {
		t.Fatalf("zero anchor price must suppress momentum, not divide")
	}
}

func TestVolatility(t *testing.T) {
	s := NewSeries(9, 21, 64)
	for _, p := range []float64{1, 2, 3, 4} {
		s.Observe(p)
	}
	vol, ok := s.Volatility(4)
	if !ok {
		t.Fatalf("volatility should be defined at window length")
	}
	if math.Abs(vol-1.2909944487358056) > 1e-9 {
		t.Fatalf("volatility mismatch: got %.10f", vol)
	}

	if _, ok := s.Volatility(5); ok {
		t.Fatalf("volatility should be undefined below window")
	}
}

func TestVolatilityConstantSeriesIsZero(t *testing.T) {
	s := NewSeries(9, 21, 64)
	for i := 0; i < 5; i++ {
		s.Observe(5)
	}
	vol, ok := s.Volatility(5)
	if !ok || vol != 0 {
		t.Fatalf("expected zero volatility for constant series, got %.6f (ok=%v)", vol, ok)
	}
}

func TestZScoreSpike(t *testing.T) {
	s := NewSeries(9, 21, 64)
	for i := 0; i < 14; i++ {
		s.Observe(100)
	}
	if _, ok := s.ZScore(15); ok {
		t.Fatalf("z-score should be undefined below window")
	}

	s.Observe(130)
	z, ok := s.ZScore(15)
	if !ok {
		t.Fatalf("z-score should be defined at window length")
	}
	if math.Abs(z-3.614784456460255) > 1e-9 {
		t.Fatalf("z-score mismatch: got %.10f", z)
	}
}

func TestZScoreZeroStdevIsZero(t *testing.T) {
	s := NewSeries(9, 21, 64)
	for i := 0; i < 10; i++ {
		s.Observe(42)
	}
	z, ok := s.ZScore(10)
	if !ok {
		t.Fatalf("z-score should be defined")
	}
	if z != 0 {
		t.Fatalf("constant series must yield z=0, got %.6f", z)
	}
}

func TestHistoryCap(t *testing.T) {
	s := NewSeries(9, 21, 5)
	for i := 1; i <= 10; i++ {
		s.Observe(float64(i))
	}
	if s.Len() != 5 {
		t.Fatalf("expected capped history of 5, got %d", s.Len())
	}
	hist := s.History()
	if hist[0] != 6 || hist[4] != 10 {
		t.Fatalf("expected oldest=6 newest=10, got %+v", hist)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := NewSeries(9, 21, 64)
	for _, p := range []float64{100, 102, 104} {
		s.Observe(p)
	}
	short, long, _ := s.EMA()

	restored := Restore(9, 21, 64, s.History(), short, long, true)
	if restored.Len() != 3 {
		t.Fatalf("expected 3 restored observations, got %d", restored.Len())
	}
	rShort, rLong, ok := restored.EMA()
	if !ok || rShort != short || rLong != long {
		t.Fatalf("restored EMAs diverge: %.6f/%.6f vs %.6f/%.6f", rShort, rLong, short, long)
	}

	restored.Observe(106)
	s.Observe(106)
	rShort, _, _ = restored.EMA()
	short, _, _ = s.EMA()
	if math.Abs(rShort-short) > 1e-12 {
		t.Fatalf("restored series updates diverge: %.10f vs %.10f", rShort, short)
	}
}

func TestRestoreTruncatesOversizedHistory(t *testing.T) {
	hist := make([]float64, 100)
	for i := range hist {
		hist[i] = float64(i)
	}
	s := Restore(9, 21, 10, hist, 0, 0, false)
	if s.Len() != 10 {
		t.Fatalf("expected truncation to cap, got %d", s.Len())
	}
	if last, _ := s.Last(); last != 99 {
		t.Fatalf("expected newest observation kept, got %.0f", last)
	}
}
