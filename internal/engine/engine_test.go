package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxx06/cooked-prosperity/internal/config"
	"github.com/maxx06/cooked-prosperity/internal/market"
	"github.com/maxx06/cooked-prosperity/internal/state"
)

func testConfig() *config.Config {
	fv := 10000.0
	cfg := &config.Config{
		Products: map[string]config.Product{
			"RAINFOREST_RESIN": {
				Mode:          config.ModeMarketMaking,
				PositionLimit: 50,
				FairValue:     &fv,
				Spread:        2,
			},
			"KELP": {
				Mode:          config.ModeTrendEMA,
				PositionLimit: 50,
				Spread:        4,
			},
			"SQUID_INK": {
				Mode:            config.ModeMeanReversion,
				PositionLimit:   50,
				Spread:          6,
				ReversionWindow: 15,
				ZThreshold:      1.5,
				MinEdge:         10,
			},
		},
	}
	cfg.Normalize()
	return cfg
}

func newTestEngine() *Engine {
	return New(testConfig(), zerolog.Nop())
}

// resinBook is ask-only so the estimator falls back to the static fair value
// (a two-sided book would anchor on the mid instead).
func resinBook(askPrice, askVol int) market.OrderBook {
	return market.OrderBook{
		Asks: map[int]int{askPrice: askVol},
	}
}

func TestRunMarketMakingBuy(t *testing.T) {
	eng := newTestEngine()
	result := eng.Run(market.TickInput{
		Books: map[string]market.OrderBook{"RAINFOREST_RESIN": resinBook(9995, 20)},
	})

	orders := result.Orders["RAINFOREST_RESIN"]
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %+v", result.Orders)
	}
	order := orders[0]
	if order.Price != 9995 || order.Qty != 10 {
		t.Fatalf("expected buy 10 at 9995, got %+v", order)
	}
}

func TestRunNeverBreachesPositionLimit(t *testing.T) {
	eng := newTestEngine()

	result := eng.Run(market.TickInput{
		Books:     map[string]market.OrderBook{"RAINFOREST_RESIN": resinBook(9995, 20)},
		Positions: map[string]int{"RAINFOREST_RESIN": 45},
	})
	orders := result.Orders["RAINFOREST_RESIN"]
	if len(orders) != 1 || orders[0].Qty != 5 {
		t.Fatalf("expected headroom-clamped buy of 5, got %+v", orders)
	}

	result = eng.Run(market.TickInput{
		Books:     map[string]market.OrderBook{"RAINFOREST_RESIN": resinBook(9995, 20)},
		Positions: map[string]int{"RAINFOREST_RESIN": 50},
	})
	if len(result.Orders["RAINFOREST_RESIN"]) != 0 {
		t.Fatalf("expected no order at the limit, got %+v", result.Orders)
	}
}

func TestRunEmptyBookProductGetsEmptyList(t *testing.T) {
	eng := newTestEngine()
	result := eng.Run(market.TickInput{
		Books: map[string]market.OrderBook{"KELP": {}},
	})

	orders, present := result.Orders["KELP"]
	if !present {
		t.Fatalf("every snapshotted product must appear in the result")
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty order list, got %+v", orders)
	}
}

func TestRunComputeBudgetReserved(t *testing.T) {
	eng := newTestEngine()
	result := eng.Run(market.TickInput{Books: map[string]market.OrderBook{"KELP": {}}})
	if result.ComputeBudget != 0 {
		t.Fatalf("compute budget must be 0, got %d", result.ComputeBudget)
	}
}

func TestRunUnknownProductSkipped(t *testing.T) {
	eng := newTestEngine()
	result := eng.Run(market.TickInput{
		Books: map[string]market.OrderBook{"MYSTERY_SHELL": resinBook(100, 5)},
	})
	if len(result.Orders["MYSTERY_SHELL"]) != 0 {
		t.Fatalf("unconfigured product must not trade, got %+v", result.Orders)
	}
	if result.StateBlob == "" {
		t.Fatalf("state blob must still be produced")
	}
}

func TestRunStatePersistsAcrossTicks(t *testing.T) {
	eng := newTestEngine()
	book := market.OrderBook{Bids: map[int]int{99: 5}, Asks: map[int]int{101: 5}}

	blob := ""
	for i := 0; i < 3; i++ {
		result := eng.Run(market.TickInput{
			Books:     map[string]market.OrderBook{"KELP": book},
			StateBlob: blob,
		})
		blob = result.StateBlob
	}

	snap := state.Restore(blob)
	if len(snap.History["KELP"]) != 3 {
		t.Fatalf("expected 3 history entries, got %+v", snap.History)
	}
	if _, ok := snap.EMAShort["KELP"]; !ok {
		t.Fatalf("expected persisted short EMA")
	}
	for _, v := range snap.History["KELP"] {
		if v != 100 {
			t.Fatalf("expected mid 100 in history, got %+v", snap.History["KELP"])
		}
	}
}

func TestRunMeanReversionLifecycle(t *testing.T) {
	eng := newTestEngine()
	flat := market.OrderBook{Bids: map[int]int{99: 10}, Asks: map[int]int{101: 10}}
	spiked := market.OrderBook{Bids: map[int]int{128: 10}, Asks: map[int]int{132: 10}}

	blob := ""
	for i := 0; i < 14; i++ {
		result := eng.Run(market.TickInput{
			Books:     map[string]market.OrderBook{"SQUID_INK": flat},
			StateBlob: blob,
		})
		if len(result.Orders["SQUID_INK"]) != 0 {
			t.Fatalf("expected no signal before the window fills (tick %d): %+v", i, result.Orders)
		}
		blob = result.StateBlob
	}

	result := eng.Run(market.TickInput{
		Books:     map[string]market.OrderBook{"SQUID_INK": spiked},
		StateBlob: blob,
	})
	orders := result.Orders["SQUID_INK"]
	if len(orders) != 1 {
		t.Fatalf("expected a reversion sell on the spike, got %+v", result.Orders)
	}
	if orders[0].Qty >= 0 || orders[0].Price != 128 {
		t.Fatalf("expected sell at bid 128, got %+v", orders[0])
	}
}

func TestRunSurvivesMalformedState(t *testing.T) {
	eng := newTestEngine()
	result := eng.Run(market.TickInput{
		Books:     map[string]market.OrderBook{"RAINFOREST_RESIN": resinBook(9995, 20)},
		StateBlob: "{definitely-not-json",
	})
	if len(result.Orders["RAINFOREST_RESIN"]) != 1 {
		t.Fatalf("malformed state must not stop the tick, got %+v", result.Orders)
	}
	snap := state.Restore(result.StateBlob)
	if len(snap.History["RAINFOREST_RESIN"]) != 1 {
		t.Fatalf("expected fresh history after reset, got %+v", snap.History)
	}
}
