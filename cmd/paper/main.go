package main

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"

	"github.com/maxx06/cooked-prosperity/internal/config"
	"github.com/maxx06/cooked-prosperity/internal/engine"
	"github.com/maxx06/cooked-prosperity/internal/execution"
	"github.com/maxx06/cooked-prosperity/internal/metrics"
	"github.com/maxx06/cooked-prosperity/internal/paper"
	"github.com/maxx06/cooked-prosperity/internal/sim"
	"github.com/maxx06/cooked-prosperity/internal/telemetry"
	"github.com/maxx06/cooked-prosperity/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

// tickUpdate is the telemetry payload broadcast after every tick.
type tickUpdate struct {
	Tick      int                `json:"tick"`
	Mids      map[string]float64 `json:"mids"`
	Orders    int                `json:"orders"`
	Fills     int                `json:"fills"`
	Positions map[string]int     `json:"positions"`
	Equity    float64            `json:"equity"`
}

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		bootLog := util.NewLogger("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	hub := telemetry.NewHub(log)
	if cfg.App.TelemetryAddr != "" {
		_ = telemetry.Serve(hub, cfg.App.TelemetryAddr)
		log.Info().Str("addr", cfg.App.TelemetryAddr).Msg("telemetry up")
	}

	mids := make(map[string]float64, len(cfg.Products))
	limits := make(map[string]int, len(cfg.Products))
	for sym, p := range cfg.Products {
		mid := 1000.0
		if p.FairValue != nil {
			mid = *p.FairValue
		}
		mids[sym] = mid
		limits[sym] = p.PositionLimit
	}

	exchange := sim.New(cfg.Sim.Seed, mids, limits)
	eng := engine.New(cfg, log)
	exec := execution.NewExecutor(log)
	account := paper.NewAccount(0, limits)
	ledger := paper.NewLedger(cfg.Sim.Ticks)

	var recorder *paper.JSONLRecorder
	if path := os.Getenv("FILLS_PATH"); path != "" {
		recorder, err = paper.NewJSONLRecorder(path)
		if err != nil {
			log.Fatal().Err(err).Msg("open fills recorder")
		}
		defer recorder.Close()
	}

	ticks := cfg.Sim.Ticks
	if ticks <= 0 {
		ticks = 1000
	}
	log.Info().Int("ticks", ticks).Int64("seed", cfg.Sim.Seed).Msg("paper run started")

	blob := ""
	for i := 0; i < ticks; i++ {
		input := exchange.Snapshot(blob)
		result := eng.Run(input)
		blob = result.StateBlob

		submitted := 0
		for _, orders := range result.Orders {
			for _, order := range orders {
				exec.Submit(exchange.Tick(), order)
				submitted++
			}
		}

		fills := exchange.Execute(result.Orders)
		for _, fill := range fills {
			if err := account.Apply(fill); err != nil {
				log.Warn().Err(err).Str("sym", fill.Symbol).Msg("fill rejected by account")
				continue
			}
			ledger.Record(fill)
			if recorder != nil {
				recorder.Record(fill)
			}
		}

		snap := account.Snapshot(exchange.Mids())
		update := tickUpdate{
			Tick:      i,
			Mids:      exchange.Mids(),
			Orders:    submitted,
			Fills:     len(fills),
			Positions: account.Positions(),
			Equity:    snap.Equity,
		}
		if payload, err := json.Marshal(update); err == nil {
			hub.Broadcast(payload)
		}
	}

	snap := account.Snapshot(exchange.Mids())
	log.Info().
		Int("fills", len(ledger.Snapshot())).
		Float64("realized_pnl", snap.RealizedPnL).
		Float64("equity", snap.Equity).
		Msg("paper run finished")
	for sym, vol := range ledger.VolumeBySymbol() {
		log.Info().Str("sym", sym).Int("volume", vol).Int("position", account.Position(sym)).Msg("symbol summary")
	}
}
