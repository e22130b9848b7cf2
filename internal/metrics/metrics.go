package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Count of product snapshots processed"},
		[]string{"symbol"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders emitted by the engine"},
		[]string{"symbol", "side"},
	)
	SignalsSuppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_suppressed_total", Help: "Signals that sized to zero or lacked data"},
		[]string{"symbol", "reason"},
	)
	FairValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "fair_value", Help: "Latest fair value estimate per product"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, OrdersTotal, SignalsSuppressedTotal, FairValue)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
