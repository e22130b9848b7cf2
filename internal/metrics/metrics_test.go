package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve(":0")
	defer srv.Close()

	TicksTotal.WithLabelValues("KELP").Inc()
	OrdersTotal.WithLabelValues("KELP", "BUY").Inc()
	SignalsSuppressedTotal.WithLabelValues("KELP", "sized_to_zero").Inc()
	FairValue.WithLabelValues("KELP").Set(2000)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	want := map[string]bool{
		"ticks_total":              false,
		"orders_total":             false,
		"signals_suppressed_total": false,
		"fair_value":               false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("%s metric not found", name)
		}
	}
}
