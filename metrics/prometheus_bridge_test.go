package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRegistryCollectorEmitsGauges(t *testing.T) {
	reg := NewRegistry()
	reg.Gauge("blockchain.height").Set(42)

	collector := NewRegistryCollector(reg)
	ch := make(chan prometheus.Metric, 8)
	collector.Collect(ch)
	close(ch)

	var found bool
	for m := range ch {
		var out dto.Metric
		if err := m.Write(&out); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if out.GetGauge().GetValue() == 42 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a gauge metric with value 42")
	}
}
