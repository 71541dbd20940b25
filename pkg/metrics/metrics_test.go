package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("resolving counter: %v", err)
	}
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveCountsByStatusClass(t *testing.T) {
	m := NewRequestMetrics()

	m.Observe("GET", "/api/v1/quotes", 200, 10*time.Millisecond)
	m.Observe("GET", "/api/v1/quotes", 200, 20*time.Millisecond)
	m.Observe("PATCH", "/api/v1/quotes/{quoteId}", 422, time.Millisecond)

	if got := counterValue(t, m.total, "GET", "/api/v1/quotes", "2xx"); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := counterValue(t, m.total, "PATCH", "/api/v1/quotes/{quoteId}", "4xx"); got != 1 {
		t.Fatalf("expected 1 rejected request, got %v", got)
	}
}

func TestObserveOnNilReceiverIsSafe(t *testing.T) {
	var m *RequestMetrics
	m.Observe("GET", "/", 200, time.Millisecond)
}

func TestNormalizeLabel(t *testing.T) {
	if normalizeLabel("") != "unknown" {
		t.Fatal("empty route should normalize")
	}
}
