package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("/api/v1/products", "get", 200, 25*time.Millisecond)
	m.ObserveRequest("/api/v1/products", "GET", 200, 40*time.Millisecond)
	m.ObserveRequest("", "POST", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/products", "GET", "200")); got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("unknown", "POST", "500")); got != 1 {
		t.Fatalf("expected blank route to normalize to unknown, got %v", got)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("/x", "GET", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("/x", "GET", 200, time.Millisecond)
}
