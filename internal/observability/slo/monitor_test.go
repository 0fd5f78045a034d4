package slo

import (
	"log/slog"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// testRegistry builds a registry carrying the serving metric families the
// monitor reads, populated with a known request mix.
func testRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: requestsFamily,
		Help: "test requests",
	}, []string{"method", "path", "status"})
	reg.MustRegister(requests)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    durationFamily,
		Help:    "test durations",
		Buckets: []float64{0.1, 0.5, 1.0},
	}, []string{"method", "path", "status"})
	reg.MustRegister(duration)

	// 90 fast successes, 8 slow successes, 2 server errors.
	for range 90 {
		requests.WithLabelValues("GET", "/anime", "200").Inc()
		duration.WithLabelValues("GET", "/anime", "200").Observe(0.05)
	}
	for range 8 {
		requests.WithLabelValues("GET", "/anime", "200").Inc()
		duration.WithLabelValues("GET", "/anime", "200").Observe(0.3)
	}
	for range 2 {
		requests.WithLabelValues("GET", "/anime", "500").Inc()
		duration.WithLabelValues("GET", "/anime", "500").Observe(0.8)
	}
	return reg
}

func TestMonitorUpdateDerivesGaugesFromRegistry(t *testing.T) {
	reg := testRegistry(t)
	monitor := NewMonitor(reg, DefaultInterval, slog.Default())

	if err := monitor.update(); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := gaugeValue(t, SLOAvailability); math.Abs(got-0.98) > 1e-9 {
		t.Errorf("availability = %v, want 0.98", got)
	}
	if got := gaugeValue(t, SLOErrorRate); math.Abs(got-0.02) > 1e-9 {
		t.Errorf("error rate = %v, want 0.02", got)
	}

	// p95 lands at rank 95 of 100: inside the (0.1, 0.5] bucket.
	p95 := gaugeValue(t, SLOLatencyP95)
	if p95 <= 0.1 || p95 > 0.5 {
		t.Errorf("p95 = %v, want within (0.1, 0.5]", p95)
	}
	// p99 lands at rank 99 of 100: inside the (0.5, 1.0] bucket.
	p99 := gaugeValue(t, SLOLatencyP99)
	if p99 <= 0.5 || p99 > 1.0 {
		t.Errorf("p99 = %v, want within (0.5, 1.0]", p99)
	}
}

func TestMonitorUpdateSkipsGaugesWithoutTraffic(t *testing.T) {
	UpdateAvailability(0.5)
	UpdateErrorRate(0.5)

	monitor := NewMonitor(prometheus.NewRegistry(), DefaultInterval, slog.Default())
	if err := monitor.update(); err != nil {
		t.Fatalf("update: %v", err)
	}

	// An empty registry must not zero out the gauges.
	if got := gaugeValue(t, SLOAvailability); got != 0.5 {
		t.Errorf("availability = %v, want untouched 0.5", got)
	}
	if got := gaugeValue(t, SLOErrorRate); got != 0.5 {
		t.Errorf("error rate = %v, want untouched 0.5", got)
	}
}

func TestHistogramQuantileInterpolates(t *testing.T) {
	h := histogram{
		bounds: []float64{0.1, 0.5, 1.0, math.Inf(1)},
		counts: []uint64{50, 90, 100, 100},
		count:  100,
	}

	// Rank 50 sits exactly at the first bound.
	if got := h.quantile(0.5); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("quantile(0.5) = %v, want 0.1", got)
	}
	// Rank 95 is halfway through the 10 samples in (0.5, 1.0].
	want := 0.5 + (1.0-0.5)*(95.0-90.0)/10.0
	if got := h.quantile(0.95); math.Abs(got-want) > 1e-9 {
		t.Errorf("quantile(0.95) = %v, want %v", got, want)
	}
}

func TestHistogramQuantileInfBucketFallsBackToHighestBound(t *testing.T) {
	h := histogram{
		bounds: []float64{0.1, math.Inf(1)},
		counts: []uint64{10, 100},
		count:  100,
	}
	if got := h.quantile(0.99); got != 0.1 {
		t.Errorf("quantile(0.99) = %v, want 0.1", got)
	}
}
