package slo

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metric families the monitor reads from the registry. They are produced
// by the HTTP metrics middleware.
const (
	requestsFamily = "http_requests_total"
	durationFamily = "http_request_duration_seconds"
)

// DefaultInterval is how often the monitor recomputes the gauges.
const DefaultInterval = time.Minute

// Monitor periodically derives the SLO gauges from the serving metric
// families already collected in a Prometheus registry. The numbers are
// cumulative since process start, not a sliding window.
type Monitor struct {
	gatherer prometheus.Gatherer
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor returns a monitor reading from g every interval.
func NewMonitor(g prometheus.Gatherer, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{gatherer: g, interval: interval, logger: logger}
}

// Run recomputes the gauges on each tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.update(); err != nil {
				m.logger.Warn("slo gauge update failed", slog.Any("error", err))
			}
		}
	}
}

func (m *Monitor) update() error {
	families, err := m.gatherer.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		switch family.GetName() {
		case requestsFamily:
			total, errored := sumRequests(family)
			if total > 0 {
				UpdateAvailability((total - errored) / total)
				UpdateErrorRate(errored / total)
			}
		case durationFamily:
			hist := mergeHistogram(family)
			if hist.count > 0 {
				UpdateLatencyP95(hist.quantile(0.95))
				UpdateLatencyP99(hist.quantile(0.99))
			}
		}
	}
	return nil
}

// sumRequests totals the request counter across all label sets and
// returns the overall count and the 5xx count.
func sumRequests(family *dto.MetricFamily) (total, errored float64) {
	for _, metric := range family.GetMetric() {
		value := metric.GetCounter().GetValue()
		total += value
		for _, label := range metric.GetLabel() {
			if label.GetName() == "status" && len(label.GetValue()) > 0 && label.GetValue()[0] == '5' {
				errored += value
			}
		}
	}
	return total, errored
}

// histogram is a duration histogram merged across label sets. Bounds are
// sorted ascending; counts are cumulative, matching Prometheus buckets.
type histogram struct {
	bounds []float64
	counts []uint64
	count  uint64
}

func mergeHistogram(family *dto.MetricFamily) histogram {
	byBound := make(map[float64]uint64)
	var total uint64
	for _, metric := range family.GetMetric() {
		h := metric.GetHistogram()
		total += h.GetSampleCount()
		for _, bucket := range h.GetBucket() {
			byBound[bucket.GetUpperBound()] += bucket.GetCumulativeCount()
		}
	}

	merged := histogram{count: total}
	for bound := range byBound {
		merged.bounds = append(merged.bounds, bound)
	}
	sort.Float64s(merged.bounds)
	merged.counts = make([]uint64, len(merged.bounds))
	for i, bound := range merged.bounds {
		merged.counts[i] = byBound[bound]
	}
	return merged
}

// quantile estimates the q-th quantile with linear interpolation inside
// the bucket that contains the target rank, the same estimate
// histogram_quantile produces in PromQL.
func (h histogram) quantile(q float64) float64 {
	if h.count == 0 || len(h.bounds) == 0 {
		return 0
	}
	rank := q * float64(h.count)

	var prevCount uint64
	var prevBound float64
	for i, bound := range h.bounds {
		cumulative := h.counts[i]
		if float64(cumulative) >= rank {
			// Target rank in the +Inf bucket; the highest finite bound
			// is the best estimate available.
			if math.IsInf(bound, 1) {
				return prevBound
			}
			inBucket := cumulative - prevCount
			if inBucket == 0 {
				return bound
			}
			frac := (rank - float64(prevCount)) / float64(inBucket)
			return prevBound + (bound-prevBound)*frac
		}
		prevCount = cumulative
		prevBound = bound
	}
	return prevBound
}
