package config

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConfigMetrics_RecordsPerField(t *testing.T) {
	metrics := NewConfigMetrics("test_per_field")

	metrics.RecordLoadTimestamp()
	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("timezone")
	metrics.RecordFallback("timezone", "default")
	metrics.SetFallbackActive("timezone", true)

	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
	assert.Equal(t, float64(2),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
}

func TestConfigMetrics_FallbackActiveToggles(t *testing.T) {
	metrics := NewConfigMetrics("test_toggle")

	metrics.SetFallbackActive("any", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))

	metrics.SetFallbackActive("any", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}

func TestConfigMetrics_DistinctComponents(t *testing.T) {
	worker := NewConfigMetrics("test_worker_component")
	fetcher := NewConfigMetrics("test_fetcher_component")

	assert.NotSame(t, worker.LoadTimestamp, fetcher.LoadTimestamp)
	worker.RecordLoadTimestamp()
	fetcher.RecordLoadTimestamp()
}

func TestConfigMetrics_ConcurrentRecording(t *testing.T) {
	metrics := NewConfigMetrics("test_concurrent")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordValidationError("field")
			metrics.RecordFallback("field", "default")
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(10),
		testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("field")))
	assert.Equal(t, float64(10),
		testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("field")))
}
