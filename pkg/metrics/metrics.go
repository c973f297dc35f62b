// Package metrics exposes Prometheus counters for uploads, engine runs and
// background sweeps.
package metrics

import (
	"net/http"
	"time"

	"carbontrace/pkg/runner"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carbontrace"

var (
	// analysisRuns counts lifecycle transitions by action and result
	analysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_runs_total",
		Help:      "Analysis runs by action and result",
	}, []string{"action", "result"})

	// analysisDuration tracks wall time of one run including persistence
	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Analysis run duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17m
	}, []string{"action"})

	// engineFailures counts engine failures by execution error kind
	engineFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engine_failures_total",
		Help:      "Analysis engine failures by kind",
	}, []string{"kind"})

	// uploads counts trace uploads by result
	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Trace uploads by result",
	}, []string{"result"})

	// queuePending analyses waiting in the async queue, refreshed by a background job
	queuePending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_pending",
		Help:      "Analyses waiting in the async queue",
	})

	// sweptUploads counts orphaned upload files removed by the sweep job
	sweptUploads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_sweep_removed_total",
		Help:      "Orphaned upload files removed",
	})
)

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ObserveAnalysis records one analyze or execute run that started at start
func ObserveAnalysis(action string, start time.Time, err error) {
	analysisRuns.WithLabelValues(action, result(err)).Inc()
	analysisDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	if execErr, ok := runner.AsExecutionError(err); ok {
		engineFailures.WithLabelValues(string(execErr.Kind)).Inc()
	}
}

// ObserveUpload records one upload attempt
func ObserveUpload(err error) {
	uploads.WithLabelValues(result(err)).Inc()
}

// AddSweptUploads records files removed by one sweep
func AddSweptUploads(n int) {
	if n > 0 {
		sweptUploads.Add(float64(n))
	}
}

// SetQueuePending records the current queue backlog
func SetQueuePending(n int) {
	queuePending.Set(float64(n))
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
