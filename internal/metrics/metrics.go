package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduleadvisor",
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock duration of solver backend invocations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "status"})

	generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduleadvisor",
		Name:      "generations_total",
		Help:      "Schedule generation outcomes.",
	}, []string{"outcome"})
)

// ObserveSolve records one solver backend invocation.
func ObserveSolve(backend, status string, elapsed time.Duration) {
	solveDuration.WithLabelValues(backend, status).Observe(elapsed.Seconds())
}

// CountGeneration records one generation outcome: a solver status, or
// "error" for backend faults.
func CountGeneration(outcome string) {
	generations.WithLabelValues(outcome).Inc()
}
