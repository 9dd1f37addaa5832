package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationsTotal counts lifecycle operations by name and outcome.
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifeboard_operations_total",
		Help: "Board lifecycle operations by operation and result",
	}, []string{"operation", "result"})

	// generationsTotal counts successor boards computed by the engine.
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lifeboard_generations_total",
		Help: "Generations computed across all boards",
	})

	// finalStateTotal counts final-state searches by termination reason.
	finalStateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifeboard_final_state_total",
		Help: "Final-state searches by termination reason",
	}, []string{"reason"})

	// finalStateSteps tracks how many steps a converging search took.
	finalStateSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifeboard_final_state_steps",
		Help:    "Steps taken by final-state searches that converged",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = Code(err)
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
