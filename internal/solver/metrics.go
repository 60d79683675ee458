package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codebreaker_solver_rounds_total",
		Help: "Guesses made by the solver",
	})

	roundDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codebreaker_solver_round_duration_seconds",
		Help:    "Time to score the guess pool and narrow the remaining set",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})

	solvesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codebreaker_solver_solves_total",
		Help: "Completed solves",
	})

	solveAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codebreaker_solver_attempts",
		Help:    "Guesses needed per completed solve",
		Buckets: prometheus.LinearBuckets(1, 1, 12),
	})
)
