package evaluate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "codebreaker_evaluation_duration_seconds",
	Help:    "Wall time of a full batch evaluation",
	Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
})
