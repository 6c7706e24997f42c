package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderplanner_predictions_total",
		Help: "Total number of scenario predictions served, by demand level.",
	}, []string{"demand_level"})
	predictionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderplanner_predictions_rejected_total",
		Help: "Total number of prediction requests rejected as invalid.",
	})
	recommendedStaff = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderplanner_recommended_staff",
		Help:    "Recommended worker count per served prediction.",
		Buckets: []float64{1, 2, 4, 6, 8, 12, 20},
	})
)
