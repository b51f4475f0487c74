package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the contest counters. Passing a nil registerer builds
// unregistered collectors, which is what tests use.
type Metrics struct {
	UsersRegistered       prometheus.Counter
	PredictionsSubmitted  prometheus.Counter
	PredictionsRejected   *prometheus.CounterVec
	Recalculations        *prometheus.CounterVec
	PointsAwarded         prometheus.Counter
	RecalculationDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prono",
			Name:      "users_registered_total",
			Help:      "Users registered.",
		}),
		PredictionsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prono",
			Name:      "predictions_submitted_total",
			Help:      "Predictions accepted.",
		}),
		PredictionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prono",
			Name:      "predictions_rejected_total",
			Help:      "Predictions refused, by reason.",
		}, []string{"reason"}),
		Recalculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prono",
			Name:      "recalculations_total",
			Help:      "Match recalculations, by outcome.",
		}, []string{"outcome"}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "prono",
			Name:      "points_awarded_total",
			Help:      "Sum of points written by recalculations.",
		}),
		RecalculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "prono",
			Name:      "recalculation_duration_seconds",
			Help:      "Time spent recalculating one match.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMatchFinished):
		return "match_finished"
	case errors.Is(err, ErrPredictionsClosed):
		return "closed"
	case errors.Is(err, ErrUnknownScorer):
		return "unknown_scorer"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "duplicate"
	default:
		return "error"
	}
}
