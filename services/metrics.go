package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glassclass_predictions_total",
		Help: "Total number of successful predictions, by classification.",
	}, []string{"classification"})
	predictionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glassclass_predictions_rejected_total",
		Help: "Total number of prediction requests rejected before storage, by reason.",
	}, []string{"reason"})
	recordsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassclass_records_stored_total",
		Help: "Total number of prediction records written.",
	})
	recordsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassclass_records_published_total",
		Help: "Total number of prediction records published to Redis.",
	})
	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glassclass_prediction_duration_seconds",
		Help:    "Duration of a full prediction, from validation to storage.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})
)

const (
	rejectUnavailable = "unavailable"
	rejectValidation  = "validation"
	rejectModel       = "model_error"
	rejectStorage     = "storage_error"
)
