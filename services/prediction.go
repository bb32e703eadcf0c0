package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glassclass/ml"
	"glassclass/models"

	"go.uber.org/zap"
)

var ErrSystemUnavailable = errors.New("system error: the prediction model is unavailable")

// ValidationError carries the per-field failures together with the submitted
// values so the form can be rendered again.
type ValidationError struct {
	Fields FieldErrors
	Input  map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type Outcome struct {
	ClassID        int
	Classification string
	Record         *models.PredictionRecord
}

type PredictionService struct {
	model     ml.Predictor
	validator *InputValidator
	records   *RecordStore
	cache     *CacheService
	logger    *zap.Logger
}

func NewPredictionService(model ml.Predictor, validator *InputValidator, records *RecordStore, cache *CacheService, logger *zap.Logger) *PredictionService {
	return &PredictionService{
		model:     model,
		validator: validator,
		records:   records,
		cache:     cache,
		logger:    logger,
	}
}

func (s *PredictionService) Ready() bool {
	return s.model != nil && s.model.Ready()
}

// Predict runs one request end to end. It returns ErrSystemUnavailable when the
// model artifacts are missing and *ValidationError for bad input; in both cases
// nothing is written. On success exactly one record is stored.
func (s *PredictionService) Predict(ctx context.Context, raw map[string]string) (*Outcome, error) {
	start := time.Now()

	if !s.Ready() {
		predictionsRejected.WithLabelValues(rejectUnavailable).Inc()
		return nil, ErrSystemUnavailable
	}

	measurements, fieldErrs := s.validator.Validate(raw)
	if len(fieldErrs) > 0 {
		predictionsRejected.WithLabelValues(rejectValidation).Inc()
		return nil, &ValidationError{Fields: fieldErrs, Input: raw}
	}

	scaled, err := s.model.Transform(measurements.Vector())
	if err != nil {
		predictionsRejected.WithLabelValues(rejectModel).Inc()
		return nil, s.modelFailure("transform", err)
	}
	classID, err := s.model.Predict(scaled)
	if err != nil {
		predictionsRejected.WithLabelValues(rejectModel).Inc()
		return nil, s.modelFailure("predict", err)
	}
	classification := ml.LabelFor(classID)

	record := models.NewPredictionRecord(measurements, classification)
	if err := s.records.Create(ctx, record); err != nil {
		predictionsRejected.WithLabelValues(rejectStorage).Inc()
		return nil, err
	}
	recordsStored.Inc()
	predictionsTotal.WithLabelValues(classification).Inc()
	predictionDuration.Observe(time.Since(start).Seconds())

	s.announce(ctx, record)

	s.logger.Info("prediction stored",
		zap.Uint("id", record.ID),
		zap.Int("class_id", classID),
		zap.String("classification", classification))

	return &Outcome{ClassID: classID, Classification: classification, Record: record}, nil
}

func (s *PredictionService) modelFailure(step string, err error) error {
	s.logger.Error("model "+step+" failed", zap.Error(err))
	if errors.Is(err, ml.ErrModelUnavailable) {
		return ErrSystemUnavailable
	}
	return fmt.Errorf("model %s: %w", step, err)
}

// announce drops the cached history and publishes the new record. Both are
// best effort; the record is already stored.
func (s *PredictionService) announce(ctx context.Context, record *models.PredictionRecord) {
	if !s.cache.Available() {
		return
	}
	if err := s.cache.InvalidateHistory(ctx); err != nil {
		s.logger.Warn("history cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.PublishRecord(ctx, record); err != nil {
		s.logger.Warn("prediction publish failed", zap.Uint("id", record.ID), zap.Error(err))
		return
	}
	recordsPublished.Inc()
}
