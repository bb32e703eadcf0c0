// Package ml owns the pre-trained scaler and classifier used to predict glass types.
package ml

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// FeatureCount is the length of every vector passed to the scaler and classifier.
const FeatureCount = 9

var (
	ErrModelUnavailable = errors.New("prediction model is unavailable")
	ErrDimension        = errors.New("feature vector has the wrong dimension")
)

// Predictor is the read-only view of the model artifacts that request handling depends on.
type Predictor interface {
	Ready() bool
	Transform(features []float64) ([]float64, error)
	Predict(scaled []float64) (int, error)
}

// ModelStore holds both artifacts, or neither. It is loaded once and never mutated,
// so any number of requests may use it concurrently.
type ModelStore struct {
	scaler     *Scaler
	classifier Classifier
	err        error
}

// Load reads both artifacts. Failures are recorded and logged rather than returned:
// the process keeps serving and every prediction reports ErrModelUnavailable.
func Load(scalerPath, classifierPath string, logger *zap.Logger) *ModelStore {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return unavailable(fmt.Errorf("load scaler: %w", err), logger)
	}
	classifier, err := LoadClassifier(classifierPath)
	if err != nil {
		return unavailable(fmt.Errorf("load classifier: %w", err), logger)
	}
	logger.Info("model artifacts loaded",
		zap.String("scaler", scalerPath),
		zap.String("scaler_kind", scaler.Kind),
		zap.String("classifier", classifierPath))
	return &ModelStore{scaler: scaler, classifier: classifier}
}

// NewModelStore wraps already-built artifacts.
func NewModelStore(scaler *Scaler, classifier Classifier) *ModelStore {
	if scaler == nil || classifier == nil {
		return &ModelStore{err: ErrModelUnavailable}
	}
	return &ModelStore{scaler: scaler, classifier: classifier}
}

func unavailable(err error, logger *zap.Logger) *ModelStore {
	logger.Error("model artifacts unavailable, predictions disabled", zap.Error(err))
	return &ModelStore{err: err}
}

func (s *ModelStore) Ready() bool {
	return s != nil && s.scaler != nil && s.classifier != nil
}

// Err returns the load failure, if any.
func (s *ModelStore) Err() error {
	if s == nil {
		return ErrModelUnavailable
	}
	return s.err
}

func (s *ModelStore) Transform(features []float64) ([]float64, error) {
	if !s.Ready() {
		return nil, ErrModelUnavailable
	}
	return s.scaler.Transform(features)
}

func (s *ModelStore) Predict(scaled []float64) (int, error) {
	if !s.Ready() {
		return 0, ErrModelUnavailable
	}
	return s.classifier.Predict(scaled)
}
