package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"glassclass/models"

	"go.uber.org/zap"
)

const (
	ReasonRequired = "This field is required."
	ReasonNumber   = "Enter a number."
)

// FieldErrors maps a measurement name to the reason it was rejected.
type FieldErrors map[string]string

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// InputValidator turns raw request values into Measurements. It only checks
// that each value is a finite number; physically implausible values are left
// for the model to judge.
type InputValidator struct {
	logger *zap.Logger
}

func NewInputValidator(logger *zap.Logger) *InputValidator {
	return &InputValidator{logger: logger}
}

func (v *InputValidator) Validate(raw map[string]string) (models.Measurements, FieldErrors) {
	var m models.Measurements
	errs := FieldErrors{}

	for _, field := range models.FieldNames {
		value := strings.TrimSpace(raw[field])
		if value == "" {
			errs[field] = ReasonRequired
			continue
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			errs[field] = ReasonNumber
			continue
		}
		m.Set(field, parsed)
	}

	if len(errs) > 0 {
		v.logger.Warn("input validation failed",
			zap.Strings("fields", errs.Fields()),
			zap.Any("errors", map[string]string(errs)))
		return models.Measurements{}, errs
	}
	return m, nil
}

// RawFromJSON renders decoded JSON values back to strings so JSON input goes
// through the same validation as form input. Values that are neither numbers
// nor strings are kept in printed form and fail validation there.
func RawFromJSON(body map[string]any) map[string]string {
	raw := make(map[string]string, len(models.FieldNames))
	for _, name := range models.FieldNames {
		switch v := body[name].(type) {
		case nil:
		case float64:
			raw[name] = strconv.FormatFloat(v, 'g', -1, 64)
		case string:
			raw[name] = v
		default:
			raw[name] = fmt.Sprint(v)
		}
	}
	return raw
}
