package ml

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
)

const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Scaler is a fitted feature transformation exported from the training side.
// standard: (x - mean) / scale. minmax: x*scale + min.
type Scaler struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Scale []float64 `json:"scale"`
}

func LoadScaler(path string) (*Scaler, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scaler
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode scaler %s: %w", path, err)
	}
	if err := s.validate(FeatureCount); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scaler) validate(n int) error {
	if len(s.Scale) != n {
		return fmt.Errorf("scale has %d entries, want %d", len(s.Scale), n)
	}
	switch s.Kind {
	case ScalerStandard:
		if len(s.Mean) != n {
			return fmt.Errorf("mean has %d entries, want %d", len(s.Mean), n)
		}
	case ScalerMinMax:
		if len(s.Min) != n {
			return fmt.Errorf("min has %d entries, want %d", len(s.Min), n)
		}
	default:
		return fmt.Errorf("unsupported scaler kind %q", s.Kind)
	}
	return nil
}

func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Scale) {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimension, len(x), len(s.Scale))
	}
	out := make([]float64, len(x))
	copy(out, x)

	switch s.Kind {
	case ScalerStandard:
		// A zero scale means the feature was constant during fitting.
		scale := make([]float64, len(s.Scale))
		for i, v := range s.Scale {
			if v == 0 {
				v = 1
			}
			scale[i] = v
		}
		floats.Sub(out, s.Mean)
		floats.Div(out, scale)
	case ScalerMinMax:
		floats.Mul(out, s.Scale)
		floats.Add(out, s.Min)
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", s.Kind)
	}
	return out, nil
}
