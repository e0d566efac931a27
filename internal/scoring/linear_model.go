package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Regressor is a trained model. Implementations must be safe for concurrent
// Predict calls once constructed.
type Regressor interface {
	// Features is the ordered input schema
	Features() []string
	// Predict scores one row laid out in Features order
	Predict(row []float64) ([]float64, error)
}

const kindLinear = "linear"

// artifact is the on-disk layout of a model file
type artifact struct {
	Kind      string            `yaml:"kind"`
	Name      string            `yaml:"name"`
	Intercept float64           `yaml:"intercept"`
	Features  []artifactFeature `yaml:"features"`
}

type artifactFeature struct {
	Name        string  `yaml:"name"`
	Coefficient float64 `yaml:"coefficient"`
}

// LinearModel is intercept + Σ coefficient·x
type LinearModel struct {
	name         string
	intercept    float64
	features     []string
	coefficients []float64
}

// NewLinearModel builds a model in memory; features and coefficients are parallel
func NewLinearModel(name string, intercept float64, features []string, coefficients []float64) (*LinearModel, error) {
	if len(features) == 0 {
		return nil, errors.New("model has no features")
	}
	if len(features) != len(coefficients) {
		return nil, fmt.Errorf("%d features but %d coefficients", len(features), len(coefficients))
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, errors.New("intercept is not finite")
	}
	seen := make(map[string]struct{}, len(features))
	for i, f := range features {
		if f == "" {
			return nil, fmt.Errorf("feature %d has no name", i)
		}
		if _, dup := seen[f]; dup {
			return nil, fmt.Errorf("duplicate feature %q", f)
		}
		seen[f] = struct{}{}
		if c := coefficients[i]; math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient for %q is not finite", f)
		}
	}
	return &LinearModel{
		name:         name,
		intercept:    intercept,
		features:     append([]string(nil), features...),
		coefficients: append([]float64(nil), coefficients...),
	}, nil
}

func (m *LinearModel) Name() string { return m.name }

func (m *LinearModel) Features() []string {
	return append([]string(nil), m.features...)
}

func (m *LinearModel) Predict(row []float64) ([]float64, error) {
	if len(row) != len(m.coefficients) {
		return nil, fmt.Errorf("shape mismatch: expected %d columns, got %d", len(m.coefficients), len(row))
	}
	y := m.intercept
	for i, x := range row {
		y += m.coefficients[i] * x
	}
	return []float64{y}, nil
}

// LoadModel reads a serialized model artifact from path
func LoadModel(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	reg, err := ParseModel(data)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return reg, nil
}

// ParseModel decodes an artifact held in memory
func ParseModel(data []byte) (Regressor, error) {
	var a artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Kind != kindLinear {
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
	names := make([]string, len(a.Features))
	coefs := make([]float64, len(a.Features))
	for i, f := range a.Features {
		names[i] = f.Name
		coefs[i] = f.Coefficient
	}
	return NewLinearModel(a.Name, a.Intercept, names, coefs)
}
