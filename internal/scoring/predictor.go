package scoring

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"socialimpact/internal/model"
)

// Predictor scores feature vectors with the model held by a ModelStore
type Predictor struct {
	store ModelStore

	mu         sync.Mutex
	encoder    *Encoder
	encoderFor Regressor
}

// NewPredictor wraps store
func NewPredictor(store ModelStore) *Predictor {
	return &Predictor{store: store}
}

func (p *Predictor) model() (Regressor, error) {
	reg, err := p.store.Get()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, &ModelLoadError{Err: errors.New("no model in store")}
	}
	return reg, nil
}

// Encoder returns the encoder for the loaded model's schema, built once per model instance
func (p *Predictor) Encoder() (*Encoder, error) {
	reg, err := p.model()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.encoder == nil || p.encoderFor != reg {
		p.encoder = NewEncoder(Schema(reg.Features()))
		p.encoderFor = reg
	}
	return p.encoder, nil
}

// Predict returns element 0 of the model output, unmodified
func (p *Predictor) Predict(v FeatureVector) (float64, error) {
	reg, err := p.model()
	if err != nil {
		return 0, err
	}

	features := reg.Features()
	row := make([]float64, len(features))
	for i, f := range features {
		val, ok := v.Get(f)
		if !ok {
			return 0, &InferenceError{Err: fmt.Errorf("shape mismatch: vector has no column %q", f)}
		}
		row[i] = val
	}
	if v.Len() != len(features) {
		return 0, &InferenceError{Err: fmt.Errorf("shape mismatch: model expects %d columns, vector has %d", len(features), v.Len())}
	}

	out, err := safePredict(reg, row)
	if err != nil {
		return 0, &InferenceError{Err: err}
	}
	if len(out) == 0 {
		return 0, &InferenceError{Err: errors.New("model returned no output")}
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return 0, &InferenceError{Err: fmt.Errorf("model returned non-finite score %v", out[0])}
	}
	return out[0], nil
}

// Score encodes a profile against the model schema and predicts it
func (p *Predictor) Score(profile model.UserProfile) (float64, FeatureVector, error) {
	enc, err := p.Encoder()
	if err != nil {
		return 0, FeatureVector{}, err
	}
	vec := enc.Encode(profile)
	score, err := p.Predict(vec)
	return score, vec, err
}

// safePredict turns a panicking model into an error
func safePredict(reg Regressor, row []float64) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return reg.Predict(row)
}
