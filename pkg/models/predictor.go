// Package models defines the surrogate predictor contract consumed by the
// evaluation gateway, plus the proxy-model ensemble whose outputs feed the
// property surrogates as inputs. Trained models from any source can be
// plugged in by implementing Predictor; the package also ships small
// empirical reference models so the engine runs end to end without
// external model files.
package models

import (
	"math"

	"github.com/YHzed/heac-go/pkg/errors"
)

// Predictor is an opaque, side-effect-free function from a feature map to
// a scalar property value, with a fixed declared input contract.
type Predictor interface {
	// Name identifies the predictor in logs and errors.
	Name() string

	// RequiredFeatures lists the feature keys the predictor needs. A
	// missing key at prediction time is a contract violation.
	RequiredFeatures() []string

	// Predict computes the property value from features.
	Predict(features map[string]float64) (float64, error)
}

// CheckContract verifies every required feature key is present and finite.
func CheckContract(p Predictor, features map[string]float64) error {
	for _, key := range p.RequiredFeatures() {
		v, ok := features[key]
		if !ok {
			return errors.WithFields(
				errors.New(errors.PredictionFailed, "missing required feature"),
				errors.Fields{"predictor": p.Name(), "feature": key})
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.WithFields(
				errors.New(errors.PredictionFailed, "non-finite feature value"),
				errors.Fields{"predictor": p.Name(), "feature": key, "value": v})
		}
	}
	return nil
}

// PredictorFunc adapts a plain function into a Predictor.
type PredictorFunc struct {
	ModelName string
	Required  []string
	Fn        func(features map[string]float64) (float64, error)
}

func (p PredictorFunc) Name() string               { return p.ModelName }
func (p PredictorFunc) RequiredFeatures() []string { return p.Required }
func (p PredictorFunc) Predict(features map[string]float64) (float64, error) {
	if err := CheckContract(p, features); err != nil {
		return 0, err
	}
	return p.Fn(features)
}
