package models

import (
	"context"
	"math"

	"github.com/YHzed/heac-go/pkg/features"
	"github.com/YHzed/heac-go/pkg/logging"
)

// Proxy default values used when a proxy model is absent or fails. The
// engine degrades rather than discarding the trial, matching the physics
// of a typical FCC transition-metal binder.
const (
	DefaultFormationEnergy = -0.5 // eV/atom
	DefaultLatticeParam    = 3.6  // Å
	DefaultMagneticMoment  = -0.5 // μB/atom
)

// ProxyEnsemble bundles the physics proxy predictors whose outputs are
// inputs to the property surrogates. Any of the three may be nil; a nil
// or failing proxy falls back to its default value.
type ProxyEnsemble struct {
	FormationEnergy Predictor
	Lattice         Predictor
	MagneticMoment  Predictor

	// latticeIsVolume marks a lattice proxy trained on cell volume
	// rather than the lattice constant; the ensemble converts via
	// a = (4V)^(1/3) for an FCC cell.
	latticeIsVolume bool
}

// ProxyOption configures a ProxyEnsemble.
type ProxyOption func(*ProxyEnsemble)

// WithVolumeLattice declares that the lattice proxy predicts cell volume.
func WithVolumeLattice() ProxyOption {
	return func(e *ProxyEnsemble) {
		e.latticeIsVolume = true
	}
}

// NewProxyEnsemble builds an ensemble from individual proxies.
func NewProxyEnsemble(formation, lattice, moment Predictor, opts ...ProxyOption) *ProxyEnsemble {
	e := &ProxyEnsemble{
		FormationEnergy: formation,
		Lattice:         lattice,
		MagneticMoment:  moment,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PredictAll runs every proxy and returns the combined feature additions
// keyed by the proxy feature names. Failures degrade to defaults; they
// are logged but never fail the trial.
func (e *ProxyEnsemble) PredictAll(ctx context.Context, feats map[string]float64) map[string]float64 {
	logger := logging.GetLogger()
	out := make(map[string]float64, 3)

	out[features.KeyProxyFormationEnergy] = e.predictOr(ctx, logger, e.FormationEnergy, feats, DefaultFormationEnergy)

	lattice := e.predictOr(ctx, logger, e.Lattice, feats, DefaultLatticeParam)
	if e.latticeIsVolume && e.Lattice != nil {
		lattice = math.Cbrt(4 * lattice)
	}
	out[features.KeyProxyLatticeParam] = lattice

	out[features.KeyProxyMagneticMoment] = e.predictOr(ctx, logger, e.MagneticMoment, feats, DefaultMagneticMoment)
	return out
}

func (e *ProxyEnsemble) predictOr(ctx context.Context, logger *logging.Logger, p Predictor, feats map[string]float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	v, err := p.Predict(feats)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		logger.Warn(ctx, "proxy %s failed, using default %.3f: %v", p.Name(), fallback, err)
		return fallback
	}
	return v
}

// NewDefaultProxyEnsemble returns empirical stand-ins for the trained
// proxy models: coarse fits over binder elemental statistics, good enough
// to exercise the full feature chain when no model files are loaded.
func NewDefaultProxyEnsemble() *ProxyEnsemble {
	formation := PredictorFunc{
		ModelName: "empirical-formation-energy",
		Required:  []string{features.KeyBinderFracDValence, features.KeyBinderAvgDevNdUnfilled},
		Fn: func(f map[string]float64) (float64, error) {
			// Mixing enthalpy grows mildly with d-band filling and
			// configurational spread.
			return -0.9 + 0.5*f[features.KeyBinderFracDValence] + 0.05*f[features.KeyBinderAvgDevNdUnfilled], nil
		},
	}
	lattice := PredictorFunc{
		ModelName: "empirical-lattice",
		Required:  []string{features.KeyBinderFracDValence},
		Fn: func(f map[string]float64) (float64, error) {
			// FCC binder constants cluster near 3.55-3.65 Å.
			return 3.52 + 0.12*f[features.KeyBinderFracDValence], nil
		},
	}
	moment := PredictorFunc{
		ModelName: "empirical-moment",
		Required:  []string{features.KeyCompositeMeanGSMagMom},
		Fn: func(f map[string]float64) (float64, error) {
			return f[features.KeyCompositeMeanGSMagMom] - 0.6, nil
		},
	}
	return NewProxyEnsemble(formation, lattice, moment)
}
