// Package pareto implements the target-range fitness scoring and the
// non-dominated archive that drive the inverse design search.
package pareto

import (
	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
)

// Objectives holds the raw predicted properties of one candidate.
type Objectives struct {
	HV  float64 `json:"hv"`  // Vickers hardness
	KIC float64 `json:"kic"` // fracture toughness, MPa·m^1/2
}

// Targets is the caller's acceptable interval per objective.
type Targets struct {
	HV  materials.Bounds `yaml:"hv"`
	KIC materials.Bounds `yaml:"kic"`
}

// CheckWellFormed rejects empty or inverted target ranges before a run
// starts.
func (t Targets) CheckWellFormed() error {
	for name, b := range map[string]materials.Bounds{"hv": t.HV, "kic": t.KIC} {
		if b.Width() <= 0 {
			return errors.WithFields(
				errors.New(errors.ContractViolation, "target range must have positive width"),
				errors.Fields{"objective": name, "lo": b.Lo, "hi": b.Hi})
		}
	}
	return nil
}

// Score maps a predicted value onto the target range [lo, hi]: zero
// inside the range (best), strictly negative outside, scaled by the range
// width so objectives in different units compare.
func Score(value float64, target materials.Bounds) float64 {
	switch {
	case value < target.Lo:
		return -(target.Lo - value) / target.Width()
	case value > target.Hi:
		return -(value - target.Hi) / target.Width()
	default:
		return 0
	}
}

// ScoreVector is the per-objective target-range score of a candidate.
type ScoreVector struct {
	HV  float64 `json:"hv"`
	KIC float64 `json:"kic"`
}

// NewScoreVector scores raw objectives against the targets.
func NewScoreVector(obj Objectives, targets Targets) ScoreVector {
	return ScoreVector{
		HV:  Score(obj.HV, targets.HV),
		KIC: Score(obj.KIC, targets.KIC),
	}
}

// Dominates reports whether s is no worse than other in both objectives
// and strictly better in at least one. Equal vectors are mutually
// non-dominating.
func (s ScoreVector) Dominates(other ScoreVector) bool {
	if s.HV < other.HV || s.KIC < other.KIC {
		return false
	}
	return s.HV > other.HV || s.KIC > other.KIC
}

// FullySatisfying reports whether both objectives sit inside their target
// ranges.
func (s ScoreVector) FullySatisfying() bool {
	return s.HV == 0 && s.KIC == 0
}

// Sum returns the total (non-positive) score, used to order partial
// solutions least-bad first.
func (s ScoreVector) Sum() float64 {
	return s.HV + s.KIC
}
