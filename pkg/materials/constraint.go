package materials

import (
	"math"
	"math/rand"

	"github.com/YHzed/heac-go/pkg/errors"
)

// Bounds is a closed numeric interval [Lo, Hi].
type Bounds struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lo && v <= b.Hi
}

// Width returns Hi - Lo.
func (b Bounds) Width() float64 { return b.Hi - b.Lo }

// Center returns the interval midpoint.
func (b Bounds) Center() float64 { return (b.Lo + b.Hi) / 2 }

// logFracBounds is the log10 range raw binder fractions are drawn from
// before normalization. Sampling in log space explores minor-element
// compositions far better than a flat draw would.
var logFracBounds = Bounds{Lo: -3, Hi: 0}

// ConstraintSpace declares the legal search region: which binder elements
// may appear, per-element fraction bounds, the ceramic weight-fraction
// window, and the admissible process ranges. It is read-only during a run.
type ConstraintSpace struct {
	Ceramic       CeramicPhase      `yaml:"ceramic"`
	Elements      []string          `yaml:"elements"`
	ElementBounds map[string]Bounds `yaml:"element_bounds,omitempty"`
	CeramicWeight Bounds            `yaml:"ceramic_weight"`
	GrainSize     Bounds            `yaml:"grain_size_um"`
	SinterTemp    Bounds            `yaml:"sinter_temp_c"`
	HoldTime      Bounds            `yaml:"hold_time_min"`
}

// DefaultConstraintSpace returns the WC-cermet search region used
// throughout the reference workflows: Co/Ni/Fe/Cr/Mo binder, 50-70 wt%
// ceramic, submicron-to-coarse grain sizes and a conventional
// liquid-phase sintering window.
func DefaultConstraintSpace() ConstraintSpace {
	return ConstraintSpace{
		Ceramic:       CeramicWC,
		Elements:      []string{"Co", "Ni", "Fe", "Cr", "Mo"},
		CeramicWeight: Bounds{Lo: 0.5, Hi: 0.7},
		GrainSize:     Bounds{Lo: 0.5, Hi: 5.0},
		SinterTemp:    Bounds{Lo: 1350, Hi: 1550},
		HoldTime:      Bounds{Lo: 30, Hi: 120},
	}
}

// CheckWellFormed verifies the space can be sampled at all. A violation
// here is a caller bug and aborts a run before any trial is issued.
func (s ConstraintSpace) CheckWellFormed() error {
	if len(s.Elements) == 0 {
		return errors.New(errors.ContractViolation, "constraint space has no allowed elements")
	}
	if _, ok := ceramicLattice[s.Ceramic]; !ok {
		return errors.Newf(errors.ContractViolation, "constraint space has unknown ceramic phase %q", s.Ceramic)
	}

	checks := []struct {
		name string
		b    Bounds
	}{
		{"ceramic_weight", s.CeramicWeight},
		{"grain_size_um", s.GrainSize},
		{"sinter_temp_c", s.SinterTemp},
		{"hold_time_min", s.HoldTime},
	}
	for _, c := range checks {
		if c.b.Lo > c.b.Hi {
			return errors.WithFields(
				errors.New(errors.ContractViolation, "inverted bounds in constraint space"),
				errors.Fields{"parameter": c.name, "lo": c.b.Lo, "hi": c.b.Hi})
		}
	}
	if s.CeramicWeight.Lo <= 0 || s.CeramicWeight.Hi >= 1 {
		return errors.New(errors.ContractViolation, "ceramic weight bounds must lie inside (0,1)")
	}

	for el, b := range s.ElementBounds {
		if b.Lo > b.Hi {
			return errors.WithFields(
				errors.New(errors.ContractViolation, "inverted element bounds"),
				errors.Fields{"element": el, "lo": b.Lo, "hi": b.Hi})
		}
	}
	return nil
}

// allowed reports whether element is in the allowed set.
func (s ConstraintSpace) allowed(element string) bool {
	for _, el := range s.Elements {
		if el == element {
			return true
		}
	}
	return false
}

// Validate is the feasibility predicate: every binder element must be
// allowed, every fraction inside its configured bounds, and the ceramic
// fraction and process parameters inside theirs. Pure, no side effects.
func (s ConstraintSpace) Validate(c Composition) bool {
	if c.Ceramic() != s.Ceramic {
		return false
	}
	if !s.CeramicWeight.Contains(c.CeramicWeightFraction()) {
		return false
	}

	for el, frac := range c.binder {
		if !s.allowed(el) {
			return false
		}
		if b, ok := s.ElementBounds[el]; ok && !b.Contains(frac) {
			return false
		}
	}

	p := c.Process()
	return s.GrainSize.Contains(p.GrainSizeUM) &&
		s.SinterTemp.Contains(p.SinterTempC) &&
		s.HoldTime.Contains(p.HoldTimeMin)
}

// SampleBinder draws raw (unnormalized) binder fractions, one per allowed
// element, log-uniformly over [1e-3, 1]. Callers normalize the result.
func (s ConstraintSpace) SampleBinder(rng *rand.Rand) map[string]float64 {
	raw := make(map[string]float64, len(s.Elements))
	for _, el := range s.Elements {
		logVal := logFracBounds.Lo + rng.Float64()*logFracBounds.Width()
		raw[el] = math.Pow(10, logVal)
	}
	return raw
}

// SampleProcess draws process parameters and a ceramic weight fraction
// uniformly within bounds.
func (s ConstraintSpace) SampleProcess(rng *rand.Rand) (ceramicWeightFrac float64, p ProcessParams) {
	uniform := func(b Bounds) float64 {
		return b.Lo + rng.Float64()*b.Width()
	}
	return uniform(s.CeramicWeight), ProcessParams{
		GrainSizeUM: uniform(s.GrainSize),
		SinterTempC: uniform(s.SinterTemp),
		HoldTimeMin: uniform(s.HoldTime),
	}
}
