// Package materials defines the canonical representation of a cermet
// candidate: a ceramic hard phase plus a multi-element metallic binder,
// with the process parameters that accompany it through evaluation.
package materials

import (
	"math"
	"sort"

	"github.com/YHzed/heac-go/pkg/errors"
)

// FractionTolerance is the allowed deviation when checking that binder
// atomic fractions (and the ceramic/binder weight split) sum to one.
const FractionTolerance = 1e-3

// CeramicPhase identifies the hard phase of the composite.
type CeramicPhase string

const (
	CeramicWC  CeramicPhase = "WC"
	CeramicTiC CeramicPhase = "TiC"
	CeramicTiN CeramicPhase = "TiN"
	CeramicVC  CeramicPhase = "VC"
)

// ceramicLattice holds the lattice constants (Å) used when computing the
// binder/ceramic lattice mismatch feature.
var ceramicLattice = map[CeramicPhase]float64{
	CeramicWC:  2.906,
	CeramicTiC: 4.32,
	CeramicTiN: 4.24,
	CeramicVC:  4.16,
}

// ParseCeramicPhase converts a string to a CeramicPhase.
func ParseCeramicPhase(s string) (CeramicPhase, error) {
	phase := CeramicPhase(s)
	if _, ok := ceramicLattice[phase]; !ok {
		return "", errors.Newf(errors.InvalidInput, "unknown ceramic phase %q", s)
	}
	return phase, nil
}

// LatticeConstant returns the ceramic phase lattice constant in Å.
func (p CeramicPhase) LatticeConstant() float64 {
	return ceramicLattice[p]
}

// ProcessParams carries the sintering process variables attached to a
// composition.
type ProcessParams struct {
	GrainSizeUM float64 // grain size, μm
	SinterTempC float64 // sintering temperature, °C
	HoldTimeMin float64 // holding time at temperature, minutes
}

// Composition is an immutable description of one candidate material.
// Construct via NewComposition; the binder map is copied in and copied
// out so a Composition can be shared across goroutines freely.
type Composition struct {
	ceramic  CeramicPhase
	ceramicW float64            // ceramic weight fraction, (0,1)
	binder   map[string]float64 // element symbol -> atomic fraction, sums to 1
	process  ProcessParams
}

// Normalize rescales raw binder fractions to sum exactly to one.
// It fails when the input sum is non-positive or any fraction is negative.
func Normalize(raw map[string]float64) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.InvalidComposition, "empty binder composition")
	}

	sum := 0.0
	for el, frac := range raw {
		if frac < 0 {
			return nil, errors.WithFields(
				errors.New(errors.InvalidComposition, "negative binder fraction"),
				errors.Fields{"element": el, "fraction": frac})
		}
		sum += frac
	}
	if sum <= 0 {
		return nil, errors.New(errors.InvalidComposition, "binder fractions sum to zero")
	}

	normalized := make(map[string]float64, len(raw))
	for el, frac := range raw {
		normalized[el] = frac / sum
	}
	return normalized, nil
}

// NewComposition validates and constructs a Composition. The binder map
// must already be normalized (use Normalize first for raw input).
func NewComposition(ceramic CeramicPhase, ceramicWeightFrac float64, binder map[string]float64, process ProcessParams) (Composition, error) {
	if _, ok := ceramicLattice[ceramic]; !ok {
		return Composition{}, errors.Newf(errors.InvalidComposition, "unknown ceramic phase %q", ceramic)
	}
	if ceramicWeightFrac <= 0 || ceramicWeightFrac >= 1 {
		return Composition{}, errors.WithFields(
			errors.New(errors.InvalidComposition, "ceramic weight fraction outside (0,1)"),
			errors.Fields{"ceramic_weight_frac": ceramicWeightFrac})
	}

	sum := 0.0
	for el, frac := range binder {
		if frac < 0 {
			return Composition{}, errors.WithFields(
				errors.New(errors.InvalidComposition, "negative binder fraction"),
				errors.Fields{"element": el, "fraction": frac})
		}
		sum += frac
	}
	if math.Abs(sum-1) > FractionTolerance {
		return Composition{}, errors.WithFields(
			errors.New(errors.InvalidComposition, "binder fractions do not sum to one"),
			errors.Fields{"sum": sum})
	}

	copied := make(map[string]float64, len(binder))
	for el, frac := range binder {
		copied[el] = frac
	}

	return Composition{
		ceramic:  ceramic,
		ceramicW: ceramicWeightFrac,
		binder:   copied,
		process:  process,
	}, nil
}

// Ceramic returns the ceramic phase.
func (c Composition) Ceramic() CeramicPhase { return c.ceramic }

// CeramicWeightFraction returns the ceramic weight fraction.
func (c Composition) CeramicWeightFraction() float64 { return c.ceramicW }

// BinderWeightFraction returns the weight fraction of the binder phase.
// Together with the ceramic fraction it always sums to one.
func (c Composition) BinderWeightFraction() float64 { return 1 - c.ceramicW }

// Binder returns a copy of the binder composition map.
func (c Composition) Binder() map[string]float64 {
	out := make(map[string]float64, len(c.binder))
	for el, frac := range c.binder {
		out[el] = frac
	}
	return out
}

// BinderFraction returns the atomic fraction of a single binder element,
// zero when absent.
func (c Composition) BinderFraction(element string) float64 {
	return c.binder[element]
}

// Elements returns the binder element symbols in sorted order.
func (c Composition) Elements() []string {
	out := make([]string, 0, len(c.binder))
	for el := range c.binder {
		out = append(out, el)
	}
	sort.Strings(out)
	return out
}

// Process returns the process parameters.
func (c Composition) Process() ProcessParams { return c.process }
