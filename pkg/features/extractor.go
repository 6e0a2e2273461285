package features

import (
	"math"
	"sort"

	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
)

// Feature keys form the versioned input contract between the extractor
// and the surrogate predictors. A predictor declares which of these it
// requires; a missing key at prediction time is a contract violation.
const (
	KeyCompositeMeanNUnfilled = "Composite_MagpieData mean NUnfilled"
	KeyBinderAvgDevNdUnfilled = "Binder_MagpieData avg_dev NdUnfilled"
	KeyBinderFracDValence     = "Binder_frac d valence electrons"
	KeyBinderRangeColumn      = "Binder_MagpieData range Column"
	KeyBinderMinSpaceGroup    = "Binder_MagpieData minimum SpaceGroupNumber"
	KeyCompositeMeanGSMagMom  = "Composite_MagpieData mean GSmagmom"
	KeyBinderRangeMeltingT    = "Binder_MagpieData range MeltingT"

	KeyProxyFormationEnergy = "pred_formation_energy"
	KeyProxyLatticeParam    = "pred_lattice_param"
	KeyProxyMagneticMoment  = "pred_magnetic_moment"

	KeyGrainSizeUM    = "Grain_Size_um"
	KeyBinderVolPct   = "Binder_Vol_Pct"
	KeySinterTempC    = "Sinter_Temp_C"
	KeyHoldTimeMin    = "Hold_Time_min"
	KeyBinderNiFrac   = "Binder_Ni_atomic_frac"
	KeyTransitionFrac = "Binder_transition metal fraction"

	KeyLatticeMismatch    = "lattice_mismatch_wc"
	KeyMeanFreePath       = "Mean_Free_Path"
	KeyDiffAtomicNumber   = "Diff_Number"
	KeyBinderElementCount = "Binder_Element_Count"
)

// minCountedFraction is the atomic fraction below which an element does
// not count toward the binder element count.
const minCountedFraction = 0.01

// Extractor computes the full feature map for a composition. It is
// stateless and deterministic for identical inputs, which the evaluation
// cache relies on.
type Extractor struct{}

// NewExtractor returns the reference elemental-statistics extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract produces every feature the surrogate and proxy contract names.
// proxies carries the proxy predictor outputs (formation energy, lattice
// parameter, magnetic moment) that are themselves model inputs.
func (e *Extractor) Extract(c materials.Composition, proxies map[string]float64) (map[string]float64, error) {
	binder := c.Binder()
	for el := range binder {
		if _, ok := elementTable[el]; !ok {
			return nil, errors.WithFields(
				errors.New(errors.PredictionFailed, "no elemental property data"),
				errors.Fields{"element": el})
		}
	}

	composite, err := compositeFractions(c)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, 20)

	// Elemental statistics over the binder and the full composite.
	out[KeyCompositeMeanNUnfilled] = weightedMean(composite, func(d ElementData) float64 { return float64(d.NUnfilled) })
	out[KeyCompositeMeanGSMagMom] = weightedMean(composite, func(d ElementData) float64 { return d.GSMagMom })
	out[KeyBinderAvgDevNdUnfilled] = weightedAvgDev(binder, func(d ElementData) float64 { return float64(d.NdUnfilled) })
	out[KeyBinderRangeColumn] = valueRange(binder, func(d ElementData) float64 { return float64(d.Column) })
	out[KeyBinderRangeMeltingT] = valueRange(binder, func(d ElementData) float64 { return d.MeltingK })
	out[KeyBinderMinSpaceGroup] = valueMin(binder, func(d ElementData) float64 { return float64(d.SpaceGroup) })
	out[KeyBinderFracDValence] = dValenceFraction(binder)

	// Proxy predictions pass straight through as features.
	for key, v := range proxies {
		out[key] = v
	}

	// Process features.
	p := c.Process()
	out[KeyGrainSizeUM] = p.GrainSizeUM
	out[KeySinterTempC] = p.SinterTempC
	out[KeyHoldTimeMin] = p.HoldTimeMin
	out[KeyBinderVolPct] = c.BinderWeightFraction() * 100

	// Composition features.
	out[KeyBinderNiFrac] = binder["Ni"]
	tmFrac := 0.0
	for _, el := range sortedElements(binder) {
		if transitionMetals[el] {
			tmFrac += binder[el]
		}
	}
	out[KeyTransitionFrac] = tmFrac

	// Lattice mismatch between the predicted FCC binder lattice and the
	// ceramic phase: d_fcc = a/√2 compared against the ceramic constant.
	predLattice, ok := proxies[KeyProxyLatticeParam]
	if !ok {
		predLattice = 3.6
	}
	aCeramic := c.Ceramic().LatticeConstant()
	dFCC := predLattice / math.Sqrt2
	out[KeyLatticeMismatch] = math.Abs(dFCC-aCeramic) / aCeramic

	// Binder mean free path from grain size and ceramic loading.
	ceramicFrac := c.CeramicWeightFraction()
	if ceramicFrac > 0 && ceramicFrac < 1 {
		out[KeyMeanFreePath] = p.GrainSizeUM * (1 - ceramicFrac) / ceramicFrac
	} else {
		out[KeyMeanFreePath] = p.GrainSizeUM * 0.5
	}

	// Atomic number spread and element count.
	out[KeyDiffAtomicNumber] = atomicNumberSpread(binder)
	count := 0.0
	for _, frac := range binder {
		if frac > minCountedFraction {
			count++
		}
	}
	out[KeyBinderElementCount] = count

	return out, nil
}

// compositeFractions merges the ceramic formula with the binder into one
// atomic-fraction map, converting the ceramic/binder weight split to mole
// fractions via molar masses.
func compositeFractions(c materials.Composition) (map[string]float64, error) {
	formula, err := ceramicFormula(c.Ceramic())
	if err != nil {
		return nil, err
	}

	ceramicMolar := 0.0
	for _, el := range sortedElements(formula) {
		ceramicMolar += elementTable[el].AtomicWeight * formula[el]
	}

	binder := c.Binder()
	binderMolar := 0.0
	for _, el := range sortedElements(binder) {
		binderMolar += elementTable[el].AtomicWeight * binder[el]
	}
	if binderMolar <= 0 {
		return nil, errors.New(errors.PredictionFailed, "binder has zero molar mass")
	}

	// Moles of ceramic formula units vs binder atoms per unit mass.
	ceramicMoles := c.CeramicWeightFraction() / ceramicMolar
	binderMoles := c.BinderWeightFraction() / binderMolar

	total := 0.0
	atoms := make(map[string]float64)
	for _, el := range sortedElements(formula) {
		atoms[el] += ceramicMoles * formula[el]
		total += ceramicMoles * formula[el]
	}
	for _, el := range sortedElements(binder) {
		atoms[el] += binderMoles * binder[el]
		total += binderMoles * binder[el]
	}

	for el := range atoms {
		atoms[el] /= total
	}
	return atoms, nil
}

// ceramicFormula returns atoms per formula unit for the hard phase.
func ceramicFormula(phase materials.CeramicPhase) (map[string]float64, error) {
	switch phase {
	case materials.CeramicWC:
		return map[string]float64{"W": 1, "C": 1}, nil
	case materials.CeramicTiC:
		return map[string]float64{"Ti": 1, "C": 1}, nil
	case materials.CeramicTiN:
		return map[string]float64{"Ti": 1, "N": 1}, nil
	case materials.CeramicVC:
		return map[string]float64{"V": 1, "C": 1}, nil
	}
	return nil, errors.Newf(errors.PredictionFailed, "no formula for ceramic phase %q", phase)
}

// sortedElements fixes the accumulation order for the float sums below.
// Summing in map order would let the last ulp of a feature drift between
// calls, which breaks the cache signature contract of identical inputs
// producing identical features.
func sortedElements(fractions map[string]float64) []string {
	els := make([]string, 0, len(fractions))
	for el := range fractions {
		els = append(els, el)
	}
	sort.Strings(els)
	return els
}

func weightedMean(fractions map[string]float64, prop func(ElementData) float64) float64 {
	mean := 0.0
	for _, el := range sortedElements(fractions) {
		mean += fractions[el] * prop(elementTable[el])
	}
	return mean
}

func weightedAvgDev(fractions map[string]float64, prop func(ElementData) float64) float64 {
	mean := weightedMean(fractions, prop)
	dev := 0.0
	for _, el := range sortedElements(fractions) {
		dev += fractions[el] * math.Abs(prop(elementTable[el])-mean)
	}
	return dev
}

func valueRange(fractions map[string]float64, prop func(ElementData) float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for el := range fractions {
		v := prop(elementTable[el])
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0
	}
	return hi - lo
}

func valueMin(fractions map[string]float64, prop func(ElementData) float64) float64 {
	lo := math.Inf(1)
	for el := range fractions {
		lo = math.Min(lo, prop(elementTable[el]))
	}
	if math.IsInf(lo, 1) {
		return 0
	}
	return lo
}

// dValenceFraction is the share of d electrons among all valence
// electrons in the binder.
func dValenceFraction(fractions map[string]float64) float64 {
	dSum, vSum := 0.0, 0.0
	for _, el := range sortedElements(fractions) {
		d := elementTable[el]
		dSum += fractions[el] * float64(d.NdValence)
		vSum += fractions[el] * float64(d.NValence)
	}
	if vSum <= 0 {
		return 0
	}
	return dSum / vSum
}

// atomicNumberSpread is max minus min atomic number across binder
// elements, zero for a single-element binder.
func atomicNumberSpread(fractions map[string]float64) float64 {
	if len(fractions) < 2 {
		return 0
	}
	lo, hi := math.MaxInt32, 0
	for el := range fractions {
		z := elementTable[el].AtomicNumber
		if z < lo {
			lo = z
		}
		if z > hi {
			hi = z
		}
	}
	return float64(hi - lo)
}
