package models

import (
	"math"

	"github.com/YHzed/heac-go/pkg/features"
)

// surrogateInputs is the shared feature contract of the two property
// surrogates, mirroring the feature set the production models were
// trained on.
var surrogateInputs = []string{
	features.KeyCompositeMeanNUnfilled,
	features.KeyBinderAvgDevNdUnfilled,
	features.KeyBinderFracDValence,
	features.KeyBinderRangeColumn,
	features.KeyBinderMinSpaceGroup,
	features.KeyCompositeMeanGSMagMom,
	features.KeyBinderRangeMeltingT,
	features.KeyProxyFormationEnergy,
	features.KeyProxyLatticeParam,
	features.KeyProxyMagneticMoment,
	features.KeyGrainSizeUM,
	features.KeyBinderVolPct,
	features.KeySinterTempC,
	features.KeyLatticeMismatch,
	features.KeyMeanFreePath,
}

// NewEmpiricalHardnessModel returns a physically-guided stand-in for the
// trained HV surrogate: Hall-Petch grain refinement plus ceramic loading,
// softened by sintering temperature above the densification optimum.
func NewEmpiricalHardnessModel() Predictor {
	return PredictorFunc{
		ModelName: "empirical-hv",
		Required:  surrogateInputs,
		Fn: func(f map[string]float64) (float64, error) {
			grain := math.Max(f[features.KeyGrainSizeUM], 0.05)
			ceramicPct := 100 - f[features.KeyBinderVolPct]

			hv := 600.0
			hv += 520 / math.Sqrt(grain)           // Hall-Petch
			hv += 14 * ceramicPct                  // hard-phase loading
			hv -= 90 * f[features.KeyMeanFreePath] // binder ductile paths
			hv -= 0.35 * math.Abs(f[features.KeySinterTempC]-1450)
			hv -= 400 * f[features.KeyLatticeMismatch]
			hv += 60 * f[features.KeyBinderFracDValence]
			return hv, nil
		},
	}
}

// NewEmpiricalToughnessModel returns a stand-in for the trained KIC
// surrogate. Toughness moves mostly opposite to hardness: more binder and
// coarser grains lengthen crack deflection paths.
func NewEmpiricalToughnessModel() Predictor {
	return PredictorFunc{
		ModelName: "empirical-kic",
		Required:  surrogateInputs,
		Fn: func(f map[string]float64) (float64, error) {
			grain := math.Max(f[features.KeyGrainSizeUM], 0.05)

			kic := 4.0
			kic += 0.16 * f[features.KeyBinderVolPct]
			kic += 1.1 * math.Sqrt(grain)
			kic += 0.8 * f[features.KeyMeanFreePath]
			kic += 0.9 * f[features.KeyProxyMagneticMoment]
			kic -= 3.0 * f[features.KeyLatticeMismatch]
			return kic, nil
		},
	}
}
