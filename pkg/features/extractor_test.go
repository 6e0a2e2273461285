package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
)

func testComposition(t *testing.T, binder map[string]float64) materials.Composition {
	t.Helper()
	c, err := materials.NewComposition(materials.CeramicWC, 0.6, binder, materials.ProcessParams{
		GrainSizeUM: 2.0,
		SinterTempC: 1450,
		HoldTimeMin: 60,
	})
	require.NoError(t, err)
	return c
}

func defaultProxies() map[string]float64 {
	return map[string]float64{
		KeyProxyFormationEnergy: -0.5,
		KeyProxyLatticeParam:    3.6,
		KeyProxyMagneticMoment:  -0.5,
	}
}

func TestExtractProducesContractKeys(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 0.5, "Ni": 0.3, "Fe": 0.2})

	feats, err := NewExtractor().Extract(c, defaultProxies())
	require.NoError(t, err)

	required := []string{
		KeyCompositeMeanNUnfilled,
		KeyBinderAvgDevNdUnfilled,
		KeyBinderFracDValence,
		KeyBinderRangeColumn,
		KeyBinderMinSpaceGroup,
		KeyCompositeMeanGSMagMom,
		KeyBinderRangeMeltingT,
		KeyProxyFormationEnergy,
		KeyProxyLatticeParam,
		KeyProxyMagneticMoment,
		KeyGrainSizeUM,
		KeyBinderVolPct,
		KeySinterTempC,
		KeyHoldTimeMin,
		KeyBinderNiFrac,
		KeyTransitionFrac,
		KeyLatticeMismatch,
		KeyMeanFreePath,
		KeyDiffAtomicNumber,
		KeyBinderElementCount,
	}
	for _, key := range required {
		assert.Contains(t, feats, key)
	}
}

func TestExtractDeterministic(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 0.5, "Ni": 0.3, "Fe": 0.2})
	ex := NewExtractor()

	first, err := ex.Extract(c, defaultProxies())
	require.NoError(t, err)

	// Accumulation order must be fixed, so repeated extractions agree to
	// the last bit. A handful of repeats would pass by chance under map
	// iteration order; fifty will not.
	for i := 0; i < 50; i++ {
		next, err := ex.Extract(c, defaultProxies())
		require.NoError(t, err)
		require.Equal(t, first, next, "extraction %d diverged", i)
	}
}

func TestExtractValues(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 0.5, "Ni": 0.5})

	feats, err := NewExtractor().Extract(c, defaultProxies())
	require.NoError(t, err)

	t.Run("process features pass through", func(t *testing.T) {
		assert.InDelta(t, 2.0, feats[KeyGrainSizeUM], 1e-12)
		assert.InDelta(t, 1450, feats[KeySinterTempC], 1e-12)
		assert.InDelta(t, 60, feats[KeyHoldTimeMin], 1e-12)
		assert.InDelta(t, 40, feats[KeyBinderVolPct], 1e-9)
	})

	t.Run("composition features", func(t *testing.T) {
		assert.InDelta(t, 0.5, feats[KeyBinderNiFrac], 1e-12)
		assert.InDelta(t, 1.0, feats[KeyTransitionFrac], 1e-12)
		assert.InDelta(t, 2, feats[KeyBinderElementCount], 1e-12)
		// Co (27) to Ni (28)
		assert.InDelta(t, 1, feats[KeyDiffAtomicNumber], 1e-12)
	})

	t.Run("binder statistics", func(t *testing.T) {
		// Co column 9, Ni column 10
		assert.InDelta(t, 1, feats[KeyBinderRangeColumn], 1e-12)
		// melting points 1768K and 1728K
		assert.InDelta(t, 40, feats[KeyBinderRangeMeltingT], 1e-9)
		// Co hcp space group 194, Ni fcc 225
		assert.InDelta(t, 194, feats[KeyBinderMinSpaceGroup], 1e-12)
		// d valence: (0.5*7 + 0.5*8) / (0.5*9 + 0.5*10)
		assert.InDelta(t, 7.5/9.5, feats[KeyBinderFracDValence], 1e-9)
	})

	t.Run("mean free path", func(t *testing.T) {
		// grain * (1-0.6)/0.6
		assert.InDelta(t, 2.0*0.4/0.6, feats[KeyMeanFreePath], 1e-9)
	})

	t.Run("lattice mismatch", func(t *testing.T) {
		// |3.6/sqrt(2) - 2.906| / 2.906
		assert.InDelta(t, 0.1240, feats[KeyLatticeMismatch], 1e-3)
	})
}

func TestExtractMinorElementNotCounted(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 0.995, "Ni": 0.005})

	feats, err := NewExtractor().Extract(c, defaultProxies())
	require.NoError(t, err)
	assert.InDelta(t, 1, feats[KeyBinderElementCount], 1e-12)
}

func TestExtractUnknownElement(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 0.5, "Re": 0.5})

	_, err := NewExtractor().Extract(c, defaultProxies())
	require.Error(t, err)
	assert.Equal(t, errors.PredictionFailed, errors.CodeOf(err))
}

func TestExtractFallbackLatticeParam(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 1})

	// No proxy lattice prediction supplied; the mismatch feature falls
	// back to the nominal FCC binder constant.
	feats, err := NewExtractor().Extract(c, map[string]float64{})
	require.NoError(t, err)
	assert.Greater(t, feats[KeyLatticeMismatch], 0.0)
}

func TestCompositeFractions(t *testing.T) {
	c := testComposition(t, map[string]float64{"Co": 1})

	atoms, err := compositeFractions(c)
	require.NoError(t, err)

	sum := 0.0
	for _, frac := range atoms {
		sum += frac
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// WC contributes equal W and C mole counts.
	assert.InDelta(t, atoms["W"], atoms["C"], 1e-12)
	assert.Greater(t, atoms["Co"], 0.0)
}

func TestKnownElements(t *testing.T) {
	known := KnownElements()
	assert.Contains(t, known, "Co")
	assert.Contains(t, known, "W")

	_, ok := LookupElement("Co")
	assert.True(t, ok)
	_, ok = LookupElement("Xx")
	assert.False(t, ok)
}
