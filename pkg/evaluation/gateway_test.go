package evaluation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/models"
)

func feasibleComposition(t *testing.T) materials.Composition {
	t.Helper()
	c, err := materials.NewComposition(materials.CeramicWC, 0.6,
		map[string]float64{"Co": 0.875, "Ni": 0.125},
		materials.ProcessParams{GrainSizeUM: 1.2, SinterTempC: 1450, HoldTimeMin: 60})
	require.NoError(t, err)
	return c
}

// infeasibleComposition is structurally valid but sits outside the
// default constraint space (ceramic weight below 0.5).
func infeasibleComposition(t *testing.T) materials.Composition {
	t.Helper()
	c, err := materials.NewComposition(materials.CeramicWC, 0.4,
		map[string]float64{"Co": 1},
		materials.ProcessParams{GrainSizeUM: 1.2, SinterTempC: 1450, HoldTimeMin: 60})
	require.NoError(t, err)
	return c
}

// countingPredictor wraps a predictor and counts invocations.
type countingPredictor struct {
	inner models.Predictor
	calls atomic.Int64
}

func (p *countingPredictor) Name() string               { return p.inner.Name() }
func (p *countingPredictor) RequiredFeatures() []string { return p.inner.RequiredFeatures() }
func (p *countingPredictor) Predict(feats map[string]float64) (float64, error) {
	p.calls.Add(1)
	return p.inner.Predict(feats)
}

func newTestGateway(t *testing.T, opts ...GatewayOption) *Gateway {
	t.Helper()
	g, err := NewGateway(materials.DefaultConstraintSpace(),
		models.NewEmpiricalHardnessModel(), models.NewEmpiricalToughnessModel(), opts...)
	require.NoError(t, err)
	return g
}

func TestGatewayEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("FeasibleCandidate", func(t *testing.T) {
		g := newTestGateway(t)
		cand := NewCandidate(feasibleComposition(t))
		require.NoError(t, g.Evaluate(ctx, cand))

		assert.Equal(t, StatusEvaluated, cand.Status)
		assert.False(t, cand.Cached)
		assert.Greater(t, cand.Objectives.HV, 0.0)
		assert.Greater(t, cand.Objectives.KIC, 0.0)
		assert.NotEmpty(t, cand.TrialID)
	})

	t.Run("SecondEvaluationHitsCache", func(t *testing.T) {
		g := newTestGateway(t)
		first := NewCandidate(feasibleComposition(t))
		require.NoError(t, g.Evaluate(ctx, first))

		second := NewCandidate(feasibleComposition(t))
		require.NoError(t, g.Evaluate(ctx, second))

		assert.True(t, second.Cached)
		assert.Equal(t, first.Objectives, second.Objectives)
		assert.NotEqual(t, first.TrialID, second.TrialID)
		assert.Equal(t, int64(1), g.CacheStats().Hits)
	})

	t.Run("InfeasibleNeverReachesModels", func(t *testing.T) {
		hv := &countingPredictor{inner: models.NewEmpiricalHardnessModel()}
		kic := &countingPredictor{inner: models.NewEmpiricalToughnessModel()}
		g, err := NewGateway(materials.DefaultConstraintSpace(), hv, kic)
		require.NoError(t, err)

		cand := NewCandidate(infeasibleComposition(t))
		err = g.Evaluate(ctx, cand)
		require.Error(t, err)

		assert.Equal(t, StatusInfeasible, cand.Status)
		assert.True(t, errors.IsInfeasible(err))
		assert.Equal(t, int64(0), hv.calls.Load())
		assert.Equal(t, int64(0), kic.calls.Load())
	})

	t.Run("SurrogateFailure", func(t *testing.T) {
		failing := models.PredictorFunc{
			ModelName: "broken-hv",
			Fn: func(map[string]float64) (float64, error) {
				return 0, fmt.Errorf("model backend unavailable")
			},
		}
		g, err := NewGateway(materials.DefaultConstraintSpace(),
			failing, models.NewEmpiricalToughnessModel())
		require.NoError(t, err)

		cand := NewCandidate(feasibleComposition(t))
		err = g.Evaluate(ctx, cand)
		require.Error(t, err)
		assert.Equal(t, StatusFailed, cand.Status)
		assert.Equal(t, errors.PredictionFailed, errors.CodeOf(err))
	})

	t.Run("TimeoutSurfacesAsTimeout", func(t *testing.T) {
		g := newTestGateway(t, WithTimeout(time.Nanosecond))
		cand := NewCandidate(feasibleComposition(t))
		err := g.Evaluate(ctx, cand)
		require.Error(t, err)
		assert.Equal(t, StatusFailed, cand.Status)
		assert.Equal(t, errors.Timeout, errors.CodeOf(err))
		assert.True(t, errors.IsPredictionFailure(err))
	})

	t.Run("TimeoutBoundsBlockingModel", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		hung := models.PredictorFunc{
			ModelName: "hung-hv",
			Fn: func(map[string]float64) (float64, error) {
				<-release
				return 0, fmt.Errorf("unreachable")
			},
		}
		g, err := NewGateway(materials.DefaultConstraintSpace(),
			hung, models.NewEmpiricalToughnessModel(), WithTimeout(20*time.Millisecond))
		require.NoError(t, err)

		cand := NewCandidate(feasibleComposition(t))
		start := time.Now()
		err = g.Evaluate(ctx, cand)
		require.Error(t, err)

		assert.Less(t, time.Since(start), time.Second,
			"a model that never returns must not hold Evaluate past the deadline")
		assert.Equal(t, StatusFailed, cand.Status)
		assert.Equal(t, errors.Timeout, errors.CodeOf(err))
		assert.True(t, errors.IsPredictionFailure(err))
	})

	t.Run("FailedEvaluationIsNotCached", func(t *testing.T) {
		calls := 0
		flaky := models.PredictorFunc{
			ModelName: "flaky-hv",
			Fn: func(map[string]float64) (float64, error) {
				calls++
				if calls == 1 {
					return 0, fmt.Errorf("transient failure")
				}
				return 1600, nil
			},
		}
		g, err := NewGateway(materials.DefaultConstraintSpace(),
			flaky, models.NewEmpiricalToughnessModel())
		require.NoError(t, err)

		first := NewCandidate(feasibleComposition(t))
		require.Error(t, g.Evaluate(ctx, first))

		second := NewCandidate(feasibleComposition(t))
		require.NoError(t, g.Evaluate(ctx, second))
		assert.False(t, second.Cached)
		assert.Equal(t, 1600.0, second.Objectives.HV)
	})
}

func TestGatewayConcurrentSameCandidate(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	comp := feasibleComposition(t)

	var wg sync.WaitGroup
	results := make([]*Candidate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cand := NewCandidate(comp)
			assert.NoError(t, g.Evaluate(ctx, cand))
			results[i] = cand
		}(i)
	}
	wg.Wait()

	for _, cand := range results[1:] {
		assert.Equal(t, results[0].Objectives, cand.Objectives,
			"identical compositions must yield identical objectives")
	}
	assert.Equal(t, int64(1), g.CacheStats().Size)
}

func TestNewGatewayValidation(t *testing.T) {
	bad := materials.DefaultConstraintSpace()
	bad.GrainSize = materials.Bounds{Lo: 5, Hi: 0.5}
	_, err := NewGateway(bad, models.NewEmpiricalHardnessModel(), models.NewEmpiricalToughnessModel())
	require.Error(t, err)
	assert.Equal(t, errors.ContractViolation, errors.CodeOf(err))

	_, err = NewGateway(materials.DefaultConstraintSpace(), nil, nil)
	require.Error(t, err)
}
