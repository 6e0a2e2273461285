// Package metrics quantifies surrogate quality against measured
// reference data.
package metrics

import (
	"context"
	"math"

	"github.com/YHzed/heac-go/pkg/datasets"
	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/evaluation"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// Summary holds the error statistics of one objective's predictions.
type Summary struct {
	N      int     `json:"n"`
	MAE    float64 `json:"mae"`
	RMSE   float64 `json:"rmse"`
	R2     float64 `json:"r2"`
	MaxAbs float64 `json:"max_abs"`
}

// Residuals computes error statistics over paired predictions and
// measurements. Returns an error when the slices mismatch or are empty.
func Residuals(predicted, measured []float64) (Summary, error) {
	if len(predicted) != len(measured) {
		return Summary{}, errors.New(errors.InvalidInput, "prediction and measurement counts differ")
	}
	if len(predicted) == 0 {
		return Summary{}, errors.New(errors.InvalidInput, "no observations")
	}

	n := float64(len(measured))
	var sumAbs, sumSq, sumMeasured, maxAbs float64
	for i := range measured {
		diff := predicted[i] - measured[i]
		abs := math.Abs(diff)
		sumAbs += abs
		sumSq += diff * diff
		sumMeasured += measured[i]
		if abs > maxAbs {
			maxAbs = abs
		}
	}

	mean := sumMeasured / n
	var totalVar float64
	for _, m := range measured {
		totalVar += (m - mean) * (m - mean)
	}
	r2 := math.NaN()
	if totalVar > 0 {
		r2 = 1 - sumSq/totalVar
	}

	return Summary{
		N:      len(measured),
		MAE:    sumAbs / n,
		RMSE:   math.Sqrt(sumSq / n),
		R2:     r2,
		MaxAbs: maxAbs,
	}, nil
}

// Validation pairs the two objectives' summaries for one surrogate set.
type Validation struct {
	HV  Summary `json:"hv"`
	KIC Summary `json:"kic"`
}

// ValidateSurrogates predicts every reference composition through the
// gateway and scores the predictions against the measurements. Records
// the gateway cannot evaluate are skipped, not fatal; an error is
// returned only when no record could be evaluated.
func ValidateSurrogates(ctx context.Context, g *evaluation.Gateway, records []datasets.ReferenceRecord) (Validation, error) {
	predHV := make([]float64, 0, len(records))
	predKIC := make([]float64, 0, len(records))
	measHV := make([]float64, 0, len(records))
	measKIC := make([]float64, 0, len(records))

	for _, rec := range records {
		cand := evaluation.NewCandidate(rec.Composition)
		if err := g.Evaluate(ctx, cand); err != nil {
			continue
		}
		predHV = append(predHV, cand.Objectives.HV)
		predKIC = append(predKIC, cand.Objectives.KIC)
		measHV = append(measHV, rec.Measured.HV)
		measKIC = append(measKIC, rec.Measured.KIC)
	}

	hv, err := Residuals(predHV, measHV)
	if err != nil {
		return Validation{}, errors.Wrap(err, errors.InvalidInput, "no reference records could be evaluated")
	}
	kic, _ := Residuals(predKIC, measKIC)
	return Validation{HV: hv, KIC: kic}, nil
}

// TargetCoverage reports the fraction of objective pairs that land
// inside the target windows. Useful as a quick prior on how hard a
// target is for a given dataset.
func TargetCoverage(objectives []pareto.Objectives, targets pareto.Targets) float64 {
	if len(objectives) == 0 {
		return 0
	}
	inside := 0
	for _, obj := range objectives {
		if targets.HV.Contains(obj.HV) && targets.KIC.Contains(obj.KIC) {
			inside++
		}
	}
	return float64(inside) / float64(len(objectives))
}
