// Package evaluation runs the per-candidate prediction pipeline: domain
// validation, cache lookup, proxy prediction, feature extraction, and
// the two property surrogates.
package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YHzed/heac-go/pkg/cache"
	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/features"
	"github.com/YHzed/heac-go/pkg/logging"
	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/models"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// Status is the lifecycle state of a candidate.
type Status string

const (
	StatusPending    Status = "pending"
	StatusEvaluated  Status = "evaluated"
	StatusInfeasible Status = "infeasible"
	StatusFailed     Status = "failed"
)

// Candidate is one proposed design point moving through the pipeline.
type Candidate struct {
	TrialID     string
	Signature   string
	Composition materials.Composition
	Status      Status
	Objectives  pareto.Objectives
	Err         error
	Cached      bool
}

// NewCandidate wraps a composition with a fresh trial ID.
func NewCandidate(c materials.Composition) *Candidate {
	return &Candidate{
		TrialID:     uuid.New().String(),
		Signature:   c.Signature(),
		Composition: c,
		Status:      StatusPending,
	}
}

// Gateway owns the full evaluation pipeline for a run. It is safe for
// concurrent use; the models and extractor it holds are stateless and
// the cache serializes its own access.
type Gateway struct {
	space     materials.ConstraintSpace
	extractor *features.Extractor
	proxies   *models.ProxyEnsemble
	hardness  models.Predictor
	toughness models.Predictor
	cache     cache.Cache
	timeout   time.Duration
	logger    *logging.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithTimeout bounds each candidate's model invocations. Zero means no
// deadline beyond the caller's context.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithCache replaces the default in-memory result cache.
func WithCache(c cache.Cache) GatewayOption {
	return func(g *Gateway) { g.cache = c }
}

// WithProxies replaces the default proxy ensemble.
func WithProxies(p *models.ProxyEnsemble) GatewayOption {
	return func(g *Gateway) { g.proxies = p }
}

// NewGateway builds a Gateway around the given constraint space and
// property surrogates.
func NewGateway(space materials.ConstraintSpace, hardness, toughness models.Predictor, opts ...GatewayOption) (*Gateway, error) {
	if err := space.CheckWellFormed(); err != nil {
		return nil, err
	}
	if hardness == nil || toughness == nil {
		return nil, errors.New(errors.InvalidInput, "both property surrogates are required")
	}
	g := &Gateway{
		space:     space,
		extractor: features.NewExtractor(),
		proxies:   models.NewDefaultProxyEnsemble(),
		hardness:  hardness,
		toughness: toughness,
		cache:     cache.NewMemoryCache(),
		logger:    logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Evaluate runs one candidate through the pipeline and mutates its
// status in place. Infeasible candidates never reach the models. The
// candidate's error, if any, is also returned for convenience.
func (g *Gateway) Evaluate(ctx context.Context, cand *Candidate) error {
	if !g.space.Validate(cand.Composition) {
		cand.Status = StatusInfeasible
		cand.Err = errors.WithFields(
			errors.New(errors.Infeasible, "composition violates the constraint space"),
			errors.Fields{"signature": cand.Signature})
		return cand.Err
	}

	if obj, found, err := g.cache.Get(ctx, cand.Signature); err == nil && found {
		cand.Status = StatusEvaluated
		cand.Objectives = obj
		cand.Cached = true
		return nil
	} else if err != nil {
		g.logger.Warn(ctx, "cache lookup failed, predicting instead: %v", err)
	}

	obj, err := g.predict(ctx, cand.Composition)
	if err != nil {
		cand.Status = StatusFailed
		cand.Err = err
		return err
	}

	if err := g.cache.Set(ctx, cand.Signature, obj); err != nil {
		g.logger.Warn(ctx, "cache store failed for %s: %v", cand.Signature, err)
	}
	cand.Status = StatusEvaluated
	cand.Objectives = obj
	return nil
}

// predict runs the feature and model chain under the gateway's timeout.
// Predictors take no context, so the chain runs in its own goroutine and
// the deadline is enforced from outside; a predictor that never returns
// leaks its goroutine but never leaves the caller pending.
func (g *Gateway) predict(ctx context.Context, c materials.Composition) (pareto.Objectives, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	type outcome struct {
		obj pareto.Objectives
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		obj, err := g.predictChain(ctx, c)
		done <- outcome{obj, err}
	}()

	select {
	case <-ctx.Done():
		return pareto.Objectives{}, errors.CheckContext(ctx, "prediction")
	case out := <-done:
		return out.obj, out.err
	}
}

func (g *Gateway) predictChain(ctx context.Context, c materials.Composition) (pareto.Objectives, error) {
	base, err := g.extractor.Extract(c, nil)
	if err != nil {
		return pareto.Objectives{}, err
	}
	feats, err := g.extractor.Extract(c, g.proxies.PredictAll(ctx, base))
	if err != nil {
		return pareto.Objectives{}, err
	}

	hv, err := g.invoke(ctx, g.hardness, feats)
	if err != nil {
		return pareto.Objectives{}, err
	}
	kic, err := g.invoke(ctx, g.toughness, feats)
	if err != nil {
		return pareto.Objectives{}, err
	}
	return pareto.Objectives{HV: hv, KIC: kic}, nil
}

func (g *Gateway) invoke(ctx context.Context, p models.Predictor, feats map[string]float64) (float64, error) {
	if err := errors.CheckContext(ctx, "surrogate prediction"); err != nil {
		return 0, err
	}
	v, err := p.Predict(feats)
	if err != nil {
		return 0, errors.WithFields(
			errors.Wrap(err, errors.PredictionFailed, "surrogate prediction failed"),
			errors.Fields{"model": p.Name()})
	}
	return v, nil
}

// CacheStats exposes the underlying cache counters.
func (g *Gateway) CacheStats() cache.Stats {
	return g.cache.Stats()
}
