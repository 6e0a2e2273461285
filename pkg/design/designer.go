// Package design runs the inverse design loop: propose, evaluate,
// archive, repeat until the trial or time budget is spent, then rank the
// surviving Pareto set into recommendations.
package design

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/YHzed/heac-go/pkg/cache"
	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/evaluation"
	"github.com/YHzed/heac-go/pkg/logging"
	"github.com/YHzed/heac-go/pkg/models"
	"github.com/YHzed/heac-go/pkg/pareto"
	"github.com/YHzed/heac-go/pkg/sampler"
)

// State tracks a run's lifecycle. A Designer is single-use: once Run
// returns, the state is terminal.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Report is the outcome of one run. Partial results from an aborted run
// are just as valid as a completed run's.
type Report struct {
	RunID           string           `json:"run_id"`
	State           State            `json:"-"`
	StateName       string           `json:"state"`
	TrialsRequested int              `json:"trials_requested"`
	TrialsCompleted int64            `json:"trials_completed"`
	Infeasible      int64            `json:"infeasible"`
	Failed          int64            `json:"failed"`
	CacheHits       int64            `json:"cache_hits"`
	Archive         []pareto.Entry   `json:"archive"`
	Recommendations []Recommendation `json:"recommendations"`
	Elapsed         time.Duration    `json:"elapsed_ns"`
}

// Designer owns one run's loop state.
type Designer struct {
	cfg      RunConfig
	gateway  *evaluation.Gateway
	strategy sampler.Strategy
	archive  *pareto.Archive
	logger   *logging.Logger
	state    atomic.Int32
}

// Option overrides a Designer collaborator, mainly for tests.
type Option func(*Designer)

// WithGateway replaces the default evaluation gateway.
func WithGateway(g *evaluation.Gateway) Option {
	return func(d *Designer) { d.gateway = g }
}

// WithStrategy replaces the configured proposal strategy.
func WithStrategy(s sampler.Strategy) Option {
	return func(d *Designer) { d.strategy = s }
}

// New validates the config and assembles a Designer with the default
// empirical models, unless options substitute collaborators.
func New(cfg RunConfig, opts ...Option) (*Designer, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.New().String()
	}

	d := &Designer{
		cfg:     cfg,
		archive: pareto.NewArchive(),
		logger:  logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.gateway == nil {
		store, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, err
		}
		d.gateway, err = evaluation.NewGateway(*cfg.Space,
			models.NewEmpiricalHardnessModel(), models.NewEmpiricalToughnessModel(),
			evaluation.WithCache(store), evaluation.WithTimeout(cfg.EvalTimeout))
		if err != nil {
			return nil, err
		}
	}
	if d.strategy == nil {
		scfg := sampler.DefaultConfig()
		scfg.Seed = cfg.Seed
		switch cfg.Strategy {
		case "uniform":
			d.strategy = sampler.NewUniform(*cfg.Space, scfg)
		default:
			d.strategy = sampler.NewPopulation(*cfg.Space, scfg)
		}
	}
	return d, nil
}

// State returns the current lifecycle state.
func (d *Designer) State() State {
	return State(d.state.Load())
}

// Archive returns the run's archive. Safe to read during a run.
func (d *Designer) Archive() *pareto.Archive {
	return d.archive
}

// Run executes the loop until the trial budget is spent, the time budget
// expires, or ctx is canceled. All three endings are StateCompleted: an
// early stop just means the archive holds fewer trials, and the partial
// result is as valid as a full one. StateAborted is reserved for a
// contract violation caught before any trial is issued; only then does
// Run return an error. Calling Run twice is also an error.
func (d *Designer) Run(ctx context.Context) (*Report, error) {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, errors.New(errors.ContractViolation, "designer has already run")
	}
	if err := d.cfg.Validate(); err != nil {
		d.state.Store(int32(StateAborted))
		return nil, err
	}

	start := time.Now()
	ctx = logging.WithRunID(ctx, d.cfg.RunID)
	if d.cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.TimeBudget)
		defer cancel()
	}

	d.logger.Info(ctx, "starting design run: budget=%d concurrency=%d strategy=%s",
		d.cfg.Budget, d.cfg.Concurrency, d.strategy.Name())

	var completed, infeasible, failed, cacheHits atomic.Int64

	workers := pool.New().WithMaxGoroutines(d.cfg.Concurrency)
	for i := 0; i < d.cfg.Budget; i++ {
		trial := i
		workers.Go(func() {
			if ctx.Err() != nil {
				return
			}
			tctx := logging.WithTrial(ctx, trial)

			comp, err := d.strategy.Next()
			if err != nil {
				failed.Add(1)
				d.logger.Warn(tctx, "proposal failed: %v", err)
				return
			}

			cand := evaluation.NewCandidate(comp)
			if err := d.gateway.Evaluate(tctx, cand); err != nil {
				switch cand.Status {
				case evaluation.StatusInfeasible:
					infeasible.Add(1)
					d.logger.Debug(tctx, "infeasible candidate %s", cand.Signature)
				default:
					failed.Add(1)
					d.logger.Warn(tctx, "evaluation failed for %s: %v", cand.Signature, err)
				}
				return
			}

			completed.Add(1)
			if cand.Cached {
				cacheHits.Add(1)
			}
			d.logger.TrialOutcome(tctx, cand.Signature, cand.Objectives.HV, cand.Objectives.KIC)

			entry := pareto.Entry{
				Signature:   cand.Signature,
				Composition: cand.Composition,
				Objectives:  cand.Objectives,
				Scores:      pareto.NewScoreVector(cand.Objectives, d.cfg.Targets),
			}
			if d.archive.Insert(entry) {
				d.strategy.Observe(entry)
			}
		})
	}
	workers.Wait()

	// The loop ran, so the run completed: an expired time budget or a
	// canceled context only shortens the trial sequence.
	final := StateCompleted
	d.state.Store(int32(final))

	snapshot := d.archive.Snapshot()
	report := &Report{
		RunID:           d.cfg.RunID,
		State:           final,
		StateName:       final.String(),
		TrialsRequested: d.cfg.Budget,
		TrialsCompleted: completed.Load(),
		Infeasible:      infeasible.Load(),
		Failed:          failed.Load(),
		CacheHits:       cacheHits.Load(),
		Archive:         snapshot,
		Recommendations: Rank(snapshot, d.cfg.Targets, RankOptions{TopK: d.cfg.TopK, IncludePartial: true}),
		Elapsed:         time.Since(start),
	}

	d.logger.Info(ctx, "run %s: %d/%d trials completed, %d archived, %d infeasible, %d failed",
		final, report.TrialsCompleted, report.TrialsRequested,
		len(report.Archive), report.Infeasible, report.Failed)
	return report, nil
}
