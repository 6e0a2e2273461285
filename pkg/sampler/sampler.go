// Package sampler proposes candidate compositions for the design loop.
// Two strategies are provided: a pure log-uniform explorer and a
// population strategy that recombines archived parents.
package sampler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// Strategy proposes design points and learns from accepted ones. Both
// methods are safe for concurrent use.
type Strategy interface {
	// Name identifies the strategy in logs and run summaries.
	Name() string

	// Next proposes one composition inside the constraint space.
	Next() (materials.Composition, error)

	// Observe feeds back a candidate that entered the archive. Stateless
	// strategies may ignore it.
	Observe(entry pareto.Entry)
}

// Config holds the knobs shared by the built-in strategies.
type Config struct {
	// Seed for the random source. Non-positive means seed from the clock.
	Seed int64

	// MaxParents caps the population strategy's parent pool.
	MaxParents int

	// ExplorationRate is the probability the population strategy falls
	// back to a uniform draw even when parents exist.
	ExplorationRate float64

	// MutationScale is the relative sigma of the Gaussian perturbation
	// applied to blended parameters.
	MutationScale float64
}

// DefaultConfig returns the settings used by the reference workflows.
func DefaultConfig() Config {
	return Config{
		MaxParents:      20,
		ExplorationRate: 0.2,
		MutationScale:   0.15,
	}
}

func newRNG(seed int64) *rand.Rand {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Uniform draws every candidate independently: binder fractions
// log-uniform over the element range, ceramic weight and process
// parameters uniform within bounds.
type Uniform struct {
	space materials.ConstraintSpace

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform creates a uniform strategy over the given space.
func NewUniform(space materials.ConstraintSpace, cfg Config) *Uniform {
	return &Uniform{space: space, rng: newRNG(cfg.Seed)}
}

func (u *Uniform) Name() string { return "uniform" }

func (u *Uniform) Next() (materials.Composition, error) {
	u.mu.Lock()
	raw := u.space.SampleBinder(u.rng)
	ceramicW, process := u.space.SampleProcess(u.rng)
	u.mu.Unlock()

	binder, err := materials.Normalize(raw)
	if err != nil {
		return materials.Composition{}, err
	}
	return materials.NewComposition(u.space.Ceramic, ceramicW, binder, process)
}

// Observe is a no-op; uniform sampling has no state to update.
func (u *Uniform) Observe(pareto.Entry) {}

// Population recombines archived parents: it blends two parents'
// parameters, perturbs the result with Gaussian noise, clamps to the
// constraint space, and renormalizes the binder. Until parents exist, or
// with probability ExplorationRate, it falls back to a uniform draw.
type Population struct {
	space materials.ConstraintSpace
	cfg   Config

	mu      sync.Mutex
	rng     *rand.Rand
	parents []pareto.Entry
}

// NewPopulation creates a population strategy over the given space.
func NewPopulation(space materials.ConstraintSpace, cfg Config) *Population {
	if cfg.MaxParents <= 0 {
		cfg.MaxParents = DefaultConfig().MaxParents
	}
	if cfg.ExplorationRate <= 0 {
		cfg.ExplorationRate = DefaultConfig().ExplorationRate
	}
	if cfg.MutationScale <= 0 {
		cfg.MutationScale = DefaultConfig().MutationScale
	}
	return &Population{space: space, cfg: cfg, rng: newRNG(cfg.Seed)}
}

func (p *Population) Name() string { return "population" }

// Observe adds an admitted candidate to the parent pool, evicting the
// oldest parent once the pool is full.
func (p *Population) Observe(entry pareto.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parents = append(p.parents, entry)
	if len(p.parents) > p.cfg.MaxParents {
		p.parents = p.parents[1:]
	}
}

func (p *Population) Next() (materials.Composition, error) {
	p.mu.Lock()
	if len(p.parents) < 2 || p.rng.Float64() < p.cfg.ExplorationRate {
		raw := p.space.SampleBinder(p.rng)
		ceramicW, process := p.space.SampleProcess(p.rng)
		p.mu.Unlock()

		binder, err := materials.Normalize(raw)
		if err != nil {
			return materials.Composition{}, err
		}
		return materials.NewComposition(p.space.Ceramic, ceramicW, binder, process)
	}

	a := p.parents[p.rng.Intn(len(p.parents))].Composition
	b := p.parents[p.rng.Intn(len(p.parents))].Composition
	alpha := p.rng.Float64()

	raw := make(map[string]float64, len(p.space.Elements))
	for _, el := range p.space.Elements {
		blend := alpha*a.BinderFraction(el) + (1-alpha)*b.BinderFraction(el)
		mutated := blend * (1 + p.rng.NormFloat64()*p.cfg.MutationScale)
		if mutated < 1e-3 {
			mutated = 1e-3
		}
		raw[el] = mutated
	}

	ceramicW := p.clamp(
		p.mutate(alpha*a.CeramicWeightFraction()+(1-alpha)*b.CeramicWeightFraction(), p.space.CeramicWeight),
		p.space.CeramicWeight)
	ap, bp := a.Process(), b.Process()
	process := materials.ProcessParams{
		GrainSizeUM: p.clamp(p.mutate(alpha*ap.GrainSizeUM+(1-alpha)*bp.GrainSizeUM, p.space.GrainSize), p.space.GrainSize),
		SinterTempC: p.clamp(p.mutate(alpha*ap.SinterTempC+(1-alpha)*bp.SinterTempC, p.space.SinterTemp), p.space.SinterTemp),
		HoldTimeMin: p.clamp(p.mutate(alpha*ap.HoldTimeMin+(1-alpha)*bp.HoldTimeMin, p.space.HoldTime), p.space.HoldTime),
	}
	p.mu.Unlock()

	binder, err := materials.Normalize(raw)
	if err != nil {
		return materials.Composition{}, err
	}
	return materials.NewComposition(p.space.Ceramic, ceramicW, binder, process)
}

// mutate adds Gaussian noise scaled to the parameter's bound width. Must
// hold p.mu.
func (p *Population) mutate(v float64, b materials.Bounds) float64 {
	return v + p.rng.NormFloat64()*p.cfg.MutationScale*b.Width()
}

func (p *Population) clamp(v float64, b materials.Bounds) float64 {
	if v < b.Lo {
		return b.Lo
	}
	if v > b.Hi {
		return b.Hi
	}
	return v
}

// ParentCount reports the current parent pool size.
func (p *Population) ParentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.parents)
}
