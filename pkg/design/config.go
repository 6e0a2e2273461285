package design

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/YHzed/heac-go/pkg/cache"
	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/materials"
	"github.com/YHzed/heac-go/pkg/pareto"
)

// RunConfig describes one inverse design run: the target property
// windows, the search region, and the loop's resource limits.
type RunConfig struct {
	// RunID labels log lines and reports. Empty means a generated UUID.
	RunID string `yaml:"run_id"`

	// Targets are the acceptable property windows the run searches for.
	Targets pareto.Targets `yaml:"targets"`

	// Space bounds the search. The zero value means the default
	// WC-cermet space.
	Space *materials.ConstraintSpace `yaml:"constraint_space,omitempty"`

	// Budget is the number of trials to issue. Zero completes
	// immediately with an empty archive.
	Budget int `yaml:"budget" validate:"min=0"`

	// TimeBudget bounds wall-clock time for the whole run. Zero means
	// trials-only budgeting.
	TimeBudget time.Duration `yaml:"time_budget" validate:"min=0"`

	// Concurrency is the number of evaluation workers. Zero or negative
	// means DefaultConcurrency.
	Concurrency int `yaml:"concurrency"`

	// EvalTimeout bounds each candidate's model invocations.
	EvalTimeout time.Duration `yaml:"eval_timeout" validate:"min=0"`

	// Strategy selects the proposal strategy.
	Strategy string `yaml:"strategy" validate:"omitempty,oneof=uniform population"`

	// Seed makes runs reproducible under Concurrency=1. Non-positive
	// seeds from the clock.
	Seed int64 `yaml:"seed"`

	// TopK caps the ranked recommendation list.
	TopK int `yaml:"top_k" validate:"min=0"`

	// Cache selects the evaluation cache backend.
	Cache cache.Config `yaml:"cache"`
}

const (
	DefaultConcurrency = 4
	DefaultTopK        = 10
	DefaultStrategy    = "population"
)

var validate = validator.New()

// applyDefaults fills unset fields in place.
func (c *RunConfig) applyDefaults() {
	if c.Space == nil {
		space := materials.DefaultConstraintSpace()
		c.Space = &space
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.Strategy == "" {
		c.Strategy = DefaultStrategy
	}
}

// Validate checks structural tags plus the domain contracts the tags
// cannot express.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.InvalidInput, "invalid run config")
	}
	if err := c.Targets.CheckWellFormed(); err != nil {
		return err
	}
	if c.Space != nil {
		if err := c.Space.CheckWellFormed(); err != nil {
			return err
		}
	}
	return nil
}

// LoadRunConfig reads and validates a YAML run config.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("failed to read run config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, errors.Wrap(err, errors.InvalidInput, "failed to parse run config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}
