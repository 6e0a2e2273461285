package design

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YHzed/heac-go/pkg/errors"
	"github.com/YHzed/heac-go/pkg/logging"
)

// BatchTask is one named run inside a batch file.
type BatchTask struct {
	Name   string    `yaml:"name"`
	Config RunConfig `yaml:"config"`
}

type batchFile struct {
	Tasks []BatchTask `yaml:"tasks"`
}

// TaskResult pairs a task with its outcome. Err is set when the task
// could not run at all; a valid Report with StateAborted is not an
// error.
type TaskResult struct {
	Name   string
	Report *Report
	Err    error
}

// LoadBatch reads a batch task file. Every task gets defaults applied
// and is validated up front so a malformed task fails the load, not the
// run.
func LoadBatch(path string) ([]BatchTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse batch file")
	}
	if len(file.Tasks) == 0 {
		return nil, errors.New(errors.InvalidInput, "batch file has no tasks")
	}

	for i := range file.Tasks {
		task := &file.Tasks[i]
		if task.Name == "" {
			return nil, errors.Newf(errors.InvalidInput, "batch task %d has no name", i)
		}
		task.Config.applyDefaults()
		if err := task.Config.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput,
				fmt.Sprintf("invalid config for task %q", task.Name))
		}
	}
	return file.Tasks, nil
}

// RunBatch executes tasks in order. Tasks are isolated: one task's
// failure is recorded and the rest still run. Canceling ctx stops the
// sequence after the current task returns its partial report.
func RunBatch(ctx context.Context, tasks []BatchTask) []TaskResult {
	logger := logging.GetLogger()
	results := make([]TaskResult, 0, len(tasks))

	for _, task := range tasks {
		if ctx.Err() != nil {
			results = append(results, TaskResult{Name: task.Name, Err: ctx.Err()})
			continue
		}

		cfg := task.Config
		if cfg.RunID == "" {
			cfg.RunID = task.Name
		}
		d, err := New(cfg)
		if err != nil {
			logger.Error(ctx, "batch task %q failed to initialize: %v", task.Name, err)
			results = append(results, TaskResult{Name: task.Name, Err: err})
			continue
		}

		report, err := d.Run(ctx)
		if err != nil {
			logger.Error(ctx, "batch task %q failed: %v", task.Name, err)
			results = append(results, TaskResult{Name: task.Name, Err: err})
			continue
		}
		results = append(results, TaskResult{Name: task.Name, Report: report})
	}
	return results
}
