package commands

import (
	"github.com/spf13/cobra"

	"github.com/YHzed/heac-go/pkg/design"
)

func NewValidateCommand() *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a run or batch config without running it",
		Long: `Parse and validate a YAML config file, reporting target, constraint
and budget problems before any compute is spent.`,
		Example: `  heac-cli validate run.yaml
  heac-cli validate --batch tasks.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch {
				tasks, err := design.LoadBatch(args[0])
				if err != nil {
					return err
				}
				cmd.Printf("ok: %d tasks\n", len(tasks))
				return nil
			}
			cfg, err := design.LoadRunConfig(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("ok: budget=%d strategy=%s concurrency=%d\n",
				cfg.Budget, cfg.Strategy, cfg.Concurrency)
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "treat the file as a batch task file")
	return cmd
}
