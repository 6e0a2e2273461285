package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YHzed/heac-go/pkg/datasets"
	"github.com/YHzed/heac-go/pkg/design"
)

func NewBatchCommand() *cobra.Command {
	var (
		filePath string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a batch of design tasks",
		Long: `Execute every task in a YAML batch file in order. Tasks are isolated:
one task failing does not stop the rest. With --out-dir, each task's
archive is exported as <out-dir>/<task-name>.parquet.`,
		Example: `  heac-cli batch --file tasks.yaml --out-dir results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := design.LoadBatch(filePath)
			if err != nil {
				return err
			}

			results := design.RunBatch(cmd.Context(), tasks)
			failures := 0
			for _, res := range results {
				if res.Err != nil {
					failures++
					cmd.Printf("task %s: FAILED: %v\n", res.Name, res.Err)
					continue
				}
				printReport(cmd, res.Report)
				if outDir != "" {
					out := filepath.Join(outDir, res.Name+".parquet")
					if err := datasets.ExportEntries(out, res.Report.Archive); err != nil {
						cmd.Printf("task %s: export failed: %v\n", res.Name, err)
						continue
					}
					cmd.Printf("task %s: archive written to %s\n", res.Name, out)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d tasks failed", failures, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the YAML batch file (required)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for per-task Parquet exports")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
