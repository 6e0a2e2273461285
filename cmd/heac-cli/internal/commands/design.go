package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/YHzed/heac-go/pkg/datasets"
	"github.com/YHzed/heac-go/pkg/design"
)

func NewDesignCommand() *cobra.Command {
	var (
		configPath string
		outPath    string
		budget     int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Run one inverse design search",
		Long: `Run a single inverse design search from a YAML run config and print
the ranked recommendations. The archive can optionally be exported to a
Parquet file for downstream analysis.`,
		Example: `  # Run with a config file
  heac-cli design --config run.yaml

  # Override the trial budget and export the archive
  heac-cli design --config run.yaml --budget 2000 --out archive.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := design.LoadRunConfig(configPath)
			if err != nil {
				return err
			}
			if budget >= 0 {
				cfg.Budget = budget
			}
			if seed > 0 {
				cfg.Seed = seed
			}

			d, err := design.New(cfg)
			if err != nil {
				return err
			}
			report, err := d.Run(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd, report)
			if outPath != "" {
				if err := datasets.ExportEntries(outPath, report.Archive); err != nil {
					return err
				}
				cmd.Printf("archive written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML run config (required)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "export the archive to this Parquet file")
	cmd.Flags().IntVar(&budget, "budget", -1, "override the trial budget")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the random seed")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func printReport(cmd *cobra.Command, report *design.Report) {
	cmd.Printf("run %s: %s\n", report.RunID, report.StateName)
	cmd.Printf("  trials: %d/%d completed, %d infeasible, %d failed, %d cache hits\n",
		report.TrialsCompleted, report.TrialsRequested,
		report.Infeasible, report.Failed, report.CacheHits)
	cmd.Printf("  archive: %d non-dominated candidates in %s\n",
		len(report.Archive), report.Elapsed.Round(time.Millisecond))

	if len(report.Recommendations) == 0 {
		cmd.Println("  no recommendations")
		return
	}
	cmd.Println("  recommendations:")
	for _, rec := range report.Recommendations {
		marker := " "
		if rec.FullySatisfying {
			marker = "*"
		}
		cmd.Printf("  %s %2d. HV=%7.1f KIC=%5.2f  %s\n",
			marker, rec.Rank, rec.Entry.Objectives.HV, rec.Entry.Objectives.KIC,
			rec.Entry.Signature)
	}
}
