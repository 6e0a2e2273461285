package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YHzed/heac-go/cmd/heac-cli/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "heac-cli",
	Short: "Inverse design runner for cermet compositions",
	Long: `A command-line interface for running inverse design searches over
cermet composition and process space.

The CLI provides:
- Single design runs from a YAML run config
- Batch execution of multiple design tasks
- Config validation before committing compute
- Parquet export of archived candidates`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(
		commands.NewDesignCommand(),
		commands.NewBatchCommand(),
		commands.NewValidateCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
