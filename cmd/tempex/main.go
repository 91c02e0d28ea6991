package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tempex/cmd/tempex/commands"
	"github.com/teranos/tempex/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tempex",
	Short: "Temporal expression and event annotation",
	Long: `tempex — temporal expression and event annotation for text.

tempex identifies TIMEX3 time expressions and TimeML events in documents,
classifies their attributes, and resolves time expressions to calendar
values against each document's creation time.

Available commands:
  annotate  - Annotate documents and emit TimeML
  train     - Train the taggers and classifiers from a TimeML corpus
  normalize - Resolve a single time expression against an anchor date
  cache     - Inspect or clear the annotation cache
  config    - Manage tempex configuration
  version   - Show version information

Examples:
  tempex annotate --models models.bin news/           # Annotate a folder of .tml files
  tempex train --out models.bin corpus/               # Fit models on gold TimeML
  tempex normalize --anchor 2012-06-02 "yesterday"    # Prints 2012-06-01
  tempex cache stats                                  # Cache hit-rate bookkeeping`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit machine-readable JSON log records")

	rootCmd.AddCommand(commands.AnnotateCmd)
	rootCmd.AddCommand(commands.TrainCmd)
	rootCmd.AddCommand(commands.NormalizeCmd)
	rootCmd.AddCommand(commands.CacheCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
