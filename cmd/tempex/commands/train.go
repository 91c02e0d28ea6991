package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/config"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/pipeline"
	"github.com/teranos/tempex/timeml"
)

// TrainCmd represents the train command
var TrainCmd = &cobra.Command{
	Use:   "train <corpus-dir>",
	Short: "Train the taggers and classifiers from a TimeML corpus",
	Long: `tempex train — fit the model bundle on gold-annotated TimeML.

Reads every .tml file under the corpus directory, trains both sequence
taggers and the attribute classifiers, and writes the bundle to --out.
Malformed corpus files are skipped with a warning.

Examples:
  tempex train corpus/                     # Write to the configured model path
  tempex train --out models.bin corpus/    # Explicit output`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

var trainOutFlag string

func init() {
	TrainCmd.Flags().StringVar(&trainOutFlag, "out", "", "Model bundle output path (default: from config)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	examples, err := timeml.ReadDir(args[0])
	if err != nil {
		return err
	}

	cache, closeCache, err := openConfiguredCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	models, err := pipeline.Train(cmd.Context(), examples, pipeline.TrainOptions{
		Annotator: annotate.NewBuiltin(),
		Cache:     cache,
		Groups:    cfg.Features,
	})
	if err != nil {
		return err
	}

	out := trainOutFlag
	if out == "" {
		out = cfg.Models.Path
	}
	if err := models.Save(out); err != nil {
		return err
	}

	cmd.Printf("Trained on %d document(s), models written to %s\n", len(examples), out)
	return nil
}
