package commands

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/config"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/logger"
	"github.com/teranos/tempex/pipeline"
	"github.com/teranos/tempex/timeml"
)

// AnnotateCmd represents the annotate command
var AnnotateCmd = &cobra.Command{
	Use:   "annotate [path...]",
	Short: "Annotate documents and emit TimeML",
	Long: `tempex annotate — run the full pipeline over documents.

Input paths may be .tml files (their creation time is read from the DCT),
plain text files (--anchor supplies the creation time), or directories of
either. Annotated TimeML is written next to each input with an .annotated.tml
suffix, or under --out when given.

Examples:
  tempex annotate news/                          # Annotate a corpus folder
  tempex annotate --out results/ a.tml b.tml     # Two files into results/
  tempex annotate --anchor 2012-06-02 note.txt   # Plain text with explicit DCT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnnotate,
}

var (
	annotateOutFlag     string
	annotateModelsFlag  string
	annotateWorkersFlag int
	annotateAnchorFlag  string
)

func init() {
	AnnotateCmd.Flags().StringVar(&annotateOutFlag, "out", "", "Output directory (default: next to each input)")
	AnnotateCmd.Flags().StringVar(&annotateModelsFlag, "models", "", "Model bundle path (default: from config)")
	AnnotateCmd.Flags().IntVar(&annotateWorkersFlag, "workers", 0, "Concurrent document workers (default: from config)")
	AnnotateCmd.Flags().StringVar(&annotateAnchorFlag, "anchor", "", "Creation date for plain-text inputs (YYYY-MM-DD)")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	modelsPath := annotateModelsFlag
	if modelsPath == "" {
		modelsPath = cfg.Models.Path
	}
	models, err := pipeline.LoadModels(modelsPath)
	if err != nil {
		return err
	}

	cache, closeCache, err := openConfiguredCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	runner, err := pipeline.NewRunner(pipeline.RunnerOptions{
		Models:     models,
		Annotator:  annotate.NewBuiltin(),
		Cache:      cache,
		Precedence: cfg.Resolver.ResolvePrecedence(),
	})
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}

	docs := make([]*document.Document, 0, len(inputs))
	for _, path := range inputs {
		doc, err := loadInput(path)
		if err != nil {
			logger.Logger.Warnw("Skipping unreadable input",
				logger.FieldDocPath, path,
				logger.FieldError, err)
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return errors.New("no readable input documents")
	}

	workers := annotateWorkersFlag
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	batch := &pipeline.Batch{Runner: runner, Workers: workers}
	result, err := batch.Run(cmd.Context(), docs)
	if err != nil {
		return err
	}

	written := 0
	for _, doc := range docs {
		if _, failed := result.Failed[doc.ID]; failed {
			continue
		}
		if err := writeOutput(doc); err != nil {
			return err
		}
		written++
	}

	cmd.Printf("Annotated %d document(s), %d failed, %d written\n",
		result.Processed, len(result.Failed), written)
	return nil
}

// openConfiguredCache builds the annotation cache from config; a disabled
// cache yields nil, which the runner treats as a direct annotator path.
func openConfiguredCache(cfg *config.Config) (*annotate.Cache, func(), error) {
	if cfg.Cache.Disabled {
		return nil, func() {}, nil
	}
	cache, err := annotate.OpenCache(annotate.CacheOptions{
		Path:      cfg.Cache.Path,
		Timeout:   cfg.Annotator.Timeout(),
		RateLimit: rate.Limit(cfg.Annotator.RequestsPerSecond),
		Logger:    logger.Logger,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening annotation cache")
	}
	return cache, func() { _ = cache.Close() }, nil
}

// collectInputs expands directories into their .tml and .txt members.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", arg)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", arg)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch filepath.Ext(e.Name()) {
			case ".tml", ".TE3input", ".txt":
				inputs = append(inputs, filepath.Join(arg, e.Name()))
			}
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New("no input files found")
	}
	return inputs, nil
}

// loadInput reads one input document. TimeML files carry their own creation
// time; plain text requires the --anchor flag.
func loadInput(path string) (*document.Document, error) {
	if ext := filepath.Ext(path); ext == ".tml" || ext == ".TE3input" {
		ex, err := timeml.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ex.Doc, nil
	}

	if annotateAnchorFlag == "" {
		return nil, errors.Newf("plain-text input %s needs --anchor", path)
	}
	anchor, err := time.Parse("2006-01-02", annotateAnchorFlag)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing --anchor %q", annotateAnchorFlag)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := document.New(string(data), anchor)
	doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc.Path = path
	return doc, nil
}

// writeOutput renders one annotated document as TimeML.
func writeOutput(doc *document.Document) error {
	out := outputPath(doc)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory for %s", out)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, "creating %s", out)
	}
	defer f.Close()

	if err := timeml.Write(f, doc); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	logger.Logger.Infow("Wrote annotated document",
		logger.FieldDocID, doc.ID,
		logger.FieldDocPath, out,
		logger.FieldCount, len(doc.Mentions))
	return nil
}

func outputPath(doc *document.Document) string {
	base := doc.ID + ".annotated.tml"
	if doc.Path != "" {
		name := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
		base = name + ".annotated.tml"
		if annotateOutFlag == "" {
			return filepath.Join(filepath.Dir(doc.Path), base)
		}
	}
	if annotateOutFlag != "" {
		return filepath.Join(annotateOutFlag, base)
	}
	return base
}
