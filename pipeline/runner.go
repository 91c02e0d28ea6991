package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/attributes"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/features"
	"github.com/teranos/tempex/logger"
	"github.com/teranos/tempex/normalize"
	"github.com/teranos/tempex/resolve"
	"github.com/teranos/tempex/tagger"
)

// Runner drives one document through every pipeline stage: linguistic
// annotation, feature extraction, the two sequence taggers, mention
// resolution, attribute classification and time normalization. A Runner is
// immutable after construction and safe for concurrent use.
type Runner struct {
	models    *Models
	extractor *features.Extractor
	annotator annotate.Annotator
	cache     *annotate.Cache
	engine    tagger.Engine
	resolver  *resolve.Resolver
}

// RunnerOptions configures a Runner. Models and Annotator are required;
// Cache, Engine and Precedence fall back to sensible defaults.
type RunnerOptions struct {
	Models    *Models
	Annotator annotate.Annotator

	// Cache, when set, memoizes annotator output across documents and runs.
	Cache *annotate.Cache

	// Engine decodes tag sequences. Defaults to the averaged perceptron.
	Engine tagger.Engine

	// Precedence selects the overlap winner. Defaults to TIMEX3.
	Precedence resolve.Precedence
}

// NewRunner validates the configuration and verifies that the extractor
// rebuilt from the model's feature groups still produces the fingerprint the
// model was trained with.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Models == nil {
		return nil, errors.New("pipeline: models are required")
	}
	if opts.Annotator == nil {
		return nil, errors.New("pipeline: an annotator is required")
	}

	extractor, err := features.NewExtractor(opts.Models.Groups)
	if err != nil {
		return nil, err
	}
	if err := extractor.CheckSchema(opts.Models.Schema); err != nil {
		return nil, err
	}

	engine := opts.Engine
	if engine == nil {
		engine = tagger.NewPerceptron()
	}

	precedence := opts.Precedence
	if precedence == "" {
		precedence = resolve.PrecedenceTimex
	}
	resolver, err := resolve.New(precedence)
	if err != nil {
		return nil, err
	}

	return &Runner{
		models:    opts.Models,
		extractor: extractor,
		annotator: opts.Annotator,
		cache:     opts.Cache,
		engine:    engine,
		resolver:  resolver,
	}, nil
}

// Run annotates one document in place: fills doc.Sentences and doc.Mentions.
// Annotator failures come back as annotation errors (recoverable per
// document); schema or label-sequence violations are fatal to the batch.
func (r *Runner) Run(ctx context.Context, doc *document.Document) error {
	start := time.Now()

	sentences, err := r.annotateText(ctx, doc.Text)
	if err != nil {
		return err
	}
	doc.Sentences = sentences

	var mentions []*document.Mention
	for _, sent := range doc.Sentences {
		sentMentions, err := r.runSentence(sent)
		if err != nil {
			return err
		}
		mentions = append(mentions, sentMentions...)
	}

	for _, m := range mentions {
		if m.Type != document.MentionTimex {
			continue
		}
		m.Value = normalizeValue(m.Text(doc), doc.AnchorDate)
	}

	doc.Mentions = mentions
	if err := assignIDs(doc); err != nil {
		return err
	}

	logger.Logger.Debugw("Annotated document",
		logger.FieldDocID, doc.ID,
		logger.FieldSentences, len(doc.Sentences),
		logger.FieldCount, len(doc.Mentions),
		logger.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// annotateText routes through the cache when one is configured.
func (r *Runner) annotateText(ctx context.Context, text string) ([]document.Sentence, error) {
	if r.cache != nil {
		return r.cache.Annotate(ctx, r.annotator, text)
	}
	sentences, err := r.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, errors.WrapAnnotation(err, r.annotator.Version())
	}
	return sentences, nil
}

// runSentence tags one sentence with both models and resolves the label
// sequences into mentions with classified attributes.
func (r *Runner) runSentence(sent document.Sentence) ([]*document.Mention, error) {
	vectors := r.extractor.Sentence(sent)
	atoms := make([][]string, len(vectors))
	for i, v := range vectors {
		atoms[i] = v.Atoms()
	}

	eventLabels, err := r.engine.Predict(r.models.Event, atoms)
	if err != nil {
		return nil, err
	}
	timexLabels, err := r.engine.Predict(r.models.Timex, atoms)
	if err != nil {
		return nil, err
	}

	mentions, err := r.resolver.Sentence(sent.Index, eventLabels, timexLabels)
	if err != nil {
		return nil, err
	}

	for _, m := range mentions {
		merged := attributes.MergeSpan(vectors[m.Start : m.End+1])
		r.models.Attributes.Apply(m, merged)
	}
	return mentions, nil
}

// normalizeValue maps the normalizer's result onto the TIMEX3 value string.
func normalizeValue(text string, anchor time.Time) string {
	v := normalize.Normalize(text, anchor)
	if v.IsUnresolved() {
		return document.ValueUnresolved
	}
	return v.Text
}

// assignIDs numbers mentions in document order (t1, e2, ...) and re-checks
// the non-overlap invariant the resolver is supposed to guarantee. An
// overlap here is a defect upstream, not a document problem.
func assignIDs(doc *document.Document) error {
	sort.Slice(doc.Mentions, func(i, j int) bool {
		a, b := doc.Mentions[i], doc.Mentions[j]
		if a.SentenceIndex != b.SentenceIndex {
			return a.SentenceIndex < b.SentenceIndex
		}
		return a.Start < b.Start
	})

	var nextEvent, nextTimex int
	for i, m := range doc.Mentions {
		if i > 0 {
			prev := doc.Mentions[i-1]
			if m.SentenceIndex == prev.SentenceIndex && m.Overlaps(prev) {
				return errors.Newf("document %s: mentions %d and %d overlap after resolution", doc.ID, i-1, i)
			}
		}
		switch m.Type {
		case document.MentionTimex:
			nextTimex++
			m.ID = fmt.Sprintf("t%d", nextTimex)
		default:
			nextEvent++
			m.ID = fmt.Sprintf("e%d", nextEvent)
		}
	}
	return nil
}
