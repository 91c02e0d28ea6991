package pipeline

import (
	"context"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/attributes"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/features"
	"github.com/teranos/tempex/logger"
	"github.com/teranos/tempex/tagger"
)

// GoldSpan is one reference mention as byte offsets into the raw text, the
// way corpus files record them before tokenization exists.
type GoldSpan struct {
	Type document.MentionType

	// Start and End are byte offsets into the document text, End exclusive.
	Start, End int

	// Attributes holds the reference attribute values (class, tense, type,
	// value, ...) used to fit the attribute classifiers.
	Attributes map[string]string
}

// Example is one training document: raw text plus its reference spans.
type Example struct {
	Doc  *document.Document
	Gold []GoldSpan
}

// TrainOptions configures Train. Annotator is required.
type TrainOptions struct {
	Annotator annotate.Annotator
	Cache     *annotate.Cache

	// Groups selects the feature set; zero value means DefaultGroups.
	Groups features.Groups

	// Engine fits the sequence models. Defaults to the averaged perceptron.
	Engine tagger.Engine
}

// Train fits the full model bundle from gold-annotated examples: both BIO
// taggers plus the attribute classifiers, all against one feature schema.
// Gold spans that do not align with token boundaries are dropped with a
// warning rather than poisoning the label sequences.
func Train(ctx context.Context, examples []Example, opts TrainOptions) (*Models, error) {
	if opts.Annotator == nil {
		return nil, errors.New("pipeline: an annotator is required")
	}
	if len(examples) == 0 {
		return nil, errors.New("pipeline: no training examples")
	}

	groups := opts.Groups
	if groups == (features.Groups{}) {
		groups = features.DefaultGroups()
	}
	extractor, err := features.NewExtractor(groups)
	if err != nil {
		return nil, err
	}

	engine := opts.Engine
	if engine == nil {
		engine = tagger.NewPerceptron()
	}

	var (
		eventSamples []tagger.Sample
		timexSamples []tagger.Sample
		attrMentions []attributes.TrainingMention
	)

	for _, ex := range examples {
		sentences, err := annotateFor(ctx, opts, ex.Doc.Text)
		if err != nil {
			return nil, err
		}
		ex.Doc.Sentences = sentences

		for _, sent := range sentences {
			vectors := extractor.Sentence(sent)
			atoms := make([][]string, len(vectors))
			for i, v := range vectors {
				atoms[i] = v.Atoms()
			}

			eventLabels := make([]document.Label, len(sent.Tokens))
			timexLabels := make([]document.Label, len(sent.Tokens))
			for i := range sent.Tokens {
				eventLabels[i] = document.LabelO
				timexLabels[i] = document.LabelO
			}

			for _, g := range ex.Gold {
				first, last, ok := alignSpan(sent, g)
				if !ok {
					continue
				}
				seq := eventLabels
				if g.Type == document.MentionTimex {
					seq = timexLabels
				}
				seq[first] = document.Begin(g.Type)
				for i := first + 1; i <= last; i++ {
					seq[i] = document.Inside(g.Type)
				}

				attrMentions = append(attrMentions, attributes.TrainingMention{
					Type:       g.Type,
					Atoms:      attributes.MergeSpan(vectors[first : last+1]),
					Attributes: g.Attributes,
				})
			}

			eventSamples = append(eventSamples, tagger.Sample{Atoms: atoms, Labels: eventLabels})
			timexSamples = append(timexSamples, tagger.Sample{Atoms: atoms, Labels: timexLabels})
		}

		dropped := countUnaligned(ex)
		if dropped > 0 {
			logger.Logger.Warnw("Dropped gold spans outside token boundaries",
				logger.FieldDocID, ex.Doc.ID,
				logger.FieldCount, dropped)
		}
	}

	schema := extractor.Schema()

	eventModel, err := engine.Train(document.MentionEvent, schema, eventSamples)
	if err != nil {
		return nil, errors.Wrap(err, "training event tagger")
	}
	timexModel, err := engine.Train(document.MentionTimex, schema, timexSamples)
	if err != nil {
		return nil, errors.Wrap(err, "training timex tagger")
	}
	attrModel, err := attributes.NewTrainer().Train(schema, attrMentions)
	if err != nil {
		return nil, errors.Wrap(err, "training attribute classifiers")
	}

	logger.Logger.Infow("Trained model bundle",
		logger.FieldFingerprint, schema,
		logger.FieldSentences, len(eventSamples),
		logger.FieldCount, len(attrMentions))

	return &Models{
		Schema:     schema,
		Groups:     groups,
		Event:      eventModel,
		Timex:      timexModel,
		Attributes: attrModel,
	}, nil
}

func annotateFor(ctx context.Context, opts TrainOptions, text string) ([]document.Sentence, error) {
	if opts.Cache != nil {
		return opts.Cache.Annotate(ctx, opts.Annotator, text)
	}
	sentences, err := opts.Annotator.Annotate(ctx, text)
	if err != nil {
		return nil, errors.WrapAnnotation(err, opts.Annotator.Version())
	}
	return sentences, nil
}

// alignSpan maps a byte-offset gold span onto the sentence's token indexes.
// The span must cover whole tokens of this sentence; partial token coverage
// does not align.
func alignSpan(sent document.Sentence, g GoldSpan) (first, last int, ok bool) {
	first, last = -1, -1
	for i, tok := range sent.Tokens {
		if tok.Start >= g.Start && tok.End <= g.End {
			if first == -1 {
				first = i
			}
			last = i
		} else if tok.Start < g.End && tok.End > g.Start {
			// Partial overlap with a token: punt on the whole span.
			return 0, 0, false
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// countUnaligned tallies gold spans that aligned with no sentence, for the
// warning log only.
func countUnaligned(ex Example) int {
	dropped := 0
	for _, g := range ex.Gold {
		aligned := false
		for _, sent := range ex.Doc.Sentences {
			if _, _, ok := alignSpan(sent, g); ok {
				aligned = true
				break
			}
		}
		if !aligned {
			dropped++
		}
	}
	return dropped
}
