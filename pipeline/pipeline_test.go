package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

func eventGold() map[string]string {
	return map[string]string{
		document.AttrClass:    "OCCURRENCE",
		document.AttrTense:    "PAST",
		document.AttrAspect:   "NONE",
		document.AttrPolarity: "POS",
		document.AttrModality: "NONE",
	}
}

func timexGold() map[string]string {
	return map[string]string{document.AttrType: "DATE"}
}

// span locates a substring and returns its byte offsets.
func span(t *testing.T, text, sub string) (int, int) {
	t.Helper()
	i := strings.Index(text, sub)
	require.GreaterOrEqual(t, i, 0, "%q not in %q", sub, text)
	return i, i + len(sub)
}

func example(t *testing.T, text string, events, timexes []string) Example {
	t.Helper()
	doc := document.New(text, time.Date(2012, 6, 2, 0, 0, 0, 0, time.UTC))
	ex := Example{Doc: doc}
	for _, e := range events {
		s, end := span(t, text, e)
		ex.Gold = append(ex.Gold, GoldSpan{
			Type: document.MentionEvent, Start: s, End: end, Attributes: eventGold(),
		})
	}
	for _, x := range timexes {
		s, end := span(t, text, x)
		ex.Gold = append(ex.Gold, GoldSpan{
			Type: document.MentionTimex, Start: s, End: end, Attributes: timexGold(),
		})
	}
	return ex
}

func trainTestModels(t *testing.T) *Models {
	t.Helper()
	examples := []Example{
		example(t, "John left yesterday.", []string{"left"}, []string{"yesterday"}),
		example(t, "Mary left today.", []string{"left"}, []string{"today"}),
		example(t, "They arrived tomorrow.", []string{"arrived"}, []string{"tomorrow"}),
		example(t, "The team left on Monday.", []string{"left"}, []string{"Monday"}),
		example(t, "The report has three pages.", nil, nil),
	}
	models, err := Train(context.Background(), examples, TrainOptions{
		Annotator: annotate.NewBuiltin(),
	})
	require.NoError(t, err)
	return models
}

func TestPipelineEndToEnd(t *testing.T) {
	models := trainTestModels(t)
	runner, err := NewRunner(RunnerOptions{
		Models:    models,
		Annotator: annotate.NewBuiltin(),
	})
	require.NoError(t, err)

	doc := document.New("John left yesterday.", time.Date(2012, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, runner.Run(context.Background(), doc))

	require.Len(t, doc.Mentions, 2)

	event := doc.Mentions[0]
	assert.Equal(t, document.MentionEvent, event.Type)
	assert.Equal(t, "e1", event.ID)
	assert.Equal(t, "left", event.Text(doc))
	assert.Equal(t, "PAST", event.Attributes[document.AttrTense])
	assert.Equal(t, "OCCURRENCE", event.Attributes[document.AttrClass])
	assert.Empty(t, event.Value)

	timex := doc.Mentions[1]
	assert.Equal(t, document.MentionTimex, timex.Type)
	assert.Equal(t, "t1", timex.ID)
	assert.Equal(t, "yesterday", timex.Text(doc))
	assert.Equal(t, "DATE", timex.Attributes[document.AttrType])
	assert.Equal(t, "2012-06-01", timex.Value)
}

func TestPipelineUnresolvedValueIsMarked(t *testing.T) {
	models := trainTestModels(t)
	runner, err := NewRunner(RunnerOptions{
		Models:    models,
		Annotator: annotate.NewBuiltin(),
	})
	require.NoError(t, err)

	// "Monday" trains the tagger on a bare weekday; the builtin annotator
	// tokenizes it the same way here, and the normalizer resolves it.
	doc := document.New("Mary left on Monday.", time.Date(2012, 6, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, runner.Run(context.Background(), doc))

	var timex *document.Mention
	for _, m := range doc.Mentions {
		if m.Type == document.MentionTimex {
			timex = m
		}
	}
	require.NotNil(t, timex)
	// 2012-06-06 is a Wednesday; the preceding Monday is June 4.
	assert.Equal(t, "2012-06-04", timex.Value)
}

func TestModelsSaveLoadRoundTrip(t *testing.T) {
	models := trainTestModels(t)
	path := filepath.Join(t.TempDir(), "models", "tempex.bin")

	require.NoError(t, models.Save(path))

	loaded, err := LoadModels(path)
	require.NoError(t, err)
	assert.Equal(t, models.Schema, loaded.Schema)
	assert.Equal(t, models.Groups, loaded.Groups)
	assert.Equal(t, models.Event.Emissions, loaded.Event.Emissions)
	assert.Equal(t, models.Timex.Transitions, loaded.Timex.Transitions)

	// The loaded bundle must drive a runner identically.
	runner, err := NewRunner(RunnerOptions{Models: loaded, Annotator: annotate.NewBuiltin()})
	require.NoError(t, err)
	doc := document.New("John left yesterday.", time.Date(2012, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, runner.Run(context.Background(), doc))
	assert.Len(t, doc.Mentions, 2)
}

func TestLoadModelsMissingFile(t *testing.T) {
	_, err := LoadModels(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrModelNotFound))
}

func TestNewRunnerRejectsSchemaMismatch(t *testing.T) {
	models := trainTestModels(t)
	models.Schema = "not-the-real-fingerprint"

	_, err := NewRunner(RunnerOptions{Models: models, Annotator: annotate.NewBuiltin()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFeatureSchema))
}

// failingAnnotator fails on texts containing its trigger and otherwise
// delegates to the builtin annotator.
type failingAnnotator struct {
	inner   *annotate.Builtin
	trigger string
}

func (f *failingAnnotator) Version() string { return "failing/1" }

func (f *failingAnnotator) Annotate(ctx context.Context, text string) ([]document.Sentence, error) {
	if strings.Contains(text, f.trigger) {
		return nil, errors.New("annotator exploded")
	}
	return f.inner.Annotate(ctx, text)
}

func TestBatchIsolatesAnnotationFailures(t *testing.T) {
	models := trainTestModels(t)
	runner, err := NewRunner(RunnerOptions{
		Models:    models,
		Annotator: &failingAnnotator{inner: annotate.NewBuiltin(), trigger: "POISON"},
	})
	require.NoError(t, err)

	anchor := time.Date(2012, 6, 2, 0, 0, 0, 0, time.UTC)
	var docs []*document.Document
	var poisoned *document.Document
	for i := 0; i < 10; i++ {
		text := "John left yesterday."
		if i == 7 {
			text = "POISON left yesterday."
		}
		doc := document.New(text, anchor)
		if i == 7 {
			poisoned = doc
		}
		docs = append(docs, doc)
	}

	batch := &Batch{Runner: runner, Workers: 4}
	result, err := batch.Run(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, 9, result.Processed)
	require.Len(t, result.Failed, 1)
	failure := result.Failed[poisoned.ID]
	require.Error(t, failure)
	assert.True(t, errors.IsAnnotationError(failure))

	for i, doc := range docs {
		if i == 7 {
			assert.Empty(t, doc.Mentions)
			continue
		}
		assert.Len(t, doc.Mentions, 2, "doc %d", i)
	}
}

func TestTrainRequiresExamples(t *testing.T) {
	_, err := Train(context.Background(), nil, TrainOptions{Annotator: annotate.NewBuiltin()})
	require.Error(t, err)
}
