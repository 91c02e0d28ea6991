package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/features"
)

func vec(t *testing.T, pairs ...string) *features.Vector {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	v := features.NewVector()
	for i := 0; i < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

func TestMergeSpanPreservesTokenOrder(t *testing.T) {
	a := vec(t, "form", "left", "pos", "VBD")
	b := vec(t, "form", "early", "pos", "RB")

	atoms := MergeSpan([]*features.Vector{a, b})

	assert.Contains(t, atoms, "w0|form=left")
	assert.Contains(t, atoms, "w1|form=early")
	assert.Contains(t, atoms, "span_len=2")
	assert.Contains(t, atoms, "first_pos=VBD")
	assert.Contains(t, atoms, "last_pos=RB")

	// Order must be positional, not a bag: swapping tokens changes atoms.
	swapped := MergeSpan([]*features.Vector{b, a})
	assert.NotEqual(t, atoms, swapped)
}

func TestDefaultModelFillsEveryAttribute(t *testing.T) {
	model := NewDefaultModel("s")

	event := &document.Mention{Type: document.MentionEvent}
	model.Apply(event, MergeSpan([]*features.Vector{vec(t, "pos", "VBD")}))
	require.NotEmpty(t, event.Attributes)
	assert.Len(t, event.Attributes, len(EventSpaces()))
	assert.Equal(t, "OCCURRENCE", event.Attributes[document.AttrClass])
	assert.Equal(t, "POS", event.Attributes[document.AttrPolarity])

	timex := &document.Mention{Type: document.MentionTimex}
	model.Apply(timex, MergeSpan([]*features.Vector{vec(t, "pos", "NN"), vec(t, "pos", "NN")}))
	require.NotEmpty(t, timex.Attributes)
	assert.Len(t, timex.Attributes, len(TimexSpaces()))
	assert.Equal(t, "DATE", timex.Attributes[document.AttrType])
}

func trainingCorpus(t *testing.T) []TrainingMention {
	t.Helper()
	mk := func(typ document.MentionType, attrs map[string]string, vectors ...*features.Vector) TrainingMention {
		return TrainingMention{Type: typ, Atoms: MergeSpan(vectors), Attributes: attrs}
	}
	return []TrainingMention{
		mk(document.MentionEvent, map[string]string{"class": "OCCURRENCE", "tense": "PAST"},
			vec(t, "pos", "VBD", "lemma", "leave")),
		mk(document.MentionEvent, map[string]string{"class": "OCCURRENCE", "tense": "PAST"},
			vec(t, "pos", "VBD", "lemma", "arrive")),
		mk(document.MentionEvent, map[string]string{"class": "REPORTING", "tense": "PRESENT"},
			vec(t, "pos", "VBZ", "lemma", "say")),
		mk(document.MentionEvent, map[string]string{"class": "REPORTING", "tense": "PRESENT"},
			vec(t, "pos", "VBZ", "lemma", "report")),
		mk(document.MentionTimex, map[string]string{"type": "DATE"},
			vec(t, "pos", "NN", "lower", "yesterday")),
		mk(document.MentionTimex, map[string]string{"type": "DURATION"},
			vec(t, "pos", "CD", "lower", "three"), vec(t, "pos", "NNS", "lower", "weeks")),
	}
}

func TestTrainedModelClassifies(t *testing.T) {
	model, err := NewTrainer().Train("s", trainingCorpus(t))
	require.NoError(t, err)

	t.Run("single-token event", func(t *testing.T) {
		m := &document.Mention{Type: document.MentionEvent}
		model.Apply(m, MergeSpan([]*features.Vector{vec(t, "pos", "VBD", "lemma", "leave")}))
		assert.Equal(t, "PAST", m.Attributes[document.AttrTense])
		assert.Equal(t, "OCCURRENCE", m.Attributes[document.AttrClass])
		assert.Len(t, m.Attributes, len(EventSpaces()))
	})

	t.Run("multi-token timex", func(t *testing.T) {
		m := &document.Mention{Type: document.MentionTimex}
		model.Apply(m, MergeSpan([]*features.Vector{
			vec(t, "pos", "CD", "lower", "three"),
			vec(t, "pos", "NNS", "lower", "weeks"),
		}))
		assert.Equal(t, "DURATION", m.Attributes[document.AttrType])
		assert.Len(t, m.Attributes, len(TimexSpaces()))
	})
}

func TestTrainRejectsGoldOutsideSpace(t *testing.T) {
	_, err := NewTrainer().Train("s", []TrainingMention{
		{
			Type:       document.MentionEvent,
			Atoms:      []string{"pos=VBD"},
			Attributes: map[string]string{"class": "EXPLOSION"},
		},
	})
	assert.Error(t, err)
}
