package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/document"
)

// toyCorpus labels any token carrying the "temporal=true" atom as TIMEX3,
// with multi-token spans for consecutive hits.
func toyCorpus() []Sample {
	mk := func(flags ...bool) Sample {
		var s Sample
		inSpan := false
		for _, temporal := range flags {
			atom := "temporal=false"
			label := document.LabelO
			if temporal {
				atom = "temporal=true"
				if inSpan {
					label = document.Inside(document.MentionTimex)
				} else {
					label = document.Begin(document.MentionTimex)
				}
			}
			inSpan = temporal
			s.Atoms = append(s.Atoms, []string{atom, "pos=NN"})
			s.Labels = append(s.Labels, label)
		}
		return s
	}
	return []Sample{
		mk(false, false, true, false),
		mk(true, true, false),
		mk(false, true, true, true, false),
		mk(false, false, false),
		mk(true, false, true),
	}
}

func TestPerceptronLearnsToyPattern(t *testing.T) {
	engine := NewPerceptron()
	model, err := engine.Train(document.MentionTimex, "schema-a", toyCorpus())
	require.NoError(t, err)
	require.Equal(t, "schema-a", model.Schema)

	labels, err := engine.Predict(model, [][]string{
		{"temporal=false", "pos=NN"},
		{"temporal=true", "pos=NN"},
		{"temporal=true", "pos=NN"},
		{"temporal=false", "pos=NN"},
	})
	require.NoError(t, err)
	assert.Equal(t, []document.Label{"O", "B-TIMEX3", "I-TIMEX3", "O"}, labels)
}

func TestTrainIsDeterministic(t *testing.T) {
	engine := NewPerceptron()
	a, err := engine.Train(document.MentionEvent, "s", eventCorpus())
	require.NoError(t, err)
	b, err := engine.Train(document.MentionEvent, "s", eventCorpus())
	require.NoError(t, err)

	assert.Equal(t, a.Emissions, b.Emissions)
	assert.Equal(t, a.Transitions, b.Transitions)
}

func eventCorpus() []Sample {
	return []Sample{
		{
			Atoms:  [][]string{{"pos=NNP"}, {"pos=VBD"}, {"pos=NN"}},
			Labels: []document.Label{"O", "B-EVENT", "O"},
		},
		{
			Atoms:  [][]string{{"pos=PRP"}, {"pos=VBD"}, {"pos=RB"}},
			Labels: []document.Label{"O", "B-EVENT", "O"},
		},
		{
			Atoms:  [][]string{{"pos=DT"}, {"pos=NN"}, {"pos=VBD"}},
			Labels: []document.Label{"O", "O", "B-EVENT"},
		},
	}
}

func TestTrainRejectsBadGold(t *testing.T) {
	engine := NewPerceptron()

	t.Run("length mismatch", func(t *testing.T) {
		_, err := engine.Train(document.MentionEvent, "s", []Sample{
			{Atoms: [][]string{{"a"}}, Labels: []document.Label{"O", "O"}},
		})
		assert.Error(t, err)
	})

	t.Run("invalid BIO gold", func(t *testing.T) {
		_, err := engine.Train(document.MentionEvent, "s", []Sample{
			{Atoms: [][]string{{"a"}, {"b"}}, Labels: []document.Label{"O", "I-EVENT"}},
		})
		assert.Error(t, err)
	})

	t.Run("foreign label type", func(t *testing.T) {
		_, err := engine.Train(document.MentionEvent, "s", []Sample{
			{Atoms: [][]string{{"a"}}, Labels: []document.Label{"B-TIMEX3"}},
		})
		assert.Error(t, err)
	})
}

func TestDecodeNeverStartsInside(t *testing.T) {
	// Rig the weights so I-EVENT dominates every emission; the transition
	// constraints must still forbid it at position 0 and after O.
	model := newModel(document.MentionEvent, "s")
	model.Emissions["x=1"] = map[document.Label]float64{
		document.Inside(document.MentionEvent): 100,
		document.Begin(document.MentionEvent):  1,
		document.LabelO:                        0,
	}

	labels, err := Predict(model, [][]string{{"x=1"}, {"x=1"}, {"x=1"}})
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.False(t, labels[0].IsInside())
	assert.NoError(t, document.ValidateBIO(labels))
}

func TestDecodeEmptySequence(t *testing.T) {
	model := newModel(document.MentionTimex, "s")
	labels, err := Predict(model, nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}
