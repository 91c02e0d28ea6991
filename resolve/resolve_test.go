package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

func labels(s ...document.Label) []document.Label { return s }

func TestResolveDisjointSpans(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	// "John left yesterday ."
	event := labels("O", "B-EVENT", "O", "O")
	timex := labels("O", "O", "B-TIMEX3", "O")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	require.Len(t, mentions, 2)

	assert.Equal(t, document.MentionEvent, mentions[0].Type)
	assert.Equal(t, 1, mentions[0].Start)
	assert.Equal(t, 1, mentions[0].End)

	assert.Equal(t, document.MentionTimex, mentions[1].Type)
	assert.Equal(t, 2, mentions[1].Start)
}

func TestResolveMultiTokenSpanCollapses(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	timex := labels("B-TIMEX3", "I-TIMEX3", "I-TIMEX3", "O")
	event := labels("O", "O", "O", "O")

	mentions, err := r.Sentence(3, event, timex)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, 0, mentions[0].Start)
	assert.Equal(t, 2, mentions[0].End)
	assert.Equal(t, 3, mentions[0].SentenceIndex)
}

func TestResolveAdjacentBeginsStaySeparate(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	event := labels("B-EVENT", "B-EVENT", "O")
	timex := labels("O", "O", "O")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	assert.Len(t, mentions, 2)
}

func TestResolveOverlapTimexWins(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	// Both taggers claim tokens 1-2; TIMEX3 additionally claims token 3.
	event := labels("O", "B-EVENT", "I-EVENT", "O", "O")
	timex := labels("O", "B-TIMEX3", "I-TIMEX3", "I-TIMEX3", "O")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	require.Len(t, mentions, 1, "the fully-consumed EVENT span disappears")
	assert.Equal(t, document.MentionTimex, mentions[0].Type)
	assert.Equal(t, 1, mentions[0].Start)
	assert.Equal(t, 3, mentions[0].End)
}

func TestResolveOverlapTruncatesLoser(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	// EVENT spans 0-2, TIMEX3 claims only token 1: the event splits into
	// the surviving pieces on either side.
	event := labels("B-EVENT", "I-EVENT", "I-EVENT", "O")
	timex := labels("O", "B-TIMEX3", "O", "O")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	require.Len(t, mentions, 3)

	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions); j++ {
			assert.False(t, mentions[i].Overlaps(mentions[j]),
				"resolved mentions must never overlap")
		}
	}
}

func TestResolvePrecedenceIsConfigurable(t *testing.T) {
	r, err := New(PrecedenceEvent)
	require.NoError(t, err)

	event := labels("B-EVENT", "I-EVENT")
	timex := labels("B-TIMEX3", "I-TIMEX3")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, document.MentionEvent, mentions[0].Type)
}

func TestResolveAdversarialDisagreementNeverOverlaps(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	// Interleaved claims across the whole sentence.
	event := labels("B-EVENT", "I-EVENT", "B-EVENT", "I-EVENT", "I-EVENT", "O")
	timex := labels("O", "B-TIMEX3", "I-TIMEX3", "O", "B-TIMEX3", "I-TIMEX3")

	mentions, err := r.Sentence(0, event, timex)
	require.NoError(t, err)
	for i := 0; i < len(mentions); i++ {
		for j := i + 1; j < len(mentions); j++ {
			assert.False(t, mentions[i].Overlaps(mentions[j]))
		}
	}
}

func TestResolveRejectsInvalidSequences(t *testing.T) {
	r, err := New(PrecedenceTimex)
	require.NoError(t, err)

	t.Run("invalid BIO", func(t *testing.T) {
		_, err := r.Sentence(0, labels("O", "I-EVENT"), labels("O", "O"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidLabelSequence))
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := r.Sentence(0, labels("O"), labels("O", "O"))
		assert.Error(t, err)
	})
}

func TestNewRejectsUnknownPrecedence(t *testing.T) {
	_, err := New("coin-flip")
	assert.Error(t, err)
}
