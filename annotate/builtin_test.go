package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinAnnotate(t *testing.T) {
	ann := NewBuiltin()

	t.Run("single sentence", func(t *testing.T) {
		sents, err := ann.Annotate(context.Background(), "John left yesterday.")
		require.NoError(t, err)
		require.Len(t, sents, 1)

		toks := sents[0].Tokens
		require.Len(t, toks, 4)

		assert.Equal(t, "John", toks[0].Form)
		assert.Equal(t, "NNP", toks[0].POS)

		assert.Equal(t, "left", toks[1].Form)
		assert.Equal(t, "VBD", toks[1].POS)
		assert.Equal(t, "leave", toks[1].Lemma)
		assert.Equal(t, "B-VP", toks[1].Chunk)

		assert.Equal(t, "yesterday", toks[2].Form)
		assert.Equal(t, "NN", toks[2].POS)

		assert.Equal(t, ".", toks[3].Form)
		assert.Equal(t, ".", toks[3].POS)
	})

	t.Run("offsets point into the original text", func(t *testing.T) {
		text := "  The meeting happened on Friday.  "
		sents, err := ann.Annotate(context.Background(), text)
		require.NoError(t, err)
		require.Len(t, sents, 1)
		for _, tok := range sents[0].Tokens {
			assert.Equal(t, tok.Form, text[tok.Start:tok.End])
		}
	})

	t.Run("two sentences", func(t *testing.T) {
		sents, err := ann.Annotate(context.Background(), "He arrived. She left later.")
		require.NoError(t, err)
		require.Len(t, sents, 2)
		assert.Equal(t, 0, sents[0].Index)
		assert.Equal(t, 1, sents[1].Index)
	})

	t.Run("lowercase continuation does not split", func(t *testing.T) {
		sents, err := ann.Annotate(context.Background(), "It cost approx. five dollars.")
		require.NoError(t, err)
		assert.Len(t, sents, 1)
	})

	t.Run("decimal numbers stay one token", func(t *testing.T) {
		sents, err := ann.Annotate(context.Background(), "Shares rose 3.5 percent.")
		require.NoError(t, err)
		require.Len(t, sents, 1)
		var forms []string
		for _, tok := range sents[0].Tokens {
			forms = append(forms, tok.Form)
		}
		assert.Contains(t, forms, "3.5")
	})

	t.Run("cancelled context stops annotation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ann.Annotate(ctx, "One. Two. Three.")
		assert.Error(t, err)
	})
}

func TestBuiltinDeterministic(t *testing.T) {
	ann := NewBuiltin()
	text := "The company announced results on January 3rd, 2012."

	first, err := ann.Annotate(context.Background(), text)
	require.NoError(t, err)
	second, err := ann.Annotate(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
