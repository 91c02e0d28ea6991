// Package annotate adapts an external linguistic annotator (tokenizer, POS
// tagger, chunker, lemmatizer) to the pipeline and caches its output per
// document content hash.
package annotate

import (
	"context"

	"github.com/teranos/tempex/document"
)

// Annotator produces annotated sentences for raw document text.
//
// Implementations must be safe for concurrent use: the batch runner calls
// Annotate from multiple workers. Failures of any kind (process error,
// timeout, malformed output) surface to callers wrapped as
// errors.ErrAnnotation, which the batch runner treats as fatal for the
// affected document only.
type Annotator interface {
	// Annotate splits text into sentences and tokens with POS, chunk and
	// lemma layers attached. Token offsets are byte offsets into text.
	Annotate(ctx context.Context, text string) ([]document.Sentence, error)

	// Version identifies the annotator build. The annotation cache keys on
	// it, so bumping the version invalidates previously cached output.
	Version() string
}
