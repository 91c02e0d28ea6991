// Package document holds the in-memory representation of a document and its
// annotation layers: sentences, tokens, and the temporal/event mentions the
// pipeline attaches to them.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is the root of the data model. Text is immutable once the
// document is created; annotation layers (sentences, mentions) are attached
// by later pipeline stages.
type Document struct {
	// ID is the document identifier, taken from the source file (DOCID)
	// when available.
	ID string

	// Path is the source file path, empty for in-memory documents.
	Path string

	// Title is the document title, when the source format carries one.
	Title string

	// Text is the raw document text all character offsets refer to.
	Text string

	// AnchorDate is the document creation time, used to resolve relative
	// temporal expressions ("yesterday", "next month").
	AnchorDate time.Time

	// Sentences are attached by the annotation adapter.
	Sentences []Sentence

	// Mentions are attached by the mention resolver, in document order.
	Mentions []*Mention
}

// New creates a Document over raw text with the given anchor date. The ID is
// a fresh UUID; readers that know the source identifier overwrite it.
func New(text string, anchor time.Time) *Document {
	return &Document{
		ID:         uuid.NewString(),
		Text:       text,
		AnchorDate: anchor,
	}
}

// Sentence is an ordered sequence of tokens plus optional syntactic
// structure. A sentence is owned exclusively by its document.
type Sentence struct {
	// Index is the sentence position within the document, starting at 0.
	Index int

	// Start and End are byte offsets of the sentence within Document.Text.
	Start, End int

	Tokens []Token

	// ParseTree is an optional bracketed constituency parse, empty when the
	// annotator does not produce one.
	ParseTree string
}

// Text returns the sentence surface text.
func (s *Sentence) Text(doc *Document) string {
	if s.Start < 0 || s.End > len(doc.Text) || s.Start > s.End {
		return ""
	}
	return doc.Text[s.Start:s.End]
}

// Token is a single annotated token. Immutable once the annotator has
// produced it.
type Token struct {
	// Form is the surface form as it appears in the text.
	Form string

	// Lemma is the base form; falls back to the lowercased surface form
	// when the annotator has no better answer.
	Lemma string

	// POS is the part-of-speech tag (Penn Treebank tag set).
	POS string

	// Chunk is the shallow-parse chunk tag (e.g. B-NP, I-VP, O).
	Chunk string

	// Start and End are byte offsets within Document.Text.
	Start, End int

	// Index is the token position within its sentence, starting at 0.
	Index int
}
