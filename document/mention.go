package document

// TimeML attribute names used across the attribute classifier, normalizer
// and writer.
const (
	AttrClass    = "class"
	AttrTense    = "tense"
	AttrAspect   = "aspect"
	AttrPolarity = "polarity"
	AttrModality = "modality"

	AttrType     = "type"
	AttrMod      = "mod"
	AttrQuant    = "quant"
	AttrFunction = "functionInDocument"
)

// ValueUnresolved marks a TIMEX3 mention whose value could not be computed.
// It is distinct from TimeML's underspecified values (e.g. "XXXX-XX-XX"),
// which mean "present but unknown": ValueUnresolved means the normalizer
// could not produce any value at all.
const ValueUnresolved = "UNRESOLVED"

// Mention is a contiguous token span of one type within one sentence.
// Created by the mention resolver, enriched by the attribute classifier and
// (for TIMEX3) the normalizer, immutable afterwards.
type Mention struct {
	// ID is the document-unique identifier (t1, e2, ...), assigned by the
	// post-processor in document order.
	ID string

	Type MentionType

	// SentenceIndex locates the owning sentence.
	SentenceIndex int

	// Start and End are token indexes within the sentence, inclusive.
	Start, End int

	// Attributes maps TimeML attribute names to predicted values. Non-empty
	// after the attribute classification stage.
	Attributes map[string]string

	// Value is the normalized TIMEX3 value (ISO date, duration code, ...),
	// ValueUnresolved when normalization failed, empty for EVENT mentions.
	Value string
}

// Tokens returns the mention's token slice from its owning document.
func (m *Mention) Tokens(doc *Document) []Token {
	sent := doc.Sentences[m.SentenceIndex]
	return sent.Tokens[m.Start : m.End+1]
}

// Text returns the mention surface text, straight from the document text so
// original whitespace between tokens is preserved.
func (m *Mention) Text(doc *Document) string {
	toks := m.Tokens(doc)
	if len(toks) == 0 {
		return ""
	}
	return doc.Text[toks[0].Start:toks[len(toks)-1].End]
}

// Overlaps reports whether two mentions share any token in the same sentence.
func (m *Mention) Overlaps(other *Mention) bool {
	if m.SentenceIndex != other.SentenceIndex {
		return false
	}
	return m.Start <= other.End && other.Start <= m.End
}
