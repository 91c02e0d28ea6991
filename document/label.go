package document

import (
	"strings"

	"github.com/teranos/tempex/errors"
)

// MentionType distinguishes the two mention layers the pipeline extracts.
type MentionType string

const (
	MentionEvent MentionType = "EVENT"
	MentionTimex MentionType = "TIMEX3"
)

// Label is a BIO sequence label over one mention type: "O", "B-EVENT",
// "I-TIMEX3", and so on.
type Label string

// LabelO marks a token outside any mention span.
const LabelO Label = "O"

// Begin returns the B- label for a mention type.
func Begin(t MentionType) Label { return Label("B-" + string(t)) }

// Inside returns the I- label for a mention type.
func Inside(t MentionType) Label { return Label("I-" + string(t)) }

// IsO reports whether the label marks a token outside any span.
func (l Label) IsO() bool { return l == LabelO }

// IsBegin reports whether the label starts a span.
func (l Label) IsBegin() bool { return strings.HasPrefix(string(l), "B-") }

// IsInside reports whether the label continues a span.
func (l Label) IsInside() bool { return strings.HasPrefix(string(l), "I-") }

// Type returns the mention type the label belongs to, or "" for O.
func (l Label) Type() MentionType {
	if l.IsO() {
		return ""
	}
	return MentionType(l[2:])
}

// Labels returns the full BIO label set for a mention type, O first. The
// order is stable: taggers and models index into it.
func Labels(t MentionType) []Label {
	return []Label{LabelO, Begin(t), Inside(t)}
}

// ValidateBIO checks the structural BIO constraint: an I- label must follow
// a B- or I- label of the same type. Decoders with constrained transitions
// should never produce a violation, but sequences are validated before
// resolution regardless.
func ValidateBIO(seq []Label) error {
	for i, l := range seq {
		if !l.IsInside() {
			continue
		}
		if i == 0 {
			return errors.NewInvalidLabelSequenceError("%s at sequence start", l)
		}
		prev := seq[i-1]
		if prev.IsO() || prev.Type() != l.Type() {
			return errors.NewInvalidLabelSequenceError("%s at position %d after %s", l, i, prev)
		}
	}
	return nil
}
