// Package resolve merges the two per-type BIO label sequences of a sentence
// into non-overlapping mention spans.
package resolve

import (
	"sort"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// Precedence decides which mention type keeps overlapping tokens when the
// two taggers disagree.
type Precedence string

const (
	// PrecedenceTimex keeps TIMEX3 spans over EVENT spans. The default:
	// time expressions are short, closed-class, and detected with higher
	// precision, so they are the safer claim to honor.
	PrecedenceTimex Precedence = "timex"

	// PrecedenceEvent keeps EVENT spans over TIMEX3 spans.
	PrecedenceEvent Precedence = "event"
)

// Resolver converts parallel BIO sequences into mentions.
type Resolver struct {
	precedence Precedence
}

// New builds a resolver; an empty precedence falls back to PrecedenceTimex.
func New(p Precedence) (*Resolver, error) {
	switch p {
	case "":
		p = PrecedenceTimex
	case PrecedenceTimex, PrecedenceEvent:
	default:
		return nil, errors.Newf("unknown resolver precedence %q", p)
	}
	return &Resolver{precedence: p}, nil
}

// span is a half-resolved mention: inclusive token range of one type.
type span struct {
	typ        document.MentionType
	start, end int
}

// Sentence resolves one sentence's two label sequences into mentions. Both
// sequences are validated first; a structural violation is a defect surfaced
// as ErrInvalidLabelSequence, never silently repaired.
func (r *Resolver) Sentence(sentenceIndex int, event, timex []document.Label) ([]*document.Mention, error) {
	if len(event) != len(timex) {
		return nil, errors.Newf("label sequences disagree on length: %d vs %d", len(event), len(timex))
	}
	if err := document.ValidateBIO(event); err != nil {
		return nil, errors.Wrap(err, "event sequence")
	}
	if err := document.ValidateBIO(timex); err != nil {
		return nil, errors.Wrap(err, "timex sequence")
	}

	eventSpans := collectSpans(event)
	timexSpans := collectSpans(timex)

	winners, losers := timexSpans, eventSpans
	if r.precedence == PrecedenceEvent {
		winners, losers = eventSpans, timexSpans
	}

	// Tokens claimed by a winning span are removed from losing spans; the
	// surviving contiguous pieces remain mentions of the losing type.
	claimed := make(map[int]bool)
	for _, w := range winners {
		for i := w.start; i <= w.end; i++ {
			claimed[i] = true
		}
	}
	resolved := winners
	for _, l := range losers {
		resolved = append(resolved, truncate(l, claimed)...)
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].start < resolved[j].start })

	mentions := make([]*document.Mention, 0, len(resolved))
	for _, s := range resolved {
		mentions = append(mentions, &document.Mention{
			Type:          s.typ,
			SentenceIndex: sentenceIndex,
			Start:         s.start,
			End:           s.end,
		})
	}
	return mentions, nil
}

// collectSpans turns a valid BIO sequence into inclusive token spans: each
// maximal B followed by I run becomes one span.
func collectSpans(labels []document.Label) []span {
	var spans []span
	for i := 0; i < len(labels); i++ {
		if !labels[i].IsBegin() {
			continue
		}
		s := span{typ: labels[i].Type(), start: i, end: i}
		for i+1 < len(labels) && labels[i+1].IsInside() {
			i++
			s.end = i
		}
		spans = append(spans, s)
	}
	return spans
}

// truncate removes claimed tokens from a span, returning the contiguous
// pieces that survive.
func truncate(s span, claimed map[int]bool) []span {
	var pieces []span
	start := -1
	for i := s.start; i <= s.end; i++ {
		if claimed[i] {
			if start != -1 {
				pieces = append(pieces, span{typ: s.typ, start: start, end: i - 1})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		pieces = append(pieces, span{typ: s.typ, start: start, end: s.end})
	}
	return pieces
}
