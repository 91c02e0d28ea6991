package timeml

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

const header = `<?xml version="1.0" ?>
<TimeML xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://timeml.org/timeMLdocs/TimeML_1.2.1.xsd">
`

// Write renders an annotated document as TimeML: the creation time as a
// t0 TIMEX3, the text with inline mention markup, and one MAKEINSTANCE per
// event. Values the normalizer could not resolve are written out as
// UNRESOLVED rather than replaced with a guess.
func Write(w io.Writer, doc *document.Document) error {
	spans, err := byteSpans(doc)
	if err != nil {
		return err
	}

	var out errWriter
	out.w = w

	out.printf("%s", header)
	if doc.ID != "" {
		out.printf("<DOCID>%s</DOCID>\n", escape(doc.ID))
	}
	out.printf(`<DCT><TIMEX3 tid="t0" type="DATE" value="%s" temporalFunction="false" functionInDocument="CREATION_TIME">%s</TIMEX3></DCT>`,
		doc.AnchorDate.Format("2006-01-02"), doc.AnchorDate.Format("2006-01-02"))
	out.printf("\n")
	if doc.Title != "" {
		out.printf("<TITLE>%s</TITLE>\n", escape(doc.Title))
	}

	out.printf("<TEXT>")
	cursor := 0
	for _, s := range spans {
		out.printf("%s", escape(doc.Text[cursor:s.start]))
		out.printf("%s", openTag(s.mention))
		out.printf("%s", escape(doc.Text[s.start:s.end]))
		out.printf("</%s>", tagName(s.mention.Type))
		cursor = s.end
	}
	out.printf("%s", escape(doc.Text[cursor:]))
	out.printf("</TEXT>\n")

	instances := 0
	for _, s := range spans {
		m := s.mention
		if m.Type != document.MentionEvent {
			continue
		}
		instances++
		out.printf(`<MAKEINSTANCE eiid="ei%d" eventID="%s" tense="%s" aspect="%s" polarity="%s" modality="%s"/>`,
			instances, escape(m.ID),
			escape(m.Attributes[document.AttrTense]),
			escape(m.Attributes[document.AttrAspect]),
			escape(m.Attributes[document.AttrPolarity]),
			escape(m.Attributes[document.AttrModality]))
		out.printf("\n")
	}

	out.printf("</TimeML>\n")
	return out.err
}

// byteSpan pairs a mention with its byte range in the document text.
type byteSpan struct {
	mention    *document.Mention
	start, end int
}

// byteSpans maps every mention's token range back to byte offsets and
// verifies the ranges are disjoint: overlapping ranges would produce
// malformed markup, so they fail loudly instead.
func byteSpans(doc *document.Document) ([]byteSpan, error) {
	spans := make([]byteSpan, 0, len(doc.Mentions))
	for _, m := range doc.Mentions {
		tokens := m.Tokens(doc)
		if len(tokens) == 0 {
			return nil, errors.Newf("mention %s has no tokens", m.ID)
		}
		spans = append(spans, byteSpan{
			mention: m,
			start:   tokens[0].Start,
			end:     tokens[len(tokens)-1].End,
		})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, errors.Newf("mentions %s and %s overlap in text", spans[i-1].mention.ID, spans[i].mention.ID)
		}
	}
	return spans, nil
}

func tagName(t document.MentionType) string {
	if t == document.MentionEvent {
		return "EVENT"
	}
	return "TIMEX3"
}

// openTag renders a mention's start tag with its classified attributes.
// Attributes still at their neutral default are left off, matching how the
// corpora write them.
func openTag(m *document.Mention) string {
	if m.Type == document.MentionEvent {
		return fmt.Sprintf(`<EVENT eid="%s" class="%s">`,
			escape(m.ID), escape(m.Attributes[document.AttrClass]))
	}

	tag := fmt.Sprintf(`<TIMEX3 tid="%s" type="%s" value="%s"`,
		escape(m.ID), escape(m.Attributes[document.AttrType]), escape(m.Value))
	for _, opt := range []struct{ xmlName, attrName string }{
		{"mod", document.AttrMod},
		{"quant", document.AttrQuant},
		{"functionInDocument", document.AttrFunction},
	} {
		if v := m.Attributes[opt.attrName]; v != "" && v != "NONE" {
			tag += fmt.Sprintf(` %s="%s"`, opt.xmlName, escape(v))
		}
	}
	return tag + ">"
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// errWriter collects the first write error so the render path stays flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
