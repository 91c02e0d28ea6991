// Package timeml reads and writes TempEval-3 style TimeML documents: inline
// TIMEX3/EVENT markup over raw text, a document creation time, and
// MAKEINSTANCE records carrying event attributes.
package timeml

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/teranos/tempex/attributes"
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/logger"
	"github.com/teranos/tempex/pipeline"
)

// dctLayouts are the value formats creation times appear in across the
// TempEval-3 corpora.
var dctLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ReadFile parses one .tml file into a training example: the raw TEXT
// content with markup stripped, plus every gold mention as byte offsets
// into that text. EVENT attributes are joined from the document's
// MAKEINSTANCE records.
func ReadFile(path string) (*pipeline.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	ex, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	ex.Doc.Path = path
	return ex, nil
}

// ReadDir parses every .tml file under dir. Malformed files are logged and
// skipped: one bad corpus file must not sink a training run.
func ReadDir(dir string) ([]pipeline.Example, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tml"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	if len(paths) == 0 {
		return nil, errors.Newf("no .tml files under %s", dir)
	}
	sort.Strings(paths)

	var examples []pipeline.Example
	for _, path := range paths {
		ex, err := ReadFile(path)
		if err != nil {
			logger.Logger.Warnw("Skipping malformed corpus file",
				logger.FieldDocPath, path,
				logger.FieldError, err)
			continue
		}
		examples = append(examples, *ex)
	}
	if len(examples) == 0 {
		return nil, errors.Newf("every .tml file under %s failed to parse", dir)
	}
	return examples, nil
}

// instance is one MAKEINSTANCE record.
type instance struct {
	Tense    string `xml:"tense,attr"`
	Aspect   string `xml:"aspect,attr"`
	Polarity string `xml:"polarity,attr"`
	Modality string `xml:"modality,attr"`
	EventID  string `xml:"eventID,attr"`
}

// openSpan tracks an inline tag whose extent is still being read.
type openSpan struct {
	name    string
	typ     document.MentionType
	start   int
	eventID string
	attrs   map[string]string
}

// Read parses TimeML from r. The TEXT element is walked token by token so
// mention extents come out as byte offsets into the stripped text.
func Read(r io.Reader) (*pipeline.Example, error) {
	dec := xml.NewDecoder(r)

	var (
		docID, title string
		anchor       time.Time
		haveAnchor   bool
		text         strings.Builder
		gold         []pipeline.GoldSpan
		eventAttrs   = map[string]map[string]string{}
		eventIDs     = map[int]string{} // gold index -> eid, for MAKEINSTANCE joining
		stack        []openSpan
		inText       bool
		section      string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "decoding TimeML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "DOCID", "TITLE", "DCT":
				section = t.Name.Local
			case "TEXT":
				inText = true
			case "TIMEX3":
				if section == "DCT" {
					if v, ok := attrValue(t, "value"); ok {
						anchor, haveAnchor = parseAnchor(v)
					}
					continue
				}
				if inText {
					stack = append(stack, openSpan{
						name:  "TIMEX3",
						typ:   document.MentionTimex,
						start: text.Len(),
						attrs: timexAttrs(t),
					})
				}
			case "EVENT":
				if inText {
					eid, _ := attrValue(t, "eid")
					class, _ := attrValue(t, "class")
					stack = append(stack, openSpan{
						name:    "EVENT",
						typ:     document.MentionEvent,
						start:   text.Len(),
						eventID: eid,
						attrs:   map[string]string{document.AttrClass: class},
					})
				}
			case "MAKEINSTANCE":
				var inst instance
				if err := dec.DecodeElement(&inst, &t); err != nil {
					return nil, errors.Wrap(err, "decoding MAKEINSTANCE")
				}
				eventAttrs[inst.EventID] = instanceAttrs(inst)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "DOCID", "TITLE", "DCT":
				section = ""
			case "TEXT":
				inText = false
			case "TIMEX3", "EVENT":
				if inText && len(stack) > 0 && stack[len(stack)-1].name == t.Name.Local {
					span := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					gold = append(gold, pipeline.GoldSpan{
						Type:       span.typ,
						Start:      span.start,
						End:        text.Len(),
						Attributes: span.attrs,
					})
					if span.typ == document.MentionEvent {
						eventIDs[len(gold)-1] = span.eventID
					}
				}
			}

		case xml.CharData:
			switch {
			case inText:
				text.Write(t)
			case section == "DOCID":
				docID += string(t)
			case section == "TITLE":
				title += string(t)
			}
		}
	}

	if !haveAnchor {
		return nil, errors.New("no creation time found")
	}

	// Fold the MAKEINSTANCE attributes onto their events.
	for i, eid := range eventIDs {
		if extra, ok := eventAttrs[eid]; ok {
			for k, v := range extra {
				gold[i].Attributes[k] = v
			}
		}
	}

	raw := text.String()
	doc := document.New(raw, anchor)
	if id := strings.TrimSpace(docID); id != "" {
		doc.ID = id
	}
	doc.Title = strings.TrimSpace(title)

	for i := range gold {
		sanitizeAttrs(&gold[i])
	}

	sort.Slice(gold, func(i, j int) bool { return gold[i].Start < gold[j].Start })
	return &pipeline.Example{Doc: doc, Gold: gold}, nil
}

// sanitizeAttrs drops attribute values outside the closed TimeML label
// spaces. Corpora carry the occasional free-text modality ("might have");
// the trainer rejects out-of-space gold outright, so those are stripped
// here and fall back to the attribute default.
func sanitizeAttrs(g *pipeline.GoldSpan) {
	for _, space := range attributes.SpacesFor(g.Type) {
		v, ok := g.Attributes[space.Name]
		if !ok {
			continue
		}
		valid := false
		for _, allowed := range space.Values {
			if v == allowed {
				valid = true
				break
			}
		}
		if !valid {
			delete(g.Attributes, space.Name)
		}
	}
}

func attrValue(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// timexAttrs lifts the TIMEX3 attributes the classifiers train on, plus the
// gold value for evaluation.
func timexAttrs(el xml.StartElement) map[string]string {
	attrs := map[string]string{}
	pairs := []struct{ xmlName, attrName string }{
		{"type", document.AttrType},
		{"mod", document.AttrMod},
		{"quant", document.AttrQuant},
		{"functionInDocument", document.AttrFunction},
	}
	for _, p := range pairs {
		if v, ok := attrValue(el, p.xmlName); ok && v != "" {
			attrs[p.attrName] = v
		}
	}
	return attrs
}

// instanceAttrs normalizes a MAKEINSTANCE record into attribute values.
// TimeML writes empty modality for unmodalized events.
func instanceAttrs(inst instance) map[string]string {
	attrs := map[string]string{}
	put := func(name, v string) {
		if v != "" {
			attrs[name] = v
		}
	}
	put(document.AttrTense, inst.Tense)
	put(document.AttrAspect, inst.Aspect)
	put(document.AttrPolarity, inst.Polarity)
	put(document.AttrModality, strings.ToUpper(inst.Modality))
	return attrs
}

func parseAnchor(value string) (time.Time, bool) {
	for _, layout := range dctLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
