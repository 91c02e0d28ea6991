package features

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// Groups selects which feature groups the extractor produces. The selection
// is part of the feature schema: a model trained with one selection cannot
// run under another.
type Groups struct {
	Token     bool `mapstructure:"token"`
	Shape     bool `mapstructure:"shape"`
	Affix     bool `mapstructure:"affix"`
	Context   bool `mapstructure:"context"`
	Gazetteer bool `mapstructure:"gazetteer"`
	Syntax    bool `mapstructure:"syntax"`
}

// DefaultGroups enables every feature group.
func DefaultGroups() Groups {
	return Groups{Token: true, Shape: true, Affix: true, Context: true, Gazetteer: true, Syntax: true}
}

// contextWindow is the number of neighbor tokens on each side whose surface
// and POS are used as context features.
const contextWindow = 2

// Boundary values for context features that fall outside the sentence.
const (
	boundaryBOS = "BOS"
	boundaryEOS = "EOS"
)

// Extractor converts annotated sentences into per-token feature vectors.
// Extraction is pure and deterministic: the same annotated sentence always
// yields byte-identical vectors.
type Extractor struct {
	groups     Groups
	gazetteers []*Gazetteer
	schema     string
}

// NewExtractor builds an extractor with the given group selection, loading
// the embedded gazetteers when the gazetteer group is enabled.
func NewExtractor(groups Groups) (*Extractor, error) {
	e := &Extractor{groups: groups}
	if groups.Gazetteer {
		gazetteers, err := loadGazetteers()
		if err != nil {
			return nil, err
		}
		e.gazetteers = gazetteers
	}
	names := e.featureNames()
	sum := sha256.Sum256([]byte(strings.Join(names, "\n")))
	e.schema = hex.EncodeToString(sum[:])
	return e, nil
}

// Schema returns the fingerprint of the feature-name set. Models persist it
// at train time; inference verifies it with CheckSchema before predicting.
func (e *Extractor) Schema() string { return e.schema }

// CheckSchema fails with ErrFeatureSchema when the expected fingerprint does
// not match this extractor's. A mismatch means the model and the running
// feature set are incompatible, which would silently corrupt accuracy if
// ignored.
func (e *Extractor) CheckSchema(expected string) error {
	if expected != e.schema {
		return errors.NewFeatureSchemaError(
			"model trained with feature schema %.12s, extractor produces %.12s", expected, e.schema)
	}
	return nil
}

// featureNames enumerates every feature name the active groups can emit, in
// emission order.
func (e *Extractor) featureNames() []string {
	var names []string
	if e.groups.Token {
		names = append(names, "form", "lower", "lemma", "pos")
	}
	if e.groups.Shape {
		names = append(names,
			"shape", "shape_short", "is_title", "is_upper", "is_lower",
			"has_digit", "all_digit", "has_dash", "has_period")
	}
	if e.groups.Affix {
		for n := 1; n <= 4; n++ {
			names = append(names, fmt.Sprintf("prefix%d", n))
		}
		for n := 1; n <= 4; n++ {
			names = append(names, fmt.Sprintf("suffix%d", n))
		}
	}
	if e.groups.Context {
		for off := -contextWindow; off <= contextWindow; off++ {
			if off == 0 {
				continue
			}
			names = append(names, fmt.Sprintf("form[%+d]", off), fmt.Sprintf("pos[%+d]", off))
		}
	}
	if e.groups.Gazetteer {
		for _, g := range e.gazetteers {
			names = append(names, "gaz:"+g.Name)
		}
	}
	if e.groups.Syntax {
		names = append(names, "chunk", "phrase", "prev_phrase", "next_phrase")
	}
	return names
}

// Sentence produces one feature vector per token.
func (e *Extractor) Sentence(sent document.Sentence) []*Vector {
	forms := make([]string, len(sent.Tokens))
	for i, tok := range sent.Tokens {
		forms[i] = tok.Form
	}

	// Gazetteer membership is computed once per sentence: multi-token
	// entries need the whole form sequence.
	gazHits := make(map[string][]bool, len(e.gazetteers))
	if e.groups.Gazetteer {
		for _, g := range e.gazetteers {
			gazHits[g.Name] = g.Match(forms)
		}
	}

	vectors := make([]*Vector, len(sent.Tokens))
	for i, tok := range sent.Tokens {
		v := NewVector()
		if e.groups.Token {
			v.Set("form", tok.Form)
			v.Set("lower", strings.ToLower(tok.Form))
			v.Set("lemma", tok.Lemma)
			v.Set("pos", tok.POS)
		}
		if e.groups.Shape {
			shape := wordShape(tok.Form)
			v.Set("shape", shape)
			v.Set("shape_short", collapseShape(shape))
			v.SetBool("is_title", isTitle(tok.Form))
			v.SetBool("is_upper", tok.Form == strings.ToUpper(tok.Form) && hasLetter(tok.Form))
			v.SetBool("is_lower", tok.Form == strings.ToLower(tok.Form) && hasLetter(tok.Form))
			v.SetBool("has_digit", strings.ContainsAny(tok.Form, "0123456789"))
			v.SetBool("all_digit", allDigit(tok.Form))
			v.SetBool("has_dash", strings.Contains(tok.Form, "-"))
			v.SetBool("has_period", strings.Contains(tok.Form, "."))
		}
		if e.groups.Affix {
			lower := strings.ToLower(tok.Form)
			for n := 1; n <= 4; n++ {
				v.Set(fmt.Sprintf("prefix%d", n), prefix(lower, n))
			}
			for n := 1; n <= 4; n++ {
				v.Set(fmt.Sprintf("suffix%d", n), suffix(lower, n))
			}
		}
		if e.groups.Context {
			for off := -contextWindow; off <= contextWindow; off++ {
				if off == 0 {
					continue
				}
				j := i + off
				formName := fmt.Sprintf("form[%+d]", off)
				posName := fmt.Sprintf("pos[%+d]", off)
				switch {
				case j < 0:
					v.Set(formName, boundaryBOS)
					v.Set(posName, boundaryBOS)
				case j >= len(sent.Tokens):
					v.Set(formName, boundaryEOS)
					v.Set(posName, boundaryEOS)
				default:
					v.Set(formName, strings.ToLower(sent.Tokens[j].Form))
					v.Set(posName, sent.Tokens[j].POS)
				}
			}
		}
		if e.groups.Gazetteer {
			for _, g := range e.gazetteers {
				v.SetBool("gaz:"+g.Name, gazHits[g.Name][i])
			}
		}
		if e.groups.Syntax {
			v.Set("chunk", tok.Chunk)
			v.Set("phrase", phraseKind(tok.Chunk))
			if i > 0 {
				v.Set("prev_phrase", phraseKind(sent.Tokens[i-1].Chunk))
			} else {
				v.Set("prev_phrase", boundaryBOS)
			}
			if i < len(sent.Tokens)-1 {
				v.Set("next_phrase", phraseKind(sent.Tokens[i+1].Chunk))
			} else {
				v.Set("next_phrase", boundaryEOS)
			}
		}
		vectors[i] = v
	}
	return vectors
}

// wordShape maps letters to X/x, digits to d, and keeps everything else:
// "Jan-2012" -> "Xxx-dddd".
func wordShape(form string) string {
	var b strings.Builder
	for _, r := range form {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte('X')
		case unicode.IsLower(r):
			b.WriteByte('x')
		case unicode.IsDigit(r):
			b.WriteByte('d')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// collapseShape squeezes runs: "Xxx-dddd" -> "Xx-d".
func collapseShape(shape string) string {
	var b strings.Builder
	var prev rune = -1
	for _, r := range shape {
		if r != prev {
			b.WriteRune(r)
			prev = r
		}
	}
	return b.String()
}

func isTitle(form string) bool {
	runes := []rune(form)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func hasLetter(form string) bool {
	for _, r := range form {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func allDigit(form string) bool {
	if form == "" {
		return false
	}
	for _, r := range form {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) < n {
		return s
	}
	return string(runes[:n])
}

func suffix(s string, n int) string {
	runes := []rune(s)
	if len(runes) < n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func phraseKind(chunk string) string {
	if chunk == "" || chunk == "O" {
		return "O"
	}
	if len(chunk) > 2 && (chunk[0] == 'B' || chunk[0] == 'I') && chunk[1] == '-' {
		return chunk[2:]
	}
	return chunk
}
