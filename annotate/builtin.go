package annotate

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/teranos/tempex/document"
)

// builtinVersion participates in cache keys: bump it whenever tokenization,
// tagging or lemmatization rules change.
const builtinVersion = "builtin/2025.08.1"

// Builtin is a self-contained annotator: regex sentence splitting and
// tokenization, lexicon + suffix POS tagging, rule-based lemmatization and a
// shallow regex chunker. It exists so the pipeline runs without an external
// NLP service; accuracy is below a real tagger but the output layers are the
// same shape.
type Builtin struct{}

// NewBuiltin returns the built-in annotator.
func NewBuiltin() *Builtin { return &Builtin{} }

// Version implements Annotator.
func (b *Builtin) Version() string { return builtinVersion }

// tokenRE matches words (with internal apostrophes/hyphens) or a single
// non-space symbol.
var tokenRE = regexp.MustCompile(`[A-Za-z0-9]+(?:['’-][A-Za-z0-9]+)*|[^\sA-Za-z0-9]`)

// Annotate implements Annotator.
func (b *Builtin) Annotate(ctx context.Context, text string) ([]document.Sentence, error) {
	var sentences []document.Sentence
	for _, span := range splitSentences(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start, end := span[0], span[1]
		sent := document.Sentence{
			Index: len(sentences),
			Start: start,
			End:   end,
		}

		matches := tokenRE.FindAllStringIndex(text[start:end], -1)
		for i, m := range matches {
			form := text[start+m[0] : start+m[1]]
			tok := document.Token{
				Form:  form,
				POS:   posTag(form, i == 0),
				Start: start + m[0],
				End:   start + m[1],
				Index: i,
			}
			tok.Lemma = lemma(form, tok.POS)
			sent.Tokens = append(sent.Tokens, tok)
		}
		applyChunks(sent.Tokens)
		sentences = append(sentences, sent)
	}
	return sentences, nil
}

// splitSentences returns [start, end) byte spans of sentences. A sentence
// ends at a run of .!? (plus trailing quotes) followed by whitespace and a
// non-lowercase character, or at end of text.
func splitSentences(text string) [][2]int {
	var spans [][2]int
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if !isSpaceByte(c) {
				start = i
			}
			continue
		}
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?' || text[j] == '"' || text[j] == '\'') {
			j++
		}
		if j < len(text) && !isSpaceByte(text[j]) {
			continue // mid-token period, e.g. "3.5"
		}
		// Peek past the whitespace: a lowercase continuation means this was
		// likely an abbreviation, not a sentence end.
		k := j
		for k < len(text) && isSpaceByte(text[k]) {
			k++
		}
		if k < len(text) && unicode.IsLower(rune(text[k])) {
			continue
		}
		spans = append(spans, [2]int{start, j})
		start = -1
		i = j - 1
	}
	if start != -1 {
		end := len(text)
		for end > start && isSpaceByte(text[end-1]) {
			end--
		}
		if end > start {
			spans = append(spans, [2]int{start, end})
		}
	}
	return spans
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// posTag assigns a Penn Treebank tag from the lexicon, shape, and suffix
// heuristics, in that order.
func posTag(form string, sentenceInitial bool) string {
	if tag, ok := punctTags[form]; ok {
		return tag
	}
	lower := strings.ToLower(form)
	if tag, ok := lexicon[lower]; ok {
		return tag
	}
	if isNumeric(form) {
		return "CD"
	}
	first := rune(form[0])
	if unicode.IsUpper(first) && !sentenceInitial {
		return "NNP"
	}
	switch {
	case strings.HasSuffix(lower, "ly"):
		return "RB"
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		return "VBG"
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return "VBD"
	case strings.HasSuffix(lower, "ous"), strings.HasSuffix(lower, "ful"),
		strings.HasSuffix(lower, "ive"), strings.HasSuffix(lower, "ible"),
		strings.HasSuffix(lower, "able"), strings.HasSuffix(lower, "ical"):
		return "JJ"
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3:
		return "NNS"
	}
	if unicode.IsUpper(first) {
		return "NNP"
	}
	return "NN"
}

func isNumeric(form string) bool {
	digits := 0
	for _, r := range form {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',' || r == ':' || r == '-' || r == '/':
		default:
			return false
		}
	}
	return digits > 0
}

// lemma applies irregular-form lookup and conservative suffix stripping.
func lemma(form, pos string) string {
	lower := strings.ToLower(form)
	if base, ok := irregularLemmas[lower]; ok {
		return base
	}
	switch pos {
	case "NNS":
		switch {
		case strings.HasSuffix(lower, "ies") && len(lower) > 4:
			return lower[:len(lower)-3] + "y"
		case strings.HasSuffix(lower, "ses"), strings.HasSuffix(lower, "xes"),
			strings.HasSuffix(lower, "zes"), strings.HasSuffix(lower, "ches"),
			strings.HasSuffix(lower, "shes"):
			return lower[:len(lower)-2]
		case strings.HasSuffix(lower, "s"):
			return lower[:len(lower)-1]
		}
	case "VBD", "VBN":
		switch {
		case strings.HasSuffix(lower, "ied") && len(lower) > 4:
			return lower[:len(lower)-3] + "y"
		case strings.HasSuffix(lower, "ed") && len(lower) > 3:
			stem := lower[:len(lower)-2]
			if len(stem) > 2 && stem[len(stem)-1] == stem[len(stem)-2] { // stopped -> stop
				return stem[:len(stem)-1]
			}
			return stem
		}
	case "VBG":
		if strings.HasSuffix(lower, "ing") && len(lower) > 4 {
			stem := lower[:len(lower)-3]
			if len(stem) > 2 && stem[len(stem)-1] == stem[len(stem)-2] { // running -> run
				return stem[:len(stem)-1]
			}
			return stem
		}
	case "VBZ":
		if strings.HasSuffix(lower, "s") && len(lower) > 2 {
			return lower[:len(lower)-1]
		}
	}
	return lower
}

// applyChunks assigns shallow-parse chunk tags in place from the POS layer.
func applyChunks(tokens []document.Token) {
	prev := "O"
	for i := range tokens {
		kind := chunkKind(tokens[i].POS)
		switch {
		case kind == "O":
			tokens[i].Chunk = "O"
		case prev == kind:
			tokens[i].Chunk = "I-" + kind
		default:
			tokens[i].Chunk = "B-" + kind
		}
		prev = kind
	}
}

func chunkKind(pos string) string {
	switch {
	case strings.HasPrefix(pos, "NN"), pos == "DT", pos == "JJ", pos == "CD",
		pos == "PRP", pos == "PRP$", pos == "POS":
		return "NP"
	case strings.HasPrefix(pos, "VB"), pos == "MD":
		return "VP"
	case pos == "IN", pos == "TO":
		return "PP"
	default:
		return "O"
	}
}
