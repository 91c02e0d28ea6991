package timeml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tempex/document"
)

const sampleTML = `<?xml version="1.0" ?>
<TimeML xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="http://timeml.org/timeMLdocs/TimeML_1.2.1.xsd">
<DOCID>APW19980807.0261</DOCID>
<DCT><TIMEX3 tid="t0" type="TIME" value="1998-08-07T05:53:00" temporalFunction="false" functionInDocument="CREATION_TIME">1998-08-07T05:53:00</TIMEX3></DCT>
<TITLE>Sample wire story</TITLE>
<TEXT>
John <EVENT eid="e1" class="OCCURRENCE">left</EVENT> <TIMEX3 tid="t1" type="DATE" value="1998-08-06">yesterday</TIMEX3>.
</TEXT>
<MAKEINSTANCE eiid="ei1" eventID="e1" pos="VERB" tense="PAST" aspect="NONE" polarity="POS" modality=""/>
</TimeML>
`

func TestReadSample(t *testing.T) {
	ex, err := Read(strings.NewReader(sampleTML))
	require.NoError(t, err)

	assert.Equal(t, "APW19980807.0261", ex.Doc.ID)
	assert.Equal(t, "Sample wire story", ex.Doc.Title)
	assert.Equal(t, time.Date(1998, 8, 7, 5, 53, 0, 0, time.UTC), ex.Doc.AnchorDate)
	assert.Equal(t, "\nJohn left yesterday.\n", ex.Doc.Text)

	require.Len(t, ex.Gold, 2)

	event := ex.Gold[0]
	assert.Equal(t, document.MentionEvent, event.Type)
	assert.Equal(t, "left", ex.Doc.Text[event.Start:event.End])
	assert.Equal(t, "OCCURRENCE", event.Attributes[document.AttrClass])
	assert.Equal(t, "PAST", event.Attributes[document.AttrTense])
	assert.Equal(t, "POS", event.Attributes[document.AttrPolarity])

	timex := ex.Gold[1]
	assert.Equal(t, document.MentionTimex, timex.Type)
	assert.Equal(t, "yesterday", ex.Doc.Text[timex.Start:timex.End])
	assert.Equal(t, "DATE", timex.Attributes[document.AttrType])
}

func TestReadRejectsMissingCreationTime(t *testing.T) {
	noDCT := `<?xml version="1.0" ?><TimeML><TEXT>plain</TEXT></TimeML>`
	_, err := Read(strings.NewReader(noDCT))
	require.Error(t, err)
}

func TestReadDropsOutOfSpaceAttributes(t *testing.T) {
	tml := `<?xml version="1.0" ?>
<TimeML>
<DCT><TIMEX3 tid="t0" type="DATE" value="2012-06-02" functionInDocument="CREATION_TIME">2012-06-02</TIMEX3></DCT>
<TEXT>It <EVENT eid="e1" class="OCCURRENCE">rained</EVENT>.</TEXT>
<MAKEINSTANCE eiid="ei1" eventID="e1" tense="PAST" aspect="NONE" polarity="POS" modality="might have"/>
</TimeML>
`
	ex, err := Read(strings.NewReader(tml))
	require.NoError(t, err)
	require.Len(t, ex.Gold, 1)
	assert.Equal(t, "PAST", ex.Gold[0].Attributes[document.AttrTense])
	_, present := ex.Gold[0].Attributes[document.AttrModality]
	assert.False(t, present, "free-text modality should be dropped")
}

func TestReadDirSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.tml"), []byte(sampleTML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tml"), []byte("<TimeML><unclosed"), 0o644))

	examples, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "APW19980807.0261", examples[0].Doc.ID)
}

func TestReadDirEmpty(t *testing.T) {
	_, err := ReadDir(t.TempDir())
	require.Error(t, err)
}

// annotatedDoc assembles a document the way the pipeline leaves it: token
// offsets into the text and mentions referencing those tokens.
func annotatedDoc() *document.Document {
	text := "John left yesterday."
	doc := document.New(text, time.Date(2012, 6, 2, 0, 0, 0, 0, time.UTC))
	doc.ID = "doc-1"
	doc.Sentences = []document.Sentence{{
		Index: 0,
		Start: 0,
		End:   len(text),
		Tokens: []document.Token{
			{Form: "John", Start: 0, End: 4, Index: 0},
			{Form: "left", Start: 5, End: 9, Index: 1},
			{Form: "yesterday", Start: 10, End: 19, Index: 2},
			{Form: ".", Start: 19, End: 20, Index: 3},
		},
	}}
	doc.Mentions = []*document.Mention{
		{
			ID: "e1", Type: document.MentionEvent, SentenceIndex: 0, Start: 1, End: 1,
			Attributes: map[string]string{
				document.AttrClass:    "OCCURRENCE",
				document.AttrTense:    "PAST",
				document.AttrAspect:   "NONE",
				document.AttrPolarity: "POS",
				document.AttrModality: "NONE",
			},
		},
		{
			ID: "t1", Type: document.MentionTimex, SentenceIndex: 0, Start: 2, End: 2,
			Attributes: map[string]string{document.AttrType: "DATE"},
			Value:      "2012-06-01",
		},
	}
	return doc
}

func TestWriteInlineMarkup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, annotatedDoc()))
	out := buf.String()

	assert.Contains(t, out, `<DOCID>doc-1</DOCID>`)
	assert.Contains(t, out, `functionInDocument="CREATION_TIME"`)
	assert.Contains(t, out, `value="2012-06-02"`)
	assert.Contains(t, out, `<EVENT eid="e1" class="OCCURRENCE">left</EVENT>`)
	assert.Contains(t, out, `<TIMEX3 tid="t1" type="DATE" value="2012-06-01">yesterday</TIMEX3>`)
	assert.Contains(t, out, `<MAKEINSTANCE eiid="ei1" eventID="e1" tense="PAST" aspect="NONE" polarity="POS" modality="NONE"/>`)
	assert.Contains(t, out, "<TEXT>John <EVENT")
}

func TestWriteKeepsUnresolvedValue(t *testing.T) {
	doc := annotatedDoc()
	doc.Mentions[1].Value = document.ValueUnresolved

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))
	assert.Contains(t, buf.String(), `value="UNRESOLVED"`)
}

func TestWriteReadRoundTrip(t *testing.T) {
	doc := annotatedDoc()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))

	ex, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", ex.Doc.ID)
	assert.Equal(t, doc.Text, ex.Doc.Text)
	require.Len(t, ex.Gold, 2)
	assert.Equal(t, "left", ex.Doc.Text[ex.Gold[0].Start:ex.Gold[0].End])
	assert.Equal(t, "yesterday", ex.Doc.Text[ex.Gold[1].Start:ex.Gold[1].End])
}
