package attributes

import (
	"math/rand"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// Classifier is one trained multiclass linear classifier for one attribute.
type Classifier struct {
	Space Space
	// Weights maps feature atom -> attribute value -> weight.
	Weights map[string]map[string]float64
}

// predict returns the argmax value over the merged span atoms, preferring
// earlier space values on ties and the default when nothing has weight.
func (c *Classifier) predict(atoms []string) string {
	best := c.Space.Default
	bestScore := 0.0
	seen := false
	for _, value := range c.Space.Values {
		var score float64
		for _, atom := range atoms {
			if row, ok := c.Weights[atom]; ok {
				score += row[value]
			}
		}
		if !seen || score > bestScore {
			// The default wins outright when every score is zero.
			if score == 0 && !seen {
				best = c.Space.Default
				bestScore = 0
				seen = true
				continue
			}
			best = value
			bestScore = score
			seen = true
		}
	}
	return best
}

// Model holds every attribute classifier for both mention types. Immutable
// after training; shared read-only across workers.
type Model struct {
	Event  []*Classifier
	Timex  []*Classifier
	Schema string
}

// classifiersFor selects the classifier set of a mention type.
func (m *Model) classifiersFor(t document.MentionType) []*Classifier {
	if t == document.MentionEvent {
		return m.Event
	}
	return m.Timex
}

// Apply classifies a mention from its merged span atoms, filling
// Attributes with one value per attribute space. The resulting map is
// always complete and non-empty.
func (m *Model) Apply(mention *document.Mention, atoms []string) {
	if mention.Attributes == nil {
		mention.Attributes = make(map[string]string)
	}
	for _, c := range m.classifiersFor(mention.Type) {
		mention.Attributes[c.Space.Name] = c.predict(atoms)
	}
}

// NewDefaultModel returns an untrained model: every mention gets the default
// value of each attribute space.
func NewDefaultModel(schema string) *Model {
	m := &Model{Schema: schema}
	for _, space := range EventSpaces() {
		m.Event = append(m.Event, &Classifier{Space: space, Weights: map[string]map[string]float64{}})
	}
	for _, space := range TimexSpaces() {
		m.Timex = append(m.Timex, &Classifier{Space: space, Weights: map[string]map[string]float64{}})
	}
	return m
}

// TrainingMention is one gold mention: the merged span atoms plus the gold
// attribute values.
type TrainingMention struct {
	Type       document.MentionType
	Atoms      []string
	Attributes map[string]string
}

// Trainer fits the attribute classifiers with averaged perceptron updates.
type Trainer struct {
	Iterations int
	Seed       int64
}

// NewTrainer returns a trainer with default hyperparameters.
func NewTrainer() *Trainer { return &Trainer{Iterations: 10, Seed: 1} }

// Train fits one classifier per attribute space of both types. Gold values
// outside an attribute's space are rejected: they signal a corpus/label-set
// mismatch that silent acceptance would bury.
func (t *Trainer) Train(schema string, mentions []TrainingMention) (*Model, error) {
	model := NewDefaultModel(schema)

	for _, space := range append(EventSpaces(), TimexSpaces()...) {
		valid := make(map[string]bool, len(space.Values))
		for _, v := range space.Values {
			valid[v] = true
		}
		for i, m := range mentions {
			if gold, ok := m.Attributes[space.Name]; ok && attributeApplies(m.Type, space.Name) && !valid[gold] {
				return nil, errors.Newf("mention %d: gold %s=%q outside the %s label space", i, space.Name, gold, space.Name)
			}
		}
	}

	for _, typ := range []document.MentionType{document.MentionEvent, document.MentionTimex} {
		var subset []TrainingMention
		for _, m := range mentions {
			if m.Type == typ {
				subset = append(subset, m)
			}
		}
		for _, c := range model.classifiersFor(typ) {
			t.trainOne(c, subset)
		}
	}
	return model, nil
}

func attributeApplies(t document.MentionType, name string) bool {
	for _, space := range SpacesFor(t) {
		if space.Name == name {
			return true
		}
	}
	return false
}

// trainOne runs averaged perceptron updates for a single attribute.
func (t *Trainer) trainOne(c *Classifier, mentions []TrainingMention) {
	iterations := t.Iterations
	if iterations <= 0 {
		iterations = 10
	}
	rng := rand.New(rand.NewSource(t.Seed))

	totals := make(map[string]map[string]float64)
	stamps := make(map[string]map[string]int)
	step := 0

	bump := func(atom, value string, delta float64) {
		row, ok := c.Weights[atom]
		if !ok {
			row = make(map[string]float64)
			c.Weights[atom] = row
			totals[atom] = make(map[string]float64)
			stamps[atom] = make(map[string]int)
		}
		totals[atom][value] += float64(step-stamps[atom][value]) * row[value]
		stamps[atom][value] = step
		row[value] += delta
	}

	order := make([]int, len(mentions))
	for i := range order {
		order[i] = i
	}

	for it := 0; it < iterations; it++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			m := mentions[idx]
			gold, ok := m.Attributes[c.Space.Name]
			if !ok {
				gold = c.Space.Default
			}
			step++
			got := c.predict(m.Atoms)
			if got == gold {
				continue
			}
			for _, atom := range m.Atoms {
				bump(atom, gold, 1)
				bump(atom, got, -1)
			}
		}
	}

	if step == 0 {
		return
	}
	steps := float64(step)
	for atom, row := range c.Weights {
		for value, weight := range row {
			total := totals[atom][value] + float64(step-stamps[atom][value])*weight
			if avg := total / steps; avg != 0 {
				row[value] = avg
			} else {
				delete(row, value)
			}
		}
		if len(row) == 0 {
			delete(c.Weights, atom)
		}
	}
}
