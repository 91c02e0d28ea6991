package tagger

import (
	"math/rand"

	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// Perceptron is the default sequence-labeling engine: a structured averaged
// perceptron over the same linear-chain feature/transition weights a CRF
// would use, trained by Viterbi decoding against gold sequences.
type Perceptron struct {
	// Iterations over the training set.
	Iterations int

	// Seed drives the per-iteration shuffle, keeping training reproducible.
	Seed int64
}

// NewPerceptron returns an engine with the default hyperparameters.
func NewPerceptron() *Perceptron {
	return &Perceptron{Iterations: 10, Seed: 1}
}

// Train implements Engine.
func (p *Perceptron) Train(t document.MentionType, schema string, samples []Sample) (*Model, error) {
	for i, s := range samples {
		if len(s.Atoms) != len(s.Labels) {
			return nil, errors.Newf("sample %d: %d feature rows for %d labels", i, len(s.Atoms), len(s.Labels))
		}
		if err := document.ValidateBIO(s.Labels); err != nil {
			return nil, errors.Wrapf(err, "sample %d: gold sequence", i)
		}
		for j, label := range s.Labels {
			if !label.IsO() && label.Type() != t {
				return nil, errors.Newf("sample %d: label %s at %d does not belong to %s", i, label, j, t)
			}
		}
	}

	tr := &trainer{
		model:    newModel(t, schema),
		emTotals: make(map[string]map[document.Label]float64),
		emStamps: make(map[string]map[document.Label]int),
		trTotals: make(map[document.Label]map[document.Label]float64),
		trStamps: make(map[document.Label]map[document.Label]int),
	}

	iterations := p.Iterations
	if iterations <= 0 {
		iterations = 10
	}
	rng := rand.New(rand.NewSource(p.Seed))

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	for it := 0; it < iterations; it++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			s := samples[idx]
			tr.step++
			if len(s.Atoms) == 0 {
				continue
			}
			pred := decode(tr.model, s.Atoms)
			tr.applyMismatches(s, pred)
		}
	}

	tr.finalize()
	return tr.model, nil
}

// Predict implements Engine.
func (p *Perceptron) Predict(m *Model, atoms [][]string) ([]document.Label, error) {
	return Predict(m, atoms)
}

// trainer carries the running weights plus the totals and timestamps needed
// for lazy weight averaging.
type trainer struct {
	model *Model
	step  int

	emTotals map[string]map[document.Label]float64
	emStamps map[string]map[document.Label]int
	trTotals map[document.Label]map[document.Label]float64
	trStamps map[document.Label]map[document.Label]int
}

// applyMismatches moves weight toward the gold sequence wherever the
// prediction diverges from it.
func (t *trainer) applyMismatches(s Sample, pred []document.Label) {
	for i := range s.Labels {
		gold, got := s.Labels[i], pred[i]
		if gold != got {
			for _, atom := range s.Atoms[i] {
				t.bumpEmission(atom, gold, 1)
				t.bumpEmission(atom, got, -1)
			}
		}
		if i == 0 {
			continue
		}
		goldPrev, gotPrev := s.Labels[i-1], pred[i-1]
		if gold != got || goldPrev != gotPrev {
			t.bumpTransition(goldPrev, gold, 1)
			t.bumpTransition(gotPrev, got, -1)
		}
	}
}

func (t *trainer) bumpEmission(atom string, label document.Label, delta float64) {
	row, ok := t.model.Emissions[atom]
	if !ok {
		row = make(map[document.Label]float64)
		t.model.Emissions[atom] = row
		t.emTotals[atom] = make(map[document.Label]float64)
		t.emStamps[atom] = make(map[document.Label]int)
	}
	t.emTotals[atom][label] += float64(t.step-t.emStamps[atom][label]) * row[label]
	t.emStamps[atom][label] = t.step
	row[label] += delta
}

func (t *trainer) bumpTransition(prev, label document.Label, delta float64) {
	row := t.model.Transitions[prev]
	if _, ok := t.trTotals[prev]; !ok {
		t.trTotals[prev] = make(map[document.Label]float64)
		t.trStamps[prev] = make(map[document.Label]int)
	}
	t.trTotals[prev][label] += float64(t.step-t.trStamps[prev][label]) * row[label]
	t.trStamps[prev][label] = t.step
	row[label] += delta
}

// finalize replaces the running weights with their average over all steps
// and prunes entries that average to zero.
func (t *trainer) finalize() {
	if t.step == 0 {
		return
	}
	steps := float64(t.step)
	for atom, row := range t.model.Emissions {
		for label, weight := range row {
			total := t.emTotals[atom][label] + float64(t.step-t.emStamps[atom][label])*weight
			if avg := total / steps; avg != 0 {
				row[label] = avg
			} else {
				delete(row, label)
			}
		}
		if len(row) == 0 {
			delete(t.model.Emissions, atom)
		}
	}
	for prev, row := range t.model.Transitions {
		for label, weight := range row {
			total := t.trTotals[prev][label] + float64(t.step-t.trStamps[prev][label])*weight
			if avg := total / steps; avg != 0 {
				row[label] = avg
			} else {
				delete(row, label)
			}
		}
	}
}
