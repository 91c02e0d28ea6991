// Package tagger implements the identification stage: linear-chain sequence
// models that map per-token feature vectors to BIO label sequences, one
// independently trained model per mention type.
package tagger

import (
	"github.com/teranos/tempex/document"
)

// Model holds the trained weights of one sequence tagger. Immutable after
// training; safe to share read-only across concurrent document workers.
type Model struct {
	// Type is the mention type this model identifies.
	Type document.MentionType

	// Labels is the BIO label set, O first. Decoding indexes into it.
	Labels []document.Label

	// Emissions maps feature atom -> label -> weight.
	Emissions map[string]map[document.Label]float64

	// Transitions maps previous label -> label -> weight.
	Transitions map[document.Label]map[document.Label]float64

	// Schema is the feature-set fingerprint the model was trained with.
	Schema string
}

// newModel allocates an empty model for one mention type.
func newModel(t document.MentionType, schema string) *Model {
	m := &Model{
		Type:        t,
		Labels:      document.Labels(t),
		Emissions:   make(map[string]map[document.Label]float64),
		Transitions: make(map[document.Label]map[document.Label]float64),
		Schema:      schema,
	}
	for _, prev := range m.Labels {
		m.Transitions[prev] = make(map[document.Label]float64)
	}
	return m
}

// emission returns the summed emission score of a label over feature atoms.
func (m *Model) emission(atoms []string, label document.Label) float64 {
	var score float64
	for _, atom := range atoms {
		if weights, ok := m.Emissions[atom]; ok {
			score += weights[label]
		}
	}
	return score
}

// transition returns the learned transition score. Structural BIO
// constraints are enforced by the decoder, not by the weights.
func (m *Model) transition(prev, next document.Label) float64 {
	if weights, ok := m.Transitions[prev]; ok {
		return weights[next]
	}
	return 0
}

// allowedStart reports whether a label may open a sequence.
func allowedStart(label document.Label) bool {
	return !label.IsInside()
}

// allowedTransition reports whether next may follow prev under the BIO
// scheme: I-<type> only after B-<type> or I-<type> of the same type.
func allowedTransition(prev, next document.Label) bool {
	if !next.IsInside() {
		return true
	}
	return !prev.IsO() && prev.Type() == next.Type()
}
