package tagger

import (
	"github.com/teranos/tempex/document"
	"github.com/teranos/tempex/errors"
)

// Sample is one training sentence: feature atoms per token plus the gold
// BIO sequence.
type Sample struct {
	Atoms  [][]string
	Labels []document.Label
}

// Engine is the narrow training/inference contract the pipeline consumes.
// The default implementation is the averaged perceptron below; a heavier
// CRF toolkit can be swapped in behind the same contract.
type Engine interface {
	// Train fits a model for one mention type. schema is the feature-set
	// fingerprint recorded into the model for inference-time verification.
	Train(t document.MentionType, schema string, samples []Sample) (*Model, error)

	// Predict returns a BIO sequence of the same length as atoms.
	Predict(m *Model, atoms [][]string) ([]document.Label, error)
}

// Predict decodes with the model weights and validates the structural BIO
// constraint. Constrained decoding should make violations impossible; the
// check is kept because a violation signals a defect, not a recoverable
// runtime condition.
func Predict(m *Model, atoms [][]string) ([]document.Label, error) {
	labels := decode(m, atoms)
	if len(labels) != len(atoms) {
		return nil, errors.NewInvalidLabelSequenceError(
			"decoder returned %d labels for %d tokens", len(labels), len(atoms))
	}
	if err := document.ValidateBIO(labels); err != nil {
		return nil, err
	}
	return labels, nil
}
