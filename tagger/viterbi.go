package tagger

import (
	"math"

	"github.com/teranos/tempex/document"
)

// decode finds the highest-scoring label sequence under the model weights
// with BIO transition constraints, by Viterbi search over the full sequence
// rather than greedy per-token classification.
func decode(m *Model, atoms [][]string) []document.Label {
	n := len(atoms)
	if n == 0 {
		return nil
	}
	k := len(m.Labels)

	score := make([][]float64, n)
	back := make([][]int, n)
	for i := range score {
		score[i] = make([]float64, k)
		back[i] = make([]int, k)
	}

	for j, label := range m.Labels {
		if allowedStart(label) {
			score[0][j] = m.emission(atoms[0], label)
		} else {
			score[0][j] = math.Inf(-1)
		}
		back[0][j] = -1
	}

	for i := 1; i < n; i++ {
		for j, label := range m.Labels {
			em := m.emission(atoms[i], label)
			best := math.Inf(-1)
			bestPrev := -1
			for p, prev := range m.Labels {
				if math.IsInf(score[i-1][p], -1) || !allowedTransition(prev, label) {
					continue
				}
				s := score[i-1][p] + m.transition(prev, label) + em
				if s > best {
					best = s
					bestPrev = p
				}
			}
			score[i][j] = best
			back[i][j] = bestPrev
		}
	}

	// Best final state; O always reachable so a valid path exists.
	bestJ := 0
	bestScore := math.Inf(-1)
	for j := range m.Labels {
		if score[n-1][j] > bestScore {
			bestScore = score[n-1][j]
			bestJ = j
		}
	}

	labels := make([]document.Label, n)
	for i := n - 1; i >= 0; i-- {
		labels[i] = m.Labels[bestJ]
		bestJ = back[i][bestJ]
	}
	return labels
}
