package attributes

import (
	"fmt"

	"github.com/teranos/tempex/features"
)

// MergeSpan concatenates the per-token feature vectors of a mention span, in
// token order, into one composite sample. Attributes are properties of the
// whole expression (tense belongs to the verbal group, not to each token),
// so the span is classified once rather than per token with a vote.
//
// Atoms are prefixed with their token position so "left" as the first token
// and "left" as the second remain distinct features, and a handful of
// span-level atoms are appended.
func MergeSpan(vectors []*features.Vector) []string {
	var atoms []string
	for i, v := range vectors {
		prefix := fmt.Sprintf("w%d|", i)
		for _, atom := range v.Atoms() {
			atoms = append(atoms, prefix+atom)
		}
	}
	atoms = append(atoms, fmt.Sprintf("span_len=%d", len(vectors)))
	if len(vectors) > 0 {
		if pos, ok := vectors[0].Get("pos"); ok {
			atoms = append(atoms, "first_pos="+pos)
		}
		if pos, ok := vectors[len(vectors)-1].Get("pos"); ok {
			atoms = append(atoms, "last_pos="+pos)
		}
	}
	return atoms
}
