package features

import (
	"bufio"
	"embed"
	"sort"
	"strings"

	"github.com/teranos/tempex/errors"
)

//go:embed gazetteers/*.txt
var gazetteerFS embed.FS

// Gazetteer is a curated list of (possibly multi-token) entries matched
// against token form sequences, case-insensitively.
type Gazetteer struct {
	Name    string
	entries [][]string
	maxLen  int
}

// loadGazetteers reads every embedded gazetteer file. The returned slice is
// sorted by name so that feature order is stable.
func loadGazetteers() ([]*Gazetteer, error) {
	dirEntries, err := gazetteerFS.ReadDir("gazetteers")
	if err != nil {
		return nil, errors.Wrap(err, "read embedded gazetteers")
	}
	var gazetteers []*Gazetteer
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		data, err := gazetteerFS.ReadFile("gazetteers/" + entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "read gazetteer %s", name)
		}
		g, err := parseGazetteer(name, string(data))
		if err != nil {
			return nil, err
		}
		gazetteers = append(gazetteers, g)
	}
	sort.Slice(gazetteers, func(i, j int) bool { return gazetteers[i].Name < gazetteers[j].Name })
	return gazetteers, nil
}

func parseGazetteer(name, data string) (*Gazetteer, error) {
	g := &Gazetteer{Name: name}
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := strings.Fields(strings.ToLower(line))
		g.entries = append(g.entries, entry)
		if len(entry) > g.maxLen {
			g.maxLen = len(entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scan gazetteer %s", name)
	}
	return g, nil
}

// Match reports, for each token form, whether it lies inside an occurrence
// of any gazetteer entry. Multi-token entries must match as a contiguous
// subsequence.
func (g *Gazetteer) Match(forms []string) []bool {
	lower := make([]string, len(forms))
	for i, f := range forms {
		lower[i] = strings.ToLower(f)
	}
	hits := make([]bool, len(forms))
	for _, entry := range g.entries {
		for start := 0; start+len(entry) <= len(lower); start++ {
			matched := true
			for k, w := range entry {
				if lower[start+k] != w {
					matched = false
					break
				}
			}
			if matched {
				for k := range entry {
					hits[start+k] = true
				}
			}
		}
	}
	return hits
}
