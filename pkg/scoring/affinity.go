package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AffinityTable is the hand-curated (task type, model id) -> quality
// score table. It is tenant-independent static configuration; pairs
// absent from the table score DefaultQuality.
type AffinityTable struct {
	scores map[string]map[string]float64
}

// NewAffinityTable creates a table from a nested task -> model -> score
// mapping. A nil mapping yields an empty table where every lookup
// returns the default.
func NewAffinityTable(scores map[string]map[string]float64) *AffinityTable {
	if scores == nil {
		scores = make(map[string]map[string]float64)
	}
	return &AffinityTable{scores: scores}
}

// LoadAffinityTable loads a table from a YAML file.
//
// Example:
//
//	affinities:
//	  code:
//	    claude-sonnet: 0.95
//	    gpt-4o: 0.9
//	  chat:
//	    gpt-4o-mini: 0.85
func LoadAffinityTable(path string) (*AffinityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read affinity file %q: %w", path, err)
	}

	var file struct {
		Affinities map[string]map[string]float64 `yaml:"affinities"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse affinity file %q: %w", path, err)
	}

	for task, models := range file.Affinities {
		for model, score := range models {
			if score < 0 || score > 1 {
				return nil, fmt.Errorf("affinity for (%s, %s) is %v, must be in [0,1]", task, model, score)
			}
		}
	}

	return NewAffinityTable(file.Affinities), nil
}

// Lookup returns the quality score for a (task type, model id) pair,
// or DefaultQuality if the pair is not in the table.
func (t *AffinityTable) Lookup(taskType, modelID string) float64 {
	if models, ok := t.scores[taskType]; ok {
		if score, ok := models[modelID]; ok {
			return score
		}
	}
	return DefaultQuality
}
