package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML shape of a model catalog.
type catalogFile struct {
	Models []ModelCandidate `yaml:"models"`
}

// LoadFileRegistry loads a model catalog from a YAML file and returns
// an in-memory registry over it. File order is the enumeration order.
//
// Example catalog:
//
//	models:
//	  - id: gpt-4o
//	    provider: openai
//	    hosting: external
//	    capabilities: [vision, tools]
//	    input_price_per_million: 2.50
//	    output_price_per_million: 10.00
//	    active: true
func LoadFileRegistry(path string) (*MemoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}

	if err := validateCatalog(file.Models); err != nil {
		return nil, fmt.Errorf("invalid catalog file %q: %w", path, err)
	}

	return NewMemoryRegistry(file.Models), nil
}

// validateCatalog checks catalog entries for the fields routing depends on.
func validateCatalog(models []ModelCandidate) error {
	seen := make(map[string]bool, len(models))
	for i, m := range models {
		if m.ID == "" {
			return fmt.Errorf("model at index %d has no id", i)
		}
		if m.Provider == "" {
			return fmt.Errorf("model %q has no provider", m.ID)
		}
		if m.Hosting != HostingExternal && m.Hosting != HostingSelfHosted {
			return fmt.Errorf("model %q has invalid hosting type %q", m.ID, m.Hosting)
		}
		if m.InputPricePerMillion < 0 || m.OutputPricePerMillion < 0 {
			return fmt.Errorf("model %q has negative pricing", m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
