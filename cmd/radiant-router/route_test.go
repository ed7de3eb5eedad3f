package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testModelsYAML = `models:
  - id: gpt-4o
    provider: openai
    hosting: external
    capabilities: [vision, tools]
    input_price_per_million: 2.5
    output_price_per_million: 10.0
    active: true
  - id: llama-3-70b
    provider: radiant
    hosting: self-hosted
    capabilities: [tools]
    input_price_per_million: 0.6
    output_price_per_million: 0.8
    active: true
`

const testRulesYAML = `rules:
  - id: pin-chat
    name: chat pinning
    priority: 1
    conditions:
      task_type: chat
    target_model: gpt-4o
    active: true
`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestRouteCommandWiresConfiguredStack(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "models.yaml"), testModelsYAML)
	writeTestFile(t, filepath.Join(dir, "rules.yaml"), testRulesYAML)

	configYAML := `registry:
  path: ` + filepath.Join(dir, "models.yaml") + `
rules:
  enabled: true
  path: ` + filepath.Join(dir, "rules.yaml") + `
  watch: true
history:
  enabled: true
  backend: memory
telemetry:
  logging:
    level: error
  metrics:
    enabled: false
    namespace: testns
`
	writeTestFile(t, filepath.Join(dir, "config.yaml"), configYAML)

	prevCfg := cfgFile
	cfgFile = filepath.Join(dir, "config.yaml")
	t.Cleanup(func() { cfgFile = prevCfg })

	if err := routeOnce(routeCmd, nil); err != nil {
		t.Fatalf("routeOnce() error = %v", err)
	}
}
