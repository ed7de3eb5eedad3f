package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/config"
	"github.com/radiant/router/pkg/rules"
	"github.com/radiant/router/pkg/scoring"
)

var validateFlags struct {
	skipFiles bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and data files",
	Long: `Validate the configuration file and the data files it references.

The validate command checks:
  - Configuration structure, defaults, and field constraints
  - The model catalog file (ids, pricing, capabilities)
  - The override rule file (ids, priorities, conditions)
  - The task affinity table (score bounds)

Examples:
  # Validate everything referenced by the default config
  radiant-router validate

  # Validate a specific config, structure only
  radiant-router validate --config prod.yaml --skip-files`,
	RunE: validateAll,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.skipFiles, "skip-files", false, "validate config structure only, skip referenced data files")
}

func validateAll(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	fmt.Printf("config %s: OK\n", cfgFile)

	if validateFlags.skipFiles {
		return nil
	}

	if _, err := catalog.LoadFileRegistry(cfg.Registry.Path); err != nil {
		return fmt.Errorf("catalog %s: %w", cfg.Registry.Path, err)
	}
	fmt.Printf("catalog %s: OK\n", cfg.Registry.Path)

	if cfg.Rules.Enabled {
		if _, err := rules.NewFileStore(cfg.Rules.Path, nil); err != nil {
			return fmt.Errorf("rules %s: %w", cfg.Rules.Path, err)
		}
		fmt.Printf("rules %s: OK\n", cfg.Rules.Path)
	}

	if cfg.Scoring.AffinityPath != "" {
		if _, err := scoring.LoadAffinityTable(cfg.Scoring.AffinityPath); err != nil {
			return fmt.Errorf("affinity table %s: %w", cfg.Scoring.AffinityPath, err)
		}
		fmt.Printf("affinity table %s: OK\n", cfg.Scoring.AffinityPath)
	}

	return nil
}
