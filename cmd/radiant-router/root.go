package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "radiant-router",
	Short: "Radiant Router - adaptive multi-objective model routing engine",
	Long: `Radiant Router selects the best model candidate for each inference
request in a multi-tenant AI platform.

Selection combines:
  - Tenant override rules with global fallbacks
  - Capability filtering (vision, audio, tools)
  - Windowed performance aggregates with cold-start defaults
  - Thermal state of self-hosted compute
  - Weighted multi-factor scoring (cost, latency, quality, reliability)`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
