package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/radiant/router/pkg/cli"
	"github.com/radiant/router/pkg/config"
	"github.com/radiant/router/pkg/history"
	"github.com/radiant/router/pkg/telemetry/logging"
)

var pruneFollow bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune decision history past the retention horizon",
	Long: `Delete history rows older than the configured retention window.

By default the command prunes once and exits. With --follow it stays
running and prunes on the configured cron schedule until interrupted.

Examples:
  # One-shot prune using history.retention_days from the config
  radiant-router prune

  # Keep running, pruning on history.retention_schedule
  radiant-router prune --follow`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().BoolVar(&pruneFollow, "follow", false, "keep running and prune on the configured cron schedule")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    logging.Format(cfg.Telemetry.Logging.Format),
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	}
	if verbose {
		logCfg.Level = "debug"
	}
	if _, err := logging.SetDefault(logCfg); err != nil {
		return cli.NewCommandError("prune", err)
	}

	if !cfg.History.Enabled || cfg.History.Backend != "sqlite" {
		return cli.NewCommandError("prune",
			fmt.Errorf("history backend %q holds nothing to prune", cfg.History.Backend))
	}

	deleted, err := pruneHistory(cli.SetupSignalHandler(), &cfg.History, pruneFollow)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Printf("pruned %d rows\n", deleted)
	return nil
}

// pruneHistory opens the history store, prunes once, and with follow set
// keeps pruning on the configured schedule until ctx is cancelled.
func pruneHistory(ctx context.Context, cfg *config.HistoryConfig, follow bool) (int64, error) {
	store, err := history.NewStore(&history.StoreConfig{
		Path:        cfg.SQLitePath,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return 0, err
	}
	defer store.Close()

	pruner := history.NewPruner(store, &history.RetentionConfig{
		RetentionDays: cfg.RetentionDays,
		Schedule:      cfg.RetentionSchedule,
	})

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return deleted, err
	}

	if follow {
		scheduler := history.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return deleted, err
		}
		<-ctx.Done()
		scheduler.Stop()
	}

	return deleted, nil
}
