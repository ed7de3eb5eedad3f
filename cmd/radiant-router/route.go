package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/cli"
	"github.com/radiant/router/pkg/config"
	"github.com/radiant/router/pkg/history"
	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/router"
	"github.com/radiant/router/pkg/rules"
	"github.com/radiant/router/pkg/scoring"
	"github.com/radiant/router/pkg/telemetry/logging"
	"github.com/radiant/router/pkg/telemetry/metrics"
)

var routeFlags struct {
	task       string
	tokens     int
	tenant     string
	user       string
	maxCost    float64
	maxLatency time.Duration
	provider   string
	vision     bool
	audio      bool
	timeout    time.Duration
	format     string
}

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Route a single request and print the decision",
	Long: `Route a single inference request through the engine and print the
resulting decision.

The command loads the model catalog, override rules, affinity table, and
decision history referenced by the configuration file, routes exactly one
request, and records the decision in history (when enabled).

Examples:
  # Route a chat request for a tenant
  radiant-router route --task chat --tokens 1200 --tenant acme

  # Route with constraints, JSON output
  radiant-router route --task code --tokens 4000 --max-cost 0.02 --format json

  # Require vision capability
  radiant-router route --task vision --tokens 800 --vision`,
	RunE: routeOnce,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringVar(&routeFlags.task, "task", "chat", "task type: chat, code, analysis, creative, vision, audio")
	routeCmd.Flags().IntVar(&routeFlags.tokens, "tokens", 1000, "estimated input tokens")
	routeCmd.Flags().StringVar(&routeFlags.tenant, "tenant", "", "tenant id (scopes override rules)")
	routeCmd.Flags().StringVar(&routeFlags.user, "user", "", "user id (recorded for audit)")
	routeCmd.Flags().Float64Var(&routeFlags.maxCost, "max-cost", 0, "maximum estimated cost in USD (0 = unconstrained)")
	routeCmd.Flags().DurationVar(&routeFlags.maxLatency, "max-latency", 0, "maximum estimated latency (0 = unconstrained)")
	routeCmd.Flags().StringVar(&routeFlags.provider, "provider", "", "preferred provider (best effort)")
	routeCmd.Flags().BoolVar(&routeFlags.vision, "vision", false, "require vision capability")
	routeCmd.Flags().BoolVar(&routeFlags.audio, "audio", false, "require audio capability")
	routeCmd.Flags().DurationVar(&routeFlags.timeout, "timeout", 10*time.Second, "routing deadline")
	routeCmd.Flags().StringVar(&routeFlags.format, "format", "text", "output format: text, json")
}

func routeOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("route", err)
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
	logger, err := logging.SetDefault(logCfg)
	if err != nil {
		return cli.NewCommandError("route", err)
	}

	ctx := cli.SetupSignalHandler()

	registry, err := catalog.LoadFileRegistry(cfg.Registry.Path)
	if err != nil {
		return cli.NewCommandError("route", err)
	}

	var ruleStore rules.Store
	if cfg.Rules.Enabled {
		fileStore, err := rules.NewFileStore(cfg.Rules.Path, logger)
		if err != nil {
			return cli.NewCommandError("route", err)
		}
		if cfg.Rules.Watch {
			go func() {
				if err := fileStore.Watch(ctx); err != nil {
					logger.Warn("rule file watcher exited", "error", err)
				}
			}()
		}
		ruleStore = fileStore
	}

	affinity := scoring.NewAffinityTable(nil)
	if cfg.Scoring.AffinityPath != "" {
		affinity, err = scoring.LoadAffinityTable(cfg.Scoring.AffinityPath)
		if err != nil {
			return cli.NewCommandError("route", err)
		}
	}

	var (
		historySource perf.HistorySource
		sink          router.DecisionSink
	)
	if cfg.History.Enabled {
		switch cfg.History.Backend {
		case "memory":
			mem := history.NewMemory()
			historySource, sink = mem, mem
		default:
			store, err := history.NewStore(&history.StoreConfig{
				Path:        cfg.History.SQLitePath,
				BusyTimeout: cfg.History.BusyTimeout,
			})
			if err != nil {
				return cli.NewCommandError("route", err)
			}
			defer store.Close()
			historySource, sink = store, store
		}
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&metrics.Config{
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: cfg.Telemetry.Metrics.Subsystem,
		}, nil)
	}

	eng, err := router.New(router.Options{
		Registry: registry,
		Rules:    ruleStore,
		History:  historySource,
		Sink:     sink,
		Tracker: &perf.TrackerConfig{
			CacheTTL:      cfg.Performance.CacheTTL,
			WindowDays:    cfg.Performance.WindowDays,
			LookupTimeout: cfg.Performance.LookupTimeout,
		},
		Emitter: &router.EmitterConfig{
			Buffer:       cfg.Emitter.Buffer,
			WriteTimeout: cfg.Emitter.WriteTimeout,
		},
		WarmupDuration: cfg.Routing.WarmupDuration,
		Logger:         logger,
		Metrics:        collector,
	}, affinity)
	if err != nil {
		return cli.NewCommandError("route", err)
	}
	defer eng.Close()

	req := &router.Request{
		TaskType:      router.TaskType(routeFlags.task),
		InputTokens:   routeFlags.tokens,
		RequireVision: routeFlags.vision,
		RequireAudio:  routeFlags.audio,
		TenantID:      routeFlags.tenant,
		UserID:        routeFlags.user,
	}
	if routeFlags.maxCost > 0 {
		req.Constraints.MaxCostUSD = &routeFlags.maxCost
	}
	if routeFlags.maxLatency > 0 {
		req.Constraints.MaxLatency = &routeFlags.maxLatency
	}
	req.Constraints.PreferredProvider = routeFlags.provider

	routeCtx, cancel := context.WithTimeout(ctx, routeFlags.timeout)
	defer cancel()

	decision, err := eng.Route(routeCtx, req)
	if err != nil {
		return cli.NewCommandError("route", err)
	}

	return printDecision(decision)
}

func printDecision(d *router.Decision) error {
	if cli.OutputFormat(routeFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, d)
	}

	fmt.Printf("decision:   %s\n", d.ID)
	fmt.Printf("model:      %s", d.ModelID)
	if d.ProviderID != "" {
		fmt.Printf(" (%s)", d.ProviderID)
	}
	fmt.Println()
	fmt.Printf("strategy:   %s\n", d.Strategy)
	if d.RuleID != "" {
		fmt.Printf("rule:       %s\n", d.RuleID)
	}
	fmt.Printf("reason:     %s\n", d.Reason)
	fmt.Printf("confidence: %.3f\n", d.Confidence)
	fmt.Printf("est. cost:  $%.6f\n", d.EstimatedCostUSD)
	fmt.Printf("est. lat:   %s\n", d.EstimatedLatency)
	if len(d.Fallbacks) > 0 {
		fmt.Printf("fallbacks:  %v\n", d.Fallbacks)
	}
	return nil
}
