package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cutmatching/pkg/apperror"
	"cutmatching/pkg/cache"
	"cutmatching/pkg/config"
	"cutmatching/pkg/logger"
	"cutmatching/pkg/metrics"
	"cutmatching/pkg/telemetry"
	"cutmatching/services/cutmatching/internal/algorithms"
	"cutmatching/services/cutmatching/internal/graph"
	"cutmatching/services/cutmatching/internal/service"
)

// flagKeys maps command line flags to koanf keys.
var flagKeys = map[string]string{
	"phi-inverse":   "game.phi_inverse",
	"vectors":       "game.random_vectors",
	"eager-vectors": "game.eager_vectors",
	"solver":        "game.solver",
	"seed":          "game.seed",
	"trials":        "game.trials",
	"min-rounds":    "game.min_rounds",
	"log-level":     "log.level",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cutmatching",
		Short:         "Certify graph expansion with the cut-matching game",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newAlgorithmsCmd(), newCacheCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <graph-file>",
		Short: "Play the game on a CHACO graph and print the verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCertify(cmd, args[0])
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("phi-inverse", 2, "capacity of inner edges (1/phi)")
	flags.Int("vectors", 0, "number of cached random vectors, 0 = unbounded")
	flags.Bool("eager-vectors", false, "generate all cached random vectors before the first round")
	flags.String("solver", algorithms.AlgorithmEdmondsKarp, "max-flow solver: "+strings.Join(algorithms.Algorithms(), ", "))
	flags.Uint64("seed", 0, "random seed, 0 = random")
	flags.Int("trials", 1, "independent games to run concurrently")
	flags.Int("min-rounds", 10, "lower bound of the round budget")
	flags.String("log-level", "info", "debug, info, warn, error")
	flags.String("config", "", "path to a YAML config file")
	return cmd
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available max-flow solvers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range algorithms.Algorithms() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the verdict cache",
	}

	clearCmd := &cobra.Command{
		Use:   "clear [graph-file]",
		Short: "Drop cached verdicts of one graph, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCacheClear(cmd, args)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			return err
		},
	}
	clearCmd.Flags().String("config", "", "path to a YAML config file")

	cmd.AddCommand(clearCmd)
	return cmd
}

// overrides collects the flags set explicitly on the command line.
func overrides(cmd *cobra.Command) (map[string]any, error) {
	out := make(map[string]any)
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}

		var (
			v   any
			err error
		)
		switch f.Value.Type() {
		case "int":
			v, err = cmd.Flags().GetInt(flag)
		case "uint64":
			v, err = cmd.Flags().GetUint64(flag)
		case "bool":
			v, err = cmd.Flags().GetBool(flag)
		default:
			v = f.Value.String()
		}
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	values, err := overrides(cmd)
	if err != nil {
		return nil, err
	}

	opts := []config.LoaderOption{config.WithOverrides(values)}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		opts = append(opts, config.WithConfigPaths(path))
	}
	return config.NewLoader(opts...).Load()
}

func runCertify(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("Failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	var certOpts []service.Option
	if cfg.Metrics.Enabled {
		m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem,
			metrics.WithPoolUsage(poolUsage))
		m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
		certOpts = append(certOpts, service.WithMetrics(m))

		srv := metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // процесс всё равно завершается
		}()
	}

	if cfg.Cache.Enabled {
		vc, err := openVerdictCache(cfg)
		if err != nil {
			logger.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			defer vc.Close()
			certOpts = append(certOpts, service.WithVerdictCache(vc))
		}
	}

	certifier, err := service.NewCertifier(cfg.Game, append(certOpts, service.WithLogger(logger.WithService(cfg.App.Name)))...)
	if err != nil {
		return err
	}

	report, err := certifier.CertifyFile(ctx, path)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogger(cfg)

	if !cfg.Cache.Enabled {
		return apperror.ErrCacheDisabled
	}
	vc, err := openVerdictCache(cfg)
	if err != nil {
		return err
	}
	defer vc.Close()

	certifier, err := service.NewCertifier(cfg.Game,
		service.WithVerdictCache(vc),
		service.WithLogger(logger.WithService(cfg.App.Name)),
	)
	if err != nil {
		return err
	}

	var n int64
	if len(args) == 1 {
		n, err = certifier.ForgetFile(cmd.Context(), args[0])
	} else {
		n, err = certifier.ForgetAll(cmd.Context())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached verdicts\n", n)
	return nil
}

func openVerdictCache(cfg *config.Config) (*cache.VerdictCache, error) {
	base, err := cache.New(cache.FromConfig(&cfg.Cache))
	if err != nil {
		return nil, err
	}
	logger.Debug("Verdict cache initialized", "driver", cfg.Cache.Driver, "ttl", cfg.Cache.DefaultTTL)
	return cache.NewVerdictCache(base, cfg.Cache.DefaultTTL), nil
}

func initLogger(cfg *config.Config) {
	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
}

// poolUsage adapts the graph pool counters for the runtime collector.
func poolUsage() metrics.PoolUsage {
	s := graph.GetPool().Stats()
	return metrics.PoolUsage{Clones: s.Clones, InUse: s.InUse, ScratchInts: s.ScratchInts}
}

func printReport(w io.Writer, r *service.Report) {
	if len(r.Verdicts) > 1 {
		for i, v := range r.Verdicts {
			fmt.Fprintf(w, "trial %d (seed %d): %s\n", i, v.Seed, v)
		}
	}

	v := r.Verdict()
	fmt.Fprintln(w, v)
	if !v.IsExpander() {
		fmt.Fprintf(w, "cut A: %v\n", v.Cut.A)
		fmt.Fprintf(w, "cut B: %v\n", v.Cut.B)
		fmt.Fprintf(w, "min cut side: %v\n", v.MinCutSide)
	}
	if r.Cached {
		fmt.Fprintln(w, "(cached)")
	}
}
