package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solution-gateway/middleware/accesslog"
	"solution-gateway/solution"
	"solution-gateway/solution/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gateway",
		Short:         "Solution lookup gateway with rotating upstream identities",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $CONFIG_FILE)")

	root.AddCommand(newServeCmd(&configPath), newLookupCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup page and API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listen
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default $LISTEN_ADDR or :8080)")
	return cmd
}

func serve(parent context.Context, cfg config) error {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, closeStats, err := newStats(ctx, cfg.Stats)
	if err != nil {
		return err
	}
	defer closeStats()

	svc, err := newService(cfg, stats, log)
	if err != nil {
		return err
	}
	guard, limiterStore := lookupGuard(cfg.Rate, stats, log)

	h := solution.NewHandler(solution.Options{
		Service:          svc,
		Stats:            stats,
		Logger:           log,
		LookupMiddleware: guard,
	})
	h = accesslog.Middleware(log)(h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// até MaxAttempts chamadas sequenciais ao upstream cabem na escrita
		WriteTimeout: time.Duration(cfg.MaxAttempts)*cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  90 * time.Second,
	}

	log.Info("gateway listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("upstream", cfg.UpstreamURL),
		zap.String("identities_file", cfg.IdentitiesFile),
		zap.Int("max_attempts", cfg.MaxAttempts),
	)
	log.Info("rate",
		zap.Bool("enabled", cfg.Rate.Enabled),
		zap.Float64("rps", cfg.Rate.RPS),
		zap.Int("burst", cfg.Rate.Burst),
		zap.Int("concurrency_max", cfg.Rate.ConcurrencyMax),
		zap.Bool("stats_redis", cfg.Stats.Enabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if limiterStore != nil {
		g.Go(func() error { return limiterStore.RunJanitor(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("gateway stopped", zap.Error(err))
		return err
	}
	log.Info("gateway stopped")
	return nil
}

func newLookupCmd(configPath *string) *cobra.Command {
	var (
		raw        bool
		identities string
		upstream   string
	)

	cmd := &cobra.Command{
		Use:   "lookup <questionId>",
		Short: "Fetch one solution from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(*configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cmd.Flags().Changed("identities") {
				cfg.IdentitiesFile = identities
			}
			if cmd.Flags().Changed("upstream") {
				cfg.UpstreamURL = upstream
			}

			log, err := newLogger(logConfig{Level: "warn", Format: "console"})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			stats, closeStats, err := newStats(cmd.Context(), statsConfig{})
			if err != nil {
				return err
			}
			defer closeStats()

			svc, err := newService(cfg, stats, log)
			if err != nil {
				return err
			}

			q := domain.QuestionID(args[0])
			if raw {
				res, err := svc.Fetch(cmd.Context(), q)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Solution)
				return err
			}

			out, err := svc.Lookup(cmd.Context(), q)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Markup)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the plain solution instead of highlighted HTML")
	cmd.Flags().StringVar(&identities, "identities", "", "identities file (default $IDENTITIES_FILE or user_ids.txt)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "upstream base URL (default $UPSTREAM_URL)")
	return cmd
}
