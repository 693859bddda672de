package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/harrisonrobin/todoist-exporter/pkg/auth"
	"github.com/harrisonrobin/todoist-exporter/pkg/collector"
	"github.com/harrisonrobin/todoist-exporter/pkg/config"
	"github.com/harrisonrobin/todoist-exporter/pkg/metrics"
	"github.com/harrisonrobin/todoist-exporter/pkg/poller"
	"github.com/harrisonrobin/todoist-exporter/pkg/server"
	"github.com/harrisonrobin/todoist-exporter/pkg/todoist"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		port        int
		metricsPath string
		interval    int
	)

	cmd := &cobra.Command{
		Use:          "todoist-exporter",
		Short:        "Export Todoist project and task statistics as Prometheus metrics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags take precedence over the environment.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("metrics-path") {
				cfg.MetricsPath = metricsPath
			}
			if cmd.Flags().Changed("interval") {
				cfg.IntervalSeconds = interval
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 9090, "Port to serve metrics on (overrides EXPORTER_PORT)")
	cmd.Flags().StringVar(&metricsPath, "metrics-path", "/metrics", "HTTP path for metrics (overrides METRICS_PATH)")
	cmd.Flags().IntVar(&interval, "interval", 60, "Seconds between collections (overrides COLLECTION_INTERVAL)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	reg := metrics.NewRegistry()
	srv := server.New(cfg.ListenAddr(), cfg.MetricsPath, reg)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if !cfg.HasToken() {
		log.Println("Warning: TODOIST_API_TOKEN environment variable is not set. Exporter will not collect metrics.")
	} else {
		httpClient, err := auth.NewClient(ctx, cfg.APIToken, cfg.Timeout())
		if err != nil {
			return err
		}
		api := todoist.NewClient(httpClient, cfg.RESTURL, cfg.SyncURL)
		c := collector.New(api, reg, collector.Options{
			CompletedDays:  cfg.CompletedDays,
			CompletedHours: cfg.CompletedHours,
		})
		g.Go(func() error {
			return poller.New(c, reg, cfg.Interval()).Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Exporter stopped: %v", err)
		return err
	}
	log.Println("Exporter stopped")
	return nil
}
