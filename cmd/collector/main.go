package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/LucasjsSilva/data-set-repositorios/internal/collector"
	"github.com/LucasjsSilva/data-set-repositorios/internal/config"
)

// runTimeout bounds a single collection run. Throttled multi-language
// runs take hours, so this is a hang guard rather than a deadline.
const runTimeout = 24 * time.Hour

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		languages []string
		pages     int
		perPage   int
		output    string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Collect GitHub repository metadata into a CSV dataset",
		Long: `collector pages through GitHub repository search results for each
configured language, enriches every hit with owner-profile and activity
statistics, and writes the accumulated records to a single CSV file.

Configuration comes from environment variables (a .env file is honored);
flags override the language list, page counts, and output path. When
CRON_SCHEDULE is set the collector runs as a daemon on that schedule
instead of performing a single run.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if len(languages) > 0 {
				cfg.Languages = languages
			}
			if cmd.Flags().Changed("pages") {
				cfg.Pages = pages
			}
			if cmd.Flags().Changed("per-page") {
				cfg.PerPage = perPage
			}
			if output != "" {
				cfg.OutputFile = output
			}

			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Level:           level,
			})

			coll, err := collector.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create collector: %w", err)
			}
			defer coll.Close()

			if cfg.CronSchedule != "" {
				return runScheduled(cfg, coll, logger)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			ctx, timeoutCancel := context.WithTimeout(ctx, runTimeout)
			defer timeoutCancel()

			return coll.Run(ctx)
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "languages", "l", nil, "languages to collect (default from LANGUAGES env)")
	cmd.Flags().IntVarP(&pages, "pages", "p", 5, "search pages per language")
	cmd.Flags().IntVar(&perPage, "per-page", 100, "results per search page")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default from OUTPUT_FILE env)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// runScheduled runs the collector as a daemon on the configured cron
// schedule until an interrupt arrives.
func runScheduled(cfg *config.Config, coll *collector.Collector, logger *log.Logger) error {
	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := coll.Run(ctx); err != nil {
			logger.Errorf("Collection run failed: %v", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSchedule, runOnce); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	logger.Infof("Cron scheduler started with schedule: %s", cfg.CronSchedule)

	if cfg.RunOnStartup {
		logger.Info("Running initial collection on startup...")
		runOnce()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	c.Stop()
	return nil
}
