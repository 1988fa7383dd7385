package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacmatch/internal/ingest"
	"vacmatch/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scan and score on a schedule until interrupted",
	Run: func(cmd *cobra.Command, _ []string) {
		runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("schedule", "@every 24h", "cron schedule for the recurring scan")
	watchCmd.Flags().StringP("input", "i", "", "scraper export file re-read on every tick")
	watchCmd.Flags().IntP("max-jobs", "n", 0, "maximum number of postings to score per tick (0 means all)")
}

func runWatch(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	summary, err := loadProfileSummary(config)
	if err != nil {
		log.Fatal("loading candidate profile", zap.Error(err))
	}

	st, err := openStore(config)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	oracle, err := newOracle(ctx, config.AI, log)
	if err != nil {
		log.Fatal("building the scoring oracle", zap.Error(err))
	}

	input, _ := cmd.Flags().GetString("input")
	maxJobs, _ := cmd.Flags().GetInt("max-jobs")
	schedule, _ := cmd.Flags().GetString("schedule")

	runner := pipeline.New(st, oracle, summary, log, cmd.OutOrStdout())

	tick := func() {
		if input != "" {
			if _, err := ingest.FromFile(ctx, st, input, log); err != nil {
				log.Error("ingest tick failed", zap.Error(err))
			}
		}
		if _, err := runner.Run(ctx, maxJobs); err != nil {
			log.Error("scoring tick failed", zap.Error(err))
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, tick); err != nil {
		log.Fatal("invalid schedule", zap.String("schedule", schedule), zap.Error(err))
	}

	log.Info("watch started", zap.String("schedule", schedule))

	// Run one tick immediately so the first results do not wait for the
	// schedule to fire.
	tick()

	c.Start()
	<-ctx.Done()

	cronCtx := c.Stop()
	<-cronCtx.Done()

	log.Info("watch stopped")
}
