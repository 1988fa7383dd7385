package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacmatch/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score unscored postings without ingesting anything new",
	Run: func(cmd *cobra.Command, _ []string) {
		runScore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().IntP("max-jobs", "n", 0, "maximum number of postings to score (0 means all)")
}

func runScore(cmd *cobra.Command) {
	ctx := context.Background()

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

	maxJobs, _ := cmd.Flags().GetInt("max-jobs")
	runner := pipeline.New(st, oracle, summary, log, cmd.OutOrStdout())

	if _, err := runner.Run(ctx, maxJobs); err != nil {
		log.Fatal("scoring batch failed", zap.Error(err))
	}
}
