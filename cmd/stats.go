package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacmatch/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics and recent scan history",
	Run: func(cmd *cobra.Command, _ []string) {
		runStats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command) {
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

	st, err := openStore(config)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	stats, err := st.CollectStats(ctx)
	if err != nil {
		log.Fatal("collecting stats", zap.Error(err))
	}

	scans, err := st.RecentScans(ctx, 5)
	if err != nil {
		log.Fatal("loading scan history", zap.Error(err))
	}

	report.StoreStats(cmd.OutOrStdout(), stats, scans)
}
