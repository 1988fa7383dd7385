package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacmatch/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the top-scored postings",
	Run: func(cmd *cobra.Command, _ []string) {
		runReport(cmd)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <rank>",
	Short: "Show the details of a posting by its report rank",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runShow(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(showCmd)

	reportCmd.Flags().Float64P("min-score", "s", 0, "minimum score threshold (default from config)")
	reportCmd.Flags().IntP("limit", "l", 0, "maximum postings to show (default from config)")
	showCmd.Flags().Float64P("min-score", "s", 0, "minimum score threshold used for ranking (default from config)")
}

func runReport(cmd *cobra.Command) {
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

	minScore, limit := reportParams(cmd, config)
	postings, err := st.TopScored(ctx, minScore, limit)
	if err != nil {
		log.Fatal("querying top postings", zap.Error(err))
	}

	report.TopJobs(cmd.OutOrStdout(), postings)
}

func runShow(cmd *cobra.Command, rankArg string) {
	ctx := context.Background()

	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	rank, err := strconv.Atoi(rankArg)
	if err != nil || rank < 1 {
		log.Fatal("rank must be a positive number", zap.String("rank", rankArg))
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

	minScore, _ := reportParams(cmd, config)
	postings, err := st.TopScored(ctx, minScore, rank)
	if err != nil {
		log.Fatal("querying top postings", zap.Error(err))
	}

	if rank > len(postings) {
		log.Fatal("no posting at this rank",
			zap.Int("rank", rank),
			zap.Int("available", len(postings)),
		)
	}

	report.JobDetails(cmd.OutOrStdout(), rank, postings[rank-1])
}

// reportParams resolves min-score and limit from flags, falling back to the
// config file values.
func reportParams(cmd *cobra.Command, config *Config) (float64, int) {
	minScore := 70.0
	limit := 20
	if config.Report != nil {
		if config.Report.MinScore > 0 {
			minScore = config.Report.MinScore
		}
		if config.Report.Limit > 0 {
			limit = config.Report.Limit
		}
	}

	if flag := cmd.Flag("min-score"); flag != nil && flag.Changed {
		if v, err := cmd.Flags().GetFloat64("min-score"); err == nil {
			minScore = v
		}
	}
	if flag := cmd.Flag("limit"); flag != nil && flag.Changed {
		if v, err := cmd.Flags().GetInt("limit"); err == nil {
			limit = v
		}
	}

	return minScore, limit
}
