package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old low-scoring postings (applied and bookmarked ones are kept)",
	Run: func(cmd *cobra.Command, _ []string) {
		runCleanup(cmd)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().Int("days", 0, "remove postings older than this many days (default from config)")
	cleanupCmd.Flags().Float64P("min-score", "s", 0, "remove postings scored below this threshold (default from config)")
	cleanupCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func runCleanup(cmd *cobra.Command) {
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

	days := 30
	minScore := 60.0
	if config.Cleanup != nil {
		if config.Cleanup.Days > 0 {
			days = config.Cleanup.Days
		}
		if config.Cleanup.MinScore > 0 {
			minScore = config.Cleanup.MinScore
		}
	}
	if flag := cmd.Flag("days"); flag != nil && flag.Changed {
		if v, err := cmd.Flags().GetInt("days"); err == nil {
			days = v
		}
	}
	if flag := cmd.Flag("min-score"); flag != nil && flag.Changed {
		if v, err := cmd.Flags().GetFloat64("min-score"); err == nil {
			minScore = v
		}
	}

	autoApprove, _ := cmd.Flags().GetBool("yes")
	if !autoApprove {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Delete postings older than %d days with score below %.0f?", days, minScore),
			Items: []string{"Yes", "No"},
		}
		_, answer, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		if answer != "Yes" {
			log.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	st, err := openStore(config)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer st.Close()

	removed, err := st.Cleanup(ctx, days, minScore)
	if err != nil {
		log.Fatal("cleanup failed", zap.Error(err))
	}

	if removed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No postings to remove")
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d old low-scoring posting(s); applied and bookmarked postings were preserved\n", removed)
}
