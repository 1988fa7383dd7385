package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vacmatch/internal/store"
)

const (
	markApplied  = "Mark applied"
	markBookmark = "Bookmark"
	markBack     = "Back"
)

var markCmd = &cobra.Command{
	Use:   "mark <id>",
	Short: "Mark a posting as applied or bookmarked",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMark(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(markCmd)

	markCmd.Flags().Bool("applied", false, "mark the posting as applied")
	markCmd.Flags().Bool("bookmark", false, "bookmark the posting")
	markCmd.Flags().String("notes", "", "notes to store with the posting")
}

func runMark(cmd *cobra.Command, idArg string) {
	ctx := context.Background()

	log, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %v\n", err)
		os.Exit(1)
	}

	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		log.Fatal("id must be a number", zap.String("id", idArg))
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

	posting, err := st.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Fatal("no posting with this id", zap.Int64("id", id))
		}
		log.Fatal("loading posting", zap.Error(err))
	}

	applied, _ := cmd.Flags().GetBool("applied")
	bookmark, _ := cmd.Flags().GetBool("bookmark")
	notes, _ := cmd.Flags().GetString("notes")

	if !applied && !bookmark {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%s at %s", posting.Title, posting.Company),
			Items: []string{markApplied, markBookmark, markBack},
		}
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		switch action {
		case markApplied:
			applied = true
		case markBookmark:
			bookmark = true
		default:
			return
		}
	}

	if applied {
		if err := st.MarkApplied(ctx, id, notes); err != nil {
			log.Fatal("marking applied", zap.Error(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as applied\n", posting.Title)
	}

	if bookmark {
		if err := st.Bookmark(ctx, id); err != nil {
			log.Fatal("bookmarking", zap.Error(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %q\n", posting.Title)
	}
}
