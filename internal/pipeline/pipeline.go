// Package pipeline drives the scoring batch: unscored postings are pulled
// from the store, pre-filtered, sent to the oracle one at a time, aggregated,
// and persisted individually so an interrupted run resumes on the next one.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vacmatch/internal/job"
	"vacmatch/internal/prefilter"
	"vacmatch/internal/scoring"
	"vacmatch/internal/store"
)

// Store is the subset of the record store the pipeline needs.
type Store interface {
	Unscored(ctx context.Context, limit int) ([]*job.Posting, error)
	UpdateScore(ctx context.Context, id int64, score *job.Score) error
	RecordScan(ctx context.Context, rec store.ScanRecord) error
}

// Summary reports the outcome of one batch run so operators can distinguish
// "nothing to score" from "scoring failed".
type Summary struct {
	RunID   string
	Found   int
	Skipped int
	Scored  int
	Errored int
}

// Runner executes scoring batches.
type Runner struct {
	store          Store
	oracle         scoring.Oracle
	profileSummary string
	logger         *zap.Logger
	out            io.Writer
}

// New builds a Runner. out receives the human-facing batch summary; pass
// io.Discard to silence it.
func New(st Store, oracle scoring.Oracle, profileSummary string, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		store:          st,
		oracle:         oracle,
		profileSummary: profileSummary,
		logger:         logger,
		out:            out,
	}
}

// Run scores all unscored postings, at most limit when limit > 0. Records
// are processed strictly one at a time with one oracle call in flight; a
// failure on one record never aborts the batch.
func (r *Runner) Run(ctx context.Context, limit int) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}

	unscored, err := r.store.Unscored(ctx, limit)
	if err != nil {
		return summary, fmt.Errorf("fetch unscored postings: %w", err)
	}
	summary.Found = len(unscored)

	if len(unscored) == 0 {
		fmt.Fprintln(r.out, "All jobs already scored")
		return summary, nil
	}

	scorable := make([]*job.Posting, 0, len(unscored))
	for _, posting := range unscored {
		if strings.TrimSpace(posting.Description) == "" {
			summary.Skipped++
			continue
		}
		scorable = append(scorable, posting)
	}

	if summary.Skipped > 0 {
		r.logger.Info("skipping postings without descriptions",
			zap.Int("skipped", summary.Skipped),
		)
	}

	r.logger.Info("scoring batch started",
		zap.String("run_id", summary.RunID),
		zap.Int("found", summary.Found),
		zap.Int("scorable", len(scorable)),
	)

	for i, posting := range scorable {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := r.scoreOne(ctx, posting)

		if err := r.store.UpdateScore(ctx, posting.ID, result); err != nil {
			// The record stays unscored and is retried on the next run.
			summary.Errored++
			r.logger.Error("persisting score failed",
				zap.String("job_url", posting.URL),
				zap.Error(err),
			)
			continue
		}

		summary.Scored++
		r.logger.Info("posting scored",
			zap.Int("progress", i+1),
			zap.Int("total", len(scorable)),
			zap.String("title", posting.Title),
			zap.String("company", posting.Company),
			zap.Int("overall", result.Overall),
			zap.String("decision", result.Decision),
		)
	}

	if err := r.store.RecordScan(ctx, store.ScanRecord{
		RunID:   summary.RunID,
		Found:   summary.Found,
		Skipped: summary.Skipped,
		Scored:  summary.Scored,
		Errored: summary.Errored,
	}); err != nil {
		r.logger.Warn("recording scan history failed", zap.Error(err))
	}

	fmt.Fprintf(r.out, "Scored %d of %d posting(s) (%d skipped, %d errored)\n",
		summary.Scored, summary.Found, summary.Skipped, summary.Errored)

	return summary, nil
}

// scoreOne produces the canonical result for a single posting. The prefilter
// runs first and its verdict cannot be overridden by the oracle; an oracle
// failure yields the sentinel result instead of an error.
func (r *Runner) scoreOne(ctx context.Context, posting *job.Posting) *job.Score {
	detection, flagged := prefilter.Detect(posting.Description)
	if flagged {
		r.logger.Debug("consultancy pattern detected",
			zap.String("job_url", posting.URL),
			zap.String("pattern", detection.Pattern),
		)
	}

	dims, err := r.oracle.Score(ctx, r.profileSummary, posting)
	if err != nil {
		r.logger.Warn("oracle call failed, recording sentinel result",
			zap.String("job_url", posting.URL),
			zap.Error(err),
		)
		dims = scoring.Sentinel(err)
	}

	return scoring.Aggregate(dims, detection, flagged)
}
