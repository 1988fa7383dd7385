// Package scoring defines the oracle contract and the canonical aggregation
// policy that turns an untrusted model assessment into a reproducible score.
package scoring

import (
	"context"

	"vacmatch/internal/job"
)

// Oracle produces a multi-dimensional assessment of a posting against the
// candidate profile summary. Implementations are fallible and
// non-deterministic; callers must treat the returned error as a visible
// branch and substitute Sentinel, never abort the batch.
type Oracle interface {
	Score(ctx context.Context, profileSummary string, posting *job.Posting) (*job.Score, error)
}

// Sentinel is the well-formed replacement result for a failed oracle call.
// Every dimension is zero, so aggregation always classifies it as pass.
func Sentinel(err error) *job.Score {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return &job.Score{
		SchemaVersion:   job.ScoreSchemaVersion,
		MatchHighlights: []string{"Error during scoring"},
		Concerns:        []string{reason},
		Decision:        job.DecisionPass,
		Summary:         "Failed to score this job due to an error.",
	}
}
