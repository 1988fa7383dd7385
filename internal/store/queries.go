package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vacmatch/internal/job"
)

// Unscored returns postings that have not been scored yet, oldest first.
// limit <= 0 means no limit.
func (s *Store) Unscored(ctx context.Context, limit int) ([]*job.Posting, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE is_scored = 0 ORDER BY scraped_at`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unscored: %w", err)
	}
	return collectPostings(rows)
}

// TopScored returns scored postings at or above minScore, best first.
func (s *Store) TopScored(ctx context.Context, minScore float64, limit int) ([]*job.Posting, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
        WHERE is_scored = 1 AND overall_score >= ?
        ORDER BY overall_score DESC`
	args := []any{minScore}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top scored: %w", err)
	}
	return collectPostings(rows)
}

// ByDateRange returns postings scraped within the last `hours`, newest first.
func (s *Store) ByDateRange(ctx context.Context, hours int) ([]*job.Posting, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE scraped_at >= ? ORDER BY scraped_at DESC`,
		cutoff.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	return collectPostings(rows)
}

func collectPostings(rows *sql.Rows) ([]*job.Posting, error) {
	defer rows.Close()

	var postings []*job.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}
