package store

import (
	"context"
	"fmt"
	"time"
)

// Stats aggregates store state for diagnostic output.
type Stats struct {
	Total            int
	Scored           int
	StrongMatches    int
	PotentialMatches int
	Applied          int
	Bookmarked       int
}

// ScanRecord is one row of scan history.
type ScanRecord struct {
	RunID    string
	ScanDate time.Time
	Found    int
	Skipped  int
	Scored   int
	Errored  int
}

// Cleanup removes postings that are older than olderThanDays, scored below
// minScore, and neither applied nor bookmarked. All four conditions must
// hold: applied or bookmarked records survive regardless of age and score.
// Returns the number of rows removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int, minScore float64) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM jobs
         WHERE scraped_at < ?
           AND overall_score < ?
           AND is_applied = 0
           AND is_bookmarked = 0`,
		cutoff.Format(time.RFC3339Nano),
		minScore,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup rows affected: %w", err)
	}
	return removed, nil
}

// CollectStats returns counts describing the current store contents.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `SELECT
        COUNT(1),
        COALESCE(SUM(is_scored), 0),
        COALESCE(SUM(CASE WHEN is_scored = 1 AND overall_score >= 80 THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN is_scored = 1 AND overall_score >= 60 AND overall_score < 80 THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(is_applied), 0),
        COALESCE(SUM(is_bookmarked), 0)
        FROM jobs`)
	if err := row.Scan(
		&stats.Total,
		&stats.Scored,
		&stats.StrongMatches,
		&stats.PotentialMatches,
		&stats.Applied,
		&stats.Bookmarked,
	); err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return stats, nil
}

// RecordScan appends a scan run to history.
func (s *Store) RecordScan(ctx context.Context, rec ScanRecord) error {
	scanDate := rec.ScanDate
	if scanDate.IsZero() {
		scanDate = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scan_history (run_id, scan_date, jobs_found, jobs_skipped, jobs_scored, jobs_errored)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		scanDate.Format(time.RFC3339Nano),
		rec.Found,
		rec.Skipped,
		rec.Scored,
		rec.Errored,
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// RecentScans returns the most recent scan history entries, newest first.
func (s *Store) RecentScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, scan_date, jobs_found, jobs_skipped, jobs_scored, jobs_errored
         FROM scan_history ORDER BY scan_date DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent scans: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var dateRaw string
		if err := rows.Scan(&rec.RunID, &dateRaw, &rec.Found, &rec.Skipped, &rec.Scored, &rec.Errored); err != nil {
			return nil, err
		}
		if date, err := parseTimeString(dateRaw); err == nil {
			rec.ScanDate = date
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
