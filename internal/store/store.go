// Package store persists job postings in SQLite. There is a single writer;
// the unique url constraint is the safety net if ingestion runs overlap.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vacmatch/internal/job"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases must then be recreated.
const schemaVersion = 1

// Store manages posting persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == nil:
		if version != schemaVersion {
			return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
				ErrSchemaMismatch, version, schemaVersion, s.path)
		}
		return nil
	case errors.Is(err, sql.ErrNoRows):
		// Table exists but no version row; fall through to record one.
	default:
		// Fresh database.
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Insert persists a new posting, deduplicating by url: when the url already
// exists the stored row is returned unchanged and no re-scoring is triggered.
func (s *Store) Insert(ctx context.Context, p *job.Posting) (*job.Posting, error) {
	if p == nil {
		return nil, errors.New("posting is nil")
	}
	if p.URL == "" {
		return nil, ErrMissingURL
	}

	existing, err := s.GetByURL(ctx, p.URL)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	scrapedAt := p.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (
            url, title, company, location, job_type, is_remote, description,
            min_salary, max_salary, currency, source, posted_date, scraped_at,
            is_scored, is_applied, is_bookmarked
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0)`,
		p.URL,
		p.Title,
		p.Company,
		nullableString(p.Location),
		nullableString(p.JobType),
		boolToInt(p.IsRemote),
		nullableString(p.Description),
		nullableFloat(p.MinSalary),
		nullableFloat(p.MaxSalary),
		nullableString(p.Currency),
		nullableString(p.Source),
		nullableTime(p.PostedDate),
		scrapedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert posting: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// UpdateScore persists the canonical scoring result and marks the record
// scored. One write per record; the pipeline invokes this at most once per
// scoring pass.
func (s *Store) UpdateScore(ctx context.Context, id int64, score *job.Score) error {
	if score == nil {
		return errors.New("score is nil")
	}

	rawJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET raw_score = ?, overall_score = ?, is_scored = 1 WHERE id = ?`,
		string(rawJSON),
		float64(score.Overall),
		id,
	)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update score for id %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID fetches a posting by row identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*job.Posting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get posting: %w", err)
	}
	return p, nil
}

// GetByURL fetches a posting by its unique url.
func (s *Store) GetByURL(ctx context.Context, url string) (*job.Posting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE url = ?`, url)
	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get posting by url: %w", err)
	}
	return p, nil
}

// MarkApplied flags a posting as applied and stores the optional notes.
func (s *Store) MarkApplied(ctx context.Context, id int64, notes string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE jobs SET is_applied = 1, notes = ? WHERE id = ?`, nullableString(notes), id)
	if err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}
	return nil
}

// Bookmark flags a posting as bookmarked.
func (s *Store) Bookmark(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE jobs SET is_bookmarked = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("bookmark: %w", err)
	}
	return nil
}
