// Package ingest loads scraper export files into the store. Scraping itself
// happens outside this program; the export is a JSON array of postings.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"vacmatch/internal/job"
	"vacmatch/internal/store"
)

// Store is the subset of the record store ingestion needs.
type Store interface {
	Insert(ctx context.Context, p *job.Posting) (*job.Posting, error)
	GetByURL(ctx context.Context, url string) (*job.Posting, error)
}

// Result reports what happened to the entries of one export file.
type Result struct {
	Read       int
	Inserted   int
	Duplicates int
	Rejected   int
}

// FromFile reads the export at path and inserts its postings. Entries
// without a url are rejected before they reach the store; entries whose url
// already exists count as duplicates and are left untouched.
func FromFile(ctx context.Context, st Store, path string, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read scraper export: %w", err)
	}

	var postings []*job.Posting
	if err := json.Unmarshal(data, &postings); err != nil {
		return Result{}, fmt.Errorf("parse scraper export %s: %w", path, err)
	}

	result := Result{Read: len(postings)}
	now := time.Now().UTC()

	for _, posting := range postings {
		if posting == nil || posting.URL == "" {
			result.Rejected++
			logger.Warn("rejecting posting without url",
				zap.String("title", titleOf(posting)),
			)
			continue
		}

		if posting.ScrapedAt.IsZero() {
			posting.ScrapedAt = now
		}

		existing, err := st.GetByURL(ctx, posting.URL)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return result, fmt.Errorf("look up posting %s: %w", posting.URL, err)
		}
		if existing != nil {
			result.Duplicates++
			continue
		}

		if _, err := st.Insert(ctx, posting); err != nil {
			return result, fmt.Errorf("insert posting %s: %w", posting.URL, err)
		}
		result.Inserted++
	}

	logger.Info("ingest completed",
		zap.String("path", path),
		zap.Int("read", result.Read),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("rejected", result.Rejected),
	)

	return result, nil
}

func titleOf(p *job.Posting) string {
	if p == nil {
		return ""
	}
	return p.Title
}
