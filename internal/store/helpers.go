package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"vacmatch/internal/job"
)

const jobColumns = "id, url, title, company, location, job_type, is_remote, description, min_salary, max_salary, currency, source, posted_date, scraped_at, raw_score, overall_score, is_scored, is_applied, is_bookmarked, notes"

func scanPosting(scanner interface{ Scan(dest ...any) error }) (*job.Posting, error) {
	var (
		id           int64
		url          string
		title        string
		company      string
		location     sql.NullString
		jobType      sql.NullString
		isRemote     sql.NullInt64
		description  sql.NullString
		minSalary    sql.NullFloat64
		maxSalary    sql.NullFloat64
		currency     sql.NullString
		source       sql.NullString
		postedRaw    sql.NullString
		scrapedRaw   sql.NullString
		rawScore     sql.NullString
		overallScore sql.NullFloat64
		isScored     sql.NullInt64
		isApplied    sql.NullInt64
		isBookmarked sql.NullInt64
		notes        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&url,
		&title,
		&company,
		&location,
		&jobType,
		&isRemote,
		&description,
		&minSalary,
		&maxSalary,
		&currency,
		&source,
		&postedRaw,
		&scrapedRaw,
		&rawScore,
		&overallScore,
		&isScored,
		&isApplied,
		&isBookmarked,
		&notes,
	); err != nil {
		return nil, err
	}

	p := &job.Posting{
		ID:           id,
		URL:          url,
		Title:        title,
		Company:      company,
		Location:     location.String,
		JobType:      jobType.String,
		IsRemote:     isRemote.Int64 != 0,
		Description:  description.String,
		MinSalary:    minSalary.Float64,
		MaxSalary:    maxSalary.Float64,
		Currency:     currency.String,
		Source:       source.String,
		OverallScore: overallScore.Float64,
		IsScored:     isScored.Int64 != 0,
		IsApplied:    isApplied.Int64 != 0,
		IsBookmarked: isBookmarked.Int64 != 0,
		Notes:        notes.String,
	}

	if postedRaw.Valid {
		if posted, err := parseTimeString(postedRaw.String); err == nil {
			p.PostedDate = &posted
		}
	}
	if scraped, err := parseTimeString(scrapedRaw.String); err == nil {
		p.ScrapedAt = scraped
	}
	if rawScore.Valid && rawScore.String != "" {
		var score job.Score
		if err := json.Unmarshal([]byte(rawScore.String), &score); err == nil {
			p.RawScore = &score
		}
	}

	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
