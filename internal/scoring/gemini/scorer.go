// Package gemini implements the scoring oracle on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"vacmatch/internal/job"
)

//go:embed prompt.md
var promptTemplate string

// maxDescriptionRunes bounds the description prefix sent to the model to keep
// token cost under control.
const maxDescriptionRunes = 4000

const (
	defaultMaxRetries = 2
	defaultTimeout    = 60 * time.Second
)

var retryBackoffBase = 2 * time.Second

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer asks Gemini for a structured assessment of one posting. Failed calls
// are retried with jittered backoff; when retries are exhausted the last
// error is returned and the caller decides what to substitute.
type Scorer struct {
	generator  contentGenerator
	maxRetries int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewScorer builds a Scorer. maxRetries counts retries after the first
// attempt; timeout applies per attempt.
func NewScorer(generator contentGenerator, maxRetries int, timeout time.Duration, logger *zap.Logger) *Scorer {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator:  generator,
		maxRetries: maxRetries,
		timeout:    timeout,
		logger:     logger,
	}
}

// Score sends the profile summary and posting to the model and decodes the
// returned dimension scores.
func (s *Scorer) Score(ctx context.Context, profileSummary string, posting *job.Posting) (*job.Score, error) {
	if posting == nil {
		return nil, fmt.Errorf("posting is required")
	}

	prompt := buildPrompt(profileSummary, posting)

	s.logger.Debug("gemini scoring request",
		zap.String("job_url", posting.URL),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * retryBackoffBase
			backoff += time.Duration(rand.Int63n(int64(time.Second)))
			s.logger.Debug("retrying gemini call",
				zap.String("job_url", posting.URL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		raw, err := s.generator.GenerateContent(attemptCtx, prompt)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		score, err := parseScore(raw)
		if err != nil {
			lastErr = err
			continue
		}

		s.logger.Debug("gemini scoring response",
			zap.String("job_url", posting.URL),
			zap.Int("response_length", utf8.RuneCountInString(raw)),
		)
		return score, nil
	}

	return nil, fmt.Errorf("scoring %s: %w", posting.URL, lastErr)
}

func buildPrompt(profileSummary string, posting *job.Posting) string {
	var context strings.Builder
	fmt.Fprintf(&context, "Job Title: %s\nCompany: %s", posting.Title, posting.Company)
	if posting.Location != "" {
		fmt.Fprintf(&context, "\nLocation: %s", posting.Location)
	}
	if salary := posting.SalaryRange(); salary != "" {
		fmt.Fprintf(&context, "\nSalary: %s", salary)
	}
	fmt.Fprintf(&context, "\n\nJob Description:\n%s", truncateRunes(posting.Description, maxDescriptionRunes))

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE}}", profileSummary)
	return strings.ReplaceAll(prompt, "{{JOB}}", context.String())
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func parseScore(raw string) (*job.Score, error) {
	cleaned := extractJSON(raw)

	var score job.Score
	if err := json.Unmarshal([]byte(cleaned), &score); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score.SchemaVersion = job.ScoreSchemaVersion
	normalizeDecision(&score)
	return &score, nil
}

// normalizeDecision keeps the decision within the known enum; an unknown or
// empty value falls back to pass. The aggregator rederives it anyway.
func normalizeDecision(score *job.Score) {
	switch strings.ToLower(strings.TrimSpace(score.Decision)) {
	case job.DecisionStrongMatch:
		score.Decision = job.DecisionStrongMatch
	case job.DecisionPotential:
		score.Decision = job.DecisionPotential
	default:
		score.Decision = job.DecisionPass
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
