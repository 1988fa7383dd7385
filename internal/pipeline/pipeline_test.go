package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"vacmatch/internal/job"
	"vacmatch/internal/store"
)

type fakeStore struct {
	unscored    []*job.Posting
	unscoredErr error

	saved      map[int64]*job.Score
	updateErrs map[int64]error

	scans []store.ScanRecord
}

func newFakeStore(postings ...*job.Posting) *fakeStore {
	return &fakeStore{
		unscored:   postings,
		saved:      make(map[int64]*job.Score),
		updateErrs: make(map[int64]error),
	}
}

func (f *fakeStore) Unscored(_ context.Context, limit int) ([]*job.Posting, error) {
	if f.unscoredErr != nil {
		return nil, f.unscoredErr
	}
	if limit > 0 && limit < len(f.unscored) {
		return f.unscored[:limit], nil
	}
	return f.unscored, nil
}

func (f *fakeStore) UpdateScore(_ context.Context, id int64, score *job.Score) error {
	if err := f.updateErrs[id]; err != nil {
		return err
	}
	f.saved[id] = score
	return nil
}

func (f *fakeStore) RecordScan(_ context.Context, rec store.ScanRecord) error {
	f.scans = append(f.scans, rec)
	return nil
}

type fakeOracle struct {
	score *job.Score
	err   error
	calls int
	urls  []string
}

func (f *fakeOracle) Score(_ context.Context, _ string, posting *job.Posting) (*job.Score, error) {
	f.calls++
	f.urls = append(f.urls, posting.URL)
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.score
	return &clone, nil
}

func goodDims() *job.Score {
	return &job.Score{
		SchemaVersion:      job.ScoreSchemaVersion,
		SkillsMatch:        90,
		ExperienceFit:      80,
		SalaryAlignment:    100,
		CultureFit:         70,
		GrowthPotential:    60,
		CommuteFeasibility: 100,
		EmploymentTypeFit:  100,
	}
}

func posting(id int64, url, description string) *job.Posting {
	return &job.Posting{
		ID:          id,
		URL:         url,
		Title:       "Go Developer",
		Company:     "Acme",
		Description: description,
	}
}

func TestRunScoresAllPostings(t *testing.T) {
	st := newFakeStore(
		posting(1, "https://example.org/jobs/1", "Work on our own platform."),
		posting(2, "https://example.org/jobs/2", "Build internal tooling."),
	)
	oracle := &fakeOracle{score: goodDims()}
	var out bytes.Buffer

	summary, err := New(st, oracle, "profile", zap.NewNop(), &out).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Found != 2 || summary.Scored != 2 || summary.Skipped != 0 || summary.Errored != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if oracle.calls != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", oracle.calls)
	}
	for _, id := range []int64{1, 2} {
		saved := st.saved[id]
		if saved == nil {
			t.Fatalf("posting %d was not persisted", id)
		}
		if saved.Overall != 88 || saved.Decision != job.DecisionStrongMatch {
			t.Fatalf("posting %d: unexpected result %d/%s", id, saved.Overall, saved.Decision)
		}
	}
	if !strings.Contains(out.String(), "Scored 2 of 2") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunSkipsEmptyDescriptions(t *testing.T) {
	st := newFakeStore(
		posting(1, "https://example.org/jobs/1", "Real description."),
		posting(2, "https://example.org/jobs/2", "   \n\t"),
		posting(3, "https://example.org/jobs/3", ""),
	)
	oracle := &fakeOracle{score: goodDims()}

	summary, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Skipped != 2 || summary.Scored != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if oracle.calls != 1 {
		t.Fatalf("skipped postings must not reach the oracle, got %d calls", oracle.calls)
	}
	if _, ok := st.saved[2]; ok {
		t.Fatal("skipped posting must stay unscored")
	}
}

func TestRunRecordsSentinelOnOracleFailure(t *testing.T) {
	st := newFakeStore(posting(1, "https://example.org/jobs/1", "Some description."))
	oracle := &fakeOracle{err: errors.New("gemini unavailable")}

	summary, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The failure is absorbed into a persisted zero result so the posting is
	// not retried forever.
	if summary.Scored != 1 || summary.Errored != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	saved := st.saved[1]
	if saved == nil {
		t.Fatal("sentinel result was not persisted")
	}
	if saved.Overall != 0 || saved.Decision != job.DecisionPass {
		t.Fatalf("unexpected sentinel result: %d/%s", saved.Overall, saved.Decision)
	}
	if len(saved.MatchHighlights) != 1 || saved.MatchHighlights[0] != "Error during scoring" {
		t.Fatalf("unexpected highlights: %v", saved.MatchHighlights)
	}
	if len(saved.Concerns) != 1 || saved.Concerns[0] != "gemini unavailable" {
		t.Fatalf("unexpected concerns: %v", saved.Concerns)
	}
}

func TestRunIsolatesPersistFailures(t *testing.T) {
	st := newFakeStore(
		posting(1, "https://example.org/jobs/1", "First description."),
		posting(2, "https://example.org/jobs/2", "Second description."),
	)
	st.updateErrs[1] = errors.New("disk full")
	oracle := &fakeOracle{score: goodDims()}

	summary, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Errored != 1 || summary.Scored != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, ok := st.saved[1]; ok {
		t.Fatal("failed posting must remain unscored")
	}
	if _, ok := st.saved[2]; !ok {
		t.Fatal("second posting must still be scored")
	}
}

func TestRunAppliesConsultancyOverride(t *testing.T) {
	st := newFakeStore(posting(1, "https://example.org/jobs/1", "Als consultant werk je bij onze klanten."))
	dims := goodDims()
	dims.EmploymentTypeFit = 95 // oracle disagrees with the pattern match
	oracle := &fakeOracle{score: dims}

	if _, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(context.Background(), 0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	saved := st.saved[1]
	if saved == nil {
		t.Fatal("result was not persisted")
	}
	if saved.EmploymentTypeFit != 0 {
		t.Fatalf("expected override to zero employment type, got %d", saved.EmploymentTypeFit)
	}
	if saved.Decision != job.DecisionPass || saved.Overall > 25 {
		t.Fatalf("expected capped pass, got %d/%s", saved.Overall, saved.Decision)
	}
	if len(saved.Concerns) == 0 || !strings.Contains(saved.Concerns[0], "bij onze klanten") {
		t.Fatalf("expected the detected pattern in concerns, got %v", saved.Concerns)
	}
}

func TestRunNothingToScore(t *testing.T) {
	st := newFakeStore()
	oracle := &fakeOracle{score: goodDims()}
	var out bytes.Buffer

	summary, err := New(st, oracle, "profile", zap.NewNop(), &out).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Found != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(out.String(), "All jobs already scored") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	if len(st.scans) != 0 {
		t.Fatal("empty runs must not record scan history")
	}
}

func TestRunRecordsScanHistory(t *testing.T) {
	st := newFakeStore(
		posting(1, "https://example.org/jobs/1", "Description."),
		posting(2, "https://example.org/jobs/2", ""),
	)
	oracle := &fakeOracle{score: goodDims()}

	summary, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(st.scans) != 1 {
		t.Fatalf("expected 1 scan record, got %d", len(st.scans))
	}
	rec := st.scans[0]
	if rec.RunID != summary.RunID || rec.Found != 2 || rec.Skipped != 1 || rec.Scored != 1 {
		t.Fatalf("unexpected scan record: %+v", rec)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	st := newFakeStore(posting(1, "https://example.org/jobs/1", "Description."))
	oracle := &fakeOracle{score: goodDims()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(st, oracle, "profile", zap.NewNop(), nil).Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if oracle.calls != 0 {
		t.Fatal("cancelled runs must not call the oracle")
	}
}
