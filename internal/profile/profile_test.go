package profile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleProfile = `{
  "personal_profile": {
    "name": "Jo de Vries",
    "current_role": "Senior Backend Engineer",
    "experience_years": 8,
    "key_skills": ["Go", "PostgreSQL", "Kubernetes"],
    "preferred_roles": ["Backend Engineer", "Platform Engineer"],
    "summary": "Backend engineer focused on distributed systems."
  },
  "job_search_criteria": {
    "salary_min": 75000,
    "home_location": "Haarlem",
    "max_commute_minutes": 45,
    "preferred_work_mode": "hybrid"
  },
  "matching_preferences": {
    "must_have_skills": ["Go"],
    "nice_to_have_skills": ["Terraform", "AWS"],
    "employment_type_preference": "permanent"
  }
}`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume_profile.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeProfile(t, sampleProfile))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.Personal.Name != "Jo de Vries" {
		t.Fatalf("unexpected name: %s", p.Personal.Name)
	}
	if p.Criteria.SalaryMin != 75000 {
		t.Fatalf("unexpected salary: %d", p.Criteria.SalaryMin)
	}
	if p.Matching.EmploymentTypePreference != "permanent" {
		t.Fatalf("unexpected employment preference: %s", p.Matching.EmploymentTypePreference)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	if _, err := Load(writeProfile(t, "{not json")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	if _, err := Load(writeProfile(t, `{"personal_profile": {"name": "  "}}`)); err == nil {
		t.Fatal("expected an error for a nameless profile")
	}
}

func TestSummary(t *testing.T) {
	p, err := Load(writeProfile(t, sampleProfile))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	summary := p.Summary()
	for _, want := range []string{
		"Candidate Profile:",
		"- Name: Jo de Vries",
		"- Current Role: Senior Backend Engineer",
		"- Experience: 8 years",
		"- Key Skills: Go, PostgreSQL, Kubernetes",
		"- Must-Have Skills: Go",
		"- Minimum Salary: 75000",
		"- Maximum Commute: 45 minutes",
		"- Employment Type: permanent ONLY (no consultancy/detachering)",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestSummaryOmitsEmptyCriteria(t *testing.T) {
	p := &Profile{Personal: PersonalProfile{Name: "Jo"}}

	summary := p.Summary()
	for _, unwanted := range []string{"Minimum Salary", "Home Location", "Maximum Commute", "Employment Type:"} {
		if strings.Contains(summary, unwanted) {
			t.Fatalf("summary should omit %q when unset:\n%s", unwanted, summary)
		}
	}
}

func TestJoinLimited(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	if got := joinLimited(items, 2); got != "a, b" {
		t.Fatalf("expected \"a, b\", got %q", got)
	}
	if got := joinLimited(items, 10); got != "a, b, c, d" {
		t.Fatalf("expected full join, got %q", got)
	}
}
