// Package profile loads the analyzed-resume profile that the external resume
// analyzer writes, and renders the candidate summary used in scoring prompts.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound indicates the profile file does not exist yet. The pipeline
// must not start without a profile.
var ErrNotFound = errors.New("candidate profile not found")

// Profile is the structured output of the resume analysis step.
type Profile struct {
	Personal PersonalProfile    `json:"personal_profile"`
	Criteria SearchCriteria     `json:"job_search_criteria"`
	Matching MatchingPreference `json:"matching_preferences"`
}

type PersonalProfile struct {
	Name            string   `json:"name"`
	CurrentRole     string   `json:"current_role"`
	ExperienceYears int      `json:"experience_years"`
	KeySkills       []string `json:"key_skills"`
	SoftSkills      []string `json:"soft_skills"`
	PreferredRoles  []string `json:"preferred_roles"`
	Summary         string   `json:"summary"`
}

type SearchCriteria struct {
	SearchTerms       []string `json:"search_terms"`
	Locations         []string `json:"locations"`
	RemoteOnly        bool     `json:"remote_only"`
	JobTypes          []string `json:"job_types"`
	SalaryMin         int      `json:"salary_min"`
	HomeLocation      string   `json:"home_location"`
	MaxCommuteMinutes int      `json:"max_commute_minutes"`
	PreferredWorkMode string   `json:"preferred_work_mode"`
}

type MatchingPreference struct {
	MustHaveSkills           []string `json:"must_have_skills"`
	NiceToHaveSkills         []string `json:"nice_to_have_skills"`
	EmploymentTypePreference string   `json:"employment_type_preference"`
	AvoidKeywords            []string `json:"avoid_keywords"`
}

// Load reads the profile from the given path. A missing file returns
// ErrNotFound so callers can distinguish "run init first" from a corrupt file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s (run the resume analyzer first)", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if strings.TrimSpace(p.Personal.Name) == "" {
		return nil, fmt.Errorf("profile %s has no candidate name", path)
	}

	return &p, nil
}

// Summary renders the concise candidate description embedded in every
// scoring prompt.
func (p *Profile) Summary() string {
	var b strings.Builder

	b.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Personal.Name)
	fmt.Fprintf(&b, "- Current Role: %s\n", p.Personal.CurrentRole)
	fmt.Fprintf(&b, "- Experience: %d years\n", p.Personal.ExperienceYears)
	fmt.Fprintf(&b, "- Key Skills: %s\n", joinLimited(p.Personal.KeySkills, 10))
	fmt.Fprintf(&b, "- Target Roles: %s\n", strings.Join(p.Personal.PreferredRoles, ", "))
	fmt.Fprintf(&b, "- Must-Have Skills: %s\n", strings.Join(p.Matching.MustHaveSkills, ", "))
	fmt.Fprintf(&b, "- Nice-to-Have: %s\n", joinLimited(p.Matching.NiceToHaveSkills, 5))
	fmt.Fprintf(&b, "- Professional Summary: %s\n", p.Personal.Summary)

	if p.Criteria.SalaryMin > 0 {
		fmt.Fprintf(&b, "- Minimum Salary: %d\n", p.Criteria.SalaryMin)
	}
	if p.Criteria.HomeLocation != "" {
		fmt.Fprintf(&b, "- Home Location: %s\n", p.Criteria.HomeLocation)
	}
	if p.Criteria.MaxCommuteMinutes > 0 {
		fmt.Fprintf(&b, "- Maximum Commute: %d minutes\n", p.Criteria.MaxCommuteMinutes)
	}
	if p.Criteria.PreferredWorkMode != "" {
		fmt.Fprintf(&b, "- Preferred Work Mode: %s\n", p.Criteria.PreferredWorkMode)
	}
	if p.Matching.EmploymentTypePreference != "" {
		fmt.Fprintf(&b, "- Employment Type: %s ONLY (no consultancy/detachering)\n", p.Matching.EmploymentTypePreference)
	}

	return b.String()
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
