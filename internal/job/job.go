package job

import (
	"strconv"
	"time"
)

// Decision buckets derived from the recomputed overall score. The oracle may
// report its own decision but it is never trusted verbatim.
const (
	DecisionStrongMatch = "strong_match"
	DecisionPotential   = "potential"
	DecisionPass        = "pass"
)

// ScoreSchemaVersion tags persisted Score blobs so additive fields can be
// detected instead of silently breaking aggregation.
const ScoreSchemaVersion = 1

// Posting is one scraped job opening, keyed by URL.
type Posting struct {
	ID          int64      `json:"id,omitempty"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	JobType     string     `json:"job_type,omitempty"`
	IsRemote    bool       `json:"is_remote,omitempty"`
	Description string     `json:"description,omitempty"`
	MinSalary   float64    `json:"min_salary,omitempty"`
	MaxSalary   float64    `json:"max_salary,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Source      string     `json:"source,omitempty"`
	PostedDate  *time.Time `json:"posted_date,omitempty"`
	ScrapedAt   time.Time  `json:"scraped_at,omitempty"`

	RawScore     *Score  `json:"raw_score,omitempty"`
	OverallScore float64 `json:"overall_score,omitempty"`
	IsScored     bool    `json:"is_scored,omitempty"`
	IsApplied    bool    `json:"is_applied,omitempty"`
	IsBookmarked bool    `json:"is_bookmarked,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// Score holds the multi-dimensional assessment of a posting against the
// candidate profile. Dimension values are bounded to [0,100]. Overall and
// Decision are canonical only after aggregation: the values reported by the
// oracle are recomputed locally.
type Score struct {
	SchemaVersion int `json:"schema_version"`

	SkillsMatch        int `json:"skills_match"`
	ExperienceFit      int `json:"experience_fit"`
	SalaryAlignment    int `json:"salary_alignment"`
	CultureFit         int `json:"culture_fit"`
	GrowthPotential    int `json:"growth_potential"`
	CommuteFeasibility int `json:"commute_feasibility"`
	EmploymentTypeFit  int `json:"employment_type_fit"`

	MatchHighlights []string `json:"match_highlights"`
	Concerns        []string `json:"concerns"`

	Overall  int    `json:"overall_score"`
	Decision string `json:"decision"`
	Summary  string `json:"summary"`
}

// SalaryRange renders the posting's salary bounds for prompts and reports.
// Returns an empty string when neither bound is known.
func (p *Posting) SalaryRange() string {
	currency := p.Currency
	if currency == "" {
		currency = "EUR"
	}
	switch {
	case p.MinSalary > 0 && p.MaxSalary > 0:
		return formatMoney(currency, p.MinSalary) + " - " + formatMoney(currency, p.MaxSalary)
	case p.MinSalary > 0:
		return formatMoney(currency, p.MinSalary) + "+"
	case p.MaxSalary > 0:
		return "Up to " + formatMoney(currency, p.MaxSalary)
	default:
		return ""
	}
}

func formatMoney(currency string, v float64) string {
	symbol := currency + " "
	switch currency {
	case "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	}
	return symbol + groupThousands(strconv.FormatInt(int64(v), 10))
}

// groupThousands inserts comma separators into a non-negative decimal string.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	return groupThousands(s[:len(s)-3]) + "," + s[len(s)-3:]
}
