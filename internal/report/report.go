// Package report renders console views of stored postings. All output goes
// to an injected writer so command output stays testable.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"vacmatch/internal/job"
	"vacmatch/internal/store"
)

// TopJobs renders the ranked table of top-scored postings.
func TopJobs(w io.Writer, postings []*job.Posting) {
	if len(postings) == 0 {
		fmt.Fprintln(w, "No scored jobs match the criteria. Run 'vacmatch scan' first.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Score", "Decision", "Title", "Company", "Location", "Salary"})

	for i, p := range postings {
		decision := ""
		if p.RawScore != nil {
			decision = p.RawScore.Decision
		}
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.0f", p.OverallScore),
			decision,
			truncate(p.Title, 40),
			truncate(p.Company, 25),
			truncate(p.Location, 20),
			p.SalaryRange(),
		})
	}

	t.Render()
}

// JobDetails renders the full view of one posting, including the dimension
// breakdown when the posting has been scored.
func JobDetails(w io.Writer, rank int, p *job.Posting) {
	fmt.Fprintf(w, "#%d: %s\n", rank, p.Title)
	fmt.Fprintf(w, "Company:  %s\n", p.Company)
	if p.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", p.Location)
	}
	if salary := p.SalaryRange(); salary != "" {
		fmt.Fprintf(w, "Salary:   %s\n", salary)
	}
	fmt.Fprintf(w, "URL:      %s\n", p.URL)
	if p.IsApplied {
		fmt.Fprintln(w, "Status:   applied")
	}
	if p.IsBookmarked {
		fmt.Fprintln(w, "Status:   bookmarked")
	}
	if p.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", p.Notes)
	}

	score := p.RawScore
	if score == nil {
		fmt.Fprintln(w, "\nNot scored yet.")
		return
	}

	fmt.Fprintf(w, "\nOverall: %d/100 (%s)\n", score.Overall, score.Decision)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dimension", "Score"})
	t.AppendRows([]table.Row{
		{"Skills match", score.SkillsMatch},
		{"Experience fit", score.ExperienceFit},
		{"Salary alignment", score.SalaryAlignment},
		{"Culture fit", score.CultureFit},
		{"Growth potential", score.GrowthPotential},
		{"Commute feasibility", score.CommuteFeasibility},
		{"Employment type fit", score.EmploymentTypeFit},
	})
	t.Render()

	if len(score.MatchHighlights) > 0 {
		fmt.Fprintln(w, "\nHighlights:")
		for _, h := range score.MatchHighlights {
			fmt.Fprintf(w, "  + %s\n", h)
		}
	}
	if len(score.Concerns) > 0 {
		fmt.Fprintln(w, "\nConcerns:")
		for _, c := range score.Concerns {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	}
	if score.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", score.Summary)
	}
}

// StoreStats renders database statistics and recent scan history.
func StoreStats(w io.Writer, stats store.Stats, scans []store.ScanRecord) {
	fmt.Fprintln(w, "Store statistics")
	fmt.Fprintf(w, "  Total jobs:         %d\n", stats.Total)
	fmt.Fprintf(w, "  Scored jobs:        %d\n", stats.Scored)
	fmt.Fprintf(w, "  Strong matches:     %d (80+)\n", stats.StrongMatches)
	fmt.Fprintf(w, "  Potential matches:  %d (60-79)\n", stats.PotentialMatches)
	fmt.Fprintf(w, "  Applied:            %d\n", stats.Applied)
	fmt.Fprintf(w, "  Bookmarked:         %d\n", stats.Bookmarked)

	if len(scans) == 0 {
		return
	}

	fmt.Fprintln(w, "\nRecent scans")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Found", "Skipped", "Scored", "Errored"})
	for _, rec := range scans {
		t.AppendRow(table.Row{
			rec.ScanDate.Format("2006-01-02 15:04"),
			rec.Found,
			rec.Skipped,
			rec.Scored,
			rec.Errored,
		})
	}
	t.Render()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
