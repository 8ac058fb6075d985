// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/talentmatch/talent-match/internal/batch"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func joinSkills(skills []string, width int) string {
	return truncate(strings.Join(skills, ", "), width)
}

// PrintJob outputs a summary of one job posting.
func (p *Printer) PrintJob(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	if job.ID != 0 {
		sb.WriteString(fmt.Sprintf("ID:         %d\n", job.ID))
	}
	sb.WriteString(fmt.Sprintf("Title:      %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", job.Company))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", job.Location))
	}
	if job.WorkArrangement != "" {
		sb.WriteString(fmt.Sprintf("Workplace:  %s\n", job.WorkArrangement))
	}
	if job.EmploymentType != "" {
		sb.WriteString(fmt.Sprintf("Type:       %s\n", job.EmploymentType))
	}
	if job.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:      %s\n", job.ExperienceLevel))
	}
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:     %s\n", job.Salary))
	}
	if !job.PostDate.IsZero() {
		sb.WriteString(fmt.Sprintf("Posted:     %s\n", job.PostDate.Format("2006-01-02")))
	}

	if len(job.RequiredSkills) > 0 {
		sb.WriteString("\nRequired Skills:\n")
		count := min(len(job.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", job.RequiredSkills[i]))
		}
		if len(job.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.RequiredSkills)-maxItemsToShow))
		}
	}

	p.printBox("JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

func scoreLabel(scores []*int, i int) string {
	if i >= len(scores) || scores[i] == nil {
		return "unscored"
	}
	return fmt.Sprintf("%d%%", *scores[i])
}

// PrintJobMatches outputs the ranked jobs of a recommendation.
func (p *Printer) PrintJobMatches(result *matching.MatchResult) {
	if result == nil || len(result.Jobs) == 0 {
		p.printBox("RECOMMENDED JOBS", "No matching jobs")
		return
	}

	var sb strings.Builder
	if result.Query != "" {
		sb.WriteString(fmt.Sprintf("Query: %s\n", result.Query))
	}
	sb.WriteString(fmt.Sprintf("Jobs returned: %d", len(result.Jobs)))
	if result.Dropped > 0 {
		sb.WriteString(fmt.Sprintf(" (%d below threshold)", result.Dropped))
	}
	sb.WriteString("\n\n")

	for i, job := range result.Jobs {
		sb.WriteString(fmt.Sprintf("#%d  %s at %s\n", i+1, job.Title, job.Company))
		sb.WriteString(fmt.Sprintf("    Match: %s", scoreLabel(result.Scores, i)))
		if job.WorkArrangement != "" {
			sb.WriteString(fmt.Sprintf("  %s", job.WorkArrangement))
		}
		sb.WriteString("\n")
		if len(job.RequiredSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", joinSkills(job.RequiredSkills, 40)))
		}
		if i < len(result.Jobs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDED JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the ranked applicants of a candidate search.
func (p *Printer) PrintCandidates(result *matching.CandidateResult) {
	if result == nil || len(result.Candidates) == 0 {
		p.printBox("RECOMMENDED CANDIDATES", "No matching candidates")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates returned: %d\n\n", len(result.Candidates)))
	for i, c := range result.Candidates {
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, c.FullName))
		if c.JobTitle != "" {
			sb.WriteString(fmt.Sprintf(", %s", c.JobTitle))
		}
		sb.WriteString(fmt.Sprintf("\n    Match: %s\n", scoreLabel(result.Scores, i)))
		if len(c.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", joinSkills(c.Skills, 40)))
		}
		if i < len(result.Candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs a resume analysis.
func (p *Printer) PrintFeedback(fb *types.Feedback) {
	if fb == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %.1f / 10\n", fb.OverallScore))
	if fb.YearsOfExperience != nil {
		sb.WriteString(fmt.Sprintf("Experience:    %.1f years\n", *fb.YearsOfExperience))
	}
	if len(fb.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:        %s\n", joinSkills(fb.Skills, 40)))
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n" + title + ":\n")
		count := min(len(items), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-3))
		}
	}
	section("Strengths", fb.Strengths)
	section("Improvements", fb.Improvements)

	p.printBox("RESUME FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportResult outputs the per-record outcome of a batch.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintImportResult(title string, result batch.Result) {
	if result.OK() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate("✅ "+title+": "+result.Summary(), boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(result.Summary() + "\n\n")
	for i, f := range result.Failed {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", f.Key))
		sb.WriteString(fmt.Sprintf("  %v\n", f.Err))
		if i < len(result.Failed)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(strings.ToUpper(title), strings.TrimSuffix(sb.String(), "\n"))
}
