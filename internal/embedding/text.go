// Package embedding turns job postings, applicant profiles and resumes into
// labelled text and vectors for similarity search.
package embedding

import (
	"strconv"
	"strings"

	"github.com/talentmatch/talent-match/internal/types"
)

// Field is one labelled line of embedding text.
type Field struct {
	Label string
	Value string
}

// List builds a field from a slice, joined with ", ".
func List(label string, values []string) Field {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return Field{Label: label, Value: strings.Join(kept, ", ")}
}

// FormatLabelledText emits "LABEL: value" for each non-empty field, newline separated.
// Field order is the caller's label table order.
func FormatLabelledText(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		lines = append(lines, f.Label+": "+value)
	}
	return strings.Join(lines, "\n")
}

// JobFields is the job label table.
func JobFields(job *types.JobPosting) []Field {
	return []Field{
		{"TITLE", job.Title},
		{"COMPANY", job.Company},
		{"LOCATION", job.Location},
		{"WORK_ARRANGEMENT", job.WorkArrangement},
		{"SALARY", job.Salary},
		{"EXPERIENCE_LEVEL", job.ExperienceLevel},
		{"EMPLOYMENT_TYPE", job.EmploymentType},
		{"DESCRIPTION", job.Description},
		List("SKILLS", job.RequiredSkills),
	}
}

// ApplicantFields is the applicant label table.
func ApplicantFields(p *types.CandidateProfile) []Field {
	fields := []Field{
		{"FULL_NAME", p.FullName},
		{"JOB_TITLE", p.JobTitle},
		{"BIO", p.Bio},
		List("SKILLS", p.Skills),
		{"EXPERIENCE_LEVEL", p.ExperienceLevel},
		{"YEARS_EXPERIENCE", optionalInt(p.YearsOfExperience)},
		{"CURRENT_EMPLOYER", p.CurrentEmployer},
		{"SALARY_EXPECTATION", p.SalaryExpectation},
		{"REMOTE_PREF", p.RemotePreference},
		{"WORK_AUTH", p.WorkAuthorization},
	}
	if p.Education != nil {
		fields = append(fields,
			Field{"EDU_LEVEL", p.Education.Level},
			Field{"EDU_INSTITUTION", p.Education.Institution},
			Field{"EDU_FIELD", p.Education.Field},
		)
	}
	return fields
}

// ResumeFields is the resume label table, built from stored feedback.
// A resume without feedback has no fields.
func ResumeFields(r *types.Resume) []Field {
	if r == nil || r.Feedback == nil {
		return nil
	}
	fb := r.Feedback
	var years string
	if fb.YearsOfExperience != nil && *fb.YearsOfExperience != 0 {
		years = strconv.FormatFloat(*fb.YearsOfExperience, 'f', -1, 64)
	}
	return []Field{
		List("SKILLS", fb.Skills),
		List("EXPERIENCE", fb.Experience),
		List("EDUCATION", fb.Education),
		{"BIO", fb.Bio},
		{"YEARS_EXPERIENCE", years},
	}
}

// optionalInt formats v; nil and zero are both omitted from the text.
func optionalInt(v *int) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.Itoa(*v)
}
