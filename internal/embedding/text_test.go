package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentmatch/talent-match/internal/types"
)

func TestFormatLabelledText(t *testing.T) {
	tests := []struct {
		name     string
		fields   []Field
		expected string
	}{
		{
			name:     "all present",
			fields:   []Field{{"TITLE", "Engineer"}, {"COMPANY", "Acme"}},
			expected: "TITLE: Engineer\nCOMPANY: Acme",
		},
		{
			name:     "empty and blank values omitted",
			fields:   []Field{{"TITLE", "Engineer"}, {"SALARY", ""}, {"LOCATION", "   "}, {"COMPANY", "Acme"}},
			expected: "TITLE: Engineer\nCOMPANY: Acme",
		},
		{
			name:     "list joined with comma",
			fields:   []Field{List("SKILLS", []string{"Go", " ", "SQL"})},
			expected: "SKILLS: Go, SQL",
		},
		{
			name:     "nothing present",
			fields:   []Field{{"TITLE", ""}, List("SKILLS", nil)},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLabelledText(tt.fields))
		})
	}
}

func TestJobFields_Order(t *testing.T) {
	job := &types.JobPosting{
		Title:           "Backend Engineer",
		Company:         "Acme",
		Location:        "Berlin",
		WorkArrangement: "Hybrid",
		ExperienceLevel: "Senior Level",
		EmploymentType:  "Full-time",
		Description:     "Build APIs.",
		RequiredSkills:  []string{"Go", "PostgreSQL"},
	}

	expected := "TITLE: Backend Engineer\n" +
		"COMPANY: Acme\n" +
		"LOCATION: Berlin\n" +
		"WORK_ARRANGEMENT: Hybrid\n" +
		"EXPERIENCE_LEVEL: Senior Level\n" +
		"EMPLOYMENT_TYPE: Full-time\n" +
		"DESCRIPTION: Build APIs.\n" +
		"SKILLS: Go, PostgreSQL"
	assert.Equal(t, expected, FormatLabelledText(JobFields(job)))
}

func TestApplicantFields(t *testing.T) {
	years := 6
	p := &types.CandidateProfile{
		FullName:          "Jane Doe",
		JobTitle:          "Data Engineer",
		Skills:            []string{"Python", "Spark"},
		YearsOfExperience: &years,
		RemotePreference:  "Remote",
		Education:         &types.Education{Level: "MSc", Field: "Statistics"},
	}

	expected := "FULL_NAME: Jane Doe\n" +
		"JOB_TITLE: Data Engineer\n" +
		"SKILLS: Python, Spark\n" +
		"YEARS_EXPERIENCE: 6\n" +
		"REMOTE_PREF: Remote\n" +
		"EDU_LEVEL: MSc\n" +
		"EDU_FIELD: Statistics"
	assert.Equal(t, expected, FormatLabelledText(ApplicantFields(p)))
}

func TestFields_ZeroYearsOmitted(t *testing.T) {
	none := 0
	p := &types.CandidateProfile{FullName: "Sam Lee", YearsOfExperience: &none}
	assert.Equal(t, "FULL_NAME: Sam Lee", FormatLabelledText(ApplicantFields(p)))

	zero := 0.0
	r := &types.Resume{Feedback: &types.Feedback{Skills: []string{"SQL"}, YearsOfExperience: &zero}}
	assert.Equal(t, "SKILLS: SQL", FormatLabelledText(ResumeFields(r)))
}

func TestResumeFields(t *testing.T) {
	assert.Nil(t, ResumeFields(&types.Resume{}))

	years := 3.5
	r := &types.Resume{Feedback: &types.Feedback{
		Skills:            []string{"Go"},
		Experience:        []string{"Engineer at Acme", "Intern at Initech"},
		YearsOfExperience: &years,
	}}
	assert.Equal(t,
		"SKILLS: Go\nEXPERIENCE: Engineer at Acme, Intern at Initech\nYEARS_EXPERIENCE: 3.5",
		FormatLabelledText(ResumeFields(r)))
}

func TestFormatLabelledText_Deterministic(t *testing.T) {
	job := &types.JobPosting{Title: "Engineer", Company: "Acme", RequiredSkills: []string{"Go", "Kafka"}}
	copyJob := *job
	copyJob.RequiredSkills = append([]string(nil), job.RequiredSkills...)

	assert.Equal(t, FormatLabelledText(JobFields(job)), FormatLabelledText(JobFields(&copyJob)))
}
