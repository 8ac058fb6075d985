package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/talentmatch/talent-match/internal/parsing"
	"github.com/talentmatch/talent-match/internal/types"
)

// applicantNamespace seeds deterministic profile IDs for imported applicants.
var applicantNamespace = uuid.MustParse("6f1c5a0e-3f0b-4b8e-9a55-2d0c8b7e4a11")

// JobRecord is one entry of a jobs import file.
type JobRecord struct {
	Title           string   `json:"title" validate:"required"`
	Company         string   `json:"company" validate:"required"`
	Location        string   `json:"location"`
	WorkArrangement string   `json:"workArrangement"`
	Salary          string   `json:"salary"`
	ExperienceLevel string   `json:"experienceLevel"`
	EmploymentType  string   `json:"employmentType"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	PostDate        string   `json:"postDate"`
}

// Key identifies the record in a batch result.
func (r *JobRecord) Key() string {
	if r.Company == "" {
		return r.Title
	}
	return r.Title + " @ " + r.Company
}

// ToJobPosting validates the record and converts it.
func (r *JobRecord) ToJobPosting() (*types.JobPosting, error) {
	if err := validator.New().Struct(r); err != nil {
		return nil, err
	}
	job := &types.JobPosting{
		Title:           strings.TrimSpace(r.Title),
		Company:         strings.TrimSpace(r.Company),
		Location:        r.Location,
		WorkArrangement: r.WorkArrangement,
		Salary:          r.Salary,
		ExperienceLevel: r.ExperienceLevel,
		EmploymentType:  r.EmploymentType,
		Description:     r.Description,
		RequiredSkills:  parsing.CanonicalSkills(r.RequiredSkills),
	}
	if r.PostDate != "" {
		t, err := parseDate(r.PostDate)
		if err != nil {
			return nil, fmt.Errorf("invalid postDate %q: %w", r.PostDate, err)
		}
		job.PostDate = t
	}
	return job, nil
}

// ApplicantRecord is one entry of an applicants import file.
type ApplicantRecord struct {
	ID                string            `json:"id" validate:"omitempty,uuid"`
	FullName          string            `json:"fullName" validate:"required"`
	Email             string            `json:"email" validate:"omitempty,email"`
	Location          string            `json:"location"`
	JobTitle          string            `json:"jobTitle"`
	ExperienceLevel   string            `json:"experienceLevel"`
	YearsOfExperience *int              `json:"yearsOfExperience" validate:"omitempty,min=0"`
	CurrentEmployer   string            `json:"currentEmployer"`
	Bio               string            `json:"bio"`
	Skills            []string          `json:"skills"`
	Education         *types.Education  `json:"education"`
	SocialLinks       map[string]string `json:"socialLinks"`
	SalaryExpectation string            `json:"salaryExpectation"`
	RemotePreference  string            `json:"remotePreference"`
	WorkAuthorization string            `json:"workAuthorization"`
}

// Key identifies the record in a batch result.
func (r *ApplicantRecord) Key() string {
	if r.Email != "" {
		return r.Email
	}
	return r.FullName
}

// ToProfile validates the record and converts it. Records without an id get
// one derived from their email or name, so re-importing a file updates
// instead of duplicating.
func (r *ApplicantRecord) ToProfile() (*types.CandidateProfile, error) {
	if err := validator.New().Struct(r); err != nil {
		return nil, err
	}
	id := uuid.NewSHA1(applicantNamespace, []byte(strings.ToLower(r.Key())))
	if r.ID != "" {
		id = uuid.MustParse(r.ID)
	}
	return &types.CandidateProfile{
		ID:                id,
		UserType:          types.UserTypeApplicant,
		FullName:          strings.TrimSpace(r.FullName),
		Email:             r.Email,
		Location:          r.Location,
		JobTitle:          r.JobTitle,
		Skills:            parsing.CanonicalSkills(r.Skills),
		ExperienceLevel:   r.ExperienceLevel,
		YearsOfExperience: r.YearsOfExperience,
		CurrentEmployer:   r.CurrentEmployer,
		Bio:               r.Bio,
		Education:         r.Education,
		SocialLinks:       r.SocialLinks,
		SalaryExpectation: r.SalaryExpectation,
		RemotePreference:  r.RemotePreference,
		WorkAuthorization: r.WorkAuthorization,
	}, nil
}

// LoadJobs reads a JSON array of job records.
func LoadJobs(path string) ([]JobRecord, error) {
	var records []JobRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadApplicants reads a JSON array of applicant records.
func LoadApplicants(path string) ([]ApplicantRecord, error) {
	var records []ApplicantRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD")
}
