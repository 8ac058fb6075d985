package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User types
const (
	UserTypeApplicant = "applicant"
	UserTypeRecruiter = "recruiter"
)

// Education is the highest education entry of a candidate
type Education struct {
	Level       string `json:"level,omitempty"`
	Institution string `json:"institution,omitempty"`
	Field       string `json:"field,omitempty"`
}

// CandidateProfile is a job seeker profile. One profile per authenticated user.
type CandidateProfile struct {
	ID                uuid.UUID         `json:"id"`
	UserType          string            `json:"user_type"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email,omitempty"`
	Location          string            `json:"location,omitempty"`
	JobTitle          string            `json:"job_title,omitempty"`
	Skills            []string          `json:"skills"`
	ExperienceLevel   string            `json:"experience_level,omitempty"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty"`
	CurrentEmployer   string            `json:"current_employer,omitempty"`
	Bio               string            `json:"bio,omitempty"`
	Education         *Education        `json:"education,omitempty"`
	SocialLinks       map[string]string `json:"social_links,omitempty"`
	SalaryExpectation string            `json:"salary_expectation,omitempty"`
	RemotePreference  string            `json:"remote_preference,omitempty"`
	WorkAuthorization string            `json:"work_authorization,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Embedding         []float32         `json:"-"`
}

// RerankText is the plain document text sent to the reranker for this candidate.
func (p *CandidateProfile) RerankText() string {
	return FormatPlain(p.FullName, p.JobTitle, p.Location, p.Bio, joinSkills(p.Skills))
}

// UpdateProfileRequest is the body of a profile update. Nil fields are left untouched.
type UpdateProfileRequest struct {
	UserType          *string           `json:"user_type,omitempty" validate:"omitempty,oneof=applicant recruiter"`
	FullName          *string           `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Location          *string           `json:"location,omitempty"`
	JobTitle          *string           `json:"job_title,omitempty"`
	Skills            []string          `json:"skills,omitempty" validate:"omitempty,dive,required"`
	ExperienceLevel   *string           `json:"experience_level,omitempty"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty" validate:"omitempty,min=0,max=70"`
	CurrentEmployer   *string           `json:"current_employer,omitempty"`
	Bio               *string           `json:"bio,omitempty" validate:"omitempty,max=5000"`
	Education         *Education        `json:"education,omitempty"`
	SocialLinks       map[string]string `json:"social_links,omitempty" validate:"omitempty,dive,url"`
	SalaryExpectation *string           `json:"salary_expectation,omitempty"`
	RemotePreference  *string           `json:"remote_preference,omitempty"`
	WorkAuthorization *string           `json:"work_authorization,omitempty"`
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ApplyTo copies every set field onto the profile.
func (r *UpdateProfileRequest) ApplyTo(p *CandidateProfile) {
	setString(&p.UserType, r.UserType)
	setString(&p.FullName, r.FullName)
	setString(&p.Location, r.Location)
	setString(&p.JobTitle, r.JobTitle)
	setString(&p.ExperienceLevel, r.ExperienceLevel)
	setString(&p.CurrentEmployer, r.CurrentEmployer)
	setString(&p.Bio, r.Bio)
	setString(&p.SalaryExpectation, r.SalaryExpectation)
	setString(&p.RemotePreference, r.RemotePreference)
	setString(&p.WorkAuthorization, r.WorkAuthorization)
	if r.Skills != nil {
		p.Skills = NormalizeSkills(r.Skills)
	}
	if r.YearsOfExperience != nil {
		years := *r.YearsOfExperience
		p.YearsOfExperience = &years
	}
	if r.Education != nil {
		edu := *r.Education
		p.Education = &edu
	}
	if r.SocialLinks != nil {
		p.SocialLinks = r.SocialLinks
	}
}

// TouchesEmbedding reports whether the update changes any field that feeds the profile embedding.
func (r *UpdateProfileRequest) TouchesEmbedding() bool {
	return r.FullName != nil || r.JobTitle != nil || r.Bio != nil || r.Skills != nil ||
		r.ExperienceLevel != nil || r.YearsOfExperience != nil || r.CurrentEmployer != nil ||
		r.SalaryExpectation != nil || r.RemotePreference != nil || r.WorkAuthorization != nil ||
		r.Education != nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
