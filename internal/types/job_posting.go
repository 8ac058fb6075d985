// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Employment types used by the job board filters
const (
	EmploymentFullTime   = "Full-time"
	EmploymentPartTime   = "Part-time"
	EmploymentContract   = "Contract"
	EmploymentInternship = "Internship"
)

// Work arrangements
const (
	WorkRemote = "Remote"
	WorkHybrid = "Hybrid"
	WorkOnsite = "On-site"
)

// JobPosting is a job listed on the board
type JobPosting struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title" validate:"required"`
	Company         string     `json:"company" validate:"required"`
	Location        string     `json:"location"`
	WorkArrangement string     `json:"work_arrangement"`
	Salary          string     `json:"salary,omitempty"`
	ExperienceLevel string     `json:"experience_level"`
	EmploymentType  string     `json:"employment_type"`
	Description     string     `json:"description"`
	RequiredSkills  []string   `json:"required_skills"`
	PostDate        time.Time  `json:"post_date"`
	PostedBy        *uuid.UUID `json:"posted_by,omitempty"`
	Embedding       []float32  `json:"-"`
}

// RerankText is the plain document text sent to the reranker for this job.
func (j *JobPosting) RerankText() string {
	parts := []string{j.Title, j.Company, j.Location, j.Description}
	parts = append(parts, j.RequiredSkills...)
	return strings.Join(parts, " ")
}

// CreateJobRequest is the body of a recruiter job creation request.
type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Company         string   `json:"company" validate:"required,max=200"`
	Location        string   `json:"location" validate:"max=200"`
	WorkArrangement string   `json:"work_arrangement" validate:"omitempty,oneof=Remote Hybrid On-site"`
	Salary          string   `json:"salary,omitempty"`
	ExperienceLevel string   `json:"experience_level"`
	EmploymentType  string   `json:"employment_type"`
	Description     string   `json:"description" validate:"required"`
	RequiredSkills  []string `json:"required_skills" validate:"dive,required"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToJobPosting converts the request into a JobPosting posted now.
func (r *CreateJobRequest) ToJobPosting(now time.Time) *JobPosting {
	return &JobPosting{
		Title:           r.Title,
		Company:         r.Company,
		Location:        r.Location,
		WorkArrangement: r.WorkArrangement,
		Salary:          r.Salary,
		ExperienceLevel: r.ExperienceLevel,
		EmploymentType:  r.EmploymentType,
		Description:     r.Description,
		RequiredSkills:  r.RequiredSkills,
		PostDate:        now,
	}
}

// ImportJobRequest is the body of a job import-from-URL request.
type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Validate validates the ImportJobRequest using the validator.
func (r *ImportJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
