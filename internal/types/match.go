package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultMatchLimit is how many results a recommendation returns
const DefaultMatchLimit = 10

// Filters are the multi-select filters of the job board.
// An empty category places no constraint.
type Filters struct {
	JobType         []string `json:"jobType"`
	ExperienceLevel []string `json:"experienceLevel"`
	Location        []string `json:"location"`
}

// IsEmpty reports whether no filter category has a selection.
func (f *Filters) IsEmpty() bool {
	return f == nil || (!HasSelection(f.JobType) && !HasSelection(f.ExperienceLevel) && !HasSelection(f.Location))
}

// HasSelection reports whether a filter category holds a non-blank value.
// A category of blank entries places no constraint.
func HasSelection(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// MatchQuery is a job recommendation request
type MatchQuery struct {
	SearchTerm string     `json:"searchTerm"`
	Filters    *Filters   `json:"filters,omitempty"`
	ResumeID   *uuid.UUID `json:"resumeId,omitempty"`
	// OwnerID restricts the resume lookup to the caller's own resumes.
	OwnerID    *uuid.UUID `json:"-"`
}

// RecommendJobsRequest is the wire form of a MatchQuery; resumeId arrives as a string.
type RecommendJobsRequest struct {
	SearchTerm string   `json:"searchTerm" validate:"max=500"`
	Filters    *Filters `json:"filters,omitempty"`
	ResumeID   string   `json:"resumeId,omitempty" validate:"omitempty,uuid"`
}

// Validate validates the RecommendJobsRequest using the validator.
func (r *RecommendJobsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToQuery converts the request into a MatchQuery. The resume id must already be validated.
func (r *RecommendJobsRequest) ToQuery(owner *uuid.UUID) MatchQuery {
	q := MatchQuery{
		SearchTerm: strings.TrimSpace(r.SearchTerm),
		Filters:    r.Filters,
		OwnerID:    owner,
	}
	if r.ResumeID != "" {
		if id, err := uuid.Parse(r.ResumeID); err == nil {
			q.ResumeID = &id
		}
	}
	return q
}

// RecommendJobsResponse carries index-aligned jobs and match scores.
// A nil score means the result was not scored against a query.
type RecommendJobsResponse struct {
	Jobs        []JobPosting `json:"jobs"`
	MatchScores []*int       `json:"matchScores"`
}

// RecommendCandidatesRequest is the recruiter-side search over applicant profiles.
type RecommendCandidatesRequest struct {
	SearchTerm string   `json:"searchTerm" validate:"max=500"`
	Filters    *Filters `json:"filters,omitempty"`
	JobID      *int64   `json:"jobId,omitempty" validate:"omitempty,gt=0"`
}

// Validate validates the RecommendCandidatesRequest using the validator.
func (r *RecommendCandidatesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RecommendCandidatesResponse carries index-aligned candidates and match scores.
type RecommendCandidatesResponse struct {
	Candidates  []CandidateProfile `json:"candidates"`
	MatchScores []*int             `json:"matchScores"`
}
