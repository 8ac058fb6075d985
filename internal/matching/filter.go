// Package matching narrows, ranks and scores jobs and candidates for a query.
package matching

import (
	"slices"
	"strings"

	"github.com/talentmatch/talent-match/internal/types"
)

// FilterJobs keeps the jobs that pass every non-empty filter category.
// Order is preserved; the input is not modified.
func FilterJobs(jobs []types.JobPosting, filters *types.Filters) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if jobMatches(&job, filters) {
			out = append(out, job)
		}
	}
	return out
}

func jobMatches(job *types.JobPosting, f *types.Filters) bool {
	if f.IsEmpty() {
		return true
	}
	if types.HasSelection(f.JobType) && !slices.Contains(f.JobType, job.EmploymentType) {
		return false
	}
	if types.HasSelection(f.ExperienceLevel) && !slices.Contains(f.ExperienceLevel, job.ExperienceLevel) {
		return false
	}
	if types.HasSelection(f.Location) && !locationMatches(f.Location, job.Location, job.WorkArrangement) {
		return false
	}
	return true
}

// FilterCandidates applies the experience level and location categories to applicant profiles.
// The job type category does not apply to candidates and is ignored.
func FilterCandidates(profiles []types.CandidateProfile, filters *types.Filters) []types.CandidateProfile {
	out := make([]types.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if candidateMatches(&p, filters) {
			out = append(out, p)
		}
	}
	return out
}

func candidateMatches(p *types.CandidateProfile, f *types.Filters) bool {
	if f.IsEmpty() {
		return true
	}
	if types.HasSelection(f.ExperienceLevel) && !slices.Contains(f.ExperienceLevel, p.ExperienceLevel) {
		return false
	}
	if types.HasSelection(f.Location) && !locationMatches(f.Location, p.Location, p.RemotePreference) {
		return false
	}
	return true
}

// locationMatches reports whether any selected location is a substring of location,
// or the selection is "Remote" and the arrangement mentions Remote.
// Comparison is case-sensitive. A blank entry is a substring of every location.
func locationMatches(selected []string, location, arrangement string) bool {
	for _, loc := range selected {
		if strings.Contains(location, loc) {
			return true
		}
		if loc == types.WorkRemote && strings.Contains(arrangement, types.WorkRemote) {
			return true
		}
	}
	return false
}
