// Package parsing turns job posting page text into board listings using LLM extraction.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/talentmatch/talent-match/internal/llm"
	"github.com/talentmatch/talent-match/internal/schemas"
	"github.com/talentmatch/talent-match/internal/types"
)

// ParseJobPosting extracts a JobPosting from cleaned job posting text.
// The returned posting has no ID, post date or embedding.
func ParseJobPosting(ctx context.Context, client llm.Client, cleanedText string) (*types.JobPosting, error) {
	if strings.TrimSpace(cleanedText) == "" {
		return nil, &ValidationError{Message: "job posting text is empty"}
	}

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), cleanedText)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate content from LLM",
			Cause:   err,
		}
	}
	responseText = llm.CleanJSONBlock(responseText)

	if !json.Valid([]byte(responseText)) {
		return nil, &ParseError{Message: "response is not valid JSON", Raw: responseText}
	}

	if err := schemas.Validate(schemas.JobPosting, responseText); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, &ValidationError{Message: "response does not match job posting schema", Cause: err}
		}
		return nil, err
	}

	var job types.JobPosting
	if err := json.Unmarshal([]byte(responseText), &job); err != nil {
		return nil, &ParseError{Message: "failed to decode job posting", Raw: responseText, Cause: err}
	}

	postProcessJob(&job)

	if strings.TrimSpace(job.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(job.Company) == "" {
		return nil, &ValidationError{Field: "company", Message: "company is required"}
	}

	return &job, nil
}

func postProcessJob(job *types.JobPosting) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	job.Location = strings.TrimSpace(job.Location)
	job.Salary = strings.TrimSpace(job.Salary)
	job.ExperienceLevel = strings.TrimSpace(job.ExperienceLevel)
	job.Description = strings.TrimSpace(job.Description)
	job.WorkArrangement = NormalizeWorkArrangement(job.WorkArrangement)
	job.EmploymentType = NormalizeEmploymentType(job.EmploymentType)
	job.RequiredSkills = CanonicalSkills(job.RequiredSkills)
	job.ID = 0
	job.Embedding = nil
	job.PostedBy = nil
}
