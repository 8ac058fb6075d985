package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/5f1c", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/External/job/Berlin/Engineer", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://JOBS.LEVER.CO/acme/1", PlatformLever},
		{"https://www.linkedin.com/jobs/view/123", PlatformUnknown},
		{"https://careers.example.com/openings/42", PlatformUnknown},
		{"https://notlever.co.example.com/jobs", PlatformUnknown},
		{"https://evil-greenhouse.io/jobs", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	tests := []struct {
		platform Platform
		first    string
	}{
		{PlatformGreenhouse, ".job__description.body"},
		{PlatformLever, ".posting-page"},
		{PlatformWorkday, "[data-automation-id='jobDescription']"},
		{PlatformAshby, "[class*='descriptionText']"},
		{PlatformUnknown, JobPostingSelectors()[0]},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			selectors := PlatformContentSelectors(tt.platform)
			assert.Equal(t, tt.first, selectors[0])
			// generic selectors are always the fallback
			assert.Contains(t, selectors, ".job-description")
		})
	}
}

func TestPlatformNoiseSelectors(t *testing.T) {
	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, "#application-form")
	assert.Contains(t, greenhouse, ".voluntary-self-id")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, unknown, ".eeo-statement")
	assert.NotContains(t, unknown, ".voluntary-self-id")

	// callers may append without touching the shared list
	_ = append(unknown, ".extra")
	assert.NotContains(t, PlatformNoiseSelectors(PlatformUnknown), ".extra")
}
