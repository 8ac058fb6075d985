package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known applicant tracking system hosting job postings.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRules struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platforms = []platformRules{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='descriptionText']", "main"},
		noise:    []string{"[class*='applicationForm']"},
	},
}

// commonNoise is removed on every platform.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	rules := lookup(urlStr)
	if rules == nil {
		return PlatformUnknown
	}
	return rules.platform
}

func lookup(urlStr string) *platformRules {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for i := range platforms {
		for _, h := range platforms[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platforms[i]
			}
		}
	}
	return nil
}

// PlatformContentSelectors returns content selectors for a platform.
// Unknown platforms use JobPostingSelectors.
func PlatformContentSelectors(platform Platform) []string {
	for _, rules := range platforms {
		if rules.platform == platform {
			return append(append([]string{}, rules.content...), JobPostingSelectors()...)
		}
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the selectors removed before extraction.
func PlatformNoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoise...)
	for _, rules := range platforms {
		if rules.platform == platform {
			return append(noise, rules.noise...)
		}
	}
	return noise
}
