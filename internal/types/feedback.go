package types

import "github.com/go-playground/validator/v10"

// Feedback is the structured AI critique of a resume
type Feedback struct {
	Skills            []string          `json:"skills" validate:"dive,required"`
	Experience        []string          `json:"experience"`
	Education         []string          `json:"education"`
	Strengths         []string          `json:"strengths"`
	Improvements      []string          `json:"improvements"`
	Recommendations   string            `json:"recommendations"`
	OverallScore      float64           `json:"overallScore" validate:"gte=0,lte=10"`
	YearsOfExperience *float64          `json:"yearsOfExperience,omitempty" validate:"omitempty,gte=0"`
	Bio               string            `json:"bio,omitempty"`
	SocialLinks       map[string]string `json:"socialLinks,omitempty"`
}

// Validate validates the Feedback using the validator.
func (f *Feedback) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}
