package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Resume is an uploaded resume file and its AI feedback.
// The file bytes live in object storage; only the URL is kept here.
type Resume struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	FileURL           string     `json:"file_url"`
	FileName          string     `json:"file_name"`
	Feedback          *Feedback  `json:"feedback,omitempty"`
	FeedbackUpdatedAt *time.Time `json:"feedback_updated_at,omitempty"`
	UploadedAt        time.Time  `json:"uploaded_at"`
	Embedding         []float32  `json:"-"`
}

// Skills returns the skills extracted by the feedback extractor, or nil when no feedback exists yet.
func (r *Resume) Skills() []string {
	if r == nil || r.Feedback == nil {
		return nil
	}
	return r.Feedback.Skills
}

// CreateResumeRequest registers a file already uploaded to object storage.
type CreateResumeRequest struct {
	FileURL  string `json:"file_url" validate:"required,url"`
	FileName string `json:"file_name" validate:"required,max=255"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
