package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Application is a candidate's application to a job, tracked on a kanban board
type Application struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	JobID     int64      `json:"job_id"`
	ResumeID  *uuid.UUID `json:"resume_id,omitempty"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateApplicationRequest is the body of an apply request.
type CreateApplicationRequest struct {
	JobID    int64  `json:"job_id" validate:"required,gt=0"`
	ResumeID string `json:"resume_id,omitempty" validate:"omitempty,uuid"`
	Notes    string `json:"notes,omitempty" validate:"max=2000"`
	SaveOnly bool   `json:"save_only,omitempty"`
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateApplicationStatusRequest moves an application to another column.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the UpdateApplicationStatusRequest using the validator.
func (r *UpdateApplicationStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
