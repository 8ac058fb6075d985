package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/db"
	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/types"
)

// Store persists applications.
type Store interface {
	GetJob(ctx context.Context, id int64) (*types.JobPosting, error)
	GetResume(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*types.Resume, error)
	CreateApplication(ctx context.Context, a *types.Application) error
	GetApplication(ctx context.Context, id, userID uuid.UUID) (*types.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID, status string) ([]types.Application, error)
	UpdateApplicationStatus(ctx context.Context, id, userID uuid.UUID, from, to string) (*types.Application, error)
}

// NotFoundError is returned when a referenced record does not exist or is
// not visible to the user.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DuplicateError is returned when the user already has an application for the job.
type DuplicateError struct {
	JobID int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an application for job %d already exists", e.JobID)
}

// Service applies the kanban rules on top of a Store.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService returns a Service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logging.OrNop(logger)}
}

// Apply creates an application in APPLIED, or SAVED when the request only bookmarks the job.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, req types.CreateApplicationRequest) (*types.Application, error) {
	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{Kind: "job", ID: fmt.Sprint(req.JobID)}
	}

	app := &types.Application{
		UserID: userID,
		JobID:  req.JobID,
		Status: string(StatusApplied),
		Notes:  req.Notes,
	}
	if req.SaveOnly {
		app.Status = string(StatusSaved)
	}

	if req.ResumeID != "" {
		resumeID, err := uuid.Parse(req.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("invalid resume_id: %w", err)
		}
		resume, err := s.store.GetResume(ctx, resumeID, &userID)
		if err != nil {
			return nil, err
		}
		if resume == nil {
			return nil, &NotFoundError{Kind: "resume", ID: req.ResumeID}
		}
		app.ResumeID = &resumeID
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &DuplicateError{JobID: req.JobID}
		}
		return nil, err
	}

	s.logger.Info("application created",
		zap.String("application_id", app.ID.String()),
		zap.Int64("job_id", app.JobID),
		zap.String("status", app.Status))
	return app, nil
}

// List returns the user's applications, optionally restricted to one status.
func (s *Service) List(ctx context.Context, userID uuid.UUID, status string) ([]types.Application, error) {
	if status != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		status = string(st)
	}
	return s.store.ListApplications(ctx, userID, status)
}

// Move transitions an application to a new status.
func (s *Service) Move(ctx context.Context, userID, id uuid.UUID, rawStatus string) (*types.Application, error) {
	to, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetApplication(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{Kind: "application", ID: id.String()}
	}

	from := Status(current.Status)
	if !IsTransitionAllowed(from, to) {
		return nil, &TransitionError{From: from, To: to}
	}

	updated, err := s.store.UpdateApplicationStatus(ctx, id, userID, string(from), string(to))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Status changed between read and write.
		return nil, &TransitionError{From: from, To: to}
	}

	s.logger.Info("application moved",
		zap.String("application_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return updated, nil
}
