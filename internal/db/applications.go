package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentmatch/talent-match/internal/types"
)

const applicationColumns = `id, user_id, job_id, resume_id, status, notes, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	if err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.ResumeID, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts an application. ErrDuplicate is returned when the
// user already applied to the job.
func (db *DB) CreateApplication(ctx context.Context, a *types.Application) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_id, resume_id, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		a.UserID, a.JobID, a.ResumeID, a.Status, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication returns one of the user's applications, or nil.
func (db *DB) GetApplication(ctx context.Context, id, userID uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplications returns the user's applications, most recently updated
// first. An empty status lists every column.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, status string) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE user_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY updated_at DESC`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []types.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application to status only if it is still
// in from. It returns nil when the row changed concurrently or does not exist.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id, userID uuid.UUID, from, to string) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET status = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = $3
		 RETURNING `+applicationColumns, id, userID, from, to))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return a, nil
}
