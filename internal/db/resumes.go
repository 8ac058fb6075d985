package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/talentmatch/talent-match/internal/types"
)

const resumeColumns = `id, user_id, file_url, file_name, feedback, feedback_updated_at, uploaded_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var (
		r        types.Resume
		feedback []byte
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.FileURL, &r.FileName, &feedback, &r.FeedbackUpdatedAt, &r.UploadedAt); err != nil {
		return nil, err
	}
	if len(feedback) > 0 {
		if err := json.Unmarshal(feedback, &r.Feedback); err != nil {
			return nil, fmt.Errorf("failed to decode feedback: %w", err)
		}
	}
	return &r, nil
}

// GetResume returns a resume by ID, or nil if none exists. A non-nil owner
// restricts the lookup to that user's resumes.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2)`, id, owner))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns a user's resumes, newest first.
func (db *DB) ListResumes(ctx context.Context, owner uuid.UUID) ([]types.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY uploaded_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}

// CreateResume registers an uploaded file for owner.
func (db *DB) CreateResume(ctx context.Context, owner uuid.UUID, fileURL, fileName string) (*types.Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_url, file_name)
		 VALUES ($1, $2, $3)
		 RETURNING `+resumeColumns, owner, fileURL, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// DeleteResume removes one of owner's resumes. It reports whether a row was deleted.
func (db *DB) DeleteResume(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveFeedback stores feedback on a resume and returns the update time.
// The previous embedding is cleared since it no longer reflects the feedback.
// A non-nil owner restricts the update to that user's resumes.
func (db *DB) SaveFeedback(ctx context.Context, id uuid.UUID, owner *uuid.UUID, fb *types.Feedback) (time.Time, error) {
	data, err := json.Marshal(fb)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to encode feedback: %w", err)
	}

	var updatedAt time.Time
	err = db.pool.QueryRow(ctx,
		`UPDATE resumes SET feedback = $1, feedback_updated_at = NOW(), embedding = NULL
		 WHERE id = $2 AND ($3::uuid IS NULL OR user_id = $3)
		 RETURNING feedback_updated_at`, data, id, owner,
	).Scan(&updatedAt)
	if err != nil {
		if isNoRows(err) {
			return time.Time{}, fmt.Errorf("resume %s not found", id)
		}
		return time.Time{}, fmt.Errorf("failed to save feedback: %w", err)
	}
	return updatedAt, nil
}

// UpdateResumeEmbedding replaces the stored embedding of a resume.
func (db *DB) UpdateResumeEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET embedding = $1 WHERE id = $2`, toVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to update resume embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume %s not found", id)
	}
	return nil
}

// ResumeEmbedding returns the stored embedding of a resume, or nil when it
// has none.
func (db *DB) ResumeEmbedding(ctx context.Context, id uuid.UUID, owner *uuid.UUID) ([]float32, error) {
	var vec *pgvector.Vector
	err := db.pool.QueryRow(ctx,
		`SELECT embedding FROM resumes WHERE id = $1 AND ($2::uuid IS NULL OR user_id = $2)`, id, owner,
	).Scan(&vec)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume embedding: %w", err)
	}
	if vec == nil {
		return nil, nil
	}
	return vec.Slice(), nil
}
