package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/talentmatch/talent-match/internal/types"
)

// Similar-job search defaults
const (
	DefaultMatchThreshold = 0.7
	DefaultMatchCount     = 5
)

const jobColumns = `id, title, company, location, work_arrangement, salary, experience_level,
	employment_type, description, required_skills, post_date, posted_by`

// JobMatch is a job with its cosine similarity to a query embedding.
type JobMatch struct {
	Job        types.JobPosting `json:"job"`
	Similarity float64          `json:"similarity"`
}

func scanJob(row pgx.Row, extra ...any) (*types.JobPosting, error) {
	var j types.JobPosting
	dest := []any{
		&j.ID, &j.Title, &j.Company, &j.Location, &j.WorkArrangement, &j.Salary, &j.ExperienceLevel,
		&j.EmploymentType, &j.Description, &j.RequiredSkills, &j.PostDate, &j.PostedBy,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]types.JobPosting, error) {
	defer rows.Close()
	jobs := []types.JobPosting{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// ListAllJobs returns every job, newest first. Embeddings are not loaded.
func (db *DB) ListAllJobs(ctx context.Context) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY post_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return collectJobs(rows)
}

// ListJobs returns the newest jobs up to limit.
func (db *DB) ListJobs(ctx context.Context, limit int) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY post_date DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return collectJobs(rows)
}

// GetJob returns a job by ID, or nil if it does not exist.
func (db *DB) GetJob(ctx context.Context, id int64) (*types.JobPosting, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// CreateJob inserts a job with its embedding and sets the generated ID.
// A zero PostDate is stamped by the database.
func (db *DB) CreateJob(ctx context.Context, job *types.JobPosting) error {
	skills := job.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company, location, work_arrangement, salary, experience_level,
		                   employment_type, description, required_skills, post_date, posted_by, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()), $11, $12)
		 RETURNING id, post_date`,
		job.Title, job.Company, job.Location, job.WorkArrangement, job.Salary, job.ExperienceLevel,
		job.EmploymentType, job.Description, skills, nullTime(job.PostDate), job.PostedBy, toVector(job.Embedding),
	).Scan(&job.ID, &job.PostDate)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateJobEmbedding replaces the stored embedding of a job.
func (db *DB) UpdateJobEmbedding(ctx context.Context, id int64, embedding []float32) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET embedding = $1 WHERE id = $2`, toVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to update job embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %d not found", id)
	}
	return nil
}

// MatchJobsByEmbedding returns up to count jobs whose cosine similarity to
// embedding exceeds threshold, most similar first.
func (db *DB) MatchJobsByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]JobMatch, error) {
	if len(embedding) == 0 {
		return []JobMatch{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`, 1 - (embedding <=> $1) AS similarity
		 FROM jobs
		 WHERE embedding IS NOT NULL AND vector_dims(embedding) = vector_dims($1)
		   AND 1 - (embedding <=> $1) > $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		pgvector.NewVector(embedding), threshold, count)
	if err != nil {
		return nil, fmt.Errorf("failed to match jobs: %w", err)
	}
	defer rows.Close()

	matches := []JobMatch{}
	for rows.Next() {
		var similarity float64
		job, err := scanJob(rows, &similarity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job match: %w", err)
		}
		matches = append(matches, JobMatch{Job: *job, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job matches: %w", err)
	}
	return matches, nil
}
