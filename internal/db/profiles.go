package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentmatch/talent-match/internal/types"
)

const profileColumns = `id, user_type, full_name, email, location, job_title, skills, experience_level,
	years_of_experience, current_employer, bio, education, social_links, salary_expectation,
	remote_preference, work_authorization, created_at, updated_at`

func scanProfile(row pgx.Row) (*types.CandidateProfile, error) {
	var (
		p         types.CandidateProfile
		education []byte
		links     []byte
	)
	err := row.Scan(&p.ID, &p.UserType, &p.FullName, &p.Email, &p.Location, &p.JobTitle, &p.Skills,
		&p.ExperienceLevel, &p.YearsOfExperience, &p.CurrentEmployer, &p.Bio, &education, &links,
		&p.SalaryExpectation, &p.RemotePreference, &p.WorkAuthorization, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(education) > 0 {
		if err := json.Unmarshal(education, &p.Education); err != nil {
			return nil, fmt.Errorf("failed to decode education: %w", err)
		}
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &p.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return &p, nil
}

// GetProfile returns a profile by user ID, or nil if none exists.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListApplicants returns every applicant profile, most recently updated first.
func (db *DB) ListApplicants(ctx context.Context) ([]types.CandidateProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM user_profiles
		 WHERE user_type = $1
		 ORDER BY updated_at DESC`, types.UserTypeApplicant)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	profiles := []types.CandidateProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// UpsertProfile inserts or replaces a profile and refreshes its timestamps.
// The embedding is written only when the profile carries one.
func (db *DB) UpsertProfile(ctx context.Context, p *types.CandidateProfile) error {
	education, err := marshalNullable(p.Education)
	if err != nil {
		return fmt.Errorf("failed to encode education: %w", err)
	}
	links, err := marshalNullable(p.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to encode social links: %w", err)
	}
	userType := p.UserType
	if userType == "" {
		userType = types.UserTypeApplicant
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO user_profiles (id, user_type, full_name, email, location, job_title, skills,
		     experience_level, years_of_experience, current_employer, bio, education, social_links,
		     salary_expectation, remote_preference, work_authorization, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 ON CONFLICT (id) DO UPDATE SET
		     user_type = EXCLUDED.user_type, full_name = EXCLUDED.full_name, email = EXCLUDED.email,
		     location = EXCLUDED.location, job_title = EXCLUDED.job_title, skills = EXCLUDED.skills,
		     experience_level = EXCLUDED.experience_level, years_of_experience = EXCLUDED.years_of_experience,
		     current_employer = EXCLUDED.current_employer, bio = EXCLUDED.bio, education = EXCLUDED.education,
		     social_links = EXCLUDED.social_links, salary_expectation = EXCLUDED.salary_expectation,
		     remote_preference = EXCLUDED.remote_preference, work_authorization = EXCLUDED.work_authorization,
		     embedding = COALESCE(EXCLUDED.embedding, user_profiles.embedding),
		     updated_at = NOW()
		 RETURNING user_type, created_at, updated_at`,
		p.ID, userType, p.FullName, p.Email, p.Location, p.JobTitle, skills,
		p.ExperienceLevel, p.YearsOfExperience, p.CurrentEmployer, p.Bio, education, links,
		p.SalaryExpectation, p.RemotePreference, p.WorkAuthorization, toVector(p.Embedding),
	).Scan(&p.UserType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// UpdateProfileEmbedding replaces the stored embedding of a profile.
func (db *DB) UpdateProfileEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE user_profiles SET embedding = $1 WHERE id = $2`, toVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to update profile embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}

// marshalNullable encodes v as JSON, or returns nil for a nil pointer or map.
func marshalNullable[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
