package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/parsing"
	"github.com/talentmatch/talent-match/internal/types"
)

// Job listing page sizes
const (
	defaultJobsLimit = 50
	maxJobsLimit     = 200
)

// handleListJobs returns the newest jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultJobsLimit, 1, maxJobsLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jobs, err := s.deps.Store.ListJobs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleGetJob returns one job.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job id")
		return
	}
	job, err := s.deps.Store.GetJob(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job == nil {
		s.writeError(w, r, &NotFoundError{Kind: "Job"})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleCreateJob lets a recruiter post a job. When embedding fails the job
// is stored anyway and queued for a later refresh.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := s.requireRecruiter(ctx, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.CreateJobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	job := req.ToJobPosting(s.now().UTC())
	job.RequiredSkills = parsing.CanonicalSkills(job.RequiredSkills)
	job.PostedBy = &userID

	embedding, err := s.deps.Embeddings.JobEmbedding(ctx, job)
	if err != nil {
		s.logger.Warn("job embedding failed, deferring", zap.String("title", job.Title), zap.Error(err))
	}
	job.Embedding = embedding

	if err := s.deps.Store.CreateJob(ctx, job); err != nil {
		s.writeError(w, r, err)
		return
	}
	if job.Embedding == nil {
		s.markStale(ctx, freshness.Job(job.ID))
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

// handleImportJob creates a job from a posting URL.
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := s.requireRecruiter(ctx, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.ImportJobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.deps.Importer.ImportFromURL(ctx, req.URL, &userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}
