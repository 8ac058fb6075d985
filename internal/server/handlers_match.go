package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/types"
)

// handleRecommendJobs ranks jobs against the search term and the selected resume.
func (s *Server) handleRecommendJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	var req types.RecommendJobsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Jobs.Recommend(r.Context(), req.ToQuery(&userID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := types.RecommendJobsResponse{Jobs: result.Jobs, MatchScores: result.Scores}
	if resp.Jobs == nil {
		resp.Jobs = []types.JobPosting{}
	}
	if resp.MatchScores == nil {
		resp.MatchScores = []*int{}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRecommendCandidates ranks applicants for a recruiter.
func (s *Server) handleRecommendCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := s.requireRecruiter(ctx, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.RecommendCandidatesRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Candidates.Recommend(ctx, req)
	if err != nil {
		var sourceErr *matching.SourceError
		if errors.As(err, &sourceErr) {
			s.logger.Error("candidate search failed", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch candidates")
			return
		}
		s.writeError(w, r, err)
		return
	}

	resp := types.RecommendCandidatesResponse{Candidates: result.Candidates, MatchScores: result.Scores}
	if resp.Candidates == nil {
		resp.Candidates = []types.CandidateProfile{}
	}
	if resp.MatchScores == nil {
		resp.MatchScores = []*int{}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
