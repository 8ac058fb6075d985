package server

import (
	"net/http"

	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/types"
)

// handleGetProfile returns the caller's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	profile, err := s.deps.Store.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if profile == nil {
		s.writeError(w, r, &NotFoundError{Kind: "Profile"})
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUpdateProfile creates or partially updates the caller's profile.
// Changes to embedded fields queue the profile for an embedding refresh.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req types.UpdateProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.deps.Store.GetProfile(ctx, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created := profile == nil
	if created {
		profile = &types.CandidateProfile{ID: userID, UserType: types.UserTypeApplicant}
	}
	req.ApplyTo(profile)
	if profile.FullName == "" {
		s.errorResponse(w, http.StatusBadRequest, "full_name is required")
		return
	}

	if err := s.deps.Store.UpsertProfile(ctx, profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	if created || req.TouchesEmbedding() {
		s.markStale(ctx, freshness.Profile(userID))
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, profile)
}
