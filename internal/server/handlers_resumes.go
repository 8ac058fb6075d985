package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/db"
	"github.com/talentmatch/talent-match/internal/extraction"
	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/types"
)

// handleListResumes returns the caller's resumes.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	resumes, err := s.deps.Store.ListResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

// handleGetResume returns one of the caller's resumes.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resume, err := s.deps.Store.GetResume(r.Context(), id, &userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		s.writeError(w, r, &NotFoundError{Kind: "Resume"})
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleCreateResume registers a file the client already uploaded to storage.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	var req types.CreateResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if extraction.FormatOf(req.FileName) == "" {
		s.writeError(w, r, &extraction.UnsupportedFormatError{FileName: req.FileName})
		return
	}
	resume, err := s.deps.Store.CreateResume(r.Context(), userID, req.FileURL, req.FileName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resume)
}

// handleDeleteResume deletes one of the caller's resumes.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted, err := s.deps.Store.DeleteResume(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &NotFoundError{Kind: "Resume"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSimilarJobs returns jobs whose embeddings are close to the resume's.
// A resume analyzed since its last refresh is embedded on the spot.
func (s *Server) handleSimilarJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	count, err := queryInt(r, "count", db.DefaultMatchCount, 1, 50)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	threshold := db.DefaultMatchThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < -1 || threshold > 1 {
			s.errorResponse(w, http.StatusBadRequest, "threshold must be a number between -1 and 1")
			return
		}
	}

	resume, err := s.deps.Store.GetResume(ctx, id, &userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		s.writeError(w, r, &NotFoundError{Kind: "Resume"})
		return
	}

	embedding, err := s.deps.Store.ResumeEmbedding(ctx, id, &userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if embedding == nil {
		if resume.Feedback == nil {
			s.errorResponse(w, http.StatusConflict, "Resume has not been analyzed yet")
			return
		}
		embedding, err = s.deps.Embeddings.ResumeEmbedding(ctx, resume)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.deps.Store.UpdateResumeEmbedding(ctx, id, embedding); err != nil {
			s.logger.Warn("failed to store resume embedding", zap.String("resume_id", id.String()), zap.Error(err))
		}
	}

	matches, err := s.deps.Store.MatchJobsByEmbedding(ctx, embedding, threshold, count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": matches})
}

// handleProcessResume extracts text from an uploaded resume, analyzes it and
// stores the feedback on the resume record.
func (s *Server) handleProcessResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "File and resumeId are required")
		return
	}
	file, header, err := r.FormFile("file")
	rawID := strings.TrimSpace(r.FormValue("resumeId"))
	if err != nil || rawID == "" {
		s.errorResponse(w, http.StatusBadRequest, "File and resumeId are required")
		return
	}
	defer file.Close()

	resumeID, err := uuid.Parse(rawID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resumeId")
		return
	}
	if extraction.FormatOf(header.Filename) == "" {
		s.writeError(w, r, &extraction.UnsupportedFormatError{FileName: header.Filename})
		return
	}

	resume, err := s.deps.Store.GetResume(ctx, resumeID, &userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resume == nil {
		s.writeError(w, r, &NotFoundError{Kind: "Resume"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	text, err := s.deps.Documents.Extract(ctx, header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fb, err := s.deps.Feedback.Extract(ctx, text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updatedAt, err := s.deps.Store.SaveFeedback(ctx, resumeID, &userID, fb)
	if err != nil {
		s.logger.Error("failed to save feedback", zap.String("resume_id", resumeID.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgSaveFeedback)
		return
	}
	s.markStale(ctx, freshness.Resume(resumeID))

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":           true,
		"feedback":          fb,
		"feedbackUpdatedAt": updatedAt,
	})
}

// AnalyzeResumeRequest is the body of a text-only resume analysis.
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resumeText"`
}

// handleAnalyzeResume analyzes pasted resume text without storing anything.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}
	var req AnalyzeResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Resume text is required")
		return
	}
	fb, err := s.deps.Feedback.Extract(r.Context(), req.ResumeText)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": fb})
}
