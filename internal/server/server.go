// Package server provides the HTTP API of the job board.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentmatch/talent-match/internal/config"
	"github.com/talentmatch/talent-match/internal/db"
	"github.com/talentmatch/talent-match/internal/freshness"
	"github.com/talentmatch/talent-match/internal/logging"
	"github.com/talentmatch/talent-match/internal/matching"
	"github.com/talentmatch/talent-match/internal/server/middleware"
	"github.com/talentmatch/talent-match/internal/server/ratelimit"
	"github.com/talentmatch/talent-match/internal/types"
)

// Store is the persistence the handlers need. Getters return nil, nil for
// missing records.
type Store interface {
	Ping(ctx context.Context) error
	ListJobs(ctx context.Context, limit int) ([]types.JobPosting, error)
	GetJob(ctx context.Context, id int64) (*types.JobPosting, error)
	CreateJob(ctx context.Context, job *types.JobPosting) error
	MatchJobsByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]db.JobMatch, error)
	ListResumes(ctx context.Context, owner uuid.UUID) ([]types.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*types.Resume, error)
	CreateResume(ctx context.Context, owner uuid.UUID, fileURL, fileName string) (*types.Resume, error)
	DeleteResume(ctx context.Context, id, owner uuid.UUID) (bool, error)
	SaveFeedback(ctx context.Context, id uuid.UUID, owner *uuid.UUID, fb *types.Feedback) (time.Time, error)
	ResumeEmbedding(ctx context.Context, id uuid.UUID, owner *uuid.UUID) ([]float32, error)
	UpdateResumeEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	UpsertProfile(ctx context.Context, p *types.CandidateProfile) error
}

// JobRecommender ranks jobs for a seeker.
type JobRecommender interface {
	Recommend(ctx context.Context, q types.MatchQuery) (*matching.MatchResult, error)
}

// CandidateRecommender ranks applicants for a recruiter.
type CandidateRecommender interface {
	Recommend(ctx context.Context, req types.RecommendCandidatesRequest) (*matching.CandidateResult, error)
}

// DocumentExtractor returns the plain text of an uploaded resume file.
type DocumentExtractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}

// FeedbackExtractor analyzes resume text.
type FeedbackExtractor interface {
	Extract(ctx context.Context, resumeText string) (*types.Feedback, error)
}

// JobImporter creates a job from a posting URL.
type JobImporter interface {
	ImportFromURL(ctx context.Context, url string, postedBy *uuid.UUID) (*types.JobPosting, error)
}

// Embeddings computes embeddings synchronously when a request needs one.
type Embeddings interface {
	JobEmbedding(ctx context.Context, job *types.JobPosting) ([]float32, error)
	ResumeEmbedding(ctx context.Context, r *types.Resume) ([]float32, error)
}

// ApplicationService manages the application board.
type ApplicationService interface {
	Apply(ctx context.Context, userID uuid.UUID, req types.CreateApplicationRequest) (*types.Application, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]types.Application, error)
	Move(ctx context.Context, userID, id uuid.UUID, rawStatus string) (*types.Application, error)
}

// Deps are the collaborators of the server, built once at startup.
type Deps struct {
	Store        Store
	Jobs         JobRecommender
	Candidates   CandidateRecommender
	Documents    DocumentExtractor
	Feedback     FeedbackExtractor
	Importer     JobImporter
	Embeddings   Embeddings
	Applications ApplicationService
	// Queue receives records whose embeddings went stale. Nil disables enqueueing.
	Queue  freshness.Queue
	Tokens middleware.TokenValidator
	// Limiter is optional; nil disables rate limiting.
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	deps       Deps
	cfg        config.ServerConfig
	logger     *zap.Logger
	handler    http.Handler
	httpServer *http.Server
	now        func() time.Time
}

// New wires the routes and middleware.
func New(port int, cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		deps:   deps,
		cfg:    cfg,
		logger: logging.OrNop(deps.Logger),
		now:    time.Now,
	}
	if s.cfg.MaxUploadBytes <= 0 {
		s.cfg.MaxUploadBytes = 10 << 20
	}

	api := http.NewServeMux()

	api.HandleFunc("GET /api/jobs", s.handleListJobs)
	api.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	api.HandleFunc("POST /api/jobs", s.handleCreateJob)
	api.HandleFunc("POST /api/jobs/import", s.handleImportJob)

	api.HandleFunc("GET /api/resumes", s.handleListResumes)
	api.HandleFunc("POST /api/resumes", s.handleCreateResume)
	api.HandleFunc("GET /api/resumes/{id}", s.handleGetResume)
	api.HandleFunc("DELETE /api/resumes/{id}", s.handleDeleteResume)
	api.HandleFunc("GET /api/resumes/{id}/similar-jobs", s.handleSimilarJobs)
	api.HandleFunc("POST /api/process-resume", s.handleProcessResume)
	api.HandleFunc("POST /api/analyze-resume", s.handleAnalyzeResume)

	api.HandleFunc("GET /api/profile", s.handleGetProfile)
	api.HandleFunc("PUT /api/profile", s.handleUpdateProfile)

	api.HandleFunc("POST /api/recommend-jobs", s.handleRecommendJobs)
	api.HandleFunc("POST /api/recommend-candidates", s.handleRecommendCandidates)

	api.HandleFunc("GET /api/applications", s.handleListApplications)
	api.HandleFunc("POST /api/applications", s.handleCreateApplication)
	api.HandleFunc("PATCH /api/applications/{id}/status", s.handleMoveApplication)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/api/", middleware.AuthMiddleware(deps.Tokens)(api))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.deps.Limiter != nil {
		s.deps.Limiter.Stop()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS answers preflight requests and sets CORS headers for allowed origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := len(s.cfg.AllowedOrigins) == 0 || slices.Contains(s.cfg.AllowedOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.cfg.AllowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their limit with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.deps.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.deps.Limiter.Allow(clientIP(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote", clientIP(r)))
	})
}

// clientIP is the request's remote IP. Forwarding headers are not trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}
	s.logger.Warn("rate limit exceeded",
		zap.String("remote", clientIP(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a response. Server-side failures are logged with the cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := describe(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.errorResponse(w, status, message)
}

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &RequestError{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// userID returns the authenticated caller. Routes under /api/ always have one.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// requireRecruiter fails unless the caller has a recruiter profile.
func (s *Server) requireRecruiter(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.deps.Store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil || profile.UserType != types.UserTypeRecruiter {
		return &ForbiddenError{Message: "A recruiter profile is required"}
	}
	return nil
}

// markStale enqueues items for embedding refresh. Failures are logged only.
func (s *Server) markStale(ctx context.Context, items ...freshness.Item) {
	if s.deps.Queue == nil {
		return
	}
	if err := s.deps.Queue.Enqueue(ctx, items...); err != nil {
		s.logger.Warn("failed to enqueue embedding refresh", zap.Error(err))
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &RequestError{Message: "Invalid " + name}
	}
	return id, nil
}

// queryInt parses an optional integer query parameter within [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, &RequestError{Message: fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi)}
	}
	return n, nil
}
