// Package api serves the story backend over HTTP and provides a client
// for it.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/storyforge/internal/jobs"
	"github.com/abhisek/storyforge/internal/story"
)

// SessionCookie names the cookie that ties jobs and stories to a browser
// or terminal session.
const SessionCookie = "session_id"

const maxBodyBytes = 1 << 16

// Server exposes a story.Backend over HTTP.
type Server struct {
	backend story.Backend
	log     zerolog.Logger
	cfg     Config
}

// NewServer creates a Server.
func NewServer(backend story.Backend, log zerolog.Logger, cfg Config) *Server {
	return &Server{
		backend: backend,
		log:     log.With().Str("component", "api").Logger(),
		cfg:     cfg,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/stories/create", s.createStory)
	mux.HandleFunc("GET /api/jobs/{job_id}", s.getJob)
	mux.HandleFunc("GET /api/stories/{id}/complete", s.getCompleteStory)
	mux.HandleFunc("GET /healthz", s.healthz)

	return Chain(mux,
		RequestID(),
		AccessLog(s.log),
		RecoverPanic(s.log),
		Trace(),
	)
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var req createStoryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := story.CheckTheme(req.Theme); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sessionID := s.session(w, r)
	job, err := s.backend.CreateJob(r.Context(), req.Theme, sessionID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, job)
	case errors.Is(err, story.ErrEmptyTheme), errors.Is(err, story.ErrThemeTooLong):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, jobs.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "generation service is shutting down")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create job")
		writeError(w, http.StatusInternalServerError, "failed to create story job")
	}
}

// session returns the caller's session id, issuing a cookie when missing.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.backend.Job(r.Context(), r.PathValue("job_id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, job)
	case errors.Is(err, story.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "Job not found")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("get job")
		writeError(w, http.StatusInternalServerError, "failed to load job")
	}
}

func (s *Server) getCompleteStory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "story id must be an integer")
		return
	}

	st, err := s.backend.Story(r.Context(), id)
	if errors.Is(err, story.ErrStoryNotFound) {
		writeError(w, http.StatusNotFound, "Story not found")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("story_id", id).Msg("get story")
		writeError(w, http.StatusInternalServerError, "failed to load story")
		return
	}

	complete, err := NewCompleteStory(st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Root node not found")
		return
	}
	writeJSON(w, http.StatusOK, complete)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
