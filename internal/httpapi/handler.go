package httpapi

import (
	"net/http"

	"github.com/KnightCoder27/Skael/internal/auth"
	"github.com/KnightCoder27/Skael/internal/ingest"
	"github.com/KnightCoder27/Skael/internal/store"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// Handler holds the shared dependencies for all routes.
type Handler struct {
	users    *store.UserStore
	jobs     *store.JobStore
	activity *store.ActivityStore
	tokens   *auth.Manager
	source   *theirstack.Client
	pipeline *ingest.Pipeline
}

// NewHandler returns a configured Handler.
func NewHandler(
	users *store.UserStore,
	jobs *store.JobStore,
	activity *store.ActivityStore,
	tokens *auth.Manager,
	source *theirstack.Client,
	pipeline *ingest.Pipeline,
) *Handler {
	return &Handler{
		users:    users,
		jobs:     jobs,
		activity: activity,
		tokens:   tokens,
		source:   source,
		pipeline: pipeline,
	}
}

// RegisterRoutes mounts every route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", h.createUser)
	mux.HandleFunc("POST /users/login", h.login)
	mux.HandleFunc("GET /users/{id}", h.requireAuth(h.getUser))
	mux.HandleFunc("PUT /users/{id}", h.requireAuth(h.updateUser))
	mux.HandleFunc("DELETE /users/{id}", h.requireAuth(h.deleteUser))
	mux.HandleFunc("POST /users/{id}/feedback", h.requireAuth(h.logFeedback))

	mux.HandleFunc("POST /jobs/fetch", h.requireAuth(h.fetchJobs))
	mux.HandleFunc("GET /jobs/list", h.listJobs)
	mux.HandleFunc("POST /jobs/relevant", h.requireAuth(h.relevantJobs))
	mux.HandleFunc("GET /jobs", h.filterJobs)
	mux.HandleFunc("GET /jobs/{id}", h.getJob)
	mux.HandleFunc("POST /jobs/{id}/save", h.saveJob)
	mux.HandleFunc("POST /jobs/{id}/analyze", h.analyzeJob)

	mux.HandleFunc("POST /resumes/generate", h.generateResume)
	mux.HandleFunc("GET /resumes/user/{id}", h.requireAuth(h.listResumes))
	mux.HandleFunc("POST /resumes/apply", h.applyJob)

	mux.HandleFunc("POST /activity/log", h.logActivity)
	mux.HandleFunc("GET /activity/user/{id}", h.requireAuth(h.listActivities))
}
