// Package httpapi implements the HTTP handlers for the aggregation service.
//
// Routes:
//
//	POST   /users                  → register
//	POST   /users/login            → login, issues a bearer token
//	GET    /users/{id}             → profile (auth)
//	PUT    /users/{id}             → partial profile update (auth)
//	DELETE /users/{id}             → delete account (auth)
//	POST   /users/{id}/feedback    → log feedback activity (auth)
//	POST   /jobs/fetch             → fetch from source and ingest (auth)
//	GET    /jobs/list              → paginated listings
//	POST   /jobs/relevant          → keyword-in-description filter (auth)
//	GET    /jobs                   → filter by technology / location
//	GET    /jobs/{id}              → single listing
//	POST   /jobs/{id}/save         → log job_saved activity
//	POST   /jobs/{id}/analyze      → score match, log match_score row
//	POST   /resumes/generate       → store a generated resume
//	GET    /resumes/user/{id}      → list resumes (auth)
//	POST   /resumes/apply          → log job_applied activity
//	POST   /activity/log           → append activity row
//	GET    /activity/user/{id}     → list activities (auth)
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/KnightCoder27/Skael/internal/ingest"
	"github.com/KnightCoder27/Skael/internal/store"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ─── JSON helpers ────────────────────────────────────────────────────────────

func jsonWrite(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonWrite(w, http.StatusOK, v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonWrite(w, code, map[string]string{"error": msg})
}

// decodeBody decodes a JSON request body into dst, rejecting unparsable
// payloads before any storage work happens.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeErr maps domain errors onto HTTP responses. Resolver- and
// enrichment-level issues never reach here — they are absorbed upstream.
func writeErr(w http.ResponseWriter, err error) {
	var fetchErr *theirstack.FetchError
	var persistErr *ingest.PersistenceError

	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrEmailTaken):
		jsonError(w, "email already registered", http.StatusBadRequest)
	case errors.As(err, &fetchErr):
		log.Printf("[httpapi] upstream fetch failed: %v", fetchErr)
		jsonError(w, "error fetching jobs from source", http.StatusBadGateway)
	case errors.As(err, &persistErr):
		log.Printf("[httpapi] ingestion failed: %v", persistErr)
		msg := "error saving jobs"
		if persistErr.Duplicate {
			msg = "duplicate ingestion conflict"
		}
		jsonWrite(w, http.StatusInternalServerError, map[string]any{
			"error":          msg,
			"jobs_attempted": persistErr.Attempted,
		})
	default:
		log.Printf("[httpapi] internal error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

// Recover converts handler panics into 500 responses so a single bad
// request never takes the process down.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[httpapi] panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				jsonError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
