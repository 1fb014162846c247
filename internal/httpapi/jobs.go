package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads offset/limit query parameters with sane bounds.
func pageParams(r *http.Request) (offset, limit int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return offset, limit
}

type fetchIn struct {
	JobTitles  []string `json:"job_titles"`
	Skills     []string `json:"skills"`
	Experience *int     `json:"experience"`
	Locations  []string `json:"locations"`
	Countries  []string `json:"countries"`
	Remote     *bool    `json:"remote"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
}

// fetchJobs runs a live source search and ingests whatever came back.
func (h *Handler) fetchJobs(w http.ResponseWriter, r *http.Request) {
	var in fetchIn
	if !decodeBody(w, r, &in) {
		return
	}

	knownIDs, err := h.jobs.StoredAPIIDs(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}

	criteria := theirstack.SearchCriteria{
		JobTitles:  in.JobTitles,
		Skills:     in.Skills,
		Experience: in.Experience,
		Locations:  in.Locations,
		Countries:  in.Countries,
		Remote:     in.Remote,
		Offset:     in.Offset,
		Limit:      in.Limit,
	}

	rawJobs, err := h.source.Search(r.Context(), criteria, knownIDs)
	if err != nil {
		writeErr(w, err)
		return
	}

	summary, err := h.pipeline.Ingest(r.Context(), rawJobs)
	if err != nil {
		writeErr(w, err)
		return
	}

	jsonOK(w, map[string]any{
		"status":       "success",
		"jobs_fetched": len(rawJobs),
		"summary":      summary,
	})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	jobs, err := h.jobs.List(r.Context(), offset, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, jobs)
}

type relevantIn struct {
	Keywords []string `json:"keywords"`
}

// relevantJobs returns stored listings whose description matches any of the
// caller's keywords. An empty keyword list falls back to the authenticated
// user's stored skills.
func (h *Handler) relevantJobs(w http.ResponseWriter, r *http.Request) {
	var in relevantIn
	if !decodeBody(w, r, &in) {
		return
	}

	if len(in.Keywords) == 0 {
		if c := claimsFrom(r.Context()); c != nil {
			user, err := h.users.GetByID(r.Context(), c.UserID)
			if err != nil {
				writeErr(w, err)
				return
			}
			in.Keywords = user.Skills
		}
	}

	offset, limit := pageParams(r)
	jobs, err := h.jobs.SearchByKeywords(r.Context(), in.Keywords, offset, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, jobs)
}

func (h *Handler) filterJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.jobs.Filter(r.Context(), q.Get("technology"), q.Get("location"))
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, jobs)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid job id", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, job)
}

type userRefIn struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) saveJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid job id", http.StatusBadRequest)
		return
	}

	var in userRefIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.UserID <= 0 {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	// Verify the listing exists before logging anything against it.
	if _, err := h.jobs.GetByID(r.Context(), jobID); err != nil {
		writeErr(w, err)
		return
	}

	activityID, err := h.activity.LogActivity(r.Context(), in.UserID, &jobID, "job_saved", nil)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, map[string]any{"msg": "Job saved", "activity_id": activityID})
}

// analyzeJob scores a user's fit against a listing by skill overlap and
// records the result.
func (h *Handler) analyzeJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid job id", http.StatusBadRequest)
		return
	}

	var in userRefIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.UserID <= 0 {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		writeErr(w, err)
		return
	}
	user, err := h.users.GetByID(r.Context(), in.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}

	score, matched := MatchScore(user.Skills, job.Technologies)
	explanation := "no skill overlap with the listing's technologies"
	if len(matched) > 0 {
		explanation = "matched skills: " + strings.Join(matched, ", ")
	}

	if _, err := h.activity.LogMatchScore(r.Context(), in.UserID, jobID, score, explanation); err != nil {
		writeErr(w, err)
		return
	}

	jsonOK(w, map[string]any{
		"job_id":      jobID,
		"user_id":     in.UserID,
		"score":       score,
		"explanation": explanation,
	})
}

// matchScore constants: a listing with zero overlap still scores the base,
// and overlap can never push the score to a perfect 100.
const (
	matchBaseScore = 50
	matchPerSkill  = 10
	matchMaxScore  = 95
)

// MatchScore computes the skill-overlap score between a user's skills and a
// listing's technologies. Comparison is case-insensitive; the returned names
// keep the listing's casing.
func MatchScore(userSkills, jobTechnologies []string) (int, []string) {
	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	var matched []string
	for _, tech := range jobTechnologies {
		if _, ok := have[strings.ToLower(tech)]; ok {
			matched = append(matched, tech)
		}
	}

	score := matchBaseScore + matchPerSkill*len(matched)
	if score > matchMaxScore {
		score = matchMaxScore
	}
	return score, matched
}
