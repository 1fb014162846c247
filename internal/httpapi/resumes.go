package httpapi

import (
	"fmt"
	"net/http"
	"strings"
)

type generateResumeIn struct {
	UserID int64  `json:"user_id"`
	JobID  *int64 `json:"job_id"`
	Source string `json:"source"`
}

// generateResume builds a plain-text resume from the stored profile —
// optionally slanted toward one listing — and stores it as an artifact.
func (h *Handler) generateResume(w http.ResponseWriter, r *http.Request) {
	var in generateResumeIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.UserID <= 0 {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if in.Source == "" {
		in.Source = "profile"
	}

	user, err := h.users.GetByID(r.Context(), in.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}

	var jobTitle string
	if in.JobID != nil {
		job, err := h.jobs.GetByID(r.Context(), *in.JobID)
		if err != nil {
			writeErr(w, err)
			return
		}
		jobTitle = job.JobTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", user.UserName, user.EmailID)
	if jobTitle != "" {
		fmt.Fprintf(&b, "\nTarget role: %s\n", jobTitle)
	} else if user.DesiredJobRole != nil {
		fmt.Fprintf(&b, "\nTarget role: %s\n", *user.DesiredJobRole)
	}
	if user.ProfessionalSummary != nil {
		fmt.Fprintf(&b, "\nSummary\n%s\n", *user.ProfessionalSummary)
	}
	if len(user.Skills) > 0 {
		fmt.Fprintf(&b, "\nSkills\n%s\n", strings.Join(user.Skills, ", "))
	}
	if user.Experience != nil {
		fmt.Fprintf(&b, "\nExperience: %d year(s)\n", *user.Experience)
	}

	id, err := h.activity.CreateResume(r.Context(), in.UserID, in.JobID, in.Source, b.String())
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonWrite(w, http.StatusCreated, map[string]any{"msg": "Resume generated", "resume_id": id})
}

func (h *Handler) listResumes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	resumes, err := h.activity.ResumesByUser(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, resumes)
}

type applyIn struct {
	UserID int64          `json:"user_id"`
	JobID  int64          `json:"job_id"`
	Meta   map[string]any `json:"metadata"`
}

// applyJob records that the user applied to a listing.
func (h *Handler) applyJob(w http.ResponseWriter, r *http.Request) {
	var in applyIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.UserID <= 0 || in.JobID <= 0 {
		jsonError(w, "user_id and job_id are required", http.StatusBadRequest)
		return
	}

	if _, err := h.jobs.GetByID(r.Context(), in.JobID); err != nil {
		writeErr(w, err)
		return
	}

	activityID, err := h.activity.LogActivity(r.Context(), in.UserID, &in.JobID, "job_applied", in.Meta)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, map[string]any{"msg": "Application logged", "activity_id": activityID})
}
