package httpapi

import (
	"net/http"
)

type activityIn struct {
	UserID     int64          `json:"user_id"`
	JobID      *int64         `json:"job_id"`
	ActionType string         `json:"action_type"`
	Metadata   map[string]any `json:"activity_metadata"`
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	var in activityIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.UserID <= 0 || in.ActionType == "" {
		jsonError(w, "user_id and action_type are required", http.StatusBadRequest)
		return
	}

	id, err := h.activity.LogActivity(r.Context(), in.UserID, in.JobID, in.ActionType, in.Metadata)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonWrite(w, http.StatusCreated, map[string]any{"msg": "Activity logged", "activity_id": id})
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	activities, err := h.activity.ActivitiesByUser(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, activities)
}
