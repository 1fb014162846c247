package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/KnightCoder27/Skael/internal/auth"
	"github.com/KnightCoder27/Skael/internal/model"
	"github.com/KnightCoder27/Skael/internal/store"
)

// pathID parses the {id} wildcard as an internal numeric id.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

type userIn struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Number   *string `json:"number"`
	Password string  `json:"password"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in userIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		jsonError(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeErr(w, err)
		return
	}

	id, err := h.users.Create(r.Context(), in.Username, in.Email, in.Number, hash)
	if err != nil {
		writeErr(w, err)
		return
	}

	jsonWrite(w, http.StatusCreated, map[string]any{"msg": "User registered", "id": id})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if !decodeBody(w, r, &in) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), in.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, in.Password) {
		// Same answer whether the email or the password was wrong.
		jsonError(w, "incorrect email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.IssueToken(user.ID, user.EmailID)
	if err != nil {
		writeErr(w, err)
		return
	}

	jsonOK(w, map[string]any{"msg": "Login successful", "user_id": user.ID, "token": token})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, user)
}

// userUpdateIn mirrors the partial-update payload. expected_salary arrives
// as either a number or a string depending on the client; both normalise to
// the stored string form.
type userUpdateIn struct {
	Username            *string          `json:"username"`
	Number              *string          `json:"number"`
	DesiredJobRole      *string          `json:"desired_job_role"`
	Skills              *string          `json:"skills"`
	Experience          *int             `json:"experience"`
	PreferredLocations  *string          `json:"preferred_locations"`
	RemotePreference    *string          `json:"remote_preference"`
	ProfessionalSummary *string          `json:"professional_summary"`
	ExpectedSalary      *json.RawMessage `json:"expected_salary"`
	Resume              *string          `json:"resume"`
	Password            *string          `json:"password"`
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if c := claimsFrom(r.Context()); c != nil && c.UserID != id {
		jsonError(w, "cannot modify another user's profile", http.StatusForbidden)
		return
	}

	var in userUpdateIn
	if !decodeBody(w, r, &in) {
		return
	}

	upd := store.UserUpdate{
		Username:            in.Username,
		PhoneNumber:         in.Number,
		DesiredJobRole:      in.DesiredJobRole,
		Skills:              in.Skills,
		Experience:          in.Experience,
		PreferredLocations:  in.PreferredLocations,
		ProfessionalSummary: in.ProfessionalSummary,
		Resume:              in.Resume,
	}

	if in.RemotePreference != nil {
		pref, err := model.ParseRemotePreference(*in.RemotePreference)
		if err != nil {
			jsonError(w, "invalid remote preference value", http.StatusBadRequest)
			return
		}
		upd.RemotePreference = &pref
	}

	if in.ExpectedSalary != nil {
		salary := normalizeSalary(*in.ExpectedSalary)
		upd.ExpectedSalary = &salary
	}

	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		upd.PasswordHash = &hash
	}

	if err := h.users.Update(r.Context(), id, upd); err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, map[string]string{"msg": "User updated"})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if c := claimsFrom(r.Context()); c != nil && c.UserID != id {
		jsonError(w, "cannot delete another user's account", http.StatusForbidden)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, map[string]string{"msg": "User deleted"})
}

type feedbackIn struct {
	Feedback string         `json:"feedback"`
	Metadata map[string]any `json:"metadata"`
}

func (h *Handler) logFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var in feedbackIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Feedback == "" {
		jsonError(w, "feedback is required", http.StatusBadRequest)
		return
	}

	meta := map[string]any{"feedback": in.Feedback}
	for k, v := range in.Metadata {
		meta[k] = v
	}

	activityID, err := h.activity.LogActivity(r.Context(), id, nil, "feedback", meta)
	if err != nil {
		writeErr(w, err)
		return
	}
	jsonOK(w, map[string]any{"msg": "Feedback logged", "activity_id": activityID})
}

// normalizeSalary turns a raw JSON number or string into the stored string
// form.
func normalizeSalary(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}
