package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KnightCoder27/Skael/internal/auth"
	"github.com/KnightCoder27/Skael/internal/httpapi"
)

// newTestMux mounts the routes with a token manager but no storage; every
// case below must be rejected before any store is touched.
func newTestMux(t *testing.T) (*http.ServeMux, *auth.Manager) {
	t.Helper()
	tokens := auth.NewManager("test-secret")
	h := httpapi.NewHandler(nil, nil, nil, tokens, nil, nil)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, tokens
}

func doRequest(mux *http.ServeMux, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if header != nil {
		req.Header = header
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// ── Authentication ─────────────────────────────────────────────────────────

func TestProtectedRoute_MissingAuthorizationHeader(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doRequest(mux, http.MethodGet, "/users/1", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoute_NonBearerHeader(t *testing.T) {
	mux, _ := newTestMux(t)
	header := http.Header{"Authorization": []string{"Basic dXNlcjpwYXNz"}}
	rec := doRequest(mux, http.MethodGet, "/users/1", "", header)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoute_InvalidToken(t *testing.T) {
	mux, _ := newTestMux(t)
	header := http.Header{"Authorization": []string{"Bearer not.a.token"}}
	rec := doRequest(mux, http.MethodGet, "/users/1", "", header)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoute_TokenForAnotherUser(t *testing.T) {
	mux, tokens := newTestMux(t)
	token, err := tokens.IssueToken(2, "other@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned unexpected error: %v", err)
	}

	header := http.Header{
		"Authorization": []string{"Bearer " + token},
		"Content-Type":  []string{"application/json"},
	}
	rec := doRequest(mux, http.MethodDelete, "/users/1", "", header)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// ── Request validation ─────────────────────────────────────────────────────

func TestCreateUser_InvalidJSONBody(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doRequest(mux, http.MethodPost, "/users", "{not json", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body should carry an error message")
	}
}

func TestCreateUser_MissingRequiredFields(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doRequest(mux, http.MethodPost, "/users", `{"username":"dev"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetJob_NonNumericID(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doRequest(mux, http.MethodGet, "/jobs/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogActivity_MissingActionType(t *testing.T) {
	mux, _ := newTestMux(t)
	rec := doRequest(mux, http.MethodPost, "/activity/log", `{"user_id":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// ── MatchScore ─────────────────────────────────────────────────────────────

func TestMatchScore_NoOverlap(t *testing.T) {
	score, matched := httpapi.MatchScore([]string{"python"}, []string{"Go", "Rust"})
	if score != 50 {
		t.Errorf("score = %d, want base 50", score)
	}
	if len(matched) != 0 {
		t.Errorf("matched = %v, want none", matched)
	}
}

func TestMatchScore_CaseInsensitiveOverlap(t *testing.T) {
	score, matched := httpapi.MatchScore([]string{"go", "postgresql"}, []string{"Go", "PostgreSQL", "Kafka"})
	if score != 70 {
		t.Errorf("score = %d, want 50 + 2×10", score)
	}
	if len(matched) != 2 || matched[0] != "Go" || matched[1] != "PostgreSQL" {
		t.Errorf("matched = %v, want listing casing kept", matched)
	}
}

func TestMatchScore_CapsAtMax(t *testing.T) {
	skills := []string{"a", "b", "c", "d", "e", "f"}
	score, _ := httpapi.MatchScore(skills, skills)
	if score != 95 {
		t.Errorf("score = %d, want capped at 95", score)
	}
}
