package theirstack_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ── BuildSearchRequest ─────────────────────────────────────────────────────

func TestBuildSearchRequest_LowercasesCriteria(t *testing.T) {
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{
		JobTitles: []string{"Backend Engineer"},
		Skills:    []string{"Python", "GoLang"},
		Locations: []string{"Berlin"},
		Countries: []string{"DE"},
	}, nil)

	if req.JobTitlePatternOr[0] != "backend engineer" {
		t.Errorf("job title = %q, want lowercased", req.JobTitlePatternOr[0])
	}
	if req.JobTechnologySlugOr[0] != "python" || req.JobTechnologySlugOr[1] != "golang" {
		t.Errorf("skills = %v, want lowercased", req.JobTechnologySlugOr)
	}
	if req.JobLocationPatternOr[0] != "berlin" {
		t.Errorf("location = %q, want lowercased", req.JobLocationPatternOr[0])
	}
	if req.JobCountryCodeOr[0] != "de" {
		t.Errorf("country = %q, want lowercased", req.JobCountryCodeOr[0])
	}
}

func TestBuildSearchRequest_Defaults(t *testing.T) {
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{}, nil)

	if req.Limit != 25 {
		t.Errorf("default limit = %d, want 25", req.Limit)
	}
	if req.PostedAtMaxAgeDays != 30 {
		t.Errorf("posted_at_max_age_days = %d, want 30", req.PostedAtMaxAgeDays)
	}
	if len(req.OrderBy) != 2 {
		t.Fatalf("order_by has %d entries, want 2", len(req.OrderBy))
	}
	if req.OrderBy[0].Field != "date_posted" || !req.OrderBy[0].Desc {
		t.Errorf("order_by[0] = %+v, want date_posted desc", req.OrderBy[0])
	}
	if req.OrderBy[1].Field != "discovered_at" || !req.OrderBy[1].Desc {
		t.Errorf("order_by[1] = %+v, want discovered_at desc", req.OrderBy[1])
	}
}

// Unset criteria must vanish from the JSON entirely — the API rejects empty
// filter arrays.
func TestBuildSearchRequest_UnsetFieldsOmitted(t *testing.T) {
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{}, nil)

	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	payload := string(raw)

	for _, field := range []string{
		"job_title_pattern_or",
		"job_technology_slug_or",
		"job_seniority_or",
		"job_location_pattern_or",
		"job_country_code_or",
		"remote",
		"job_id_not",
	} {
		if strings.Contains(payload, `"`+field+`"`) {
			t.Errorf("payload contains %q, want it omitted: %s", field, payload)
		}
	}
}

func TestBuildSearchRequest_RemoteOnlyTravelsWhenTrue(t *testing.T) {
	remoteFalse := false
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{Remote: &remoteFalse}, nil)
	if req.Remote != nil {
		t.Error("remote=false should be omitted from the payload")
	}

	remoteTrue := true
	req = theirstack.BuildSearchRequest(theirstack.SearchCriteria{Remote: &remoteTrue}, nil)
	if req.Remote == nil || !*req.Remote {
		t.Error("remote=true should travel in the payload")
	}
}

func TestBuildSearchRequest_KnownIDsBecomeExclusions(t *testing.T) {
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{}, []string{"101", "102"})
	if len(req.JobIDNot) != 2 || req.JobIDNot[0] != "101" || req.JobIDNot[1] != "102" {
		t.Errorf("job_id_not = %v, want [101 102]", req.JobIDNot)
	}
}

func TestBuildSearchRequest_SeniorityFromExperience(t *testing.T) {
	years := 5
	req := theirstack.BuildSearchRequest(theirstack.SearchCriteria{Experience: &years}, nil)
	if len(req.JobSeniorityOr) != 2 || req.JobSeniorityOr[0] != "mid_level" || req.JobSeniorityOr[1] != "senior" {
		t.Errorf("job_seniority_or = %v, want [mid_level senior]", req.JobSeniorityOr)
	}
}

// ── Search ─────────────────────────────────────────────────────────────────

func TestSearch_ReturnsJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/search" {
			t.Errorf("path = %q, want /jobs/search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata":{},"data":[
			{"id":7,"job_title":"Go Developer","remote":true},
			{"id":8,"job_title":"Platform Engineer"}
		]}`))
	}))
	defer srv.Close()

	client := theirstack.NewClient(srv.URL, "test-key", nil)
	jobs, err := client.Search(t.Context(), theirstack.SearchCriteria{}, nil)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != 7 || jobs[0].JobTitle != "Go Developer" || !jobs[0].Remote {
		t.Errorf("jobs[0] = %+v, want id 7 Go Developer remote", jobs[0])
	}
}

// company_object.id arrives as a JSON number; a response carrying company
// data must parse, not fail the whole search.
func TestSearch_ParsesNumericCompanyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadata":{},"data":[
			{"id":7,"job_title":"Go Developer",
			 "company_object":{"id":12345,"name":"Acme","industry_id":8}}
		]}`))
	}))
	defer srv.Close()

	client := theirstack.NewClient(srv.URL, "test-key", nil)
	jobs, err := client.Search(t.Context(), theirstack.SearchCriteria{}, nil)
	if err != nil {
		t.Fatalf("Search returned unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	co := jobs[0].CompanyObject
	if co == nil {
		t.Fatal("CompanyObject is nil, want parsed record")
	}
	if co.ID != 12345 {
		t.Errorf("CompanyObject.ID = %d, want 12345", co.ID)
	}
	if co.IndustryID == nil || *co.IndustryID != 8 {
		t.Errorf("CompanyObject.IndustryID = %v, want 8", co.IndustryID)
	}
}

func TestSearch_UpstreamErrorBecomesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"job_title_pattern_or must not be empty"}`))
	}))
	defer srv.Close()

	client := theirstack.NewClient(srv.URL, "test-key", nil)
	_, err := client.Search(t.Context(), theirstack.SearchCriteria{}, nil)

	var fetchErr *theirstack.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Search error = %v, want *FetchError", err)
	}
	if fetchErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", fetchErr.Status)
	}
	if !strings.Contains(fetchErr.Body, "job_title_pattern_or") {
		t.Errorf("Body = %q, want upstream detail preserved", fetchErr.Body)
	}
}

func TestSearch_MalformedJSONBecomesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	client := theirstack.NewClient(srv.URL, "test-key", nil)
	_, err := client.Search(t.Context(), theirstack.SearchCriteria{}, nil)

	var fetchErr *theirstack.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Search error = %v, want *FetchError", err)
	}
}
