// Package theirstack implements the client for the Theirstack job-search API.
//
// The search endpoint is case-sensitive and rejects empty filter arrays, so
// the request builder lowercases every string criterion and omits unset
// fields from the payload entirely.
package theirstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.theirstack.com/v1"
	searchPath     = "/jobs/search"
	httpTimeout    = 30 * time.Second

	// maxAgeDays bounds every search to recent postings.
	maxAgeDays = 30

	defaultLimit = 25
)

// Client issues job searches against the Theirstack API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *ResponseCache // nil disables raw-response retention
}

// NewClient constructs a Client. baseURL may be empty to use production;
// cache may be nil to disable diagnostic retention of raw responses.
func NewClient(baseURL, apiKey string, cache *ResponseCache) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: httpTimeout},
		cache:   cache,
	}
}

// SearchCriteria is the caller-facing search input, typically a user's
// stored profile.
type SearchCriteria struct {
	JobTitles  []string
	Skills     []string
	Experience *int // years; nil means no seniority filter
	Locations  []string
	Countries  []string
	Remote     *bool
	Offset     int
	Limit      int
}

// orderBy is one entry of the order_by request field.
type orderBy struct {
	Desc  bool   `json:"desc"`
	Field string `json:"field"`
}

// SearchRequest is the typed jobs/search payload. Every optional field
// carries omitempty: the API rejects empty filter arrays, so unset criteria
// must vanish from the JSON rather than serialise as [] or null.
type SearchRequest struct {
	OrderBy              []orderBy `json:"order_by,omitempty"`
	Offset               int       `json:"offset,omitempty"`
	Limit                int       `json:"limit,omitempty"`
	JobTitlePatternOr    []string  `json:"job_title_pattern_or,omitempty"`
	JobTechnologySlugOr  []string  `json:"job_technology_slug_or,omitempty"`
	JobSeniorityOr       []string  `json:"job_seniority_or,omitempty"`
	JobLocationPatternOr []string  `json:"job_location_pattern_or,omitempty"`
	JobCountryCodeOr     []string  `json:"job_country_code_or,omitempty"`
	Remote               *bool     `json:"remote,omitempty"`
	PostedAtMaxAgeDays   int       `json:"posted_at_max_age_days,omitempty"`
	JobIDNot             []string  `json:"job_id_not,omitempty"`
	IncludeTotalResults  bool      `json:"include_total_results"`
	BlurCompanyData      bool      `json:"blur_company_data"`
}

// CompanyObject is the nested company record attached to each job.
// ID is the external company identifier, sent as a JSON number, and the sole
// dedup key downstream; records without it (zero) are unresolvable.
type CompanyObject struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Domain          string  `json:"domain"`
	Industry        string  `json:"industry"`
	Country         string  `json:"country"`
	CountryCode     string  `json:"country_code"`
	URL             string  `json:"url"`
	LongDescription string  `json:"long_description"`
	LinkedinURL     string  `json:"linkedin_url"`
	LinkedinID      string  `json:"linkedin_id"`
	IndustryID      *int64  `json:"industry_id"`
	Logo            string  `json:"logo"`
}

// Job mirrors one entry of the data list in a jobs/search response.
// Dates arrive as "YYYY-MM-DD" strings and are parsed during ingestion.
type Job struct {
	ID               int64          `json:"id"`
	JobTitle         string         `json:"job_title"`
	URL              string         `json:"url"`
	DatePosted       string         `json:"date_posted"`
	EmploymentStatus []string       `json:"employment_status"`
	Company          string         `json:"company"`
	CompanyDomain    string         `json:"company_domain"`
	FinalURL         string         `json:"final_url"`
	SourceURL        string         `json:"source_url"`
	Location         string         `json:"location"`
	Remote           bool           `json:"remote"`
	Hybrid           bool           `json:"hybrid"`
	SalaryString     string         `json:"salary_string"`
	MinAnnualSalary  *int           `json:"min_annual_salary"`
	MaxAnnualSalary  *int           `json:"max_annual_salary"`
	SalaryCurrency   string         `json:"salary_currency"`
	Country          string         `json:"country"`
	CountryCode      string         `json:"country_code"`
	Seniority        string         `json:"seniority"`
	Description      string         `json:"description"`
	Reposted         bool           `json:"reposted"`
	DateReposted     string         `json:"date_reposted"`
	CompanyObject    *CompanyObject `json:"company_object"`
	MatchingPhrase   []string       `json:"matching_phrase"`
	MatchingWords    []string       `json:"matching_words"`
}

// searchResponse is the top-level jobs/search response.
type searchResponse struct {
	Metadata map[string]any `json:"metadata"`
	Data     []Job          `json:"data"`
}

// FetchError reports an upstream fetch failure: transport errors, non-2xx
// statuses (Status and Body carry the upstream detail) and malformed JSON.
type FetchError struct {
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("theirstack: upstream returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("theirstack: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BuildSearchRequest maps criteria onto the wire payload. knownIDs is the
// set of external job ids already stored, passed as job_id_not so the source
// does not return them again.
func BuildSearchRequest(c SearchCriteria, knownIDs []string) SearchRequest {
	limit := c.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	// remote is a falsy-omitted flag upstream: only an explicit true travels.
	var remote *bool
	if c.Remote != nil && *c.Remote {
		remote = c.Remote
	}

	return SearchRequest{
		OrderBy: []orderBy{
			{Desc: true, Field: "date_posted"},
			{Desc: true, Field: "discovered_at"},
		},
		Offset:               c.Offset,
		Limit:                limit,
		JobTitlePatternOr:    lowerAll(c.JobTitles),
		JobTechnologySlugOr:  lowerAll(c.Skills),
		JobSeniorityOr:       MapExperienceToSeniority(c.Experience),
		JobLocationPatternOr: lowerAll(c.Locations),
		JobCountryCodeOr:     lowerAll(c.Countries),
		Remote:               remote,
		PostedAtMaxAgeDays:   maxAgeDays,
		JobIDNot:             knownIDs,
	}
}

// Search issues one jobs/search call and returns the raw job records.
// Upstream failures of any kind propagate as *FetchError — never swallowed.
func (c *Client) Search(ctx context.Context, criteria SearchCriteria, knownIDs []string) ([]Job, error) {
	payload := BuildSearchRequest(criteria, knownIDs)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("http POST: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		// Validation rejections carry the field detail in the body; keep it.
		log.Printf("[theirstack] 422 from jobs/search: %s", raw)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("json unmarshal: %w", err)}
	}

	if c.cache != nil {
		if err := c.cache.Record(raw); err != nil {
			log.Printf("[theirstack] response cache write failed: %v", err)
		}
	}

	return parsed.Data, nil
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
