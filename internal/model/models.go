// Package model defines the shared row structures persisted by the service.
package model

import (
	"fmt"
	"time"
)

// RemotePreference mirrors the remote_preference enum stored on users.
type RemotePreference string

const (
	RemotePreferenceRemote RemotePreference = "Remote"
	RemotePreferenceHybrid RemotePreference = "Hybrid"
	RemotePreferenceOnsite RemotePreference = "Onsite"
)

// ParseRemotePreference converts a raw string to a RemotePreference,
// returning an error for unknown values.
func ParseRemotePreference(s string) (RemotePreference, error) {
	p := RemotePreference(s)
	switch p {
	case RemotePreferenceRemote, RemotePreferenceHybrid, RemotePreferenceOnsite:
		return p, nil
	}
	return "", fmt.Errorf("unknown remote preference %q", s)
}

// User is a stored user profile. Skills and PreferredLocations are projected
// from the association tables, never written directly on this struct.
type User struct {
	ID                  int64             `json:"id"`
	UserName            string            `json:"username"`
	PhoneNumber         *string           `json:"phone_number"`
	EmailID             string            `json:"email"`
	PasswordHash        string            `json:"-"`
	DesiredJobRole      *string           `json:"desired_job_role"`
	Experience          *int              `json:"experience"`
	RemotePreference    *RemotePreference `json:"remote_preference"`
	ProfessionalSummary *string           `json:"professional_summary"`
	ExpectedSalary      *string           `json:"expected_salary"`
	Resume              *string           `json:"resume"`
	JoinedDate          *time.Time        `json:"joined_date"`
	Skills              []string          `json:"skills"`
	PreferredLocations  []string          `json:"preferred_locations"`
}

// Company is a stored employer record resolved from the source API's
// company_object. APICompanyID is the sole dedup key.
type Company struct {
	ID              int64
	APICompanyID    string
	CompanyName     *string
	CompanyDomain   *string
	Industry        *string
	Country         *string
	CountryCode     *string
	URL             *string
	LongDescription *string
	LinkedinURL     *string
	LinkedinID      *string
	IndustryID      *string
	Logo            *string
	FetchedDate     *time.Time
}

// Technology identity is the case-insensitive name; the slug keeps the
// first-seen lowercase-hyphenated form.
type Technology struct {
	ID   int64
	Name string
	Slug string
}

// Location is a free-text place name users can prefer.
type Location struct {
	ID   int64
	Name string
}

// JobListing is a normalised job row ingested from the external source.
// APIID uniquely identifies the job at the source; a nil APIID means the
// source omitted it.
type JobListing struct {
	ID               int64      `json:"id"`
	APIID            *string    `json:"api_id"`
	JobTitle         string     `json:"job_title"`
	URL              *string    `json:"url"`
	DatePosted       *time.Time `json:"date_posted"`
	EmploymentStatus *string    `json:"employment_status"`
	Company          *string    `json:"company"`
	CompanyDomain    *string    `json:"company_domain"`
	CompanyID        *int64     `json:"company_obj_id"`
	FinalURL         *string    `json:"final_url"`
	SourceURL        *string    `json:"source_url"`
	Location         *string    `json:"location"`
	Remote           bool       `json:"remote"`
	Hybrid           bool       `json:"hybrid"`
	SalaryString     *string    `json:"salary_string"`
	MinSalary        *int       `json:"min_salary"`
	MaxSalary        *int       `json:"max_salary"`
	Currency         *string    `json:"currency"`
	Country          *string    `json:"country"`
	CountryCode      *string    `json:"country_code"`
	Seniority        *string    `json:"seniority"`
	DiscoveredAt     time.Time  `json:"discovered_at"`
	Description      *string    `json:"description"`
	Reposted         bool       `json:"reposted"`
	DateReposted     *time.Time `json:"date_reposted"`
	JobExpired       bool       `json:"job_expired"`
	IndustryID       *string    `json:"industry_id"`
	MatchingPhrase   []string   `json:"matching_phrase"`
	MatchingWords    []string   `json:"matching_words"`
	Technologies     []string   `json:"technologies"`
}

// UserActivityLog is an append-only event row. Rows are created once and
// never updated.
type UserActivityLog struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	JobID      *int64         `json:"job_id"`
	ActionType string         `json:"action_type"`
	Metadata   map[string]any `json:"activity_metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}

// UserResume is an append-only generated-resume artifact.
type UserResume struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	JobID     *int64    `json:"job_id"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchScoreLog is an append-only record of a job/user match analysis.
type MatchScoreLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	JobID       int64     `json:"job_id"`
	Score       int       `json:"score"`
	Explanation *string   `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
}
