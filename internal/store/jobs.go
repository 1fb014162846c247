package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KnightCoder27/Skael/internal/model"
)

// JobStore serves read-only views over persisted job listings.
type JobStore struct {
	pool *pgxpool.Pool
}

// NewJobStore returns a JobStore over pool.
func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

// jobColumns is the projection shared by every listing query.
const jobColumns = `j.id, j.api_id, j.job_title, j.url, j.date_posted,
	j.employment_status, j.company, j.company_domain, j.company_obj_id,
	j.final_url, j.source_url, j.location, j.remote, j.hybrid,
	j.salary_string, j.min_salary, j.max_salary, j.currency, j.country,
	j.country_code, j.seniority, j.discovered_at, j.description, j.reposted,
	j.date_reposted, j.job_expired, j.industry_id, j.matching_phrase,
	j.matching_words`

// List returns a page of listings, newest discovery first.
func (s *JobStore) List(ctx context.Context, offset, limit int) ([]model.JobListing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM job_listings j
		 ORDER BY j.discovered_at DESC
		 OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("job list: %w", err)
	}
	defer rows.Close()
	return s.collectWithTechnologies(ctx, rows)
}

// Filter returns listings matching an exact technology name (via the join
// table) and/or an exact location. Empty filters are skipped.
func (s *JobStore) Filter(ctx context.Context, technology, location string) ([]model.JobListing, error) {
	query := `SELECT ` + jobColumns + ` FROM job_listings j`
	var (
		clauses []string
		args    []any
	)
	if technology != "" {
		query += ` JOIN job_technologies_association jta ON jta.job_listing_id = j.id
			 JOIN technologies t ON t.id = jta.technology_id`
		args = append(args, technology)
		clauses = append(clauses, fmt.Sprintf("t.technology_name = $%d", len(args)))
	}
	if location != "" {
		args = append(args, location)
		clauses = append(clauses, fmt.Sprintf("j.location = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY j.discovered_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("job filter: %w", err)
	}
	defer rows.Close()
	return s.collectWithTechnologies(ctx, rows)
}

// SearchByKeywords returns listings whose description contains any keyword,
// case-insensitively. No keywords degrades to a plain page.
func (s *JobStore) SearchByKeywords(ctx context.Context, keywords []string, offset, limit int) ([]model.JobListing, error) {
	var terms []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			terms = append(terms, kw)
		}
	}
	if len(terms) == 0 {
		return s.List(ctx, offset, limit)
	}

	var (
		clauses []string
		args    []any
	)
	for _, kw := range terms {
		args = append(args, "%"+kw+"%")
		clauses = append(clauses, fmt.Sprintf("j.description ILIKE $%d", len(args)))
	}
	args = append(args, offset, limit)

	query := `SELECT ` + jobColumns + `
		 FROM job_listings j
		 WHERE ` + strings.Join(clauses, " OR ") + `
		 ORDER BY j.discovered_at DESC
		 OFFSET $` + fmt.Sprint(len(args)-1) + ` LIMIT $` + fmt.Sprint(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("job keyword search: %w", err)
	}
	defer rows.Close()
	return s.collectWithTechnologies(ctx, rows)
}

// GetByID loads one listing by internal id.
func (s *JobStore) GetByID(ctx context.Context, id int64) (*model.JobListing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_listings j WHERE j.id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job lookup: %w", err)
	}

	techs, err := s.technologiesFor(ctx, []int64{job.ID})
	if err != nil {
		return nil, err
	}
	job.Technologies = techs[job.ID]
	if job.Technologies == nil {
		job.Technologies = []string{}
	}
	return job, nil
}

// collectWithTechnologies scans all rows and batch-attaches technology
// names so listings never fan out into per-row queries.
func (s *JobStore) collectWithTechnologies(ctx context.Context, rows pgx.Rows) ([]model.JobListing, error) {
	jobs := make([]model.JobListing, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("job scan: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	ids := make([]int64, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}
	techs, err := s.technologiesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if names := techs[jobs[i].ID]; names != nil {
			jobs[i].Technologies = names
		} else {
			jobs[i].Technologies = []string{}
		}
	}
	return jobs, nil
}

// technologiesFor maps job id → technology names for a batch of jobs.
func (s *JobStore) technologiesFor(ctx context.Context, jobIDs []int64) (map[int64][]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT jta.job_listing_id, t.technology_name
		 FROM job_technologies_association jta
		 JOIN technologies t ON t.id = jta.technology_id
		 WHERE jta.job_listing_id = ANY($1)
		 ORDER BY t.technology_name`, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("job technologies: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var jobID int64
		var name string
		if err := rows.Scan(&jobID, &name); err != nil {
			return nil, err
		}
		out[jobID] = append(out[jobID], name)
	}
	return out, rows.Err()
}

// scanJob reads one listing row in jobColumns order.
func scanJob(row pgx.Row) (*model.JobListing, error) {
	var j model.JobListing
	err := row.Scan(
		&j.ID, &j.APIID, &j.JobTitle, &j.URL, &j.DatePosted,
		&j.EmploymentStatus, &j.Company, &j.CompanyDomain, &j.CompanyID,
		&j.FinalURL, &j.SourceURL, &j.Location, &j.Remote, &j.Hybrid,
		&j.SalaryString, &j.MinSalary, &j.MaxSalary, &j.Currency, &j.Country,
		&j.CountryCode, &j.Seniority, &j.DiscoveredAt, &j.Description,
		&j.Reposted, &j.DateReposted, &j.JobExpired, &j.IndustryID,
		&j.MatchingPhrase, &j.MatchingWords,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// StoredAPIIDs returns every known external job id, used as the exclusion
// list sent to the source API.
func (s *JobStore) StoredAPIIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT api_id FROM job_listings WHERE api_id IS NOT NULL ORDER BY api_id`)
	if err != nil {
		return nil, fmt.Errorf("stored api ids: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}
