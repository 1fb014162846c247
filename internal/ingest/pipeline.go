// Package ingest converts raw Theirstack job records into persisted,
// deduplicated rows: companies, technologies and job listings.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/KnightCoder27/Skael/internal/enrich"
	"github.com/KnightCoder27/Skael/internal/model"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// enrichTimeout bounds the best-effort enrichment step per job.
const enrichTimeout = 10 * time.Second

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// EventJobsIngested is the Redis channel ingestion summaries publish to.
const EventJobsIngested = "EVENT_JOBS_INGESTED"

// Summary reports what one ingestion run staged and committed.
type Summary struct {
	NewCompanies int `json:"new_companies"`
	NewJobs      int `json:"new_jobs"`
}

// PersistenceError reports a failed ingestion transaction. The whole batch
// rolled back; Attempted carries how many jobs were in flight so the caller
// can retry. Duplicate marks a unique-violation race with a concurrent
// ingester rather than a storage fault.
type PersistenceError struct {
	Attempted int
	Duplicate bool
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("ingest: concurrent duplicate while persisting %d job(s): %v", e.Attempted, e.Err)
	}
	return fmt.Sprintf("ingest: persisting %d job(s) failed: %v", e.Attempted, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Pipeline ingests raw jobs into storage. Construct with New.
type Pipeline struct {
	pool     *pgxpool.Pool
	rdb      *redis.Client // nil disables event publishing
	enricher enrich.Enricher
}

// New returns a Pipeline. enricher may be nil for a passthrough default.
func New(pool *pgxpool.Pool, rdb *redis.Client, enricher enrich.Enricher) *Pipeline {
	if enricher == nil {
		enricher = enrich.NewNop()
	}
	return &Pipeline{pool: pool, rdb: rdb, enricher: enricher}
}

// Ingest persists every raw job whose external id is not already stored.
// The whole batch commits in a single transaction; on any error it rolls
// back entirely and the returned *PersistenceError carries the attempted
// count. Ingestion is idempotent per external id.
func (p *Pipeline) Ingest(ctx context.Context, rawJobs []theirstack.Job) (Summary, error) {
	existing, err := p.storedAPIIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load stored api ids: %w", err)
	}

	fresh := FilterNew(rawJobs, existing)
	if len(fresh) == 0 {
		return Summary{}, nil
	}

	var summary Summary
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Summary{}, &PersistenceError{Attempted: len(fresh), Err: err}
	}
	defer tx.Rollback(ctx)

	for _, raw := range fresh {
		fields := p.enrichJob(ctx, raw)

		companyID, created, err := resolveCompany(ctx, tx, raw.CompanyObject)
		if err != nil {
			return Summary{}, persistenceErr(len(fresh), err)
		}
		if created {
			summary.NewCompanies++
		}

		techIDs, err := resolveTechnologies(ctx, tx, fields.Skills)
		if err != nil {
			return Summary{}, persistenceErr(len(fresh), err)
		}

		listing := BuildListing(raw, fields, companyID)

		var jobID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO job_listings (
				api_id, job_title, url, date_posted, employment_status,
				company, company_domain, company_obj_id, final_url, source_url,
				location, remote, hybrid, salary_string, min_salary, max_salary,
				currency, country, country_code, seniority, description,
				reposted, date_reposted, job_expired, industry_id,
				matching_phrase, matching_words, discovered_at
			 ) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
				$27, $28
			 ) RETURNING id`,
			listing.APIID, listing.JobTitle, listing.URL, listing.DatePosted,
			listing.EmploymentStatus, listing.Company, listing.CompanyDomain,
			listing.CompanyID, listing.FinalURL, listing.SourceURL,
			listing.Location, listing.Remote, listing.Hybrid,
			listing.SalaryString, listing.MinSalary, listing.MaxSalary,
			listing.Currency, listing.Country, listing.CountryCode,
			listing.Seniority, listing.Description, listing.Reposted,
			listing.DateReposted, listing.JobExpired, listing.IndustryID,
			listing.MatchingPhrase, listing.MatchingWords, listing.DiscoveredAt,
		).Scan(&jobID)
		if err != nil {
			return Summary{}, persistenceErr(len(fresh), err)
		}

		for _, techID := range techIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_technologies_association (job_listing_id, technology_id)
				 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				jobID, techID,
			); err != nil {
				return Summary{}, persistenceErr(len(fresh), err)
			}
		}
		summary.NewJobs++
	}

	if err := tx.Commit(ctx); err != nil {
		return Summary{}, persistenceErr(len(fresh), err)
	}

	p.publishSummary(ctx, summary)
	return summary, nil
}

// storedAPIIDs loads the full dedup set in one query.
func (p *Pipeline) storedAPIIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT api_id FROM job_listings WHERE api_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// enrichJob runs the best-effort enrichment step under a fixed timeout.
// Failure is logged and absorbed: the raw description is kept and no skills
// are extracted.
func (p *Pipeline) enrichJob(ctx context.Context, raw theirstack.Job) enrich.Fields {
	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	fields, err := p.enricher.Enrich(enrichCtx, raw)
	if err != nil {
		slog.Warn("enrichment failed, keeping raw description",
			"job_id", raw.ID, "err", err)
		return enrich.Fields{CleanedDescription: raw.Description}
	}
	return fields
}

// publishSummary emits EVENT_JOBS_INGESTED after a successful commit.
// Non-fatal: a dead broker never fails an ingestion that already committed.
func (p *Pipeline) publishSummary(ctx context.Context, s Summary) {
	if p.rdb == nil || s.NewJobs == 0 {
		return
	}
	event, _ := json.Marshal(s)
	if err := p.rdb.Publish(ctx, EventJobsIngested, event).Err(); err != nil {
		slog.Warn("publish EVENT_JOBS_INGESTED failed", "err", err)
	}
}

// FilterNew drops raw jobs whose external id is already stored, and
// collapses duplicate ids within the batch itself.
func FilterNew(rawJobs []theirstack.Job, existing map[string]struct{}) []theirstack.Job {
	var out []theirstack.Job
	seen := make(map[string]struct{}, len(rawJobs))
	for _, j := range rawJobs {
		id := strconv.FormatInt(j.ID, 10)
		if _, dup := existing[id]; dup {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, j)
	}
	return out
}

// BuildListing maps a raw source record plus enrichment output onto the
// internal row shape. Pure field mapping, no storage access.
func BuildListing(raw theirstack.Job, fields enrich.Fields, companyID *int64) model.JobListing {
	apiID := strconv.FormatInt(raw.ID, 10)

	listing := model.JobListing{
		APIID:          &apiID,
		JobTitle:       raw.JobTitle,
		URL:            ptrIfNotEmpty(raw.URL),
		DatePosted:     parseDate(raw.DatePosted),
		Company:        ptrIfNotEmpty(raw.Company),
		CompanyDomain:  ptrIfNotEmpty(raw.CompanyDomain),
		CompanyID:      companyID,
		FinalURL:       ptrIfNotEmpty(raw.FinalURL),
		SourceURL:      ptrIfNotEmpty(raw.SourceURL),
		Location:       ptrIfNotEmpty(raw.Location),
		Remote:         raw.Remote,
		Hybrid:         raw.Hybrid,
		SalaryString:   ptrIfNotEmpty(raw.SalaryString),
		MinSalary:      raw.MinAnnualSalary,
		MaxSalary:      raw.MaxAnnualSalary,
		Currency:       ptrIfNotEmpty(raw.SalaryCurrency),
		Country:        ptrIfNotEmpty(raw.Country),
		CountryCode:    ptrIfNotEmpty(raw.CountryCode),
		Seniority:      ptrIfNotEmpty(raw.Seniority),
		DiscoveredAt:   time.Now().UTC(),
		Description:    ptrIfNotEmpty(fields.CleanedDescription),
		Reposted:       raw.Reposted,
		DateReposted:   parseDate(raw.DateReposted),
		JobExpired:     false,
		MatchingPhrase: raw.MatchingPhrase,
		MatchingWords:  raw.MatchingWords,
	}

	if len(raw.EmploymentStatus) > 0 {
		joined := strings.Join(raw.EmploymentStatus, ", ")
		listing.EmploymentStatus = &joined
	}

	// industry_id rides on the nested company_object, not the job itself.
	if raw.CompanyObject != nil && raw.CompanyObject.IndustryID != nil {
		s := strconv.FormatInt(*raw.CompanyObject.IndustryID, 10)
		listing.IndustryID = &s
	}

	return listing
}

// parseDate accepts the source's YYYY-MM-DD format; anything else is nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// persistenceErr wraps err, classifying unique violations as concurrent
// duplicates.
func persistenceErr(attempted int, err error) *PersistenceError {
	var pgErr *pgconn.PgError
	dup := errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
	return &PersistenceError{Attempted: attempted, Duplicate: dup, Err: err}
}
