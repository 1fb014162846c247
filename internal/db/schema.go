package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates every table the service persists to. Statements are
// idempotent so Bootstrap can run on every startup.
//
// Uniqueness notes:
//   - job_listings.api_id is the at-most-once ingestion key; the partial
//     unique index tolerates NULL api_id for sources that omit it.
//   - companies.api_company_id is the sole company dedup key.
//   - technologies are unique on LOWER(technology_name); first-seen casing
//     is kept in technology_name.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   BIGSERIAL PRIMARY KEY,
		user_name            TEXT NOT NULL,
		phone_number         TEXT,
		email_id             TEXT NOT NULL UNIQUE,
		password             TEXT NOT NULL,
		desired_job_role     TEXT,
		experience           INTEGER,
		remote_preference    TEXT,
		professional_summary TEXT,
		expected_salary      TEXT,
		resume               TEXT,
		joined_date          TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS location (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS companies (
		id               BIGSERIAL PRIMARY KEY,
		api_company_id   TEXT UNIQUE,
		company_name     TEXT,
		company_domain   TEXT,
		industry         TEXT,
		country          TEXT,
		country_code     VARCHAR(2),
		url              TEXT,
		long_description TEXT,
		linkedin_url     TEXT,
		linkedin_id      TEXT,
		industry_id      TEXT,
		logo             TEXT,
		fetched_date     TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS technologies (
		id              BIGSERIAL PRIMARY KEY,
		technology_name TEXT NOT NULL,
		technology_slug TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS technologies_name_ci_idx
		ON technologies (LOWER(technology_name))`,

	`CREATE TABLE IF NOT EXISTS job_listings (
		id                BIGSERIAL PRIMARY KEY,
		api_id            TEXT,
		job_title         TEXT NOT NULL,
		url               TEXT,
		date_posted       DATE,
		employment_status TEXT,
		company           TEXT,
		company_domain    TEXT,
		company_obj_id    BIGINT REFERENCES companies(id),
		final_url         TEXT,
		source_url        TEXT,
		location          TEXT,
		remote            BOOLEAN NOT NULL DEFAULT FALSE,
		hybrid            BOOLEAN NOT NULL DEFAULT FALSE,
		salary_string     TEXT,
		min_salary        INTEGER,
		max_salary        INTEGER,
		currency          VARCHAR(3),
		country           TEXT,
		country_code      VARCHAR(2),
		seniority         TEXT,
		discovered_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		description       TEXT,
		reposted          BOOLEAN NOT NULL DEFAULT FALSE,
		date_reposted     DATE,
		job_expired       BOOLEAN NOT NULL DEFAULT FALSE,
		industry_id       TEXT,
		matching_phrase   TEXT[],
		matching_words    TEXT[]
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS job_listings_api_id_idx
		ON job_listings (api_id) WHERE api_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS job_listings_location_idx ON job_listings (location)`,

	`CREATE TABLE IF NOT EXISTS user_skills_association (
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		technology_id BIGINT NOT NULL REFERENCES technologies(id),
		PRIMARY KEY (user_id, technology_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_preferred_locations_association (
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		location_id BIGINT NOT NULL REFERENCES location(id),
		PRIMARY KEY (user_id, location_id)
	)`,

	`CREATE TABLE IF NOT EXISTS job_technologies_association (
		job_listing_id BIGINT NOT NULL REFERENCES job_listings(id) ON DELETE CASCADE,
		technology_id  BIGINT NOT NULL REFERENCES technologies(id),
		PRIMARY KEY (job_listing_id, technology_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_activity_log (
		id                BIGSERIAL PRIMARY KEY,
		user_id           BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_id            BIGINT REFERENCES job_listings(id),
		action_type       TEXT NOT NULL,
		activity_metadata JSONB,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_resume (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_id     BIGINT REFERENCES job_listings(id),
		source     TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS match_score_log (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		job_id      BIGINT NOT NULL REFERENCES job_listings(id),
		score       INTEGER NOT NULL,
		explanation TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Bootstrap ensures the full relational schema exists.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
