package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// resolveCompany returns the internal company id for a raw company_object,
// inserting a new row when the external id is unseen. The insert is staged
// inside tx — durability is decided by the pipeline's commit.
//
// A record without an external company id is unresolvable: it is skipped
// with a warning and the job is stored with no company link. created reports
// whether a new row was staged.
func resolveCompany(ctx context.Context, tx pgx.Tx, raw *theirstack.CompanyObject) (id *int64, created bool, err error) {
	apiID := companyAPIID(raw)
	if apiID == "" {
		if raw != nil {
			slog.Warn("company record missing external id, skipping link", "company", raw.Name)
		}
		return nil, false, nil
	}

	var existing int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM companies WHERE api_company_id = $1`, apiID,
	).Scan(&existing)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("company lookup %q: %w", apiID, err)
	}

	var industryID *string
	if raw.IndustryID != nil {
		s := strconv.FormatInt(*raw.IndustryID, 10)
		industryID = &s
	}

	var inserted int64
	err = tx.QueryRow(ctx,
		`INSERT INTO companies (
			api_company_id, company_name, company_domain, industry, country,
			country_code, url, long_description, linkedin_url, linkedin_id,
			industry_id, logo, fetched_date
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		apiID,
		ptrIfNotEmpty(raw.Name),
		ptrIfNotEmpty(raw.Domain),
		ptrIfNotEmpty(raw.Industry),
		ptrIfNotEmpty(raw.Country),
		ptrIfNotEmpty(raw.CountryCode),
		ptrIfNotEmpty(raw.URL),
		ptrIfNotEmpty(raw.LongDescription),
		ptrIfNotEmpty(raw.LinkedinURL),
		ptrIfNotEmpty(raw.LinkedinID),
		industryID,
		ptrIfNotEmpty(raw.Logo),
		time.Now().UTC(),
	).Scan(&inserted)
	if err != nil {
		return nil, false, fmt.Errorf("company insert %q: %w", apiID, err)
	}

	return &inserted, true, nil
}

// companyAPIID converts the numeric external company id to its stored string
// form, the companies.api_company_id dedup key. Absent records and zero ids
// are unresolvable and map to "".
func companyAPIID(raw *theirstack.CompanyObject) string {
	if raw == nil || raw.ID == 0 {
		return ""
	}
	return strconv.FormatInt(raw.ID, 10)
}

// resolveTechnologies maps skill names to technology ids, staging new rows
// for unseen names. Identity is the case-insensitive name; the first-seen
// casing and slug win. The input is de-duplicated first so one call never
// stages the same name twice.
func resolveTechnologies(ctx context.Context, tx pgx.Tx, names []string) ([]int64, error) {
	var ids []int64
	for _, name := range DedupeNames(names) {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM technologies WHERE LOWER(technology_name) = LOWER($1)`, name,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx,
				`INSERT INTO technologies (technology_name, technology_slug)
				 VALUES ($1, $2) RETURNING id`,
				name, Slugify(name),
			).Scan(&id)
		}
		if err != nil {
			return nil, fmt.Errorf("technology resolve %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DedupeNames removes case-insensitive duplicates, keeping the first-seen
// casing and order.
func DedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Slugify derives a technology slug: lowercase with spaces as hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
