package ingest

import (
	"testing"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ── resolveCompany — unresolvable records ──────────────────────────────────

// A missing company record or a zero external id must skip the link without
// staging a row and without failing ingestion. The nil tx proves storage is
// never touched on this path.
func TestResolveCompany_MissingExternalIDSkips(t *testing.T) {
	cases := []struct {
		name string
		raw  *theirstack.CompanyObject
	}{
		{"nil record", nil},
		{"zero id", &theirstack.CompanyObject{Name: "Acme"}},
	}
	for _, c := range cases {
		id, created, err := resolveCompany(t.Context(), nil, c.raw)
		if err != nil {
			t.Errorf("%s: resolveCompany returned unexpected error: %v", c.name, err)
		}
		if id != nil {
			t.Errorf("%s: company id = %v, want nil (no link)", c.name, *id)
		}
		if created {
			t.Errorf("%s: created = true, want false (no row staged)", c.name)
		}
	}
}

// ── companyAPIID ───────────────────────────────────────────────────────────

func TestCompanyAPIID(t *testing.T) {
	cases := []struct {
		raw  *theirstack.CompanyObject
		want string
	}{
		{nil, ""},
		{&theirstack.CompanyObject{ID: 0}, ""},
		{&theirstack.CompanyObject{ID: 12345}, "12345"},
	}
	for _, c := range cases {
		if got := companyAPIID(c.raw); got != c.want {
			t.Errorf("companyAPIID(%+v) = %q, want %q", c.raw, got, c.want)
		}
	}
}

// ── technology identity ────────────────────────────────────────────────────

// Names differing only in case must resolve to one technology: the dedup
// collapses them before any lookup, and the LOWER(...) lookup key plus the
// slug are identical whichever casing arrives first.
func TestTechnologyIdentity_CaseInsensitive(t *testing.T) {
	deduped := DedupeNames([]string{"PostgreSQL", "postgresql", "POSTGRESQL"})
	if len(deduped) != 1 {
		t.Fatalf("DedupeNames collapsed to %d entries, want 1", len(deduped))
	}
	if deduped[0] != "PostgreSQL" {
		t.Errorf("kept casing = %q, want first-seen PostgreSQL", deduped[0])
	}
	if Slugify("PostgreSQL") != Slugify("postgresql") {
		t.Errorf("slug differs by input casing: %q vs %q",
			Slugify("PostgreSQL"), Slugify("postgresql"))
	}
	if got := Slugify("Ruby On Rails"); got != "ruby-on-rails" {
		t.Errorf("Slugify(\"Ruby On Rails\") = %q, want ruby-on-rails", got)
	}
}
