package enrich_test

import (
	"testing"

	"github.com/KnightCoder27/Skael/internal/enrich"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ── KeywordExtractor ───────────────────────────────────────────────────────

func TestKeywordExtractor_ExtractsKnownTechnologies(t *testing.T) {
	e := enrich.NewKeywordExtractor(nil)
	job := theirstack.Job{Description: "We build services in Go and Python on Kubernetes with PostgreSQL."}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}

	want := map[string]bool{"go": true, "python": true, "kubernetes": true, "postgresql": true}
	if len(fields.Skills) != len(want) {
		t.Fatalf("Skills = %v, want %d entries", fields.Skills, len(want))
	}
	for _, s := range fields.Skills {
		if !want[s] {
			t.Errorf("unexpected skill %q in %v", s, fields.Skills)
		}
	}
}

// "go" must not match inside "mongodb" or "django".
func TestKeywordExtractor_WordBoundaries(t *testing.T) {
	e := enrich.NewKeywordExtractor([]string{"go"})
	job := theirstack.Job{Description: "Experience with mongodb and django required."}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}
	if len(fields.Skills) != 0 {
		t.Errorf("Skills = %v, want none (substring matches forbidden)", fields.Skills)
	}
}

func TestKeywordExtractor_BoundaryPunctuation(t *testing.T) {
	e := enrich.NewKeywordExtractor([]string{"go", "rust"})
	job := theirstack.Job{Description: "Languages: Go, Rust."}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}
	if len(fields.Skills) != 2 {
		t.Errorf("Skills = %v, want [go rust]", fields.Skills)
	}
}

func TestKeywordExtractor_CleansDescription(t *testing.T) {
	e := enrich.NewKeywordExtractor(nil)
	job := theirstack.Job{Description: "  Senior\n\nEngineer \t wanted  "}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}
	if fields.CleanedDescription != "Senior Engineer wanted" {
		t.Errorf("CleanedDescription = %q, want whitespace collapsed", fields.CleanedDescription)
	}
}

func TestKeywordExtractor_CustomVocabulary(t *testing.T) {
	e := enrich.NewKeywordExtractor([]string{"cobol"})
	job := theirstack.Job{Description: "Maintaining COBOL systems, not python."}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}
	if len(fields.Skills) != 1 || fields.Skills[0] != "cobol" {
		t.Errorf("Skills = %v, want [cobol]", fields.Skills)
	}
}

// ── Nop ────────────────────────────────────────────────────────────────────

func TestNop_Passthrough(t *testing.T) {
	e := enrich.NewNop()
	job := theirstack.Job{Description: "  raw   text  "}

	fields, err := e.Enrich(t.Context(), job)
	if err != nil {
		t.Fatalf("Enrich returned unexpected error: %v", err)
	}
	if fields.CleanedDescription != job.Description {
		t.Errorf("CleanedDescription = %q, want untouched description", fields.CleanedDescription)
	}
	if len(fields.Skills) != 0 {
		t.Errorf("Skills = %v, want none", fields.Skills)
	}
}
