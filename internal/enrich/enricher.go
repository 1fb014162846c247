// Package enrich provides the best-effort description-cleaning and
// skill-extraction step run on each raw job before persistence.
//
// Enrichment is never fatal to ingestion: callers apply a fixed timeout and
// fall back to the raw description with no skills when it fails.
package enrich

import (
	"context"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// Fields is the output of one enrichment pass.
type Fields struct {
	CleanedDescription string
	Skills             []string
}

// Enricher cleans a raw job description and extracts skill names from it.
type Enricher interface {
	Enrich(ctx context.Context, job theirstack.Job) (Fields, error)
}

// Nop is a passthrough enricher used when no enrichment backend is
// configured. It returns the description unchanged and no skills.
type Nop struct{}

// NewNop returns a Nop enricher.
func NewNop() *Nop {
	return &Nop{}
}

// Enrich returns the job's description as-is.
func (n *Nop) Enrich(_ context.Context, job theirstack.Job) (Fields, error) {
	return Fields{CleanedDescription: job.Description}, nil
}
