package enrich

import (
	"context"
	"strings"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// defaultVocabulary is the technology vocabulary the keyword extractor
// scans descriptions for. Matching is case-insensitive on word boundaries.
var defaultVocabulary = []string{
	"python", "go", "golang", "java", "javascript", "typescript", "ruby",
	"rust", "c++", "c#", "php", "kotlin", "swift", "scala", "sql",
	"react", "angular", "vue", "next.js", "node.js", "django", "flask",
	"fastapi", "spring", "rails", "laravel",
	"postgresql", "postgres", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq",
	"docker", "kubernetes", "terraform", "ansible", "aws", "gcp", "azure",
	"linux", "git", "graphql", "grpc", "rest",
}

// KeywordExtractor is the default Enricher: it trims whitespace noise from
// the description and extracts skills by vocabulary match. Deterministic and
// dependency-free, so it can run on every ingested job.
type KeywordExtractor struct {
	vocabulary []string
}

// NewKeywordExtractor returns an extractor over the given vocabulary, or the
// default vocabulary when names is empty.
func NewKeywordExtractor(names []string) *KeywordExtractor {
	if len(names) == 0 {
		names = defaultVocabulary
	}
	return &KeywordExtractor{vocabulary: names}
}

// Enrich cleans the description and scans it for known technology names.
func (k *KeywordExtractor) Enrich(ctx context.Context, job theirstack.Job) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return Fields{}, err
	}

	cleaned := cleanDescription(job.Description)
	lower := " " + strings.ToLower(cleaned) + " "

	var skills []string
	seen := make(map[string]struct{})
	for _, name := range k.vocabulary {
		if !containsTerm(lower, strings.ToLower(name)) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		skills = append(skills, name)
	}

	return Fields{CleanedDescription: cleaned, Skills: skills}, nil
}

// cleanDescription collapses runs of whitespace and strips leading/trailing
// blank space. Raw source descriptions often carry markup line-break litter.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// containsTerm reports whether term occurs in text delimited by non-word
// characters, so "go" does not match inside "mongodb". text and term must
// already be lowercase; text must be padded with one leading and trailing
// space.
func containsTerm(text, term string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		i += start
		before := text[i-1]
		after := byte(' ')
		if i+len(term) < len(text) {
			after = text[i+len(term)]
		}
		if isBoundary(before) && isBoundary(after) {
			return true
		}
		start = i + 1
	}
}

func isBoundary(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return false
	case c >= '0' && c <= '9':
		return false
	}
	return true
}
