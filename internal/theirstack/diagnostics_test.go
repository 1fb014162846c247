package theirstack_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// ── ResponseCache ──────────────────────────────────────────────────────────

func TestResponseCache_AppendsStampedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.jsonl")
	cache := theirstack.NewResponseCache(path)

	if err := cache.Record([]byte(`{"data":[]}`)); err != nil {
		t.Fatalf("Record returned unexpected error: %v", err)
	}
	if err := cache.Record([]byte(`{"data":[{"id":1}]}`)); err != nil {
		t.Fatalf("Record returned unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open cache file: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var entry struct {
			ResponseReceivedAt string          `json:"response_received_at"`
			Response           json.RawMessage `json:"response"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if entry.ResponseReceivedAt == "" {
			t.Errorf("line %d missing response_received_at", lines)
		}
		if len(entry.Response) == 0 {
			t.Errorf("line %d missing response payload", lines)
		}
	}
	if lines != 2 {
		t.Errorf("cache has %d lines, want 2", lines)
	}
}
