package theirstack

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// ResponseCache appends raw jobs/search responses to a local file for later
// diagnosis. Each entry is stamped with response_received_at. Failures here
// never fail a search.
type ResponseCache struct {
	mu   sync.Mutex
	path string
}

// NewResponseCache returns a cache appending to path.
func NewResponseCache(path string) *ResponseCache {
	return &ResponseCache{path: path}
}

// Record appends one raw response to the cache file.
func (rc *ResponseCache) Record(raw []byte) error {
	entry := struct {
		ResponseReceivedAt string          `json:"response_received_at"`
		Response           json.RawMessage `json:"response"`
	}{
		ResponseReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Response:           raw,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	f, err := os.OpenFile(rc.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open response cache: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append response cache: %w", err)
	}
	return nil
}
