// Package feed fetches target records from the remote JSON feed.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
)

const fetchTimeout = 30 * time.Second

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: fetchTimeout},
	}
}

func (c *Client) URL() string { return c.url }

// document is the expected feed body. Entries are kept raw so one malformed
// record does not fail the whole fetch.
type document struct {
	Targets []json.RawMessage `json:"targets"`
}

// Fetch performs one GET against the feed and decodes the target list.
// Non-2xx responses and non-JSON bodies are fetch failures; individual
// entries that are not JSON objects are skipped.
func (c *Client) Fetch(ctx context.Context) ([]domain.Target, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch targets from %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("failed to fetch targets from %s: http %d: %s",
			c.url, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode feed from %s: %w", c.url, err)
	}

	targets := make([]domain.Target, 0, len(doc.Targets))
	for _, raw := range doc.Targets {
		if !isObject(raw) {
			continue
		}
		var t domain.Target
		if err := json.Unmarshal(raw, &t); err != nil {
			// Wrong field types; not worth failing the run.
			continue
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// isObject reports whether a raw entry is a JSON object. The feed
// occasionally carries stray scalars; only objects are records.
func isObject(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "{")
}
