package watcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/feed"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/logger"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/notify"
	"github.com/Joonasjoonasjoonas/target-watcher/internal/store"
)

func testLogger() logger.Logger { return logger.New("error", false) }

const feedBody = `{
	"targets": [
		{"host": "api.example.com", "path": "/login", "method": "POST", "request_id": "r1"},
		{"host": "www.example.com", "path": "/", "method": "GET"},
		{"host": "unrelated.org", "path": "/x", "method": "GET", "request_id": "r3"},
		"not-a-record"
	]
}`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func webhookServer(t *testing.T, texts *[]string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		*texts = append(*texts, payload["text"])
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newCycle(feedURL, webhookURL string, st store.Store) *Cycle {
	log := testLogger()
	return &Cycle{
		Feed:  feed.NewClient(feedURL),
		Store: st,
		Notifier: notify.New(notify.Config{
			WebhookURL:      webhookURL,
			SummaryOnly:     true,
			SuppressEmpty:   true,
			Title:           "Watch",
			FeedURL:         feedURL,
			ExamplesPerHost: 2,
			MaxHosts:        10,
		}, log),
		Monitored: []string{"example.com"},
		Log:       log,
	}
}

func TestRunStatefulIdempotence(t *testing.T) {
	ts := feedServer(t, feedBody)
	statePath := filepath.Join(t.TempDir(), "seen.json")
	ctx := context.Background()

	first, err := newCycle(ts.URL, "", store.NewFileStore(statePath, testLogger())).Run(ctx)
	if err != nil {
		t.Fatalf("first Run() failed: %v", err)
	}
	if first.Hits != 2 {
		t.Errorf("first run hits = %d, want 2 (r1 and the derived-id record)", first.Hits)
	}
	if first.Fetched != 3 {
		t.Errorf("fetched = %d, want 3 valid records", first.Fetched)
	}

	// Replaying the same feed in stateful mode yields zero hits.
	second, err := newCycle(ts.URL, "", store.NewFileStore(statePath, testLogger())).Run(ctx)
	if err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	if second.Hits != 0 {
		t.Errorf("second run hits = %d, want 0", second.Hits)
	}
}

func TestRunStatelessRepeats(t *testing.T) {
	ts := feedServer(t, feedBody)
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		stats, err := newCycle(ts.URL, "", store.NewStateless()).Run(ctx)
		if err != nil {
			t.Fatalf("Run() %d failed: %v", run, err)
		}
		if stats.Hits != 2 {
			t.Errorf("stateless run %d hits = %d, want 2 every time", run, stats.Hits)
		}
	}
}

func TestRunNotifiesAndPersists(t *testing.T) {
	ts := feedServer(t, feedBody)
	var texts []string
	hook := webhookServer(t, &texts)
	statePath := filepath.Join(t.TempDir(), "seen.json")

	cycle := newCycle(ts.URL, hook.URL, store.NewFileStore(statePath, testLogger()))
	if _, err := cycle.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(texts) != 1 || !strings.Contains(texts[0], "2 new hits / 1 hosts") {
		t.Errorf("webhook texts = %v", texts)
	}

	reloaded := store.NewFileStore(statePath, testLogger()).Load(context.Background())
	if !reloaded.Contains("r1") {
		t.Error("explicit request id should be persisted")
	}
	if !reloaded.Contains("www.example.com:/::GET") {
		t.Errorf("derived id should be persisted, state = %v", reloaded.IDs())
	}
	if reloaded.Contains("r3") {
		t.Error("non-matching record must not enter the seen set")
	}
}

func TestRunNoHitsSkipsPersistence(t *testing.T) {
	ts := feedServer(t, `{"targets": [{"host": "unrelated.org", "request_id": "r9"}]}`)
	statePath := filepath.Join(t.TempDir(), "seen.json")

	stats, err := newCycle(ts.URL, "", store.NewFileStore(statePath, testLogger())).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if stats.Hits != 0 {
		t.Errorf("hits = %d, want 0", stats.Hits)
	}
	// No state file should exist: persistence is skipped on empty cycles.
	reloaded := store.NewFileStore(statePath, testLogger()).Load(context.Background())
	if reloaded.Len() != 0 {
		t.Errorf("state should not have been written, got %v", reloaded.IDs())
	}
}

func TestRunFetchFailureAlertsAndPropagates(t *testing.T) {
	ts := feedServer(t, feedBody)
	ts.Close() // feed is down

	var texts []string
	hook := webhookServer(t, &texts)

	_, err := newCycle(ts.URL, hook.URL, store.NewStateless()).Run(context.Background())
	if err == nil {
		t.Fatal("Run() with a dead feed should fail")
	}
	if len(texts) != 1 || !strings.Contains(texts[0], "Target Watcher Error") {
		t.Errorf("expected one fetch-failure alert, got %v", texts)
	}
}

func TestRunFetchFailureWithoutWebhookStillPropagates(t *testing.T) {
	ts := feedServer(t, feedBody)
	ts.Close()

	if _, err := newCycle(ts.URL, "", store.NewStateless()).Run(context.Background()); err == nil {
		t.Fatal("Run() with a dead feed should fail even without a webhook")
	}
}
