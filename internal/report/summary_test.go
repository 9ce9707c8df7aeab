package report

import (
	"strings"
	"testing"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
)

// hitsOn builds n hits against host with distinct paths.
func hitsOn(host string, n int) []domain.Target {
	out := make([]domain.Target, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Target{Host: host, Method: "get", Path: "/p" + strings.Repeat("x", i)})
	}
	return out
}

func TestSummarize(t *testing.T) {
	hits := append(hitsOn("a.example.com", 3), hitsOn("b.example.com", 7)...)

	groups := Summarize(hits, 2)
	if len(groups) != 2 {
		t.Fatalf("Summarize() returned %d groups, want 2", len(groups))
	}
	// Descending by count: b (7) before a (3).
	if groups[0].Host != "b.example.com" || groups[0].Count != 7 {
		t.Errorf("groups[0] = %+v, want b.example.com with 7", groups[0])
	}
	if groups[1].Host != "a.example.com" || groups[1].Count != 3 {
		t.Errorf("groups[1] = %+v, want a.example.com with 3", groups[1])
	}
	// Example cap and uppercased method.
	if len(groups[0].Examples) != 2 {
		t.Errorf("examples = %v, want capped at 2", groups[0].Examples)
	}
	if groups[0].Examples[0] != "GET /p" {
		t.Errorf("example = %q, want %q", groups[0].Examples[0], "GET /p")
	}
}

func TestSummarizeTiesSortByHost(t *testing.T) {
	hits := append(hitsOn("zz.example.com", 2), hitsOn("aa.example.com", 2)...)
	groups := Summarize(hits, 2)
	if groups[0].Host != "aa.example.com" {
		t.Errorf("equal counts should sort by host, got %q first", groups[0].Host)
	}
}

func TestSummarizeNormalizesHosts(t *testing.T) {
	hits := []domain.Target{
		{Host: "www.example.com", Method: "GET", Path: "/a"},
		{Host: "EXAMPLE.com", Method: "GET", Path: "/b"},
	}
	groups := Summarize(hits, 5)
	if len(groups) != 1 || groups[0].Count != 2 {
		t.Errorf("Summarize() = %+v, want one group of 2 on example.com", groups)
	}
}

func TestSummarizeSkipsEmptyExamples(t *testing.T) {
	hits := []domain.Target{{Host: "a.example.com"}}
	groups := Summarize(hits, 5)
	if len(groups[0].Examples) != 0 {
		t.Errorf("examples = %v, want none for a record without method or path", groups[0].Examples)
	}
	if groups[0].Count != 1 {
		t.Errorf("count = %d, want 1", groups[0].Count)
	}
}

func TestCompact(t *testing.T) {
	hits := append(hitsOn("a.example.com", 3), hitsOn("b.example.com", 7)...)

	out := Compact(hits, Options{Title: "Watch", FeedURL: "http://feed", ExamplesPerHost: 2, MaxHosts: 10})

	if !strings.Contains(out, "*Watch:* 10 new hits / 2 hosts") {
		t.Errorf("compact report missing totals line:\n%s", out)
	}
	bIdx := strings.Index(out, "*b.example.com*")
	aIdx := strings.Index(out, "*a.example.com*")
	if bIdx < 0 || aIdx < 0 || bIdx > aIdx {
		t.Errorf("compact report should list b before a:\n%s", out)
	}
	if !strings.Contains(out, "— 7 hits (e.g. GET /p, GET /px)") {
		t.Errorf("compact report missing example line:\n%s", out)
	}
	if strings.Contains(out, "more hosts") {
		t.Errorf("compact report should not be truncated:\n%s", out)
	}
}

func TestCompactTruncation(t *testing.T) {
	var hits []domain.Target
	for _, h := range []string{"a", "b", "c", "d", "e"} {
		hits = append(hits, hitsOn(h+".example.com", 1)...)
	}

	out := Compact(hits, Options{Title: "Watch", FeedURL: "u", ExamplesPerHost: 1, MaxHosts: 3})
	if !strings.Contains(out, "…and 2 more hosts.") {
		t.Errorf("compact report missing truncation line:\n%s", out)
	}
	if strings.Count(out, "• ") != 3 {
		t.Errorf("compact report should show 3 groups:\n%s", out)
	}
}

func TestVerbose(t *testing.T) {
	hits := []domain.Target{
		{Host: "a.example.com", Method: "POST", Path: "/login", Port: "443", RequestID: "r1"},
		{Host: "b.example.com", Type: "tcp"},
	}

	out := Verbose(hits)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Verbose() = %d lines, want 2", len(lines))
	}
	if lines[0] != "- a.example.com  POST /login (port 443)  request_id=r1" {
		t.Errorf("line 0 = %q", lines[0])
	}
	// Feed order preserved, type used when method absent, derived ids not shown.
	if !strings.Contains(lines[1], "b.example.com  tcp") || !strings.Contains(lines[1], "request_id=") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestVerboseHeader(t *testing.T) {
	hits := hitsOn("a.example.com", 2)
	out := VerboseHeader(hits, "Watch", "http://feed", "box1")
	for _, want := range []string{"*Watch:* 2 new match(es) on `http://feed`", "_host: box1_", "- a.example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("VerboseHeader() missing %q:\n%s", want, out)
		}
	}
}
