// Package report turns the cycle's hits into the texts the sinks send.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Joonasjoonasjoonas/target-watcher/internal/domain"
)

// Options controls the compact report's shape.
type Options struct {
	Title           string
	FeedURL         string
	ExamplesPerHost int // example strings kept per group
	MaxHosts        int // groups shown before truncation
}

// Group aggregates the hits on one normalized host.
type Group struct {
	Host     string
	Count    int
	Examples []string
}

// Summarize groups hits by normalized host. Each group keeps a running count
// and up to examplesPerHost example strings of the form "METHOD /path";
// empty examples are skipped. Groups come back sorted by count descending,
// ties broken by host name ascending so the report is stable.
func Summarize(hits []domain.Target, examplesPerHost int) []Group {
	byHost := map[string]*Group{}
	var hostOrder []string

	for _, t := range hits {
		host := domain.NormalizeHost(t.Host)
		g, ok := byHost[host]
		if !ok {
			g = &Group{Host: host}
			byHost[host] = g
			hostOrder = append(hostOrder, host)
		}
		g.Count++

		ex := strings.TrimSpace(strings.ToUpper(t.MethodOrType()) + " " + t.Path)
		if ex != "" && len(g.Examples) < examplesPerHost {
			g.Examples = append(g.Examples, ex)
		}
	}

	groups := make([]Group, 0, len(hostOrder))
	for _, host := range hostOrder {
		groups = append(groups, *byHost[host])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Host < groups[j].Host
	})
	return groups
}

const alarmHeader = ":rotating_light: Oh noes, we might be under attack soon! :rotating_light:"

// Compact renders the grouped report: a header, the totals line and one line
// per group up to MaxHosts, with a trailing count of hidden hosts.
func Compact(hits []domain.Target, o Options) string {
	groups := Summarize(hits, o.ExamplesPerHost)

	total := 0
	for _, g := range groups {
		total += g.Count
	}

	lines := []string{
		alarmHeader,
		fmt.Sprintf("*%s:* %d new hits / %d hosts\n%s", o.Title, total, len(groups), o.FeedURL),
	}

	shown := 0
	for _, g := range groups {
		if shown >= o.MaxHosts {
			break
		}
		if len(g.Examples) > 0 {
			lines = append(lines, fmt.Sprintf("• *%s* — %d hits (e.g. %s)", g.Host, g.Count, strings.Join(g.Examples, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("• *%s* — %d hits", g.Host, g.Count))
		}
		shown++
	}
	if len(groups) > shown {
		lines = append(lines, fmt.Sprintf("…and %d more hosts.", len(groups)-shown))
	}
	return strings.Join(lines, "\n")
}

// Verbose renders one line per hit in feed order, unaggregated.
func Verbose(hits []domain.Target) string {
	lines := make([]string, 0, len(hits))
	for _, t := range hits {
		lines = append(lines, fmt.Sprintf("- %s  %s %s (port %s)  request_id=%s",
			t.Host, t.MethodOrType(), t.Path, t.Port, t.RequestID))
	}
	return strings.Join(lines, "\n")
}

// VerboseHeader wraps the verbose listing in the alert framing the chat sink
// uses when summary-only is off.
func VerboseHeader(hits []domain.Target, title, feedURL, hostname string) string {
	return fmt.Sprintf("%s\n\n*%s:* %d new match(es) on `%s`\n_host: %s_\n\n%s",
		alarmHeader, title, len(hits), feedURL, hostname, Verbose(hits))
}
