package domain

import "strings"

// NormalizeHost lowercases and trims a hostname and strips a single leading
// "www." label, so "WWW.Example.com" and "example.com" compare equal.
func NormalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "www.")
	return h
}

// HostMatches reports whether host falls under any monitored entry.
// A host matches when, after normalization, it equals the entry or ends with
// "." plus the entry: "api.example.com" matches "example.com" but
// "notexample.com" does not. No wildcard or regex support.
func HostMatches(monitored []string, host string) bool {
	host = NormalizeHost(host)
	for _, m := range monitored {
		m = NormalizeHost(m)
		if m == "" {
			continue
		}
		if host == m || strings.HasSuffix(host, "."+m) {
			return true
		}
	}
	return false
}
