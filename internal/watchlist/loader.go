// Package watchlist loads monitored host lists from YAML files, for
// deployments where the watchlist is long-lived config rather than an
// environment variable.
package watchlist

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the supported file shape:
//
//	hosts:
//	  - example.com
//	  - internal.corp
type Document struct {
	Hosts []string `yaml:"hosts"`
}

// Load reads and parses a watchlist file, returning the trimmed host entries.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist yaml: %w", err)
	}

	hosts := make([]string, 0, len(doc.Hosts))
	for _, h := range doc.Hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts, nil
}
