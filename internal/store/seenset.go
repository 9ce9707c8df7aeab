// Package store persists the set of request identifiers already reported.
package store

import "context"

const (
	// MaxEntries is the seen-set size that triggers eviction at save time.
	MaxEntries = 50000
	// EvictBatch is how many of the oldest entries one eviction removes.
	EvictBatch = 10000
)

// Store loads and persists the seen set. Load never fails the run: backends
// fall back to an empty set on read or parse problems.
type Store interface {
	Load(ctx context.Context) *SeenSet
	Save(ctx context.Context, set *SeenSet) error
}

// SeenSet tracks request identifiers with their in-process insertion order,
// so eviction drops the oldest-inserted entries first. Order of entries
// loaded from persisted state is whatever the backend yields; the eviction
// policy is an approximation of LRU, not the real thing.
type SeenSet struct {
	ids   map[string]bool
	order []string
}

func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]bool)}
}

func (s *SeenSet) Contains(id string) bool { return s.ids[id] }

func (s *SeenSet) Len() int { return len(s.ids) }

// Add inserts id; re-adding an existing id does not change its position.
func (s *SeenSet) Add(id string) {
	if id == "" || s.ids[id] {
		return
	}
	s.ids[id] = true
	s.order = append(s.order, id)
}

// IDs returns the underlying presence map. Callers must treat it as read-only.
func (s *SeenSet) IDs() map[string]bool { return s.ids }

// Trim applies the bounded eviction policy: once the set exceeds MaxEntries,
// the oldest EvictBatch entries are dropped. Returns how many were evicted.
func (s *SeenSet) Trim() int {
	if len(s.ids) <= MaxEntries {
		return 0
	}
	n := EvictBatch
	if n > len(s.order) {
		n = len(s.order)
	}
	for _, id := range s.order[:n] {
		delete(s.ids, id)
	}
	s.order = s.order[n:]
	return n
}
