package pareto

import (
	"sync"

	"github.com/YHzed/heac-go/pkg/materials"
)

// Entry is one archived candidate: the design point, its raw predicted
// objectives, and its target-range scores.
type Entry struct {
	Signature   string                `json:"signature"`
	Composition materials.Composition `json:"-"`
	Objectives  Objectives            `json:"objectives"`
	Scores      ScoreVector           `json:"scores"`
}

// Archive maintains the set of mutually non-dominated candidates seen so
// far. All methods are safe for concurrent use.
type Archive struct {
	mu      sync.Mutex
	entries []Entry
	byName  map[string]struct{}
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{byName: make(map[string]struct{})}
}

// Insert offers a candidate to the archive. It returns true when the
// candidate was admitted, false when an existing member dominates it or
// an identical signature is already present. Admitting a candidate
// evicts every member it dominates, so the archive is always a
// non-dominated set.
func (a *Archive) Insert(e Entry) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, seen := a.byName[e.Signature]; seen {
		return false
	}
	for _, cur := range a.entries {
		if cur.Scores.Dominates(e.Scores) {
			return false
		}
	}

	kept := a.entries[:0]
	for _, cur := range a.entries {
		if e.Scores.Dominates(cur.Scores) {
			delete(a.byName, cur.Signature)
			continue
		}
		kept = append(kept, cur)
	}
	a.entries = append(kept, e)
	a.byName[e.Signature] = struct{}{}
	return true
}

// Contains reports whether a signature is currently archived.
func (a *Archive) Contains(signature string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.byName[signature]
	return ok
}

// Len returns the current archive size.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Snapshot returns a copy of the current entries. Callers may retain and
// mutate the slice freely.
func (a *Archive) Snapshot() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
