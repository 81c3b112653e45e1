package crawler

import "sync"

// VisitedSet holds every URL that was dequeued for a fetch attempt.
// It only grows during a run.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{urls: make(map[string]struct{})}
}

// MarkIfNew adds u and reports whether it was absent.
// The check and the insert happen under one lock, so only one caller ever
// gets true for a given URL.
func (v *VisitedSet) MarkIfNew(u string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.urls[u]; ok {
		return false
	}
	v.urls[u] = struct{}{}
	return true
}

// Has reports whether u was visited.
func (v *VisitedSet) Has(u string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.urls[u]
	return ok
}

// Len returns the number of visited URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}
