package crawler

import "sync"

// Frontier is the FIFO queue of URLs waiting to be visited.
// It does not deduplicate its entries.
type Frontier struct {
	mu    sync.Mutex
	queue []string
}

// NewFrontier creates a frontier holding the given URLs in order.
func NewFrontier(urls ...string) *Frontier {
	f := &Frontier{queue: make([]string, 0, len(urls))}
	f.queue = append(f.queue, urls...)
	return f
}

// Push appends a URL to the tail.
func (f *Frontier) Push(u string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, u)
}

// Pop removes and returns the head. It returns false when the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of pending entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Pending returns a copy of the pending entries, head first.
func (f *Frontier) Pending() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queue))
	copy(out, f.queue)
	return out
}
