package crawler

// Tracker is the dedup bookkeeping for one class of identifier within a
// single run. Membership only grows; there is no eviction. The driver is
// single-threaded, so the tracker is not safe for concurrent use.
type Tracker struct {
	seen map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// NewTrackerFrom returns a tracker pre-populated with ids.
func NewTrackerFrom(ids map[string]struct{}) *Tracker {
	t := NewTracker()
	for id := range ids {
		t.seen[id] = struct{}{}
	}
	return t
}

// Contains reports whether id has been marked.
func (t *Tracker) Contains(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Mark records id as seen.
func (t *Tracker) Mark(id string) {
	t.seen[id] = struct{}{}
}

// Len reports how many ids have been marked.
func (t *Tracker) Len() int { return len(t.seen) }
