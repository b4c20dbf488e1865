package tracker

import "sync"

// Tracker defines the interface for managing service results
type Tracker interface {
	Add(name string) Result
	Get(name string) (Result, bool)
	All() []Result
}

// tracker manages service results in workflow order
type tracker struct {
	results map[string]Result
	order   []string
	mu      sync.RWMutex
}

// NewTracker creates a new results tracker
func NewTracker() Tracker {
	return &tracker{
		results: make(map[string]Result),
	}
}

// Add adds a new service to track. Adding a name twice returns the existing
// result so a workflow restart cannot fork the bookkeeping.
func (rt *tracker) Add(name string) Result {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if r, exists := rt.results[name]; exists {
		return r
	}

	r := NewResult(name)
	rt.results[name] = r
	rt.order = append(rt.order, name)

	return r
}

// Get returns the result for a service
func (rt *tracker) Get(name string) (Result, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	r, exists := rt.results[name]

	return r, exists
}

// All returns the tracked results in the order they were added
func (rt *tracker) All() []Result {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	all := make([]Result, 0, len(rt.order))
	for _, name := range rt.order {
		all = append(all, rt.results[name])
	}

	return all
}
