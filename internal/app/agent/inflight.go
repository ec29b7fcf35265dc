package agent

import "sync"

// inflight tracks at most one pending operation per agent and hands out
// a generation number used to discard resolutions that lost a race with
// a later operation on the same agent.
type inflight struct {
	mu      sync.Mutex
	pending map[int64]bool
	gen     map[int64]uint64
}

func newInflight() *inflight {
	return &inflight{
		pending: make(map[int64]bool),
		gen:     make(map[int64]uint64),
	}
}

// begin reserves the subject and returns its new generation; the second
// return is false while an earlier operation is still outstanding.
func (f *inflight) begin(id int64) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[id] {
		return 0, false
	}
	f.pending[id] = true
	f.gen[id]++
	return f.gen[id], true
}

func (f *inflight) end(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
}

// fresh reports whether gen is still the latest handed out for id.
func (f *inflight) fresh(id int64, gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen[id] == gen
}
