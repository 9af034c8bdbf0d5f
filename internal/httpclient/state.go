package httpclient

import "sync"

// stateBox guards the shared observable state. Snapshots copy the struct so
// readers never observe a partial update.
type stateBox struct {
	mu sync.Mutex
	s  State
}

func (b *stateBox) set(s State) {
	b.mu.Lock()
	b.s = s
	b.mu.Unlock()
}

func (b *stateBox) snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.s
}
