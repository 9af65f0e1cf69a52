package display

import "sync"

// StaticProvider is an in-memory [Provider].
//
// StaticProvider holds a fixed display list that can be replaced at runtime
// with [StaticProvider.SetDisplays], which notifies all subscribers of the
// topology change. It is safe for concurrent use.
//
// Notifications are delivered non-blocking on buffered channels; if a
// subscriber has not drained its previous signal, the new one is coalesced
// into it rather than queued.
type StaticProvider struct {
	mu       sync.RWMutex
	displays []Display

	subMu       sync.Mutex
	subscribers map[chan struct{}]struct{}
}

// NewStaticProvider creates a [StaticProvider] with an initial topology.
func NewStaticProvider(displays ...Display) *StaticProvider {
	p := &StaticProvider{
		subscribers: make(map[chan struct{}]struct{}),
	}
	p.displays = append(p.displays, displays...)
	return p
}

// Displays returns a copy of the current display list.
func (p *StaticProvider) Displays() ([]Display, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Display, len(p.displays))
	copy(out, p.displays)
	return out, nil
}

// SetDisplays replaces the topology and notifies all subscribers.
func (p *StaticProvider) SetDisplays(displays ...Display) {
	p.mu.Lock()
	p.displays = append(p.displays[:0:0], displays...)
	p.mu.Unlock()

	p.notify()
}

// Subscribe registers a topology-change subscriber.
//
// The returned cancel function removes the subscription and closes the
// channel. It is idempotent.
func (p *StaticProvider) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	p.subMu.Lock()
	p.subscribers[ch] = struct{}{}
	p.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.subMu.Lock()
			defer p.subMu.Unlock()
			if _, ok := p.subscribers[ch]; ok {
				delete(p.subscribers, ch)
				close(ch)
			}
		})
	}

	return ch, cancel
}

// notify signals every subscriber without blocking. A subscriber whose
// buffer already holds an undelivered signal keeps the pending one.
func (p *StaticProvider) notify() {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for ch := range p.subscribers {
		select {
		case ch <- struct{}{}:
		default:
			// signal already pending, coalesce
		}
	}
}
