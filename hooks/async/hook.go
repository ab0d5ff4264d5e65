// Package asynchook decouples hook work from the Load path. The store
// calls hooks inline, so a slow sink (metrics push, remote logger) would
// stall the bootstrap; wrap it here instead:
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
// Events are dropped, not queued unboundedly, when the queue is full.
package asynchook

import (
	"sync"

	"github.com/lolokcat/cypherconf"
)

type Hooks struct {
	inner cypherconf.Hooks
	q     chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ cypherconf.Hooks = (*Hooks)(nil)

func New(inner cypherconf.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers. Hooks fired concurrently
// with or after Close are dropped, same as on a full queue.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) DefaultsWritten(name string) { h.try(func() { h.inner.DefaultsWritten(name) }) }
func (h *Hooks) DecodeFallback(name string, err error) {
	h.try(func() { h.inner.DecodeFallback(name, err) })
}
func (h *Hooks) WriteError(name string, err error) {
	h.try(func() { h.inner.WriteError(name, err) })
}
