// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    ResolveMissEvery: 100, // sample logs: ~every 100th miss
//	    EvictedEvery:     10,
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	reg := registry.NewLocal(registry.Options{
//	    Retention: 30 * time.Minute,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/jason-costello/krpc/registry"
)

// Hooks forwards registry events to inner on worker goroutines. Events that
// arrive while the queue is full are dropped and counted.
type Hooks struct {
	inner   registry.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ registry.Hooks = (*Hooks)(nil)

func New(inner registry.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = registry.NopHooks{}
	}
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

// Close drains queued events and stops the workers. Events reported after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped returns how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// lost a race with Close
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Evicted(hd uint64, r string)  { h.try(func() { h.inner.Evicted(hd, r) }) }
func (h *Hooks) ResolveMiss(hd uint64)        { h.try(func() { h.inner.ResolveMiss(hd) }) }
func (h *Hooks) RegisterRejected(name string) { h.try(func() { h.inner.RegisterRejected(name) }) }
func (h *Hooks) SourceError(err error)        { h.try(func() { h.inner.SourceError(err) }) }
