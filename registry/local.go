package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jason-costello/krpc"
)

type localEntry struct {
	obj      any
	lastUsed atomic.Int64 // unix nanos; refreshed by Register and Resolve
}

func (e *localEntry) touch(now time.Time) { e.lastUsed.Store(now.UnixNano()) }

// Local keeps handles in-process (default registry).
// Optional cleanup loop drops handles that have not been registered or
// resolved for Options.Retention.
type Local struct {
	mu      sync.RWMutex
	objs    map[uint64]*localEntry
	handles map[any]uint64
	closed  bool

	src   HandleSource
	log   krpc.Logger
	hooks Hooks
	now   func() time.Time

	retention time.Duration
	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ krpc.Registry = (*Local)(nil)

func NewLocal(opts Options) *Local {
	r := &Local{
		objs:      make(map[uint64]*localEntry),
		handles:   make(map[any]uint64),
		log:       coalesce[krpc.Logger](opts.Logger, krpc.NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
		now:       time.Now,
		retention: opts.Retention,
	}
	r.src = opts.Source
	if r.src == nil {
		r.src = NewSequential()
	}
	if r.retention > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = max(r.retention/2, time.Second)
		}
		r.ticker = time.NewTicker(interval)
		r.stopCh = make(chan struct{})
		r.wg.Add(1)
		go r.sweepLoop()
	}
	return r
}

// Register returns the handle of instance, issuing a new one on first sight.
func (r *Local) Register(instance any) (uint64, error) {
	if err := identity(instance); err != nil {
		return 0, err
	}
	now := r.now()

	r.mu.RLock()
	h, ok := r.handles[instance]
	if ok {
		r.objs[h].touch(now)
	}
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return 0, ErrClosed
	}
	if ok {
		return h, nil
	}

	h, err := r.src.Next()
	if err != nil {
		r.hooks.SourceError(err)
		return 0, err
	}
	if h == 0 {
		return 0, ErrHandleReused
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	if prev, ok := r.handles[instance]; ok {
		// lost a race with a concurrent Register of the same instance;
		// the fresh handle is simply never used
		r.objs[prev].touch(now)
		return prev, nil
	}
	if _, taken := r.objs[h]; taken {
		return 0, ErrHandleReused
	}
	e := &localEntry{obj: instance}
	e.touch(now)
	r.objs[h] = e
	r.handles[instance] = h
	return h, nil
}

func (r *Local) Resolve(handle uint64) (any, error) {
	r.mu.RLock()
	e, ok := r.objs[handle]
	r.mu.RUnlock()
	if !ok {
		r.hooks.ResolveMiss(handle)
		return nil, &krpc.UnknownHandleError{Handle: handle}
	}
	e.touch(r.now())
	return e.obj, nil
}

// Release drops handle. It reports whether the handle was held.
func (r *Local) Release(handle uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.objs[handle]
	if !ok {
		return false
	}
	delete(r.objs, handle)
	delete(r.handles, e.obj)
	return true
}

// Len returns the number of live handles.
func (r *Local) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objs)
}

// Sweep drops handles idle for longer than retention and returns how many
// were removed.
func (r *Local) Sweep(retention time.Duration) int {
	if retention <= 0 {
		return 0
	}
	cutoff := r.now().Add(-retention).UnixNano()

	var candidates []uint64
	r.mu.RLock()
	for h, e := range r.objs {
		if e.lastUsed.Load() < cutoff {
			candidates = append(candidates, h)
		}
	}
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return 0
	}

	removed := make([]uint64, 0, len(candidates))
	r.mu.Lock()
	for _, h := range candidates {
		// re-check: the handle may have been used since the read pass
		if e, ok := r.objs[h]; ok && e.lastUsed.Load() < cutoff {
			delete(r.objs, h)
			delete(r.handles, e.obj)
			removed = append(removed, h)
		}
	}
	r.mu.Unlock()

	for _, h := range removed {
		r.hooks.Evicted(h, "idle")
	}
	if len(removed) > 0 {
		r.log.Debug("registry sweep removed idle handles", krpc.Fields{"removed": len(removed)})
	}
	return len(removed)
}

func (r *Local) sweepLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ticker.C:
			r.Sweep(r.retention)
		case <-r.stopCh:
			return
		}
	}
}

// Close stops the sweep loop and drops every handle. Later calls to Register
// fail with ErrClosed; Resolve reports every handle as unknown.
func (r *Local) Close(_ context.Context) error {
	r.closeOnce.Do(func() {
		if r.stopCh != nil {
			close(r.stopCh)
			r.ticker.Stop()
			r.wg.Wait()
		}
		r.mu.Lock()
		n := len(r.objs)
		r.objs = make(map[uint64]*localEntry)
		r.handles = make(map[any]uint64)
		r.closed = true
		r.mu.Unlock()
		r.log.Debug("registry closed", krpc.Fields{"dropped": n})
	})
	return nil
}
