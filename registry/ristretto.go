package registry

import (
	"context"
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	"github.com/jason-costello/krpc"
)

// Ristretto is a bounded registry. Each handle costs 1; once MaxHandles
// handles are live, ristretto's TinyLFU policy evicts rarely used ones, and a
// resolve of an evicted handle fails with *krpc.UnknownHandleError.
type Ristretto struct {
	c *rc.Cache

	mu      sync.Mutex
	handles map[any]uint64 // identity index; pruned by OnEvict

	src   HandleSource
	log   krpc.Logger
	hooks Hooks
}

var _ krpc.Registry = (*Ristretto)(nil)

type RistrettoConfig struct {
	MaxHandles  int64 // required
	NumCounters int64 // 0 => 10 * MaxHandles
	BufferItems int64 // 0 => 64
	Metrics     bool

	Source HandleSource // nil => NewSequential()
	Logger krpc.Logger  // nil => NopLogger
	Hooks  Hooks        // nil => NopHooks
}

func NewRistretto(cfg RistrettoConfig) (*Ristretto, error) {
	if cfg.MaxHandles <= 0 || cfg.NumCounters < 0 || cfg.BufferItems < 0 {
		return nil, errors.New("ristretto registry: invalid config")
	}
	r := &Ristretto{
		handles: make(map[any]uint64),
		log:     coalesce[krpc.Logger](cfg.Logger, krpc.NopLogger{}),
		hooks:   coalesce[Hooks](cfg.Hooks, NopHooks{}),
	}
	r.src = cfg.Source
	if r.src == nil {
		r.src = NewSequential()
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters:        coalesce(cfg.NumCounters, 10*cfg.MaxHandles),
		MaxCost:            cfg.MaxHandles,
		BufferItems:        coalesce(cfg.BufferItems, 64),
		Metrics:            cfg.Metrics,
		IgnoreInternalCost: true,
		OnEvict:            r.onEvict,
	})
	if err != nil {
		return nil, err
	}
	r.c = c
	return r, nil
}

// onEvict runs on ristretto's policy goroutine. It must not call back into
// the cache's write path.
func (r *Ristretto) onEvict(item *rc.Item) {
	r.forget(item.Key, item.Value)
	r.hooks.Evicted(item.Key, "capacity")
}

func (r *Ristretto) forget(handle uint64, obj any) {
	if obj == nil {
		return
	}
	r.mu.Lock()
	if h, ok := r.handles[obj]; ok && h == handle {
		delete(r.handles, obj)
	}
	r.mu.Unlock()
}

func (r *Ristretto) lookup(instance any) (uint64, bool) {
	r.mu.Lock()
	h, ok := r.handles[instance]
	r.mu.Unlock()
	if !ok {
		return 0, false
	}
	if v, live := r.c.Get(h); live && v == instance {
		return h, true
	}
	return 0, false
}

// Register returns the handle of instance, issuing a new one on first sight.
// A new handle is only returned once the cache has admitted it; a refusal
// fails with ErrRejected.
func (r *Ristretto) Register(instance any) (uint64, error) {
	if err := identity(instance); err != nil {
		return 0, err
	}
	if h, ok := r.lookup(instance); ok {
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
	if !r.c.Set(h, instance, 1) {
		return 0, r.rejected(instance)
	}
	r.c.Wait()
	if _, ok := r.c.Get(h); !ok {
		return 0, r.rejected(instance)
	}

	r.mu.Lock()
	if prev, ok := r.handles[instance]; ok && prev != h {
		if v, live := r.c.Get(prev); live && v == instance {
			r.mu.Unlock()
			// a concurrent Register of the same instance won
			r.c.Del(h)
			return prev, nil
		}
	}
	r.handles[instance] = h
	r.mu.Unlock()
	return h, nil
}

func (r *Ristretto) rejected(instance any) error {
	name := typeName(instance)
	r.hooks.RegisterRejected(name)
	r.log.Warn("registry rejected handle", krpc.Fields{"type": name})
	return ErrRejected
}

func (r *Ristretto) Resolve(handle uint64) (any, error) {
	v, ok := r.c.Get(handle)
	if !ok {
		r.hooks.ResolveMiss(handle)
		return nil, &krpc.UnknownHandleError{Handle: handle}
	}
	return v, nil
}

// Release drops handle. It reports whether the handle was held.
func (r *Ristretto) Release(handle uint64) bool {
	v, ok := r.c.Get(handle)
	r.c.Del(handle)
	if ok {
		r.forget(handle, v)
	}
	return ok
}

// Close releases the cache. The registry must not be used afterwards.
func (r *Ristretto) Close(_ context.Context) error {
	r.c.Close()
	r.mu.Lock()
	n := len(r.handles)
	r.handles = make(map[any]uint64)
	r.mu.Unlock()
	r.log.Debug("registry closed", krpc.Fields{"dropped": n})
	return nil
}

// Metrics exposes ristretto's counters when RistrettoConfig.Metrics is set.
func (r *Ristretto) Metrics() *rc.Metrics { return r.c.Metrics }
