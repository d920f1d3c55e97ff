package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/jason-costello/krpc/registry"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ResolveMissEvery uint64
	EvictedEvery     uint64
	// Optional handle redactor. Handles are logged as numbers by default so
	// they match UnknownHandleError messages.
	Redact func(uint64) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	missCtr  atomic.Uint64
	evictCtr atomic.Uint64
}

var _ registry.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) handle(hd uint64) any {
	if h.opts.Redact != nil {
		return h.opts.Redact(hd)
	}
	return hd
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Evicted(handle uint64, reason string) {
	if h.l == nil || !sample(h.opts.EvictedEvery, &h.evictCtr) {
		return
	}
	h.l.Debug("krpc.registry.evicted",
		"handle", h.handle(handle),
		"reason", reason)
}

func (h *Hooks) ResolveMiss(handle uint64) {
	if h.l == nil || !sample(h.opts.ResolveMissEvery, &h.missCtr) {
		return
	}
	h.l.Info("krpc.registry.resolve_miss",
		"handle", h.handle(handle))
}

func (h *Hooks) RegisterRejected(typeName string) {
	if h.l == nil {
		return
	}
	h.l.Warn("krpc.registry.register_rejected",
		"type", typeName)
}

func (h *Hooks) SourceError(err error) {
	if h.l == nil {
		return
	}
	h.l.Error("krpc.registry.source_error",
		"err", err)
}
