//go:build go1.21

// Package slog adapts a *slog.Logger to krpc.Logger.
package slog

import (
	"context"
	stdslog "log/slog"
	"sort"

	"github.com/jason-costello/krpc"
)

var _ krpc.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// New wraps l in a "krpc" group; a nil l uses slog.Default().
func New(l *stdslog.Logger) Logger {
	if l == nil {
		l = stdslog.Default()
	}
	return Logger{L: l.WithGroup("krpc")}
}

func (s Logger) Debug(msg string, f krpc.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f krpc.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f krpc.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f krpc.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f krpc.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	s.L.LogAttrs(ctx, level, msg, attrs(f)...)
}

func attrs(f krpc.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]stdslog.Attr, 0, len(f))
	for _, k := range keys {
		out = append(out, stdslog.Any(k, f[k]))
	}
	return out
}
