// Package zap adapts a *zap.Logger to krpc.Logger.
package zap

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jason-costello/krpc"
)

var _ krpc.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New wraps l; a nil l discards everything.
func New(l *zap.Logger) ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return ZapLogger{L: l.Named("krpc")}
}

func (z ZapLogger) Debug(msg string, f krpc.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f krpc.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f krpc.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f krpc.Fields) { z.L.Error(msg, zf(f)...) }

// zf emits fields in key order; errors keep zap's error encoding.
func zf(f krpc.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
