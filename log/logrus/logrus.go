// Package logrus adapts a logrus entry to krpc.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/jason-costello/krpc"
)

var _ krpc.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l with a component=krpc field; a nil l uses logrus's standard
// logger.
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: l.WithField("component", "krpc")}
}

func (l LogrusLogger) Debug(msg string, f krpc.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f krpc.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f krpc.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f krpc.Fields) { l.with(f).Error(msg) }

// with moves an "err" field to logrus.ErrorKey so hooks and formatters treat
// it as the entry's error.
func (l LogrusLogger) with(f krpc.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	fields := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			fields[logrus.ErrorKey] = err
			continue
		}
		fields[k] = v
	}
	return l.E.WithFields(fields)
}
