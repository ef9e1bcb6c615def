// Package klog is the kernel's internal structured-logging seam: a small
// Logger interface plus a logrus-backed adapter, so Authority/Scope/Task
// lifecycle events are logged uniformly without leaking logrus types into
// the public API.
package klog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used throughout the kernel.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithError(err error) Logger
}

type logrusAdapter struct {
	entry *logrus.Entry
}

// New constructs a Logger backed by logrus, writing JSON to stdout at the
// given level (invalid levels fall back to Info).
func New(level string) Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &logrusAdapter{entry: logrus.NewEntry(l)}
}

// Noop returns a Logger that discards everything, for tests and embedders
// that don't want kernel log output.
func Noop() Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout) // safety net, overridden below
	l.Out = discard{}
	return &logrusAdapter{entry: logrus.NewEntry(l)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func (l *logrusAdapter) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logrusAdapter) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusAdapter) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *logrusAdapter) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusAdapter) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *logrusAdapter) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusAdapter) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logrusAdapter) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusAdapter) WithField(key string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}

func (l *logrusAdapter) WithError(err error) Logger {
	return &logrusAdapter{entry: l.entry.WithError(err)}
}
