package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used across the app
type Logger interface {
	Info(args ...interface{})
	Warn(args ...interface{})
	Debug(args ...interface{})
	Error(args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	WithPrefix(k string, v interface{}) Logger
}

type logrusLogger struct {
	log *logrus.Entry
}

// ParseLevel converts a config string to a logrus level, defaulting to info
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// New creates a text logger writing to w
func New(w io.Writer, level logrus.Level) Logger {
	if w == nil {
		w = os.Stdout
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
		QuoteEmptyFields:       true,
	})

	return &logrusLogger{log: logrus.NewEntry(log)}
}

// Discard returns a logger that drops everything, for tests
func Discard() Logger {
	return New(io.Discard, logrus.PanicLevel)
}

func (l *logrusLogger) Info(args ...interface{})  { l.log.Infoln(args...) }
func (l *logrusLogger) Warn(args ...interface{})  { l.log.Warnln(args...) }
func (l *logrusLogger) Debug(args ...interface{}) { l.log.Debugln(args...) }

func (l *logrusLogger) Infof(format string, args ...interface{})  { l.log.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.log.Warnf(format, args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }

// Error logs at error level. A stack trace carried by an error argument is attached as a field.
func (l *logrusLogger) Error(args ...interface{}) {
	l.withStack(args).Errorln(args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.withStack(args).Errorf(format, args...)
}

func (l *logrusLogger) WithPrefix(k string, v interface{}) Logger {
	return &logrusLogger{log: l.log.WithField(k, v)}
}

func (l *logrusLogger) withStack(args []interface{}) *logrus.Entry {
	if !l.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return l.log
	}
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			return l.log.WithField("stack", Stack(err))
		}
	}
	return l.log
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Stack returns the stack recorded in err by github.com/pkg/errors,
// or the current goroutine stack when err carries none
func Stack(err error) string {
	var st stackTracer
	for e := err; e != nil; e = unwrap(e) {
		if s, ok := e.(stackTracer); ok {
			st = s
		}
	}
	if st != nil {
		if trace := st.StackTrace(); len(trace) > 0 {
			return fmt.Sprintf("%+v", trace)
		}
	}
	return string(debug.Stack())
}

func unwrap(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	}
	return nil
}
