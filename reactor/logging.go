package reactor

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level aliases logiface's syslog-style level scale, so callers configuring
// a Loop never need to import logiface directly for the common case.
type Level = logiface.Level

const (
	LevelError Level = logiface.LevelError
	LevelWarn  Level = logiface.LevelWarning
	LevelInfo  Level = logiface.LevelInformational
	LevelDebug Level = logiface.LevelDebug
)

// Logger is the structured logging sink used by Loop and, indirectly, by
// evdispatch.Dispatcher. It is injectable via WithLogger; the package
// default (NopLogger) discards everything.
//
// Wired to a real structured-logging library pair rather than a hand-rolled
// formatter: github.com/joeycumines/logiface for the generic level/builder
// API, github.com/joeycumines/stumpy for a concrete JSON event/writer.
type Logger interface {
	Enabled(level Level) bool
	Log(level Level, category, message string, err error, fields map[string]any)
}

// NopLogger discards everything; it is the Loop default.
type NopLogger struct{}

func (NopLogger) Enabled(Level) bool { return false }
func (NopLogger) Log(Level, string, string, error, map[string]any) {}

// NewJSONLogger returns a Logger that writes newline-delimited JSON via
// stumpy to w (os.Stderr if nil), emitting events at level or above.
func NewJSONLogger(w io.Writer, level Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logiface.New[*stumpy.Event](
		stumpy.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](level),
	)
	return &stumpyLogger{l: l}
}

type stumpyLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

func (s *stumpyLogger) Enabled(level Level) bool {
	return s.l.Build(level).Enabled()
}

func (s *stumpyLogger) Log(level Level, category, message string, err error, fields map[string]any) {
	b := s.l.Build(level)
	if !b.Enabled() {
		b.Release()
		return
	}
	b = b.Str("category", category)
	if err != nil {
		b = b.Err(err)
	}
	for k, v := range fields {
		b = b.Any(k, v)
	}
	b.Log(message)
}

// logSetupFailure logs a watcher setup failure at Warn, subject to the
// loop's rate limiter (if configured) keyed by op+err, so a target retrying
// a doomed registration every tick cannot flood the log.
func (l *Loop) logSetupFailure(op string, err error) {
	if l.limiter != nil {
		category := op + ":" + err.Error()
		if _, ok := l.limiter.Allow(category); !ok {
			return
		}
	}
	l.logger.Log(LevelWarn, "setup", "watcher setup failed", &SetupError{Op: op, Err: err}, nil)
}
