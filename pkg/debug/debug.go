// Package debug provides the shared logger. It is quiet by default and logs
// warnings only; set CHECKTREE_DEBUG=1 for debug output.
package debug

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvVar enables debug-level logging when set to a non-empty value other
// than "0" or "false".
const EnvVar = "CHECKTREE_DEBUG"

var (
	mu     sync.Mutex
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	if Enabled() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Enabled reports whether debug logging was requested through the environment.
func Enabled() bool {
	switch os.Getenv(EnvVar) {
	case "", "0", "false":
		return false
	}
	return true
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetOutput redirects logging, returning a func that restores the previous
// writer. The TUI uses this to keep log lines off the alternate screen.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := logger.Out
	logger.SetOutput(w)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		logger.SetOutput(prev)
	}
}

// SetVerbose forces debug level on or off.
func SetVerbose(on bool) {
	mu.Lock()
	defer mu.Unlock()
	if on {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
}

// Log writes a debug-level message.
func Log(format string, args ...any) {
	Logger().Debugf(format, args...)
}

// Warn writes a warning.
func Warn(format string, args ...any) {
	Logger().Warnf(format, args...)
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value any) *logrus.Entry {
	return Logger().WithField(key, value)
}
