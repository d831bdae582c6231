// package shared defines cross-cutting helpers used by every driftplay package
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger builds the process logger. The writer defaults to [os.Stderr];
// timestamps and caller reporting stay on so player and discovery events can
// be correlated across goroutines.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
	})
}

// WithLogger derives a child [log.Logger] carrying the given key-value
// context, e.g. a discovery run ID.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel adjusts the logger's verbosity at runtime.
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID returns a random v4 UUID string. Discovery runs and discovery
// log rows use these as identifiers.
func GenerateID() string {
	return uuid.New().String()
}
