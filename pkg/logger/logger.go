// Package logger configures the process-wide logrus logger and hands out
// entries tagged with a component name.
package logger

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	// Packages
	logrus "github.com/sirupsen/logrus"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Fields = logrus.Fields

// PlainFormatter writes "[time] [LEVEL] [component] message key=value ..."
type PlainFormatter struct{}

type ctxKey struct{}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	mu   sync.RWMutex
	root = logrus.StandardLogger()
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Configure sets the level, format and output of the root logger. The
// level is any logrus level name; the format is "text" or "json".
func Configure(level, format string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}

	l := logrus.New()
	l.SetLevel(lvl)
	if w != nil {
		l.SetOutput(w)
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		l.SetFormatter(PlainFormatter{})
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return fmt.Errorf("unknown log format: %q", format)
	}

	SetRoot(l)
	return nil
}

// SetRoot replaces the root logger. A nil logger restores the standard logger.
func SetRoot(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	mu.Lock()
	defer mu.Unlock()
	root = l
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Root returns the root logger
func Root() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns an entry for a component
func Named(component string) *logrus.Entry {
	entry := logrus.NewEntry(Root())
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// WithContext returns a context carrying the entry
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry carried by the context, or an entry for
// the fallback component
func FromContext(ctx context.Context, component string) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return Named(component)
}

///////////////////////////////////////////////////////////////////////////////
// FORMATTER

func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString("[" + entry.Time.UTC().Format(time.RFC3339) + "]")
	b.WriteString(" [" + strings.ToUpper(entry.Level.String()) + "]")
	if component, ok := entry.Data["component"].(string); ok && component != "" {
		b.WriteString(" [" + component + "]")
	}
	b.WriteString(" " + entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}
