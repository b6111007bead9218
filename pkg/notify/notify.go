// Package notify implements the notification surface: fire-and-forget display
// of transient or dismissible messages. Surfaces never return errors to the
// caller; a surface that cannot display a message drops it.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Severity classifies a message. Values match the contextual colour names
// used by the page markup.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notifier displays a message.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Func adapts a function to Notifier.
type Func func(message string, severity Severity)

// Notify calls f.
func (f Func) Notify(message string, severity Severity) {
	if f != nil {
		f(message, severity)
	}
}

// Nop discards messages.
var Nop Notifier = Func(nil)

// Multi fans a message out to every notifier.
func Multi(notifiers ...Notifier) Notifier {
	var out []Notifier
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return Func(func(message string, severity Severity) {
		for _, n := range out {
			n.Notify(message, severity)
		}
	})
}

// Theme captures the prefixes a Writer prints before each severity.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	WarningPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used by NewWriter when no theme is given.
var DefaultTheme = Theme{
	InfoPrefix:    "[info]",
	SuccessPrefix: "[ok]",
	WarningPrefix: "[warn]",
	ErrorPrefix:   "[error]",
}

// Writer prints one line per message, for terminal sessions.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	theme Theme
}

// NewWriter returns a surface printing to out.
func NewWriter(out io.Writer, theme *Theme) *Writer {
	w := &Writer{out: out, theme: DefaultTheme}
	if theme != nil {
		w.theme = *theme
	}
	return w
}

// Notify prints the message with its severity prefix.
func (w *Writer) Notify(message string, severity Severity) {
	if w == nil || w.out == nil {
		return
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	prefix := w.prefix(severity)
	if prefix == "" {
		_, _ = fmt.Fprintln(w.out, message)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", prefix, message)
}

func (w *Writer) prefix(severity Severity) string {
	switch severity {
	case SeveritySuccess:
		return w.theme.SuccessPrefix
	case SeverityWarning:
		return w.theme.WarningPrefix
	case SeverityDanger:
		return w.theme.ErrorPrefix
	default:
		return w.theme.InfoPrefix
	}
}
