package notify

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Kind selects the markup a HTML surface produces.
type Kind string

const (
	KindAlert Kind = "alert"
	KindToast Kind = "toast"
)

const alertTemplate = `<div class="alert alert-{{ severity }} alert-dismissible fade show" role="alert">
    {{ message|safe }}
    <button type="button" class="btn-close" data-bs-dismiss="alert"></button>
</div>`

const toastTemplate = `<div class="toast align-items-center text-white bg-{{ severity }} border-0" role="alert">
    <div class="d-flex">
        <div class="toast-body">{{ message|safe }}</div>
        <button type="button" class="btn-close btn-close-white me-2 m-auto" data-bs-dismiss="toast"></button>
    </div>
</div>`

var (
	templatesOnce sync.Once
	templates     map[Kind]*pongo2.Template
	templatesErr  error
)

func compiledTemplates() (map[Kind]*pongo2.Template, error) {
	templatesOnce.Do(func() {
		alert, err := pongo2.FromString(alertTemplate)
		if err != nil {
			templatesErr = err
			return
		}
		toast, err := pongo2.FromString(toastTemplate)
		if err != nil {
			templatesErr = err
			return
		}
		templates = map[Kind]*pongo2.Template{KindAlert: alert, KindToast: toast}
	})
	return templates, templatesErr
}

// Render produces the markup for one message. The message is sanitised so
// only a few inline formatting tags survive.
func Render(kind Kind, message string, severity Severity) (string, error) {
	tpls, err := compiledTemplates()
	if err != nil {
		return "", err
	}
	tpl, ok := tpls[kind]
	if !ok {
		tpl = tpls[KindAlert]
	}
	return tpl.Execute(pongo2.Context{
		"severity": cssSeverity(severity),
		"message":  SanitizeMessage(message),
	})
}

// HTMLSurface collects rendered notifications newest first, the way a page
// inserts alerts at the top of its container.
type HTMLSurface struct {
	mu        sync.Mutex
	kind      Kind
	fragments []string
	onError   func(error)
}

// NewHTMLSurface returns a surface rendering kind markup.
func NewHTMLSurface(kind Kind, onError func(error)) *HTMLSurface {
	if kind == "" {
		kind = KindAlert
	}
	return &HTMLSurface{kind: kind, onError: onError}
}

// Notify renders and stores the message.
func (s *HTMLSurface) Notify(message string, severity Severity) {
	if strings.TrimSpace(message) == "" {
		return
	}
	html, err := Render(s.kind, message, severity)
	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append([]string{html}, s.fragments...)
}

// Fragments returns the rendered markup, newest first.
func (s *HTMLSurface) Fragments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fragments...)
}

// Dismiss removes the fragment at index, mirroring the close button.
func (s *HTMLSurface) Dismiss(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.fragments) {
		return
	}
	s.fragments = append(s.fragments[:index], s.fragments[index+1:]...)
}

func cssSeverity(severity Severity) string {
	switch severity {
	case SeveritySuccess, SeverityWarning, SeverityDanger:
		return string(severity)
	default:
		return string(SeverityInfo)
	}
}
