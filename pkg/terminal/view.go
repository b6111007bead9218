package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// View prints controller feedback to a terminal. It remembers the last
// focused field so a Session can return to it after a blocked submit.
type View struct {
	out      io.Writer
	labels   map[string]string
	progress int
	focused  string
	loading  bool
}

// NewView builds a View writing to out (stdout when nil). labels maps field
// names to display labels.
func NewView(out io.Writer, labels map[string]string) *View {
	if out == nil {
		out = os.Stdout
	}
	return &View{out: out, labels: labels, progress: -1}
}

func (v *View) label(name string) string {
	if label, ok := v.labels[name]; ok && label != "" {
		return label
	}
	return name
}

// SetFieldState prints feedback for invalid fields only.
func (v *View) SetFieldState(name string, validity model.Validity, message string) {
	if validity != model.Invalid || message == "" {
		return
	}
	fmt.Fprintf(v.out, "  ! %s: %s\n", v.label(name), message)
}

// SetProgress prints the completion percentage when it changes.
func (v *View) SetProgress(percent int) {
	if percent == v.progress {
		return
	}
	v.progress = percent
	fmt.Fprintf(v.out, "Progress: %d%%\n", percent)
}

func (v *View) MarkAttempted() {}

func (v *View) Focus(name string) {
	v.focused = name
}

func (v *View) ScrollIntoView(name string) {
	fmt.Fprintf(v.out, "Please review %q\n", v.label(name))
}

// SetSubmitLoading prints the processing indicator when loading starts.
func (v *View) SetSubmitLoading(loading bool) {
	if loading && !v.loading {
		fmt.Fprintln(v.out, "Processing...")
	}
	v.loading = loading
}

// Focused returns the name passed to the last Focus call.
func (v *View) Focused() string {
	return v.focused
}

// Progress returns the last printed percentage, or -1 before the first one.
func (v *View) Progress() int {
	return v.progress
}

// Labels maps every field of form to its display label.
func Labels(form model.FormModel) map[string]string {
	out := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		out[field.Name] = field.DisplayLabel()
	}
	return out
}
