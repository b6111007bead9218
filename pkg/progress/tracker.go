// Package progress derives a form completion percentage from the fill state
// of its required fields.
package progress

import "strings"

// Tracker computes completion over a fixed set of required field names.
// The set is captured at construction and never changes.
type Tracker struct {
	required []string
}

// New returns a tracker over the given required field names. Duplicates and
// blank names are dropped.
func New(required []string) *Tracker {
	seen := make(map[string]struct{}, len(required))
	names := make([]string, 0, len(required))
	for _, name := range required {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return &Tracker{required: names}
}

// Required returns the tracked field names.
func (t *Tracker) Required() []string {
	return append([]string(nil), t.required...)
}

// Compute returns filled*100/required rounded down. A field counts as filled
// when its trimmed value is non-empty, regardless of validity. With no
// required fields the form is considered complete (100).
func (t *Tracker) Compute(values map[string]string) int {
	if len(t.required) == 0 {
		return 100
	}
	filled := 0
	for _, name := range t.required {
		if strings.TrimSpace(values[name]) != "" {
			filled++
		}
	}
	return filled * 100 / len(t.required)
}
