// Package widgets is the widget layer the form controller initialises once at
// start-up: named behaviours (tooltips, scroll-in animation) attached to
// marked elements. The controller only relies on the elements existing when
// Init runs; it never reads widget state back.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetTooltip   = "tooltip"
	WidgetAnimateIn = "animate-in"
	WidgetSelect    = "select"
)

// Element is a marked node the widget layer may attach to.
type Element struct {
	ID      string
	Classes []string
	Attrs   map[string]string
}

// HasClass reports whether the element carries class.
func (e Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Matcher decides whether a widget should attach to the element.
type Matcher func(el Element) bool

// Attach runs when a widget binds to an element.
type Attach func(el Element)

type rule struct {
	name     string
	priority int
	match    Matcher
	attach   Attach
	order    int
}

// Registry holds widget matchers. Higher priority wins Resolve; ties fall
// back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget with the provided name and priority. attach may be
// nil when the widget only needs to be recorded.
func (r *Registry) Register(name string, priority int, matcher Matcher, attach Attach) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		attach:   attach,
		order:    len(r.rules),
	})
}

func (r *Registry) sorted() []rule {
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	return rules
}

// Resolve returns the highest priority widget matching el. An explicit
// data-widget attribute is honoured first.
func (r *Registry) Resolve(el Element) (string, bool) {
	if explicit := strings.TrimSpace(el.Attrs["data-widget"]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	for _, entry := range r.sorted() {
		if entry.match(el) {
			return entry.name, true
		}
	}
	return "", false
}

// Attachments maps element IDs to the widgets bound to them.
type Attachments map[string][]string

// Has reports whether widget is attached to the element id.
func (a Attachments) Has(id, widget string) bool {
	for _, name := range a[id] {
		if name == widget {
			return true
		}
	}
	return false
}

// Init binds every matching widget to every element, in priority order, and
// reports what attached. Elements without an ID are still initialised but
// are not reported.
func (r *Registry) Init(elements []Element) Attachments {
	out := Attachments{}
	if r == nil {
		return out
	}
	rules := r.sorted()
	for _, el := range elements {
		for _, entry := range rules {
			if !entry.match(el) {
				continue
			}
			if entry.attach != nil {
				entry.attach(el)
			}
			if el.ID != "" {
				out[el.ID] = append(out[el.ID], entry.name)
			}
		}
	}
	return out
}

// ElementsFromFields marks form fields for the widget layer. Help text or a
// "tooltip" metadata entry marks the field for a tooltip; a "class" metadata
// entry supplies classes.
func ElementsFromFields(fields []model.FieldConfig) []Element {
	out := make([]Element, 0, len(fields))
	for _, field := range fields {
		attrs := make(map[string]string, len(field.Metadata)+2)
		for k, v := range field.Metadata {
			attrs[k] = v
		}
		tip := strings.TrimSpace(field.Metadata["tooltip"])
		if tip == "" {
			tip = strings.TrimSpace(field.Help)
		}
		if tip != "" {
			attrs["data-bs-toggle"] = "tooltip"
			attrs["title"] = tip
		}
		if len(field.Enum) > 0 {
			attrs["data-options"] = strings.Join(field.Enum, ",")
		}
		out = append(out, Element{
			ID:      field.Name,
			Classes: strings.Fields(field.Metadata["class"]),
			Attrs:   attrs,
		})
	}
	return out
}

var animatedClasses = []string{"feature-card", "step-card", "card"}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetTooltip, 90, func(el Element) bool {
		return el.Attrs["data-bs-toggle"] == "tooltip"
	}, nil)

	r.Register(WidgetSelect, 70, func(el Element) bool {
		return strings.TrimSpace(el.Attrs["data-options"]) != ""
	}, nil)

	r.Register(WidgetAnimateIn, 50, func(el Element) bool {
		for _, class := range animatedClasses {
			if el.HasClass(class) {
				return true
			}
		}
		return false
	}, nil)
}
