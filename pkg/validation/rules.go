package validation

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// Rule is a custom semantic check applied after the base constraints.
type Rule func(value string) model.Verdict

// RuleAge is the registry name of the age range rule.
const RuleAge = "age"

// Validate evaluates the base constraints and, when present, the custom rule.
// The field is valid only when both pass. The custom reason takes precedence;
// the custom message is used unless the custom rule passed while the base
// constraints failed.
func Validate(cfg model.FieldConfig, value string, custom Rule) model.Verdict {
	base := Base(cfg, value)
	if custom == nil {
		return base
	}
	extra := custom(value)
	out := model.Verdict{
		Valid:   base.Valid && extra.Valid,
		Reason:  extra.Reason,
		Message: base.Message,
	}
	if extra.Message != "" && (!extra.Valid || base.Valid) {
		out.Message = extra.Message
	}
	if out.Reason == "" && !base.Valid {
		out.Reason = base.Message
	}
	return out
}

// Registry resolves custom rules by name so declarative form definitions can
// reference them.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry returns a registry with the built-in rules registered.
func NewRegistry() *Registry {
	reg := &Registry{rules: make(map[string]Rule)}
	reg.Register(RuleAge, AgeRule())
	return reg
}

// Register adds or replaces a named rule. Empty names and nil rules are
// ignored.
func (r *Registry) Register(name string, rule Rule) {
	if r == nil || rule == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[key] = rule
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	if r == nil {
		return nil, false
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[key]
	return rule, ok
}

// Names lists registered rule names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rules))
	for name := range r.rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
