package controller

import (
	"log/slog"

	"github.com/goliatone/go-formdraft/pkg/notify"
	"github.com/goliatone/go-formdraft/pkg/validation"
)

// DefaultFailureMessage is shown when a submit fails for any reason.
const DefaultFailureMessage = "Failed to connect to the prediction service"

// Option configures a Controller.
type Option func(*Controller)

// WithStore persists drafts through store.
func WithStore(store DraftStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithView binds the UI layer.
func WithView(view View) Option {
	return func(c *Controller) {
		if view != nil {
			c.view = view
		}
	}
}

// WithNotifier sets the notification surface used on failures.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithSubmitter sets the API client used in ModeAPI.
func WithSubmitter(s Submitter) Option {
	return func(c *Controller) {
		c.submitter = s
	}
}

// WithMode selects native or API submission.
func WithMode(mode Mode) Option {
	return func(c *Controller) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// WithLogger receives diagnostics, including full submit error detail.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRules supplies the registry used to resolve FieldConfig.Rule names.
func WithRules(reg *validation.Registry) Option {
	return func(c *Controller) {
		if reg != nil {
			c.rules = reg
		}
	}
}

// WithFieldRule attaches a custom rule to one field, overriding any named
// rule in its config.
func WithFieldRule(field string, rule validation.Rule) Option {
	return func(c *Controller) {
		if c.fieldRules == nil {
			c.fieldRules = make(map[string]validation.Rule)
		}
		c.fieldRules[field] = rule
	}
}

// WithFailureMessage overrides the generic message shown on submit failure.
func WithFailureMessage(msg string) Option {
	return func(c *Controller) {
		if msg != "" {
			c.failureMessage = msg
		}
	}
}

// WithStateObserver is called on every lifecycle transition.
func WithStateObserver(fn func(from, to State)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}
