// Package controller binds the validation rules, draft store, progress
// tracker and submit client of one form. It is event driven: the UI layer
// calls OnInput on every value change and OnSubmit on every submit attempt.
// A Controller is not safe for concurrent use; bind its handlers from the
// single goroutine that owns the UI loop.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formdraft/pkg/apiclient"
	"github.com/goliatone/go-formdraft/pkg/model"
	"github.com/goliatone/go-formdraft/pkg/notify"
	"github.com/goliatone/go-formdraft/pkg/progress"
	"github.com/goliatone/go-formdraft/pkg/validation"
)

var (
	// ErrSubmitInFlight is returned when a submit is attempted while another
	// is awaiting its response.
	ErrSubmitInFlight = errors.New("controller: submit already in flight")
	// ErrUnknownField is returned for input on a field the form does not own.
	ErrUnknownField = errors.New("controller: unknown field")
)

// DraftStore persists the form snapshot.
type DraftStore interface {
	Load() model.Snapshot
	Save(model.Snapshot) error
	Clear() error
}

// Submitter sends validated values and returns the JSON response body.
type Submitter interface {
	Submit(ctx context.Context, values map[string]string) (json.RawMessage, error)
}

// Outcome summarises a submit attempt.
type Outcome int

const (
	// OutcomeBlocked means validation failed and nothing was sent.
	OutcomeBlocked Outcome = iota
	// OutcomeAccepted means the native submit was allowed to proceed.
	OutcomeAccepted
	// OutcomeSucceeded means the API accepted the submission.
	OutcomeSucceeded
	// OutcomeFailed means the API call failed; the draft is retained.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports what a submit attempt did.
type Result struct {
	Outcome      Outcome
	InvalidField string
	Invalid      []string
	Response     json.RawMessage
	Err          error
}

// Controller owns the live fields of one form.
type Controller struct {
	form       model.FormModel
	fields     []*model.Field
	index      map[string]int
	custom     map[string]validation.Rule
	rules      *validation.Registry
	fieldRules map[string]validation.Rule

	store     DraftStore
	tracker   *progress.Tracker
	notifier  notify.Notifier
	submitter Submitter
	view      View
	mode      Mode
	logger    *slog.Logger

	failureMessage string
	observers      []func(from, to State)

	state     State
	attempted bool
	progress  int
}

// New builds a controller for form, restores any saved draft and computes
// the initial progress.
func New(form model.FormModel, opts ...Option) (*Controller, error) {
	c := &Controller{
		form:           form,
		index:          make(map[string]int, len(form.Fields)),
		custom:         make(map[string]validation.Rule),
		rules:          validation.NewRegistry(),
		notifier:       notify.Nop,
		view:           NopView{},
		mode:           ModeAPI,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		failureMessage: DefaultFailureMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	var required []string
	for _, cfg := range form.Fields {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, errors.New("controller: field name is required")
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("controller: duplicate field %q", name)
		}
		cfg.Name = name
		c.index[name] = len(c.fields)
		c.fields = append(c.fields, &model.Field{Config: cfg})
		if cfg.Required {
			required = append(required, name)
		}

		if rule, ok := c.fieldRules[name]; ok {
			c.custom[name] = rule
			continue
		}
		if cfg.Rule != "" {
			rule, ok := c.rules.Lookup(cfg.Rule)
			if !ok {
				return nil, fmt.Errorf("controller: field %q references unknown rule %q", name, cfg.Rule)
			}
			c.custom[name] = rule
		}
	}
	for name := range c.fieldRules {
		if _, ok := c.index[name]; !ok {
			return nil, fmt.Errorf("controller: rule for unknown field %q", name)
		}
	}

	switch c.mode {
	case ModeNative:
	case ModeAPI:
		if c.submitter == nil {
			return nil, errors.New("controller: api mode requires a submitter")
		}
	default:
		return nil, fmt.Errorf("controller: unknown mode %q", c.mode)
	}

	c.tracker = progress.New(required)
	c.restore()
	c.refreshProgress()
	return c, nil
}

func (c *Controller) restore() {
	if c.store == nil {
		return
	}
	saved := c.store.Load()
	restored := 0
	for _, field := range c.fields {
		value, ok := saved[field.Config.Name]
		if !ok || value == "" {
			continue
		}
		c.setValue(field, value)
		restored++
	}
	if restored > 0 {
		c.logger.Debug("draft restored", "form", c.form.ID, "fields", restored)
	}
}

// OnInput applies a value change: the field is revalidated, progress is
// recomputed and the whole form is saved as the draft.
func (c *Controller) OnInput(ev InputEvent) (model.Verdict, error) {
	idx, ok := c.index[ev.Name]
	if !ok {
		return model.Verdict{}, fmt.Errorf("%w: %q", ErrUnknownField, ev.Name)
	}
	verdict := c.setValue(c.fields[idx], ev.Value)
	c.refreshProgress()
	c.saveDraft()
	return verdict, nil
}

func (c *Controller) setValue(field *model.Field, value string) model.Verdict {
	field.Value = value
	return c.evaluate(field)
}

func (c *Controller) evaluate(field *model.Field) model.Verdict {
	verdict := validation.Validate(field.Config, field.Value, c.custom[field.Config.Name])
	field.Apply(verdict)
	c.view.SetFieldState(field.Config.Name, field.Validity, field.Message)
	return verdict
}

func (c *Controller) refreshProgress() {
	c.progress = c.tracker.Compute(c.Values())
	c.view.SetProgress(c.progress)
}

func (c *Controller) saveDraft() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.Values()); err != nil {
		c.logger.Warn("draft save failed", "form", c.form.ID, "err", err)
	}
}

func (c *Controller) clearDraft() {
	if c.store == nil {
		return
	}
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("draft clear failed", "form", c.form.ID, "err", err)
	}
}

// OnSubmit runs a submit attempt. Invalid forms are blocked with focus on
// the first invalid field. Valid forms either proceed natively or are posted
// through the Submitter, which blocks until the response arrives.
func (c *Controller) OnSubmit(ctx context.Context, ev *SubmitEvent) (Result, error) {
	if ev == nil {
		ev = &SubmitEvent{}
	}
	if c.state == StateSubmitting {
		ev.PreventDefault()
		return Result{}, ErrSubmitInFlight
	}

	c.transition(StateValidating)
	var invalid []string
	for _, field := range c.fields {
		if !c.evaluate(field).Valid {
			invalid = append(invalid, field.Config.Name)
		}
	}
	c.attempted = true
	c.view.MarkAttempted()

	if len(invalid) > 0 {
		ev.PreventDefault()
		first := invalid[0]
		c.view.Focus(first)
		c.view.ScrollIntoView(first)
		c.transition(StateIdle)
		c.logger.Debug("submit blocked by validation", "form", c.form.ID, "invalid", invalid)
		return Result{Outcome: OutcomeBlocked, InvalidField: first, Invalid: invalid}, nil
	}

	c.view.SetSubmitLoading(true)
	c.transition(StateSubmitting)

	if c.mode == ModeNative {
		c.clearDraft()
		c.logger.Info("native submit accepted", "form", c.form.ID)
		return Result{Outcome: OutcomeAccepted}, nil
	}

	ev.PreventDefault()
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := c.submitter.Submit(ctx, c.Values())
	if err != nil {
		c.transition(StateFailed)
		c.view.SetSubmitLoading(false)
		c.logFailure(err)
		c.notifier.Notify(c.failureMessage, notify.SeverityDanger)
		c.transition(StateIdle)
		return Result{Outcome: OutcomeFailed, Err: err}, nil
	}

	c.transition(StateSucceeded)
	c.clearDraft()
	c.view.SetSubmitLoading(false)
	c.logger.Info("submit succeeded", "form", c.form.ID)
	return Result{Outcome: OutcomeSucceeded, Response: body}, nil
}

func (c *Controller) logFailure(err error) {
	attrs := []any{"form", c.form.ID, "err", err}
	var statusErr *apiclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		attrs = append(attrs, "kind", "protocol", "status", statusErr.StatusCode)
	case apiclient.IsProtocol(err):
		attrs = append(attrs, "kind", "protocol")
	case apiclient.IsTransport(err):
		attrs = append(attrs, "kind", "transport")
	}
	c.logger.Error("submit failed", attrs...)
}

func (c *Controller) transition(to State) {
	from := c.state
	if !canTransition(from, to) {
		c.logger.Warn("unexpected state transition", "from", from.String(), "to", to.String())
	}
	c.state = to
	for _, fn := range c.observers {
		fn(from, to)
	}
}

// State reports the submission state.
func (c *Controller) State() State {
	return c.state
}

// Mode reports how validated submits proceed.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Attempted reports whether a submit has been attempted.
func (c *Controller) Attempted() bool {
	return c.attempted
}

// Progress reports the last computed completion percentage.
func (c *Controller) Progress() int {
	return c.progress
}

// Form returns the form declaration.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// Values returns the current field values, empty ones included.
func (c *Controller) Values() model.Snapshot {
	out := make(model.Snapshot, len(c.fields))
	for _, field := range c.fields {
		out[field.Config.Name] = field.Value
	}
	return out
}

// Field returns a copy of the named field.
func (c *Controller) Field(name string) (model.Field, bool) {
	idx, ok := c.index[name]
	if !ok {
		return model.Field{}, false
	}
	return *c.fields[idx], true
}

// Fields returns copies of all fields in declaration order.
func (c *Controller) Fields() []model.Field {
	out := make([]model.Field, len(c.fields))
	for i, field := range c.fields {
		out[i] = *field
	}
	return out
}
