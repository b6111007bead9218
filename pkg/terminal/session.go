package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdraft/pkg/apiclient"
	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/model"
	"github.com/goliatone/go-formdraft/pkg/widgets"
)

const fallbackInvalidMessage = "Please enter a valid value."

// Session walks a controller's fields through a PromptDriver, then submits.
// Every answer goes through Controller.OnInput, so drafts are saved as the
// user types and an interrupted session resumes where it stopped.
type Session struct {
	ctrl        *controller.Controller
	view        *View
	driver      PromptDriver
	attachments widgets.Attachments
	pageSize    int
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithAttachments supplies the widget bindings computed for the form.
// Fields bound to the tooltip widget show their help text; fields bound to
// the select widget prompt with a list.
func WithAttachments(a widgets.Attachments) Option {
	return func(s *Session) {
		s.attachments = a
	}
}

// WithPageSize sets how many options a select prompt shows at once.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// NewSession binds a controller to its terminal view. The view must be the
// one the controller was built with.
func NewSession(ctrl *controller.Controller, view *View, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("terminal: controller is required")
	}
	if view == nil {
		return nil, errors.New("terminal: view is required")
	}
	s := &Session{ctrl: ctrl, view: view, pageSize: 10}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(view.out)
	}
	if s.attachments == nil {
		s.attachments = widgets.NewRegistry().Init(widgets.ElementsFromFields(ctrl.Form().Fields))
	}
	return s, nil
}

// Run prompts every field, asks for confirmation and submits. A blocked
// submit returns to the first invalid field; a failed submit offers a retry.
// Declining either confirmation returns ErrDeclined with the draft intact.
func (s *Session) Run(ctx context.Context) (controller.Result, error) {
	for _, field := range s.ctrl.Fields() {
		if err := s.promptField(ctx, field.Config.Name); err != nil {
			return controller.Result{}, err
		}
	}

	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Submit the form?", Default: true})
	if err != nil {
		return controller.Result{}, err
	}
	if !ok {
		return controller.Result{}, ErrDeclined
	}

	for {
		res, err := s.ctrl.OnSubmit(ctx, &controller.SubmitEvent{})
		if err != nil {
			return res, err
		}
		switch res.Outcome {
		case controller.OutcomeBlocked:
			for _, name := range res.Invalid {
				if err := s.promptField(ctx, name); err != nil {
					return res, err
				}
			}
		case controller.OutcomeFailed:
			retry, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: "Try again?",
				Default: apiclient.IsRetryable(res.Err),
			})
			if err != nil {
				return res, err
			}
			if !retry {
				return res, ErrDeclined
			}
		default:
			return res, nil
		}
	}
}

// promptField asks for a value until the controller accepts it.
func (s *Session) promptField(ctx context.Context, name string) error {
	for {
		field, ok := s.ctrl.Field(name)
		if !ok {
			return fmt.Errorf("terminal: %w: %s", controller.ErrUnknownField, name)
		}
		value, err := s.ask(ctx, field)
		if err != nil {
			return err
		}
		verdict, err := s.ctrl.OnInput(controller.InputEvent{Name: name, Value: value})
		if err != nil {
			return err
		}
		if verdict.Valid {
			return nil
		}
		if err := s.driver.Info(ctx, invalidMessage(verdict)); err != nil {
			return err
		}
	}
}

func (s *Session) ask(ctx context.Context, field model.Field) (string, error) {
	cfg := field.Config
	message := cfg.DisplayLabel()
	if cfg.Required {
		message += " *"
	}
	help := ""
	if s.attachments.Has(cfg.Name, widgets.WidgetTooltip) {
		help = helpText(cfg)
	}

	if len(cfg.Enum) > 0 && s.attachments.Has(cfg.Name, widgets.WidgetSelect) {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      cfg.Enum,
			DefaultIndex: indexOf(cfg.Enum, field.Value),
			Help:         help,
			PageSize:     s.pageSize,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(cfg.Enum) {
			return "", nil
		}
		return cfg.Enum[idx], nil
	}

	return s.driver.Input(ctx, InputConfig{Message: message, Default: field.Value, Help: help})
}

func helpText(cfg model.FieldConfig) string {
	if tip := strings.TrimSpace(cfg.Metadata["tooltip"]); tip != "" {
		return tip
	}
	return strings.TrimSpace(cfg.Help)
}

func invalidMessage(v model.Verdict) string {
	switch {
	case v.Message != "":
		return v.Message
	case v.Reason != "":
		return v.Reason
	default:
		return fallbackInvalidMessage
	}
}
