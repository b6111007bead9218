package controller

import "github.com/goliatone/go-formdraft/pkg/model"

// View is the UI layer the controller drives. Implementations translate the
// calls into whatever the front end uses: CSS classes, terminal output, or a
// recorded log in tests.
type View interface {
	// SetFieldState shows the validity class and feedback message of a field.
	SetFieldState(name string, validity model.Validity, message string)
	// SetProgress writes the completion percentage to the progress indicator.
	SetProgress(percent int)
	// MarkAttempted flags the form as having had a submit attempt so styling
	// reflects evaluated state of untouched fields.
	MarkAttempted()
	// Focus moves input focus to a field.
	Focus(name string)
	// ScrollIntoView smoothly brings a field to the centre of the viewport.
	ScrollIntoView(name string)
	// SetSubmitLoading swaps the submit control to a disabled loading
	// indicator, or restores its original enabled label.
	SetSubmitLoading(loading bool)
}

// NopView ignores every call.
type NopView struct{}

func (NopView) SetFieldState(string, model.Validity, string) {}
func (NopView) SetProgress(int)                              {}
func (NopView) MarkAttempted()                               {}
func (NopView) Focus(string)                                 {}
func (NopView) ScrollIntoView(string)                        {}
func (NopView) SetSubmitLoading(bool)                        {}

// InputEvent is a value change on one field.
type InputEvent struct {
	Name  string
	Value string
}

// SubmitEvent is a submit attempt. Calling PreventDefault cancels the
// native submit action.
type SubmitEvent struct {
	prevented bool
}

// PreventDefault cancels the native submit action.
func (e *SubmitEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether the native action was cancelled.
func (e *SubmitEvent) DefaultPrevented() bool {
	return e.prevented
}
