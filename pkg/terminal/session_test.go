package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/draft"
	"github.com/goliatone/go-formdraft/pkg/model"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	helps        []string
	defaults     []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.helps = append(s.helps, cfg.Help)
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.defaults = append(s.defaults, cfg.Options[max(cfg.DefaultIndex, 0)])
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type stubSubmitter struct {
	errs  []error
	calls int
}

func (s *stubSubmitter) Submit(context.Context, map[string]string) (json.RawMessage, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return json.RawMessage(`{"prediction":0}`), nil
}

func sampleForm() model.FormModel {
	return model.FormModel{
		ID: "predictionForm",
		Fields: []model.FieldConfig{
			{Name: "age", Type: model.FieldTypeInteger, Required: true, Label: "Age", Rule: "age", Help: "Age between 18 and 80."},
			{Name: "gender", Type: model.FieldTypeSelect, Required: true, Label: "Gender", Enum: []string{"male", "female", "other"}},
		},
	}
}

func newHarness(t *testing.T, backend draft.Backend, submitter controller.Submitter, driver *stubDriver) (*Session, *controller.Controller, *bytes.Buffer) {
	t.Helper()

	store, err := draft.NewStore(backend, draft.DefaultKey)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	form := sampleForm()
	var out bytes.Buffer
	view := NewView(&out, Labels(form))
	ctrl, err := controller.New(form,
		controller.WithStore(store),
		controller.WithView(view),
		controller.WithSubmitter(submitter),
	)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	session, err := NewSession(ctrl, view, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, ctrl, &out
}

func TestSession_RepromptsInvalidValuesThenSubmits(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"12", "30"},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	submitter := &stubSubmitter{}
	session, ctrl, out := newHarness(t, draft.NewMemoryBackend(), submitter, driver)

	res, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Outcome != controller.OutcomeSucceeded {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if diff := cmp.Diff([]string{"Minimum age is 18 years"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.helps[0] != "Age between 18 and 80." {
		t.Fatalf("tooltip help not shown: %q", driver.helps[0])
	}
	if ctrl.State() != controller.StateSucceeded {
		t.Fatalf("state = %v", ctrl.State())
	}
	for _, want := range []string{"Progress: 0%", "Progress: 50%", "Progress: 100%", "Processing..."} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSession_ResumesFromDraft(t *testing.T) {
	backend := draft.NewMemoryBackend()
	_ = backend.Set(draft.DefaultKey, `{"age":"44","gender":"other"}`)
	driver := &stubDriver{
		inputs:    []string{"44"},
		selectIdx: []int{2},
		confirm:   []bool{false},
	}
	session, _, _ := newHarness(t, backend, &stubSubmitter{}, driver)

	if _, err := session.Run(context.Background()); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if diff := cmp.Diff([]string{"44", "other"}, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	raw, ok, _ := backend.Get(draft.DefaultKey)
	if !ok || !strings.Contains(raw, `"gender":"other"`) {
		t.Fatalf("draft should be kept after declining, got %q", raw)
	}
}

func TestSession_RetriesAfterFailure(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"25"},
		selectIdx: []int{0},
		confirm:   []bool{true, true},
	}
	submitter := &stubSubmitter{errs: []error{errors.New("connection refused")}}
	session, _, _ := newHarness(t, draft.NewMemoryBackend(), submitter, driver)

	res, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Outcome != controller.OutcomeSucceeded || submitter.calls != 2 {
		t.Fatalf("outcome = %v after %d calls", res.Outcome, submitter.calls)
	}
}

func TestSession_DeclineRetryKeepsFailure(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"25"},
		selectIdx: []int{0},
		confirm:   []bool{true, false},
	}
	submitter := &stubSubmitter{errs: []error{errors.New("connection refused")}}
	session, ctrl, _ := newHarness(t, draft.NewMemoryBackend(), submitter, driver)

	res, err := session.Run(context.Background())
	if !errors.Is(err, ErrDeclined) || res.Outcome != controller.OutcomeFailed {
		t.Fatalf("unexpected result %+v err %v", res, err)
	}
	if ctrl.State() != controller.StateIdle {
		t.Fatalf("state = %v", ctrl.State())
	}
}

func TestNewSession_RequiresControllerAndView(t *testing.T) {
	if _, err := NewSession(nil, NewView(nil, nil)); err == nil {
		t.Fatalf("expected error without controller")
	}
}
