package formdraft_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"github.com/goliatone/go-formdraft"
	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/draft"
	"github.com/goliatone/go-formdraft/pkg/notify"
	"github.com/goliatone/go-formdraft/pkg/testsupport"
	"github.com/goliatone/go-formdraft/pkg/widgets"
)

func TestSetup_RestoresDraftAcrossSessions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg := formdraft.DefaultConfig()
	cfg.StorageDir = "/drafts"
	cfg.Mode = "native"

	app, err := formdraft.Setup(context.Background(), formdraft.Options{Config: cfg, Fs: fsys, Notifier: notify.Nop})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if app.Form.ID != "predictionForm" || len(app.Form.Fields) != 18 {
		t.Fatalf("unexpected form %s with %d fields", app.Form.ID, len(app.Form.Fields))
	}
	if !app.Attachments.Has("age", widgets.WidgetTooltip) || !app.Attachments.Has("gender", widgets.WidgetSelect) {
		t.Fatalf("unexpected attachments %v", app.Attachments)
	}
	for _, name := range []string{"age", "gender"} {
		value := testsupport.SampleSubmission()[name]
		if _, err := app.Controller.OnInput(controller.InputEvent{Name: name, Value: value}); err != nil {
			t.Fatalf("input %s: %v", name, err)
		}
	}

	path := draft.NewFileBackend(fsys, "/drafts").Path(draft.DefaultKey)
	if ok, _ := afero.Exists(fsys, path); !ok {
		t.Fatalf("draft file %s not written", path)
	}

	again, err := formdraft.Setup(context.Background(), formdraft.Options{Config: cfg, Fs: fsys, Notifier: notify.Nop})
	if err != nil {
		t.Fatalf("second setup: %v", err)
	}
	if got := again.Controller.Progress(); got != 11 {
		t.Fatalf("restored progress = %d, want 11", got)
	}
	age, _ := again.Controller.Field("age")
	if age.Value != "30" {
		t.Fatalf("restored age = %q", age.Value)
	}
}

func TestSetup_SubmitsThroughConfiguredEndpoint(t *testing.T) {
	defer goleak.VerifyNone(t)

	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		_, _ = io.WriteString(w, `{"prediction":1,"probability":0.82}`)
	}))
	defer srv.Close()

	fsys := afero.NewMemMapFs()
	cfg := formdraft.DefaultConfig()
	cfg.StorageDir = "/drafts"
	cfg.Endpoint = srv.URL

	var states []string
	app, err := formdraft.Setup(context.Background(), formdraft.Options{
		Config:   cfg,
		Fs:       fsys,
		Notifier: notify.Nop,
		Observers: []func(from, to controller.State){
			func(_, to controller.State) { states = append(states, to.String()) },
		},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer app.Client.CloseIdleConnections()

	sample := testsupport.SampleSubmission()
	for name, value := range sample {
		if _, err := app.Controller.OnInput(controller.InputEvent{Name: name, Value: value}); err != nil {
			t.Fatalf("input %s: %v", name, err)
		}
	}
	if got := app.Controller.Progress(); got != 100 {
		t.Fatalf("progress = %d", got)
	}

	res, err := app.Controller.OnSubmit(context.Background(), nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Outcome != controller.OutcomeSucceeded {
		t.Fatalf("outcome = %v (%v)", res.Outcome, res.Err)
	}
	if diff := cmp.Diff(sample, received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"validating", "submitting", "succeeded"}, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if got := app.Store.Load(); len(got) != 0 {
		t.Fatalf("draft not cleared: %v", got)
	}
}

func TestLoadForm_FromYAMLFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/forms/contact.yaml", []byte("id: contact\nfields:\n  - name: email\n    type: email\n    required: true\n"), 0o644)

	cfg := formdraft.DefaultConfig()
	cfg.FormFile = "/forms/contact.yaml"
	cfg.FormID = "contactForm"

	form, err := formdraft.LoadForm(context.Background(), cfg, fsys)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if form.ID != "contactForm" || len(form.Fields) != 1 {
		t.Fatalf("unexpected form %+v", form)
	}
}

func TestSetup_RejectsInvalidConfig(t *testing.T) {
	cfg := formdraft.DefaultConfig()
	cfg.Mode = "smoke-signal"
	if _, err := formdraft.Setup(context.Background(), formdraft.Options{Config: cfg, Fs: afero.NewMemMapFs()}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestSetup_AlertSurfaceCollectsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Model not available"}`)
	}))
	defer srv.Close()

	cfg := formdraft.DefaultConfig()
	cfg.StorageDir = "/drafts"
	cfg.Endpoint = srv.URL
	cfg.Notification = "alert"

	app, err := formdraft.Setup(context.Background(), formdraft.Options{Config: cfg, Fs: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer app.Client.CloseIdleConnections()
	if app.Surface == nil {
		t.Fatalf("alert surface not wired")
	}

	for name, value := range testsupport.SampleSubmission() {
		_, _ = app.Controller.OnInput(controller.InputEvent{Name: name, Value: value})
	}
	res, err := app.Controller.OnSubmit(context.Background(), nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Outcome != controller.OutcomeFailed {
		t.Fatalf("outcome = %v", res.Outcome)
	}

	fragments := app.Surface.Fragments()
	if len(fragments) != 1 {
		t.Fatalf("expected one alert, got %d", len(fragments))
	}
	if !strings.Contains(fragments[0], "alert-danger") || !strings.Contains(fragments[0], controller.DefaultFailureMessage) {
		t.Fatalf("unexpected alert markup %q", fragments[0])
	}
	if strings.Contains(fragments[0], "Model not available") {
		t.Fatalf("raw service error leaked into the alert")
	}
}
