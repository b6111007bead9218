package notify_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdraft/pkg/notify"
)

func TestWriter_PrefixesBySeverity(t *testing.T) {
	var buf bytes.Buffer
	w := notify.NewWriter(&buf, nil)

	w.Notify("saved", notify.SeveritySuccess)
	w.Notify("  ", notify.SeverityInfo)
	w.Notify("Failed to connect to the prediction service", notify.SeverityDanger)

	want := "[ok] saved\n[error] Failed to connect to the prediction service\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestMulti_FansOut(t *testing.T) {
	var got []string
	record := notify.Func(func(message string, severity notify.Severity) {
		got = append(got, string(severity)+":"+message)
	})
	notify.Multi(record, nil, record).Notify("hello", notify.SeverityWarning)

	if diff := cmp.Diff([]string{"warning:hello", "warning:hello"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLSurface_RendersSanitisedAlertsNewestFirst(t *testing.T) {
	surface := notify.NewHTMLSurface(notify.KindAlert, func(err error) {
		t.Fatalf("render: %v", err)
	})

	surface.Notify("first", notify.SeverityInfo)
	surface.Notify(`<script>alert(1)</script><strong>Second</strong> & last`, notify.SeverityDanger)

	fragments := surface.Fragments()
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	newest := fragments[0]
	if !strings.Contains(newest, `class="alert alert-danger alert-dismissible fade show"`) {
		t.Fatalf("missing alert classes: %s", newest)
	}
	if strings.Contains(newest, "<script>") {
		t.Fatalf("script tag survived sanitising: %s", newest)
	}
	if !strings.Contains(newest, "<strong>Second</strong> &amp; last") {
		t.Fatalf("expected sanitised message, got: %s", newest)
	}
	if !strings.Contains(fragments[1], "first") {
		t.Fatalf("older fragment out of order: %s", fragments[1])
	}

	surface.Dismiss(0)
	if got := surface.Fragments(); len(got) != 1 || !strings.Contains(got[0], "first") {
		t.Fatalf("dismiss removed the wrong fragment: %v", got)
	}
}

func TestRender_ToastFallsBackToInfo(t *testing.T) {
	html, err := notify.Render(notify.KindToast, "Processing", notify.Severity("odd"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "bg-info") || !strings.Contains(html, `<div class="toast-body">Processing</div>`) {
		t.Fatalf("unexpected toast markup: %s", html)
	}
}
