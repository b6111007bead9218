package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdraft/pkg/model"
	"github.com/goliatone/go-formdraft/pkg/schema"
)

// PredictionForm returns the bundled prediction form, failing the test when
// the embedded declaration does not parse.
func PredictionForm(t testing.TB) model.FormModel {
	t.Helper()

	form, err := schema.Prediction()
	if err != nil {
		t.Fatalf("load prediction form: %v", err)
	}
	return form
}

// SampleSubmission returns a complete, valid set of prediction form values.
func SampleSubmission() map[string]string {
	return map[string]string{
		"age":                       "30",
		"gender":                    "female",
		"self_employed":             "no",
		"family_history":            "yes",
		"work_interfere":            "sometimes",
		"remote_work":               "yes",
		"tech_company":              "yes",
		"benefits":                  "yes",
		"care_options":              "yes",
		"wellness_program":          "no",
		"seek_help":                 "yes",
		"mental_health_consequence": "maybe",
		"phys_health_consequence":   "no",
		"coworkers":                 "some of them",
		"supervisor":                "yes",
		"mental_health_interview":   "no",
		"phys_health_interview":     "maybe",
		"mental_vs_physical":        "yes",
	}
}

// MustLoadFormModel loads a JSON golden file into a FormModel structure.
func MustLoadFormModel(t testing.TB, path string) model.FormModel {
	t.Helper()

	form, err := LoadFormModel(path)
	if err != nil {
		t.Fatalf("load form model: %v", err)
	}
	return form
}

// LoadFormModel reads a JSON fixture into a FormModel, returning an error for
// callers managing setup outside of *testing.T.
func LoadFormModel(path string) (model.FormModel, error) {
	if path == "" {
		return model.FormModel{}, errors.New("testsupport: form model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("testsupport: read form model: %w", err)
	}
	var out model.FormModel
	if err := json.Unmarshal(data, &out); err != nil {
		return model.FormModel{}, fmt.Errorf("testsupport: unmarshal form model: %w", err)
	}
	return out, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t testing.TB, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a context cancelled when the test finishes.
func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
