package schema_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdraft/pkg/model"
	"github.com/goliatone/go-formdraft/pkg/schema"
	"github.com/goliatone/go-formdraft/pkg/testsupport"
)

func TestLoadYAML_FoldsShorthandBounds(t *testing.T) {
	src := []byte(`
id: signup
method: post
fields:
  - name: nickname
    required: true
    minLength: 2
    maxLength: 12
    pattern: "[a-z]+"
  - name: score
    type: number
    min: 0.5
    max: 10
  - name: plan
    enum: [free, pro]
`)
	form, err := schema.LoadYAML(src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := model.FormModel{
		ID:     "signup",
		Method: "POST",
		Fields: []model.FieldConfig{
			{
				Name:     "nickname",
				Type:     model.FieldTypeString,
				Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "2"}},
					{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "12"}},
					{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "[a-z]+"}},
				},
			},
			{
				Name: "score",
				Type: model.FieldTypeNumber,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0.5"}},
					{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "10"}},
				},
			},
			{Name: "plan", Type: model.FieldTypeSelect, Enum: []string{"free", "pro"}},
		},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":     "id: [",
		"missing id":    "fields: [{name: a}]",
		"unnamed field": "id: f\nfields: [{label: A}]",
		"duplicate":     "id: f\nfields: [{name: a}, {name: a}]",
		"empty select":  "id: f\nfields: [{name: a, type: select}]",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := schema.LoadYAML([]byte(src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte("id: contact\nfields:\n  - name: email\n    type: email\n    required: true\n")},
	}
	form, err := schema.LoadFS(fsys, "forms/contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if form.ID != "contact" || len(form.Fields) != 1 || form.Fields[0].Type != model.FieldTypeEmail {
		t.Fatalf("unexpected form %+v", form)
	}

	if _, err := schema.LoadFS(fsys, "forms/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPrediction(t *testing.T) {
	form := testsupport.PredictionForm(t)

	if form.ID != "predictionForm" {
		t.Fatalf("form id = %q", form.ID)
	}
	if len(form.Fields) != 18 {
		t.Fatalf("expected 18 fields, got %d", len(form.Fields))
	}
	age := form.Fields[0]
	if age.Name != "age" || age.Type != model.FieldTypeInteger || age.Rule != "age" || !age.Required {
		t.Fatalf("unexpected age field %+v", age)
	}

	sample := testsupport.SampleSubmission()
	for _, field := range form.Fields {
		value, ok := sample[field.Name]
		if !ok {
			t.Fatalf("sample has no value for %s", field.Name)
		}
		if !field.Required {
			t.Fatalf("field %s should be required", field.Name)
		}
		if field.Type != model.FieldTypeSelect {
			continue
		}
		found := false
		for _, option := range field.Enum {
			if option == value {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("sample value %q is not an option of %s (%v)", value, field.Name, field.Enum)
		}
	}
}
