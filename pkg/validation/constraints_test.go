package validation

import (
	"testing"

	"github.com/goliatone/go-formdraft/pkg/model"
)

func TestBase_Constraints(t *testing.T) {
	minVal := map[string]string{"value": "1"}
	maxVal := map[string]string{"value": "10"}

	cases := []struct {
		name  string
		cfg   model.FieldConfig
		input string
		valid bool
	}{
		{"optional empty", model.FieldConfig{Name: "a"}, "", true},
		{"required blank", model.FieldConfig{Name: "a", Required: true}, "   ", false},
		{"required filled", model.FieldConfig{Name: "a", Required: true}, "x", true},
		{"integer ok", model.FieldConfig{Name: "n", Type: model.FieldTypeInteger}, "42", true},
		{"integer rejects float", model.FieldConfig{Name: "n", Type: model.FieldTypeInteger}, "4.2", false},
		{"number ok", model.FieldConfig{Name: "f", Type: model.FieldTypeNumber}, "4.2", true},
		{"number rejects text", model.FieldConfig{Name: "f", Type: model.FieldTypeNumber}, "four", false},
		{"number rejects NaN", model.FieldConfig{Name: "f", Type: model.FieldTypeNumber}, "NaN", false},
		{"min", model.FieldConfig{Name: "m", Type: model.FieldTypeInteger, Validations: []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: minVal}}}, "0", false},
		{"max", model.FieldConfig{Name: "m", Type: model.FieldTypeInteger, Validations: []model.ValidationRule{{Kind: model.ValidationRuleMax, Params: maxVal}}}, "11", false},
		{"within", model.FieldConfig{Name: "m", Type: model.FieldTypeInteger, Validations: []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: minVal}, {Kind: model.ValidationRuleMax, Params: maxVal}}}, "10", true},
		{"enum ok", model.FieldConfig{Name: "e", Type: model.FieldTypeSelect, Enum: []string{"yes", "no"}}, "yes", true},
		{"enum rejects", model.FieldConfig{Name: "e", Type: model.FieldTypeSelect, Enum: []string{"yes", "no"}}, "maybe", false},
		{"min length", model.FieldConfig{Name: "s", Validations: []model.ValidationRule{{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}}}}, "ab", false},
		{"max length", model.FieldConfig{Name: "s", Validations: []model.ValidationRule{{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "3"}}}}, "abcd", false},
		{"pattern anchors", model.FieldConfig{Name: "p", Validations: []model.ValidationRule{{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "[a-z]+"}}}}, "abc1", false},
		{"pattern ok", model.FieldConfig{Name: "p", Validations: []model.ValidationRule{{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "[a-z]+"}}}}, "abc", true},
		{"email ok", model.FieldConfig{Name: "mail", Type: model.FieldTypeEmail}, "a@example.com", true},
		{"email rejects display name", model.FieldConfig{Name: "mail", Type: model.FieldTypeEmail}, "A <a@example.com>", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Base(tc.cfg, tc.input)
			if got.Valid != tc.valid {
				t.Fatalf("Base(%q) valid = %v, want %v (message %q)", tc.input, got.Valid, tc.valid, got.Message)
			}
			if !got.Valid && got.Message == "" {
				t.Fatalf("expected a message for invalid verdict")
			}
		})
	}
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Lookup(" AGE "); !ok {
		t.Fatalf("expected built-in age rule")
	}
	reg.Register("even", func(value string) model.Verdict {
		return model.Verdict{Valid: len(value)%2 == 0}
	})
	rule, ok := reg.Lookup("even")
	if !ok {
		t.Fatalf("expected registered rule")
	}
	if !rule("ab").Valid || rule("abc").Valid {
		t.Fatalf("registered rule not applied")
	}
	if names := reg.Names(); len(names) != 2 || names[0] != "age" || names[1] != "even" {
		t.Fatalf("unexpected names %v", names)
	}
}
