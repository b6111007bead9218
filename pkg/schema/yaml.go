package schema

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdraft/pkg/model"
)

//go:embed forms/*.yaml
var bundled embed.FS

type formDoc struct {
	ID       string            `yaml:"id"`
	Endpoint string            `yaml:"endpoint"`
	Method   string            `yaml:"method"`
	Summary  string            `yaml:"summary"`
	Metadata map[string]string `yaml:"metadata"`
	Fields   []fieldDoc        `yaml:"fields"`
}

type fieldDoc struct {
	model.FieldConfig `yaml:",inline"`

	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	MinLength *int     `yaml:"minLength"`
	MaxLength *int     `yaml:"maxLength"`
	Pattern   string   `yaml:"pattern"`
}

// LoadYAML parses a form declaration. Shorthand bound keys (min, max,
// minLength, maxLength, pattern) are folded into validations.
func LoadYAML(data []byte) (model.FormModel, error) {
	var doc formDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.FormModel{}, fmt.Errorf("schema: parse yaml: %w", err)
	}

	form := model.FormModel{
		ID:       strings.TrimSpace(doc.ID),
		Endpoint: strings.TrimSpace(doc.Endpoint),
		Method:   strings.ToUpper(strings.TrimSpace(doc.Method)),
		Summary:  doc.Summary,
		Metadata: doc.Metadata,
	}
	for _, fd := range doc.Fields {
		cfg := fd.FieldConfig
		if fd.Min != nil {
			cfg.Validations = append(cfg.Validations, valueRule(model.ValidationRuleMin, formatFloat(*fd.Min)))
		}
		if fd.Max != nil {
			cfg.Validations = append(cfg.Validations, valueRule(model.ValidationRuleMax, formatFloat(*fd.Max)))
		}
		if fd.MinLength != nil {
			cfg.Validations = append(cfg.Validations, valueRule(model.ValidationRuleMinLength, strconv.Itoa(*fd.MinLength)))
		}
		if fd.MaxLength != nil {
			cfg.Validations = append(cfg.Validations, valueRule(model.ValidationRuleMaxLength, strconv.Itoa(*fd.MaxLength)))
		}
		if fd.Pattern != "" {
			cfg.Validations = append(cfg.Validations, model.ValidationRule{
				Kind:   model.ValidationRulePattern,
				Params: map[string]string{"pattern": fd.Pattern},
			})
		}
		if cfg.Type == "" {
			cfg.Type = model.FieldTypeString
			if len(cfg.Enum) > 0 {
				cfg.Type = model.FieldTypeSelect
			}
		}
		form.Fields = append(form.Fields, cfg)
	}
	if err := Validate(form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

// LoadFS reads and parses a YAML form from fsys.
func LoadFS(fsys fs.FS, path string) (model.FormModel, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return LoadYAML(data)
}

// Prediction returns the bundled prediction survey form.
func Prediction() (model.FormModel, error) {
	return LoadFS(bundled, "forms/prediction.yaml")
}

// Validate checks a form declaration for structural problems.
func Validate(form model.FormModel) error {
	if form.ID == "" {
		return errors.New("schema: form id is required")
	}
	seen := make(map[string]struct{}, len(form.Fields))
	for i, field := range form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("schema: field %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schema: duplicate field %q", name)
		}
		seen[name] = struct{}{}
		if field.Type == model.FieldTypeSelect && len(field.Enum) == 0 {
			return fmt.Errorf("schema: select field %q has no options", name)
		}
	}
	return nil
}

func valueRule(kind, value string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
