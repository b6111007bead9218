package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formdraft/pkg/model"
)

const (
	orderExtension = "x-formdraft-order"
	ruleExtension  = "x-formdraft-rule"
)

// FromOpenAPI derives a form from the JSON request body of operationID.
// Properties become fields ordered by the x-formdraft-order extension and
// then by name; the schema's required list sets the required flags.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (model.FormModel, error) {
	if len(data) == 0 {
		return model.FormModel{}, errors.New("schema: openapi document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("schema: load openapi: %w", err)
	}
	if doc.Paths == nil {
		return model.FormModel{}, errors.New("schema: openapi document has no paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			body := requestSchema(op.RequestBody)
			if body == nil {
				return model.FormModel{}, fmt.Errorf("schema: operation %q has no JSON request body", operationID)
			}
			form := model.FormModel{
				ID:       operationID,
				Endpoint: path,
				Method:   strings.ToUpper(method),
				Summary:  op.Summary,
				Fields:   fieldsFromSchema(body),
			}
			if err := Validate(form); err != nil {
				return model.FormModel{}, err
			}
			return form, nil
		}
	}
	return model.FormModel{}, fmt.Errorf("schema: operation %q not found", operationID)
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := ref.Value.Content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type orderedField struct {
	order int
	cfg   model.FieldConfig
}

func fieldsFromSchema(s *openapi3.Schema) []model.FieldConfig {
	required := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		required[name] = struct{}{}
	}

	ordered := make([]orderedField, 0, len(s.Properties))
	for name, ref := range s.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		_, isRequired := required[name]
		cfg := model.FieldConfig{
			Name:     name,
			Type:     fieldType(prop),
			Required: isRequired,
			Label:    prop.Title,
			Help:     prop.Description,
			Rule:     stringExtension(prop.Extensions, ruleExtension),
		}
		for _, v := range prop.Enum {
			cfg.Enum = append(cfg.Enum, fmt.Sprint(v))
		}
		if len(cfg.Enum) > 0 {
			cfg.Type = model.FieldTypeSelect
		}
		cfg.Validations = validationsFromSchema(prop)
		order, ok := intExtension(prop.Extensions, orderExtension)
		if !ok {
			order = int(^uint(0) >> 1)
		}
		ordered = append(ordered, orderedField{order: order, cfg: cfg})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].order == ordered[j].order {
			return ordered[i].cfg.Name < ordered[j].cfg.Name
		}
		return ordered[i].order < ordered[j].order
	})
	out := make([]model.FieldConfig, len(ordered))
	for i, entry := range ordered {
		out[i] = entry.cfg
	}
	return out
}

func fieldType(s *openapi3.Schema) model.FieldType {
	var typ string
	if s.Type != nil {
		if slice := s.Type.Slice(); len(slice) > 0 {
			typ = slice[0]
		}
	}
	switch {
	case typ == "integer":
		return model.FieldTypeInteger
	case typ == "number":
		return model.FieldTypeNumber
	case s.Format == "email":
		return model.FieldTypeEmail
	default:
		return model.FieldTypeString
	}
}

func validationsFromSchema(s *openapi3.Schema) []model.ValidationRule {
	var rules []model.ValidationRule
	if s.Min != nil {
		rules = append(rules, valueRule(model.ValidationRuleMin, formatFloat(*s.Min)))
	}
	if s.Max != nil {
		rules = append(rules, valueRule(model.ValidationRuleMax, formatFloat(*s.Max)))
	}
	if s.MinLength != 0 {
		rules = append(rules, valueRule(model.ValidationRuleMinLength, strconv.FormatUint(s.MinLength, 10)))
	}
	if s.MaxLength != nil {
		rules = append(rules, valueRule(model.ValidationRuleMaxLength, strconv.FormatUint(*s.MaxLength, 10)))
	}
	if s.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": s.Pattern},
		})
	}
	return rules
}

func stringExtension(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intExtension(ext map[string]any, key string) (int, bool) {
	switch v := ext[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}
