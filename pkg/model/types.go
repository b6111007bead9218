package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeSelect  FieldType = "select"
	FieldTypeEmail   FieldType = "email"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Validity is the evaluated state of a field.
type Validity int

const (
	Unvalidated Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// Class returns the CSS-style class a UI layer applies for the validity.
func (v Validity) Class() string {
	switch v {
	case Valid:
		return "is-valid"
	case Invalid:
		return "is-invalid"
	default:
		return ""
	}
}

// Verdict is the outcome of validating one field value. Reason is the
// machine-checkable custom validity message (empty when the rule has none);
// Message is the human-readable feedback text.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Validity maps the verdict onto a field validity state.
func (v Verdict) Validity() Validity {
	if v.Valid {
		return Valid
	}
	return Invalid
}

// FieldConfig is the static declaration of a form input.
type FieldConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Enum        []string          `json:"enum,omitempty" yaml:"enum,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Rule        string            `json:"rule,omitempty" yaml:"rule,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (c FieldConfig) DisplayLabel() string {
	if label := strings.TrimSpace(c.Label); label != "" {
		return label
	}
	return c.Name
}

// Field is a live input owned by a form: its static config plus the current
// raw value and the verdict computed from that value.
type Field struct {
	Config   FieldConfig
	Value    string
	Validity Validity
	Message  string
	Reason   string
}

// Filled reports whether the trimmed value is non-empty.
func (f *Field) Filled() bool {
	return strings.TrimSpace(f.Value) != ""
}

// Apply records a verdict on the field.
func (f *Field) Apply(v Verdict) {
	f.Validity = v.Validity()
	f.Message = v.Message
	f.Reason = v.Reason
}

// FormModel is the declaration of a whole form.
type FormModel struct {
	ID       string            `json:"id" yaml:"id"`
	Endpoint string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method   string            `json:"method,omitempty" yaml:"method,omitempty"`
	Summary  string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Fields   []FieldConfig     `json:"fields" yaml:"fields"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Snapshot maps field names to raw values. Absent keys mean "no value".
type Snapshot map[string]string

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
