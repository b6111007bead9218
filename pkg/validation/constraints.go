package validation

import (
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// Base messages mirror the wording browsers use for native constraint
// failures so the terminal and HTML surfaces read the same.
const (
	MessageRequired = "Please fill out this field."
	MessageInteger  = "Please enter a whole number."
	MessageNumber   = "Please enter a number."
	MessageEmail    = "Please enter an email address."
	MessageOption   = "Please select one of the listed options."
	MessagePattern  = "Please match the requested format."
)

type constraints struct {
	required bool
	kind     model.FieldType
	min      *float64
	max      *float64
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	enum     map[string]struct{}
}

var (
	constraintsMu    sync.Mutex
	constraintsCache = make(map[string]constraints)
)

// Base evaluates the declared constraints of cfg against value.
func Base(cfg model.FieldConfig, value string) model.Verdict {
	return collectConstraints(cfg).check(value)
}

func collectConstraints(cfg model.FieldConfig) constraints {
	key := cacheKey(cfg)
	constraintsMu.Lock()
	defer constraintsMu.Unlock()
	if c, ok := constraintsCache[key]; ok {
		return c
	}

	c := constraints{required: cfg.Required, kind: cfg.Type}
	for _, v := range cfg.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				c.min = &val
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				c.max = &val
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				c.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				c.maxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				// HTML patterns match the whole value.
				if re, err := regexp.Compile("^(?:" + expr + ")$"); err == nil {
					c.pattern = re
				}
			}
		}
	}
	if len(cfg.Enum) > 0 {
		c.enum = make(map[string]struct{}, len(cfg.Enum))
		for _, option := range cfg.Enum {
			c.enum[option] = struct{}{}
		}
	}
	constraintsCache[key] = c
	return c
}

func (c constraints) check(value string) model.Verdict {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if c.required {
			return invalid(MessageRequired)
		}
		return model.Verdict{Valid: true}
	}

	switch c.kind {
	case model.FieldTypeInteger:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return invalid(MessageInteger)
		}
		if v := c.checkRange(float64(n)); !v.Valid {
			return v
		}
	case model.FieldTypeNumber:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return invalid(MessageNumber)
		}
		if v := c.checkRange(f); !v.Valid {
			return v
		}
	case model.FieldTypeEmail:
		if addr, err := mail.ParseAddress(trimmed); err != nil || addr.Address != trimmed {
			return invalid(MessageEmail)
		}
	}

	if c.enum != nil {
		if _, ok := c.enum[value]; !ok {
			return invalid(MessageOption)
		}
	}
	length := len([]rune(value))
	if c.minLen != nil && length < *c.minLen {
		return invalid(fmt.Sprintf("Please lengthen this text to %d characters or more.", *c.minLen))
	}
	if c.maxLen != nil && length > *c.maxLen {
		return invalid(fmt.Sprintf("Please shorten this text to %d characters or less.", *c.maxLen))
	}
	if c.pattern != nil && !c.pattern.MatchString(value) {
		return invalid(MessagePattern)
	}
	return model.Verdict{Valid: true}
}

func (c constraints) checkRange(v float64) model.Verdict {
	if c.min != nil && v < *c.min {
		return invalid(fmt.Sprintf("Value must be greater than or equal to %s.", formatBound(*c.min)))
	}
	if c.max != nil && v > *c.max {
		return invalid(fmt.Sprintf("Value must be less than or equal to %s.", formatBound(*c.max)))
	}
	return model.Verdict{Valid: true}
}

func invalid(message string) model.Verdict {
	return model.Verdict{Valid: false, Message: message}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cacheKey(cfg model.FieldConfig) string {
	var b strings.Builder
	b.WriteString(cfg.Name)
	b.WriteByte('|')
	b.WriteString(string(cfg.Type))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(cfg.Required))
	for _, v := range cfg.Validations {
		b.WriteByte('|')
		b.WriteString(v.Kind)
		b.WriteByte('=')
		b.WriteString(v.Params["value"])
		b.WriteString(v.Params["pattern"])
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(cfg.Enum, "\x1f"))
	return b.String()
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
