package validation

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formdraft/pkg/model"
)

// Age bounds, both inclusive.
const (
	MinAge = 18
	MaxAge = 80
)

// IntRange is a custom rule accepting whole numbers within [Min, Max].
// Values that do not parse are invalid with no message so the base
// constraint feedback shows through.
type IntRange struct {
	Min int
	Max int

	BelowReason  string
	BelowMessage string
	AboveReason  string
	AboveMessage string
	ValidMessage string
}

// Rule returns the range check as a Rule.
func (r IntRange) Rule() Rule {
	return r.Check
}

// Check evaluates value against the range.
func (r IntRange) Check(value string) model.Verdict {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return model.Verdict{Valid: false}
	}
	switch {
	case n < r.Min:
		return model.Verdict{Valid: false, Reason: r.BelowReason, Message: r.BelowMessage}
	case n > r.Max:
		return model.Verdict{Valid: false, Reason: r.AboveReason, Message: r.AboveMessage}
	default:
		return model.Verdict{Valid: true, Message: r.ValidMessage}
	}
}

// AgeRange is the range used by the age field.
var AgeRange = IntRange{
	Min:          MinAge,
	Max:          MaxAge,
	BelowReason:  "Age must be at least 18",
	BelowMessage: "Minimum age is 18 years",
	AboveReason:  "Age must be less than 80",
	AboveMessage: "Maximum age is 80 years",
	ValidMessage: "Valid age range",
}

// AgeRule returns the age field custom rule.
func AgeRule() Rule {
	return AgeRange.Rule()
}
