// Package validation maps a field's raw value to a model.Verdict. Base
// constraints come from the field declaration (required, type, min/max,
// length, pattern, enum); custom semantic rules such as the age range are
// plain functions layered on top. Validation never fails: unparseable or
// missing values are classified invalid.
package validation
