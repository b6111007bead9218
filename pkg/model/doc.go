// Package model defines the field and form types shared by the validation,
// draft, progress and controller packages. Field configuration is static and
// declared up front (name, type, required flag, validations, optional custom
// rule name); the live Field carries the current raw value and its last
// verdict. Validation rules reuse canonical identifiers (min/max,
// minLength/maxLength, pattern) with string parameters so definitions loaded
// from YAML or OpenAPI documents keep stable JSON snapshots.
package model
