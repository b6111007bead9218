// Package schema loads form declarations. Forms come from a YAML document
// or from the JSON request body of an OpenAPI operation; the bundled
// prediction form ships embedded.
package schema
