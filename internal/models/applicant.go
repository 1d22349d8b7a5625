// internal/models/applicant.go
package models

import (
	"fmt"
	"strconv"
)

// ApplicantRecord is the flat field->value mapping collected from the
// application form. Keys follow the training data column names (Age,
// Income, DTIRatio, ...) plus form-only fields like full_name. A record is
// built once per request and never mutated afterwards.
type ApplicantRecord map[string]interface{}

// Float returns the named field as a float64, or def when the field is
// missing or not numeric.
func (a ApplicantRecord) Float(key string, def float64) float64 {
	raw, ok := a[key]
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the named field as an int, or def when missing/unparseable.
func (a ApplicantRecord) Int(key string, def int) int {
	raw, ok := a[key]
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// String returns the named field as a string. Missing fields return def.
func (a ApplicantRecord) String(key, def string) string {
	raw, ok := a[key]
	if !ok || raw == nil {
		return def
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", raw)
}

// Has reports whether the field is present and non-empty.
func (a ApplicantRecord) Has(key string) bool {
	raw, ok := a[key]
	if !ok || raw == nil {
		return false
	}
	if s, ok := raw.(string); ok {
		return s != ""
	}
	return true
}
