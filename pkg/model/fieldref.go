// Package model provides model registration and field metadata introspection.
// A model is any Go struct; prewash addresses its fields through dotted
// references of the form "app.Model.field".
package model

import (
	"fmt"
	"strings"
)

// FieldRef identifies a single field on a registered model.
type FieldRef struct {
	App   string
	Model string
	Field string
}

// ParseFieldRef splits a dotted reference "app.Model.field" into its parts.
// Exactly three non-empty segments are required.
func ParseFieldRef(ref string) (FieldRef, error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 3 {
		return FieldRef{}, fmt.Errorf("field ref %q: want app.Model.field", ref)
	}
	for _, p := range parts {
		if p == "" {
			return FieldRef{}, fmt.Errorf("field ref %q: empty segment", ref)
		}
	}
	return FieldRef{App: parts[0], Model: parts[1], Field: parts[2]}, nil
}

// Label returns the model label ("app.Model") the field belongs to.
func (r FieldRef) Label() string {
	return r.App + "." + r.Model
}

// String returns the full dotted reference.
func (r FieldRef) String() string {
	return r.App + "." + r.Model + "." + r.Field
}
