// Package cleaner provides the calling conventions for field cleaners and a
// registry of named built-in cleaners. A cleaner takes a field's current
// value (and optionally a context of sibling field values) and returns the
// value to persist.
package cleaner

// Context is a snapshot of all field values on the instance being saved,
// keyed by column name. It is built fresh for each save and discarded after.
type Context map[string]any

// Cleaner transforms a field value before it is persisted.
type Cleaner interface {
	// Clean returns the replacement value for the field, or an error to
	// abort the save.
	Clean(value any) (any, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

// Func adapts a plain function to the Cleaner interface.
type Func func(value any) (any, error)

// Clean invokes the function.
func (f Func) Clean(value any) (any, error) {
	return f(value)
}

// Name returns the cleaner type.
func (f Func) Name() string {
	return "func"
}
