package prewash

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-prewash/prewash/pkg/cleaner"
	"github.com/go-prewash/prewash/pkg/model"
)

// Naming-convention cleaning: a method Clean<GoFieldName> on the model type
// acts as a cleaner for that field without explicit registration. The method
// takes the field's current value, optionally followed by a cleaner.Context,
// and returns the replacement value (optionally with an error).
//
//	func (c *Contact) CleanEmail(v string) string { ... }
//	func (c *Contact) CleanPhone(v string, ctx cleaner.Context) (string, error) { ... }

// applyConventions runs convention methods for every field, in field
// declaration order. The type does not need to be registered: fields are
// enumerated from the instance itself, as the original convention models do.
func (r *Registry) applyConventions(label string, instance any) error {
	iv := reflect.ValueOf(instance)
	if iv.Kind() != reflect.Ptr || iv.IsNil() {
		return fmt.Errorf("apply %s: instance must be a non-nil pointer to struct, got %T", label, instance)
	}

	info, ok := r.models.Lookup(label)
	var fields []model.Field
	if ok {
		fields = info.Fields()
	} else {
		var err error
		fields, err = model.FieldsOf(instance)
		if err != nil {
			return fmt.Errorf("apply %s: %w", label, err)
		}
	}

	for _, f := range fields {
		m := iv.MethodByName("Clean" + f.GoName)
		if !m.IsValid() {
			continue
		}
		bound, err := bindConvention(m)
		if err != nil {
			return fmt.Errorf("apply %s: Clean%s: %w", label, f.GoName, err)
		}

		value, err := model.Value(instance, f.Name)
		if err != nil {
			if errors.Is(err, model.ErrNoField) {
				return &ConfigurationError{Model: label, Field: f.Name, Cleaner: "Clean" + f.GoName}
			}
			return fmt.Errorf("reading %s.%s: %w", label, f.Name, err)
		}
		var ctx cleaner.Context
		if bound.TakesContext() {
			snap, err := model.Snapshot(instance)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", label, err)
			}
			ctx = snap
		}
		cleaned, err := bound.Invoke(instance, value, ctx)
		if err != nil {
			return &CleanError{Ref: label + "." + f.Name, Cleaner: "Clean" + f.GoName, Err: err}
		}
		if err := model.SetValue(instance, f.Name, cleaned); err != nil {
			return fmt.Errorf("writing cleaned value to %s.%s: %w", label, f.Name, err)
		}
		r.log.Debug("field cleaned", "ref", label+"."+f.Name, "cleaner", "Clean"+f.GoName)
	}
	return nil
}

// bindConvention classifies a method value by whether its trailing parameter
// is a cleaner.Context.
func bindConvention(m reflect.Value) (*cleaner.Bound, error) {
	t := m.Type()
	if t.NumIn() >= 2 && t.In(t.NumIn()-1) == reflect.TypeOf(cleaner.Context(nil)) {
		return cleaner.DispatchWithContext(m.Interface())
	}
	return cleaner.Dispatch(m.Interface())
}
