package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoField reports a column name that matches no field on the instance.
// Callers use it to distinguish a misconfigured field ref from other
// instance errors.
var ErrNoField = errors.New("no such field")

// Field describes a single model field.
type Field struct {
	// Name is the column name: the db tag if present, else the json tag,
	// else the Go field name.
	Name string
	// GoName is the exported Go struct field name.
	GoName string
	// Type is the Go type of the field.
	Type reflect.Type
	// Validators holds the raw validate tag segments, if any.
	Validators []string

	index int
}

// columnName resolves the column name for a struct field, or "" when the
// field should be skipped.
func columnName(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	for _, tag := range []string{"db", "json"} {
		v, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		name := strings.Split(v, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return sf.Name
}

// fieldsOf extracts field metadata from a struct type in declaration order.
func fieldsOf(t reflect.Type) ([]Field, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct type, got %v", t.Kind())
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := columnName(sf)
		if name == "" {
			continue
		}
		f := Field{
			Name:   name,
			GoName: sf.Name,
			Type:   sf.Type,
			index:  i,
		}
		if tag := sf.Tag.Get("validate"); tag != "" {
			f.Validators = strings.Split(tag, ",")
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// structValue dereferences an instance down to its struct value.
func structValue(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("instance is a nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("instance must be a struct or pointer to struct, got %T", instance)
	}
	return v, nil
}

// lookupField finds the struct field with the given column name.
func lookupField(v reflect.Value, field string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if columnName(t.Field(i)) == field {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// FieldsOf returns field metadata for any struct instance, registered or
// not, in declaration order.
func FieldsOf(instance any) ([]Field, error) {
	v, err := structValue(instance)
	if err != nil {
		return nil, err
	}
	return fieldsOf(v.Type())
}

// FieldNames returns the column names of all fields on an instance, in
// declaration order. The instance does not need to be registered.
func FieldNames(instance any) ([]string, error) {
	fields, err := FieldsOf(instance)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

// Value retrieves the current value of the named field from an instance.
func Value(instance any, field string) (any, error) {
	v, err := structValue(instance)
	if err != nil {
		return nil, err
	}
	fv, ok := lookupField(v, field)
	if !ok {
		return nil, fmt.Errorf("%T has no field named %q: %w", instance, field, ErrNoField)
	}
	return fv.Interface(), nil
}

// SetValue assigns a value to the named field. The instance must be a
// pointer to struct. Values convertible to the field type are converted.
func SetValue(instance any, field string, value any) error {
	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("instance must be a non-nil pointer to struct, got %T", instance)
	}
	v := rv.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("instance must point to a struct, got %T", instance)
	}
	fv, ok := lookupField(v, field)
	if !ok {
		return fmt.Errorf("%T has no field named %q: %w", instance, field, ErrNoField)
	}
	if !fv.CanSet() {
		return fmt.Errorf("field %q is not settable", field)
	}

	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	nv := reflect.ValueOf(value)
	switch {
	case nv.Type().AssignableTo(fv.Type()):
		fv.Set(nv)
	case nv.Type().ConvertibleTo(fv.Type()) && !integerToString(nv.Type(), fv.Type()):
		fv.Set(nv.Convert(fv.Type()))
	default:
		return fmt.Errorf("cannot assign %T to field %q (%s)", value, field, fv.Type())
	}
	return nil
}

// integerToString reports a conversion reflect would satisfy by building a
// rune string from the integer. A cleaner returning an int for a string
// field is a type mismatch, not a request for string(rune(65)).
func integerToString(from, to reflect.Type) bool {
	if to.Kind() != reflect.String {
		return false
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Snapshot collects every field value on an instance keyed by column name.
func Snapshot(instance any) (map[string]any, error) {
	v, err := structValue(instance)
	if err != nil {
		return nil, err
	}
	fields, err := fieldsOf(v.Type())
	if err != nil {
		return nil, err
	}
	snap := make(map[string]any, len(fields))
	for _, f := range fields {
		snap[f.Name] = v.Field(f.index).Interface()
	}
	return snap, nil
}
