package model

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Info holds the metadata recorded for a registered model.
type Info struct {
	Label  string
	Type   reflect.Type
	fields []Field
}

// Fields returns the model's fields in declaration order.
func (i *Info) Fields() []Field {
	return i.fields
}

// Field returns the field with the given column name.
func (i *Info) Field(name string) (Field, bool) {
	for _, f := range i.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry maps model labels ("app.Model") to their metadata. Registration
// happens at load time; lookups are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Info
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Info)}
}

// Register records the struct type T under the given label. Registering the
// same label twice is a configuration mistake and errors.
func Register[T any](r *Registry, label string) (*Info, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("register %q: type must be a struct, got interface", label)
	}
	return r.register(label, t)
}

// RegisterType is the non-generic form of Register, for callers that only
// hold an instance.
func (r *Registry) RegisterType(label string, instance any) (*Info, error) {
	t := reflect.TypeOf(instance)
	if t == nil {
		return nil, fmt.Errorf("register %q: nil instance", label)
	}
	return r.register(label, t)
}

func (r *Registry) register(label string, t reflect.Type) (*Info, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fields, err := fieldsOf(t)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", label, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[label]; ok {
		return nil, fmt.Errorf("register %q: label already registered", label)
	}
	info := &Info{Label: label, Type: t, fields: fields}
	r.models[label] = info
	return info, nil
}

// Lookup returns the metadata registered under a label.
func (r *Registry) Lookup(label string) (*Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.models[label]
	return info, ok
}

// LookupInstance finds the registration matching an instance's type.
func (r *Registry) LookupInstance(instance any) (*Info, bool) {
	t := reflect.TypeOf(instance)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, info := range r.models {
		if info.Type == t {
			return info, true
		}
	}
	return nil, false
}

// Labels returns all registered labels, sorted.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, 0, len(r.models))
	for label := range r.models {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
