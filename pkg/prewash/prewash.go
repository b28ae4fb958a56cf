// Package prewash cleans model fields immediately before a record is
// persisted. Model authors register cleaner callables against dotted field
// references ("app.Model.field"); the registry applies them, in registration
// order, as a pre-save hook.
//
// Basic usage:
//
//	type Contact struct {
//	    ID    int64  `db:"id"`
//	    Email string `db:"email" validate:"email"`
//	}
//
//	reg := prewash.New(prewash.WithValidation(true))
//	model.Register[Contact](reg.Models(), "crm.Contact")
//	reg.CleansField("crm.Contact.email", strings.ToLower)
//
//	c := &Contact{Email: "  Bob@Example.COM "}
//	if err := reg.Apply("crm.Contact", c); err != nil { ... }
//	// c.Email == "bob@example.com" with a trim cleaner chained first
//
// Types may instead rely on the naming convention: a method CleanEmail on
// Contact cleans the email field with no registration at all.
package prewash

import (
	"runtime/debug"
)

// Version returns the module version consumers pulled via go get.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// defaultRegistry backs the package-level registration API, for applications
// that want Django-style load-time registration without threading a Registry
// through their model packages.
var defaultRegistry = New()

// Default returns the package-level registry.
func Default() *Registry {
	return defaultRegistry
}

// CleansField registers fn on the default registry.
func CleansField(ref string, fn any) error {
	return defaultRegistry.CleansField(ref, fn)
}

// CleansFieldWithContext registers a context-taking fn on the default
// registry.
func CleansFieldWithContext(ref string, fn any) error {
	return defaultRegistry.CleansFieldWithContext(ref, fn)
}

// Apply runs the default registry's pre-save hook on an instance.
func Apply(label string, instance any) error {
	return defaultRegistry.Apply(label, instance)
}

// MustCleansField is CleansField for load-time registration in package var
// blocks, panicking on malformed refs or unsupported callables.
func MustCleansField(ref string, fn any) {
	if err := defaultRegistry.CleansField(ref, fn); err != nil {
		panic(err)
	}
}
