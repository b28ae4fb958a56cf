// Package bindings loads declarative cleaner bindings from YAML or JSON
// documents and installs them into a prewash registry. Bindings name
// built-in cleaners, so applications and the CLI can wire field cleaning
// from config instead of code:
//
//	models:
//	  crm.Contact:
//	    email: [trim, lower]
//	    full_name: [trim, collapse]
package bindings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/go-prewash/prewash/pkg/cleaner"
	"github.com/go-prewash/prewash/pkg/model"
	"github.com/go-prewash/prewash/pkg/prewash"
)

// FieldBindings maps column names to ordered cleaner specs.
type FieldBindings map[string][]string

// Document is a parsed bindings file.
type Document struct {
	Models map[string]FieldBindings `json:"models" yaml:"models" validate:"required,min=1"`
}

// FromFile loads a bindings document from a JSON or YAML file.
func FromFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read bindings file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return Document{}, fmt.Errorf("unsupported bindings file format: %s", ext)
	}
}

// FromJSON parses a bindings document from JSON data.
func FromJSON(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("failed to parse JSON bindings: %w", err)
	}
	return d, nil
}

// FromYAML parses a bindings document from YAML data.
func FromYAML(data []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("failed to parse YAML bindings: %w", err)
	}
	return d, nil
}

// Validate checks the document structurally and semantically: the models map
// must be present, every label/field must form a valid field ref, and every
// cleaner spec must resolve to a registered built-in. All problems are
// reported, not just the first.
func (d Document) Validate() []error {
	var errs []error

	if err := validator.New().Struct(d); err != nil {
		errs = append(errs, fmt.Errorf("bindings document: %w", err))
		return errs
	}

	for _, label := range sortedKeys(d.Models) {
		fields := d.Models[label]
		for _, field := range sortedKeys(fields) {
			if _, err := model.ParseFieldRef(label + "." + field); err != nil {
				errs = append(errs, err)
				continue
			}
			for _, spec := range fields[field] {
				if _, err := cleaner.Lookup(spec); err != nil {
					errs = append(errs, fmt.Errorf("%s.%s: %w", label, field, err))
				}
			}
		}
	}
	return errs
}

// Bind installs every binding into the registry. Cleaners for one field run
// in the order listed; fields are bound in sorted order since the document's
// maps carry none.
func (d Document) Bind(reg *prewash.Registry) error {
	if errs := d.Validate(); len(errs) > 0 {
		return errs[0]
	}

	for _, label := range sortedKeys(d.Models) {
		fields := d.Models[label]
		for _, field := range sortedKeys(fields) {
			specs := fields[field]
			cleaners := make([]cleaner.Cleaner, 0, len(specs))
			for _, spec := range specs {
				c, err := cleaner.Lookup(spec)
				if err != nil {
					return fmt.Errorf("%s.%s: %w", label, field, err)
				}
				cleaners = append(cleaners, c)
			}
			var c cleaner.Cleaner
			if len(cleaners) == 1 {
				c = cleaners[0]
			} else {
				c = cleaner.NewChain(cleaners...)
			}
			if err := reg.CleansField(label+"."+field, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Refs returns every field ref the document binds, sorted.
func (d Document) Refs() []string {
	var refs []string
	for label, fields := range d.Models {
		for field := range fields {
			refs = append(refs, label+"."+field)
		}
	}
	sort.Strings(refs)
	return refs
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
