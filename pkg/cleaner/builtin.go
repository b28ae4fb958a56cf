package cleaner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Factory builds a named cleaner. arg carries the text after ":" in a spec
// like "truncate:80"; it is empty for unparameterized cleaners.
type Factory func(arg string) (Cleaner, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	// Register all built-in cleaners
	Register("noop", func(string) (Cleaner, error) {
		return NewNoop(), nil
	})
	Register("trim", simple("trim", strings.TrimSpace))
	Register("lower", simple("lower", strings.ToLower))
	Register("upper", simple("upper", strings.ToUpper))
	Register("collapse", simple("collapse", collapseSpace))
	Register("email", simple("email", func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}))
	Register("title", simple("title", titleCase))
	Register("truncate", func(arg string) (Cleaner, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("truncate: want a non-negative length, got %q", arg)
		}
		return &stringCleaner{
			name: "truncate:" + arg,
			// Truncate on rune boundaries: slicing bytes could split a
			// multi-byte rune and persist invalid UTF-8.
			fn: func(s string) string {
				r := []rune(s)
				if len(r) > n {
					return string(r[:n])
				}
				return s
			},
		}, nil
	})
}

// Register adds a cleaner factory under a name. Later registrations replace
// earlier ones, so applications can override built-ins. Safe for concurrent
// use with Lookup.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Lookup resolves a cleaner spec ("lower", "truncate:80") to a Cleaner.
func Lookup(spec string) (Cleaner, error) {
	name, arg, _ := strings.Cut(spec, ":")
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown cleaner %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(arg)
}

// Names returns the registered cleaner names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stringCleaner applies a string transform. Non-string values pass through
// unchanged so a binding like "trim" is safe on mixed-type rows.
type stringCleaner struct {
	name string
	fn   func(string) string
}

func (c *stringCleaner) Clean(value any) (any, error) {
	if s, ok := value.(string); ok {
		return c.fn(s), nil
	}
	return value, nil
}

func (c *stringCleaner) Name() string {
	return c.name
}

func simple(name string, fn func(string) string) Factory {
	return func(arg string) (Cleaner, error) {
		if arg != "" {
			return nil, fmt.Errorf("%s: takes no argument, got %q", name, arg)
		}
		return &stringCleaner{name: name, fn: fn}, nil
	}
}

// collapseSpace squeezes runs of whitespace down to single spaces and trims
// the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upcases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
