package cleaner

import (
	"errors"
	"strings"
	"testing"
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input any
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"integer", 42},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %v, want %v", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	c := NewNoop()
	if got := c.Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- Func Tests ---

func TestFunc_Clean(t *testing.T) {
	f := Func(func(v any) (any, error) {
		return strings.ToUpper(v.(string)), nil
	})

	got, err := f.Clean("abc")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "ABC" {
		t.Errorf("Clean() = %v, want %q", got, "ABC")
	}
}

// --- ChainCleaner Tests ---

func mustLookup(t *testing.T, spec string) Cleaner {
	t.Helper()
	c, err := Lookup(spec)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", spec, err)
	}
	return c
}

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != input {
		t.Errorf("Clean() = %v, want %v", got, input)
	}
}

func TestChainCleaner_Order(t *testing.T) {
	// trim then truncate differs from truncate then trim.
	trimFirst := NewChain(mustLookup(t, "trim"), mustLookup(t, "truncate:3"))
	got, err := trimFirst.Clean("  abcdef  ")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "abc" {
		t.Errorf("trim->truncate = %q, want %q", got, "abc")
	}

	truncateFirst := NewChain(mustLookup(t, "truncate:3"), mustLookup(t, "trim"))
	got, err = truncateFirst.Clean("  abcdef  ")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "a" {
		t.Errorf("truncate->trim = %q, want %q", got, "a")
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(value any) (any, error) {
	return nil, errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, mustLookup(t, "lower"))

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("expected error containing 'test error', got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"double", []Cleaner{NewNoop(), &errorCleaner{}}, "chain(noop->error)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
