package prewash

import (
	"log/slog"

	"github.com/go-prewash/prewash/pkg/model"
)

// Config holds Registry configuration.
type Config struct {
	// Models is the model registry to resolve labels against. A fresh one
	// is created when nil.
	Models *model.Registry

	// Validate runs go-playground/validator struct tags after cleaning.
	Validate bool

	// Logger receives per-save debug logging. Defaults to the package
	// logger.
	Logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Config)

// WithModelRegistry shares an existing model registry.
func WithModelRegistry(m *model.Registry) Option {
	return func(c *Config) {
		c.Models = m
	}
}

// WithValidation enables post-clean validation of `validate` struct tags.
func WithValidation(enabled bool) Option {
	return func(c *Config) {
		c.Validate = enabled
	}
}

// WithLogger sets the logger used for per-save debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
