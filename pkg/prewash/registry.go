package prewash

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/go-prewash/prewash/internal/logger"
	"github.com/go-prewash/prewash/pkg/cleaner"
	"github.com/go-prewash/prewash/pkg/model"
)

// receiver is one registered cleaner bound to a field of a model.
type receiver struct {
	field string
	bound *cleaner.Bound
}

// Registry holds cleaner registrations keyed by model label and applies them
// as the pre-save hook. Register everything at load time; Apply is safe for
// concurrent use once registration has finished.
type Registry struct {
	mu        sync.RWMutex
	receivers map[string][]receiver

	models   *model.Registry
	validate *validator.Validate
	checks   bool
	log      *slog.Logger
}

// New creates a cleaner registry.
func New(opts ...Option) *Registry {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Models == nil {
		cfg.Models = model.NewRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Registry{
		receivers: make(map[string][]receiver),
		models:    cfg.Models,
		validate:  validator.New(),
		checks:    cfg.Validate,
		log:       log,
	}
}

// Models exposes the model registry so applications can register their
// structs against labels.
func (r *Registry) Models() *model.Registry {
	return r.models
}

// CleansField registers fn as a cleaner for the referenced field. fn may be
// any supported callable shape (see cleaner.Dispatch) or a cleaner.Cleaner.
// Cleaners for the same field run in registration order.
func (r *Registry) CleansField(ref string, fn any) error {
	fr, err := model.ParseFieldRef(ref)
	if err != nil {
		return err
	}
	bound, err := cleaner.Dispatch(fn)
	if err != nil {
		return fmt.Errorf("cleans field %s: %w", ref, err)
	}
	r.connect(fr, bound)
	return nil
}

// CleansFieldWithContext registers a cleaner whose last parameter receives a
// snapshot of all field values, taken at the moment the cleaner runs.
func (r *Registry) CleansFieldWithContext(ref string, fn any) error {
	fr, err := model.ParseFieldRef(ref)
	if err != nil {
		return err
	}
	bound, err := cleaner.DispatchWithContext(fn)
	if err != nil {
		return fmt.Errorf("cleans field %s: %w", ref, err)
	}
	r.connect(fr, bound)
	return nil
}

func (r *Registry) connect(fr model.FieldRef, bound *cleaner.Bound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label := fr.Label()
	r.receivers[label] = append(r.receivers[label], receiver{field: fr.Field, bound: bound})
	r.log.Debug("cleaner registered", "ref", fr.String(), "cleaner", bound.Name())
}

// Apply is the pre-save hook: it runs every cleaner registered for the label
// in registration order, then any Clean<Field> convention methods, writing
// each cleaned value back onto the instance. The instance must be a pointer
// to struct. Apply persists nothing itself.
func (r *Registry) Apply(label string, instance any) error {
	r.mu.RLock()
	receivers := r.receivers[label]
	r.mu.RUnlock()

	for _, rcv := range receivers {
		if err := r.applyOne(label, rcv, instance); err != nil {
			return err
		}
	}

	if err := r.applyConventions(label, instance); err != nil {
		return err
	}

	if r.checks {
		if err := r.validateStruct(label, instance); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) applyOne(label string, rcv receiver, instance any) error {
	value, err := model.Value(instance, rcv.field)
	if err != nil {
		if errors.Is(err, model.ErrNoField) {
			return &ConfigurationError{Model: label, Field: rcv.field, Cleaner: rcv.bound.Name()}
		}
		return fmt.Errorf("reading %s.%s: %w", label, rcv.field, err)
	}

	var ctx cleaner.Context
	if rcv.bound.TakesContext() {
		snap, err := model.Snapshot(instance)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", label, err)
		}
		ctx = snap
	}

	cleaned, err := rcv.bound.Invoke(instance, value, ctx)
	if err != nil {
		return &CleanError{
			Ref:     label + "." + rcv.field,
			Cleaner: rcv.bound.Name(),
			Err:     err,
		}
	}
	if err := model.SetValue(instance, rcv.field, cleaned); err != nil {
		return fmt.Errorf("writing cleaned value to %s.%s: %w", label, rcv.field, err)
	}
	r.log.Debug("field cleaned", "ref", label+"."+rcv.field, "cleaner", rcv.bound.Name())
	return nil
}

// validateStruct runs validator tags on the cleaned instance.
func (r *Registry) validateStruct(label string, instance any) error {
	err := r.validate.Struct(instance)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating %s: %w", label, err)
	}
	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, fmt.Errorf("%s.%s: failed validation %q", label, e.Field(), e.Tag()))
	}
	return errors.Join(errs...)
}

// Check verifies every registration against the model registry without
// needing an instance: unregistered labels and missing fields are reported.
// Intended for startup checks and the lint command.
func (r *Registry) Check() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for label, receivers := range r.receivers {
		info, ok := r.models.Lookup(label)
		if !ok {
			errs = append(errs, fmt.Errorf("label %q has cleaners but no registered model", label))
			continue
		}
		for _, rcv := range receivers {
			if _, ok := info.Field(rcv.field); !ok {
				errs = append(errs, &ConfigurationError{Model: label, Field: rcv.field, Cleaner: rcv.bound.Name()})
			}
		}
	}
	return errs
}
