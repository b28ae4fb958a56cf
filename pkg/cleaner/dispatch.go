package cleaner

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// A cleaner callable may be written in several calling conventions. Bound
// records, once at registration time, which convention a callable uses so
// each save only pays for a reflect call. Supported shapes:
//
//	func(value) V
//	func(value) (V, error)
//	func(instance, value) V                  (method expressions)
//	func(instance, value) (V, error)
//	func(value, Context) V                   (context variants)
//	func(value, Context) (V, error)
//	func(instance, value, Context) V
//	func(instance, value, Context) (V, error)
//
// Parameter and return types may be concrete; values are converted where Go
// conversion rules allow. Anything implementing Cleaner is used directly.
type Bound struct {
	fn            reflect.Value
	name          string
	takesInstance bool
	takesContext  bool
	returnsError  bool
	iface         Cleaner
}

var (
	contextType = reflect.TypeOf(Context(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Dispatch classifies a callable registered without context. Two-parameter
// functions are taken as method expressions (instance first).
func Dispatch(fn any) (*Bound, error) {
	if c, ok := fn.(Cleaner); ok {
		return &Bound{iface: c, name: c.Name()}, nil
	}
	b, err := classify(fn)
	if err != nil {
		return nil, err
	}
	t := b.fn.Type()
	switch t.NumIn() {
	case 1:
		// func(value)
	case 2:
		if t.In(1) == contextType {
			return nil, fmt.Errorf("cleaner %s: context-taking cleaner registered without context; use CleansFieldWithContext", b.name)
		}
		b.takesInstance = true
	default:
		return nil, fmt.Errorf("cleaner %s: want func(value) or func(instance, value), got %d parameters", b.name, t.NumIn())
	}
	return b, nil
}

// DispatchWithContext classifies a callable whose last parameter is the
// per-save Context snapshot.
func DispatchWithContext(fn any) (*Bound, error) {
	if c, ok := fn.(ContextCleaner); ok {
		return &Bound{iface: contextAdapter{c}, name: c.Name(), takesContext: true}, nil
	}
	b, err := classify(fn)
	if err != nil {
		return nil, err
	}
	t := b.fn.Type()
	if t.NumIn() < 2 || t.In(t.NumIn()-1) != contextType {
		return nil, fmt.Errorf("cleaner %s: last parameter must be cleaner.Context", b.name)
	}
	b.takesContext = true
	switch t.NumIn() {
	case 2:
		// func(value, ctx)
	case 3:
		b.takesInstance = true
	default:
		return nil, fmt.Errorf("cleaner %s: want func(value, ctx) or func(instance, value, ctx), got %d parameters", b.name, t.NumIn())
	}
	return b, nil
}

// classify validates the common shape shared by both conventions: a func
// returning the cleaned value, optionally with a trailing error.
func classify(fn any) (*Bound, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("cleaner must be a func or cleaner.Cleaner, got %T", fn)
	}
	if v.IsNil() {
		return nil, fmt.Errorf("cleaner func is nil")
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("cleaner %s: variadic funcs are not supported", funcName(v))
	}
	b := &Bound{fn: v, name: funcName(v)}
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorType {
			return nil, fmt.Errorf("cleaner %s: must return the cleaned value", b.name)
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("cleaner %s: second return must be error", b.name)
		}
		b.returnsError = true
	default:
		return nil, fmt.Errorf("cleaner %s: want 1 or 2 return values, got %d", b.name, t.NumOut())
	}
	return b, nil
}

// Name returns a diagnostic name for the callable.
func (b *Bound) Name() string {
	return b.name
}

// TakesContext reports whether the callable wants the per-save snapshot.
func (b *Bound) TakesContext() bool {
	return b.takesContext
}

// Invoke runs the callable against a field value. instance is the record
// being saved; ctx may be nil for non-context cleaners. Errors returned by
// the cleaner propagate unchanged; convention mismatches surface as errors
// naming the cleaner.
func (b *Bound) Invoke(instance, value any, ctx Context) (any, error) {
	if b.iface != nil {
		if b.takesContext {
			return b.iface.(contextAdapter).c.CleanInContext(value, ctx)
		}
		return b.iface.Clean(value)
	}

	t := b.fn.Type()
	args := make([]reflect.Value, 0, t.NumIn())
	in := 0
	if b.takesInstance {
		iv, err := coerce(instance, t.In(in), b.name, "instance")
		if err != nil {
			return nil, err
		}
		args = append(args, iv)
		in++
	}
	vv, err := coerce(value, t.In(in), b.name, "value")
	if err != nil {
		return nil, err
	}
	args = append(args, vv)
	if b.takesContext {
		args = append(args, reflect.ValueOf(ctx))
	}

	out := b.fn.Call(args)
	if b.returnsError {
		if e := out[1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

// coerce prepares an argument for a possibly concretely-typed parameter.
func coerce(v any, want reflect.Type, cleaner, what string) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	// Refuse integer->string conversions: reflect would produce a rune
	// string where the caller almost certainly wanted an error.
	numericToString := want.Kind() == reflect.String && isInteger(rv.Kind())
	if rv.Type().ConvertibleTo(want) && !numericToString {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cleaner %s: %s %T does not fit parameter type %s", cleaner, what, v, want)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// funcName derives a short diagnostic name from the func pointer, trimming
// the package path and the "-fm" suffix runtime adds to method values.
func funcName(v reflect.Value) string {
	pc := runtime.FuncForPC(v.Pointer())
	if pc == nil {
		return "func"
	}
	name := pc.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	return name
}

// ContextCleaner is the interface form of a context-taking cleaner.
type ContextCleaner interface {
	CleanInContext(value any, ctx Context) (any, error)
	Name() string
}

// contextAdapter lets a ContextCleaner travel through the Cleaner-shaped
// iface slot on Bound.
type contextAdapter struct {
	c ContextCleaner
}

func (a contextAdapter) Clean(value any) (any, error) {
	return a.c.CleanInContext(value, nil)
}

func (a contextAdapter) Name() string {
	return a.c.Name()
}
