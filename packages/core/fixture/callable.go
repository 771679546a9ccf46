package fixture

import (
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

var (
	contextType = reflect.TypeOf((*testctx.Context)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	vectorType  = reflect.TypeOf([]any(nil))
)

// MismatchKind tells why arguments do not fit a callable.
type MismatchKind int

const (
	// ArityMismatch means the number of arguments is wrong, which is an
	// authoring error.
	ArityMismatch MismatchKind = iota
	// TypeMismatch means an argument does not have the declared type; the
	// instance does not apply to this callable.
	TypeMismatch
)

// ArgumentError is returned when arguments do not fit a callable.
type ArgumentError struct {
	Func  string
	Kind  MismatchKind
	Index int
	Want  string
	Got   string
}

func (e *ArgumentError) Error() string {
	if e.Kind == ArityMismatch {
		return fmt.Sprintf("%s expects %s arguments, got %s", e.Func, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: argument %d has type %s, want %s", e.Func, e.Index+1, e.Got, e.Want)
}

// Callable is a bound fixture or test function.
type Callable struct {
	Name string

	fn           reflect.Value
	method       bool
	params       []reflect.Type
	variadic     bool
	wantsContext bool
	returnsError bool
	results      []reflect.Type
}

func newCallable(c *suite.Callable) (*Callable, error) {
	if !c.Value.IsValid() || c.Value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", c.Name)
	}
	if c.Value.IsNil() {
		return nil, fmt.Errorf("%s is a nil function", c.Name)
	}

	t := c.Value.Type()
	out := &Callable{Name: c.Name, fn: c.Value, method: c.Method, variadic: t.IsVariadic()}

	first := 0
	if c.Method {
		first = 1
	}
	for i := first; i < t.NumIn(); i++ {
		out.params = append(out.params, t.In(i))
	}
	if n := len(out.params); n > 0 && !out.variadic && out.params[n-1] == contextType {
		out.wantsContext = true
		out.params = out.params[:n-1]
	}

	for i := 0; i < t.NumOut(); i++ {
		out.results = append(out.results, t.Out(i))
	}
	if n := len(out.results); n > 0 && out.results[n-1] == errorType {
		out.returnsError = true
		out.results = out.results[:n-1]
	}
	return out, nil
}

// WantsContext reports whether the callable declares a Context parameter.
func (c *Callable) WantsContext() bool {
	return c.wantsContext
}

// Accepts checks args against the declared parameters.
func (c *Callable) Accepts(args []any) error {
	fixed := len(c.params)
	if c.variadic {
		fixed--
	}
	if len(args) < fixed || (!c.variadic && len(args) > fixed) {
		want := fmt.Sprint(fixed)
		if c.variadic {
			want = fmt.Sprintf("at least %d", fixed)
		}
		return &ArgumentError{Func: c.Name, Kind: ArityMismatch, Want: want, Got: fmt.Sprint(len(args))}
	}

	for i, arg := range args {
		want := c.paramType(i, fixed)
		if !assignable(arg, want) {
			return &ArgumentError{
				Func:  c.Name,
				Kind:  TypeMismatch,
				Index: i,
				Want:  want.String(),
				Got:   fmt.Sprintf("%T", arg),
			}
		}
	}
	return nil
}

func (c *Callable) paramType(i, fixed int) reflect.Type {
	if i < fixed {
		return c.params[i]
	}
	return c.params[len(c.params)-1].Elem()
}

// Call invokes the callable with args, passing recv first for methods and
// ctx last when declared. It returns the new argument vector and whether
// the callable produced one: a single []any result or several results
// replace the vector, no results keep it. Panics raised by the callable
// propagate to the caller.
func (c *Callable) Call(recv reflect.Value, args []any, ctx *testctx.Context) ([]any, bool, error) {
	if err := c.Accepts(args); err != nil {
		return nil, false, err
	}

	fixed := len(c.params)
	if c.variadic {
		fixed--
	}

	in := make([]reflect.Value, 0, len(args)+2)
	if c.method {
		if !recv.IsValid() {
			return nil, false, fmt.Errorf("%s needs a receiver", c.Name)
		}
		in = append(in, recv)
	}
	for i, arg := range args {
		if arg == nil {
			in = append(in, reflect.Zero(c.paramType(i, fixed)))
			continue
		}
		in = append(in, reflect.ValueOf(arg))
	}
	if c.wantsContext {
		if ctx == nil {
			in = append(in, reflect.Zero(contextType))
		} else {
			in = append(in, reflect.ValueOf(ctx))
		}
	}

	results := c.fn.Call(in)

	if c.returnsError {
		if errVal := results[len(results)-1]; !errVal.IsNil() {
			return nil, false, errVal.Interface().(error)
		}
		results = results[:len(results)-1]
	}

	switch {
	case len(results) == 0:
		return args, false, nil
	case len(results) == 1 && results[0].Type() == vectorType:
		vec, _ := results[0].Interface().([]any)
		return vec, true, nil
	}

	vec := make([]any, len(results))
	for i, r := range results {
		vec[i] = r.Interface()
	}
	return vec, true, nil
}

func assignable(arg any, want reflect.Type) bool {
	if arg == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(arg).AssignableTo(want)
}

// Invoke runs the callable as a fixture. A fixture that declares no
// parameters ignores the vector, and one that produces nothing passes args
// through unchanged.
func (c *Callable) Invoke(recv reflect.Value, args []any, ctx *testctx.Context) ([]any, error) {
	out, replaced, err := c.Call(recv, c.fixtureArgs(args), ctx)
	if err != nil {
		return nil, err
	}
	if !replaced {
		return args, nil
	}
	return out, nil
}

func (c *Callable) fixtureArgs(args []any) []any {
	if len(c.params) == 0 {
		return nil
	}
	return args
}
