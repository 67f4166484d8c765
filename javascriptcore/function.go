package javascriptcore

import (
	"context"
	"fmt"
	"reflect"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// HostFunc implements a JavaScript function in Go. A returned error is
// thrown into JavaScript; a nil result is undefined.
type HostFunc func(call *Call) (*Value, error)

// Call describes one invocation of a HostFunc. The values it holds are
// released when the HostFunc returns; use Value.Retain to keep one.
type Call struct {
	Context  *Context
	This     *Object
	Args     []*Value
	Function *Object

	temps []*Value
}

// Arg returns argument i, or undefined when fewer arguments were passed.
func (c *Call) Arg(i int) *Value {
	if i < 0 || i >= len(c.Args) {
		u := c.Context.Undefined()
		c.temps = append(c.temps, u)
		return u
	}
	return c.Args[i]
}

// Len returns the number of arguments passed.
func (c *Call) Len() int {
	return len(c.Args)
}

// GoContext returns the context.Context of the Evaluate call that is
// running the script, or context.Background.
func (c *Call) GoContext() context.Context {
	return c.Context.goContext()
}

func (c *Call) release() {
	for _, t := range c.temps {
		t.Release()
	}
	for _, a := range c.Args {
		a.Release()
	}
	if c.This != nil {
		c.This.Release()
	}
	c.Function.Release()
}

// Retain returns a second owner of the same value, valid until released.
func (v *Value) Retain() (*Value, error) {
	if err := v.check(jserrors.PhaseLifecycle); err != nil {
		return nil, err
	}
	return v.ctx.wrap(v.ref), nil
}

// NewFunction creates a JavaScript function named name that runs fn.
func (c *Context) NewFunction(name string, fn HostFunc) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, jserrors.InvalidInput(jserrors.PhaseClass, "host function is nil")
	}

	cref := c.cref()
	ref := sys.MakeHostFunction(cref, c.dispatch(name, fn))
	if ref.IsNil() {
		return nil, jserrors.NilHandle(jserrors.PhaseClass, "function object")
	}

	obj := c.wrapObject(ref)
	if proto, ok := c.functionPrototype(); ok {
		sys.ObjectSetPrototype(cref, ref, proto)
	}
	if name != "" {
		key := sys.StringCreate("name")
		val := sys.StringCreate(name)
		sys.ObjectSetProperty(cref, ref, key, sys.ValueMakeString(cref, val), sys.PropertyReadOnly|sys.PropertyDontEnum)
		sys.StringRelease(val)
		sys.StringRelease(key)
	}
	return obj, nil
}

func (c *Context) functionPrototype() (sys.ValueRef, bool) {
	cref := c.cref()
	ctor, ok := propertyValue(cref, sys.ContextGetGlobalObject(cref), "Function")
	if !ok || !sys.ValueIsObject(cref, ctor) {
		return sys.ValueRef{}, false
	}
	return propertyValue(cref, ctor.Object(), "prototype")
}

// dispatch adapts fn to the native callback signature.
func (c *Context) dispatch(name string, fn HostFunc) sys.HostFunction {
	return func(cref sys.ContextRef, function, this sys.ObjectRef, args []sys.ValueRef) (result, exception sys.ValueRef) {
		ctx := contextFor(cref, c)

		call := &Call{
			Context:  ctx,
			Function: ctx.wrapObject(function),
			Args:     make([]*Value, len(args)),
		}
		if !this.IsNil() {
			call.This = ctx.wrapObject(this)
		}
		for i, a := range args {
			call.Args[i] = ctx.wrap(a)
		}
		defer call.release()

		v, err := ctx.invoke(fn, call)
		if err != nil {
			ctx.logger.Debug("host function failed", "function", name, "error", err)
			return sys.ValueRef{}, ctx.throwable(err)
		}
		if v == nil {
			return sys.ValueMakeUndefined(cref), sys.ValueRef{}
		}
		if err := ctx.owns(v, jserrors.PhaseCall); err != nil {
			return sys.ValueRef{}, ctx.throwable(err)
		}
		return v.ref, sys.ValueRef{}
	}
}

func (c *Context) invoke(fn HostFunc, call *Call) (v *Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = jserrors.Panic(jserrors.PhaseCall, r)
		}
	}()
	return fn(call)
}

// WrapFunc creates a JavaScript function from any Go function. See FuncOf
// for how arguments and results are converted.
func (c *Context) WrapFunc(name string, fn any) (*Object, error) {
	hf, err := FuncOf(fn)
	if err != nil {
		return nil, err
	}
	return c.NewFunction(name, hf)
}

var (
	callPtrType    = reflect.TypeFor[*Call]()
	contextPtrType = reflect.TypeFor[*Context]()
	goContextType  = reflect.TypeFor[context.Context]()
	errorIface     = reflect.TypeFor[error]()
)

// FuncOf adapts a Go function to a HostFunc.
//
// Parameters of type *Call, *Context and context.Context are injected;
// the rest receive the JavaScript arguments in order, decoded with
// Value.Decode. Missing or undefined arguments are zero values. A variadic
// final parameter collects the remaining arguments.
//
// The function may return nothing, a value, an error, or a value and an
// error. Values are converted with ValueOf.
func FuncOf(fn any) (HostFunc, error) {
	switch f := fn.(type) {
	case nil:
		return nil, jserrors.InvalidInput(jserrors.PhaseBind, "function is nil")
	case HostFunc:
		return f, nil
	case func(*Call) (*Value, error):
		return f, nil
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, jserrors.New(jserrors.PhaseBind, jserrors.KindInvalidInput).
			GoType(rv.Type().String()).
			Detail("not a function").
			Build()
	}
	if rv.IsNil() {
		return nil, jserrors.InvalidInput(jserrors.PhaseBind, "function is nil")
	}

	sig, err := newSignature(rv.Type())
	if err != nil {
		return nil, err
	}
	return func(call *Call) (*Value, error) {
		return sig.call(rv, call)
	}, nil
}

type paramKind int

const (
	paramJS paramKind = iota
	paramCall
	paramContext
	paramGoContext
)

type signature struct {
	typ      reflect.Type
	params   []paramKind
	variadic bool
	hasValue bool
	hasError bool
}

func newSignature(t reflect.Type) (*signature, error) {
	sig := &signature{typ: t, variadic: t.IsVariadic()}
	for i := range t.NumIn() {
		switch pt := t.In(i); pt {
		case callPtrType:
			sig.params = append(sig.params, paramCall)
		case contextPtrType:
			sig.params = append(sig.params, paramContext)
		case goContextType:
			sig.params = append(sig.params, paramGoContext)
		default:
			sig.params = append(sig.params, paramJS)
		}
	}

	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorIface {
			sig.hasError = true
		} else {
			sig.hasValue = true
		}
	case 2:
		if t.Out(1) != errorIface {
			return nil, jserrors.New(jserrors.PhaseBind, jserrors.KindUnsupported).
				GoType(t.String()).
				Detail("second result must be error").
				Build()
		}
		sig.hasValue = true
		sig.hasError = true
	default:
		return nil, jserrors.New(jserrors.PhaseBind, jserrors.KindUnsupported).
			GoType(t.String()).
			Detail("functions may return at most a value and an error").
			Build()
	}
	return sig, nil
}

func (s *signature) call(fn reflect.Value, call *Call) (*Value, error) {
	in := make([]reflect.Value, 0, len(s.params))
	next := 0
	last := len(s.params) - 1

	for i, kind := range s.params {
		pt := s.typ.In(i)
		switch kind {
		case paramCall:
			in = append(in, reflect.ValueOf(call))
		case paramContext:
			in = append(in, reflect.ValueOf(call.Context))
		case paramGoContext:
			in = append(in, reflect.ValueOf(call.GoContext()))
		default:
			if s.variadic && i == last {
				rest, err := decodeRest(call, next, pt)
				if err != nil {
					return nil, err
				}
				next = len(call.Args)
				in = append(in, rest)
				continue
			}
			arg, err := decodeArg(call, next, pt)
			if err != nil {
				return nil, err
			}
			next++
			in = append(in, arg)
		}
	}

	var out []reflect.Value
	if s.variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	if s.hasError {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	if !s.hasValue {
		return nil, nil
	}
	result := out[0].Interface()
	v, err := call.Context.ValueOf(result)
	if err != nil {
		return nil, err
	}
	if !isHandle(result, v) {
		call.temps = append(call.temps, v)
	}
	return v, nil
}

// isHandle reports whether v is the caller's own handle rather than a
// fresh conversion of orig.
func isHandle(orig any, v *Value) bool {
	switch x := orig.(type) {
	case *Value:
		return x == v
	case *Object:
		return x != nil && x.Value == v
	case *Exception:
		return x != nil && x.value == v
	}
	return false
}

func decodeArg(call *Call, i int, t reflect.Type) (reflect.Value, error) {
	dst := reflect.New(t).Elem()
	if i >= len(call.Args) || call.Args[i].IsUndefined() {
		return dst, nil
	}
	if err := call.Args[i].Decode(dst.Addr().Interface()); err != nil {
		return dst, argError(err, i)
	}
	return dst, nil
}

func decodeRest(call *Call, from int, t reflect.Type) (reflect.Value, error) {
	n := max(len(call.Args)-from, 0)
	rest := reflect.MakeSlice(t, n, n)
	for j := range n {
		if err := call.Args[from+j].Decode(rest.Index(j).Addr().Interface()); err != nil {
			return rest, argError(err, from+j)
		}
	}
	return rest, nil
}

func argError(err error, i int) error {
	if e, ok := err.(*jserrors.Error); ok {
		out := e.WithPath(fmt.Sprintf("arguments[%d]", i))
		out.Phase = jserrors.PhaseCall
		return out
	}
	return err
}
