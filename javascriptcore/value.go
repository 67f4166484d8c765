package javascriptcore

import (
	"fmt"
	"runtime"
	"sync/atomic"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// Type is the primitive type tag of a value.
type Type = sys.Type

const (
	TypeUndefined = sys.TypeUndefined
	TypeNull      = sys.TypeNull
	TypeBoolean   = sys.TypeBoolean
	TypeNumber    = sys.TypeNumber
	TypeString    = sys.TypeString
	TypeObject    = sys.TypeObject
	TypeSymbol    = sys.TypeSymbol
)

// Value is a JavaScript value held from Go. The value stays alive in the
// engine until Release is called or the Value is garbage collected.
type Value struct {
	ctx      *Context
	ref      sys.ValueRef
	released atomic.Bool
	cleanup  runtime.Cleanup
}

type pendingRef struct {
	ctx *Context
	ref sys.ValueRef
}

func unprotectLater(p pendingRef) {
	p.ctx.deferUnprotect(p.ref)
}

// wrap protects ref and returns its Go owner.
func (c *Context) wrap(ref sys.ValueRef) *Value {
	if ref.IsNil() {
		ref = sys.ValueMakeUndefined(c.cref())
	}
	sys.ValueProtect(c.cref(), ref)
	c.track(ref)
	v := &Value{ctx: c, ref: ref}
	v.cleanup = runtime.AddCleanup(v, unprotectLater, pendingRef{ctx: c, ref: ref})
	return v
}

func (c *Context) wrapObject(ref sys.ObjectRef) *Object {
	return &Object{Value: c.wrap(ref.Value())}
}

// owns checks that v can be used with c.
func (c *Context) owns(v *Value, phase jserrors.Phase) error {
	if v == nil {
		return jserrors.NilHandle(phase, "value")
	}
	if v.released.Load() {
		return jserrors.Released(phase, "value")
	}
	if v.ctx.closed.Load() {
		return jserrors.Released(phase, "context")
	}
	if !c.sameGroup(v.ctx) {
		return jserrors.ContextMismatch(phase)
	}
	return nil
}

// check verifies the value and its context are still usable.
func (v *Value) check(phase jserrors.Phase) error {
	if v == nil {
		return jserrors.NilHandle(phase, "value")
	}
	if v.released.Load() {
		return jserrors.Released(phase, "value")
	}
	return v.ctx.enter(phase)
}

func (v *Value) usable() bool {
	return v != nil && !v.released.Load() && !v.ctx.closed.Load()
}

// Context returns the context the value was created in.
func (v *Value) Context() *Context {
	return v.ctx
}

// Release unprotects the value. Further calls, and calls after the
// context is closed, are no-ops.
func (v *Value) Release() {
	if v == nil || !v.released.CompareAndSwap(false, true) {
		return
	}
	v.cleanup.Stop()
	v.ctx.unprotect(v.ref)
}

// Type returns the primitive type tag, or TypeUndefined once released.
func (v *Value) Type() Type {
	if !v.usable() {
		return TypeUndefined
	}
	return sys.ValueGetType(v.ctx.cref(), v.ref)
}

func (v *Value) is(pred func(sys.ContextRef, sys.ValueRef) bool) bool {
	if !v.usable() {
		return false
	}
	return pred(v.ctx.cref(), v.ref)
}

func (v *Value) IsUndefined() bool { return v.is(sys.ValueIsUndefined) }
func (v *Value) IsNull() bool      { return v.is(sys.ValueIsNull) }
func (v *Value) IsBoolean() bool   { return v.is(sys.ValueIsBoolean) }
func (v *Value) IsNumber() bool    { return v.is(sys.ValueIsNumber) }
func (v *Value) IsString() bool    { return v.is(sys.ValueIsString) }
func (v *Value) IsSymbol() bool    { return v.is(sys.ValueIsSymbol) }
func (v *Value) IsObject() bool    { return v.is(sys.ValueIsObject) }
func (v *Value) IsArray() bool     { return v.is(sys.ValueIsArray) }
func (v *Value) IsDate() bool      { return v.is(sys.ValueIsDate) }

// IsNullish reports whether the value is null or undefined.
func (v *Value) IsNullish() bool {
	return v.IsUndefined() || v.IsNull()
}

// IsFunction reports whether the value is callable.
func (v *Value) IsFunction() bool {
	if !v.IsObject() {
		return false
	}
	return sys.ObjectIsFunction(v.ctx.cref(), v.ref.Object())
}

// ToBool applies JavaScript truthiness.
func (v *Value) ToBool() bool {
	if !v.usable() {
		return false
	}
	return sys.ValueToBoolean(v.ctx.cref(), v.ref)
}

// ToNumber applies JavaScript numeric conversion, which may run valueOf.
func (v *Value) ToNumber() (float64, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return 0, err
	}
	n, exc := sys.ValueToNumber(v.ctx.cref(), v.ref)
	if !exc.IsNil() {
		return 0, v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	return n, nil
}

// ToString applies JavaScript string conversion, which may run toString.
func (v *Value) ToString() (string, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return "", err
	}
	s, exc := sys.ValueToStringCopy(v.ctx.cref(), v.ref)
	if !exc.IsNil() {
		return "", v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	defer sys.StringRelease(s)
	return sys.StringGetUTF8(s), nil
}

// ToJSString converts the value to an engine string.
func (v *Value) ToJSString() (*String, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	s, exc := sys.ValueToStringCopy(v.ctx.cref(), v.ref)
	if !exc.IsNil() {
		return nil, v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	return adoptString(s), nil
}

// ToObject converts the value to an object. Primitives are boxed;
// null and undefined throw a TypeError.
func (v *Value) ToObject() (*Object, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	obj, exc := sys.ValueToObject(v.ctx.cref(), v.ref)
	if !exc.IsNil() {
		return nil, v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	return v.ctx.wrapObject(obj), nil
}

// AsObject returns the value as an Object sharing this value's lifetime, or
// false when the value is not an object.
func (v *Value) AsObject() (*Object, bool) {
	if !v.IsObject() {
		return nil, false
	}
	return &Object{Value: v}, true
}

// ToJSON serializes the value with JSON.stringify. indent is the number of
// spaces per level, capped at 10 by the engine. Values JSON cannot
// represent, such as undefined, produce "undefined".
func (v *Value) ToJSON(indent uint) (string, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return "", err
	}
	s, exc := sys.ValueCreateJSONString(v.ctx.cref(), v.ref, indent)
	if !exc.IsNil() {
		return "", v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	if s.IsNil() {
		return "undefined", nil
	}
	defer sys.StringRelease(s)
	return sys.StringGetUTF8(s), nil
}

// Equal compares with == semantics, which may run user code.
func (v *Value) Equal(other *Value) (bool, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return false, err
	}
	if err := v.ctx.owns(other, jserrors.PhaseConvert); err != nil {
		return false, err
	}
	eq, exc := sys.ValueIsEqual(v.ctx.cref(), v.ref, other.ref)
	if !exc.IsNil() {
		return false, v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	return eq, nil
}

// StrictEqual compares with === semantics.
func (v *Value) StrictEqual(other *Value) bool {
	if !v.usable() || v.ctx.owns(other, jserrors.PhaseConvert) != nil {
		return false
	}
	return sys.ValueIsStrictEqual(v.ctx.cref(), v.ref, other.ref)
}

// InstanceOf evaluates v instanceof ctor.
func (v *Value) InstanceOf(ctor *Object) (bool, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return false, err
	}
	if ctor == nil {
		return false, jserrors.NilHandle(jserrors.PhaseConvert, "constructor")
	}
	if err := v.ctx.owns(ctor.Value, jserrors.PhaseConvert); err != nil {
		return false, err
	}
	ok, exc := sys.ValueIsInstanceOfConstructor(v.ctx.cref(), v.ref, ctor.ref.Object())
	if !exc.IsNil() {
		return false, v.ctx.newException(jserrors.PhaseConvert, exc)
	}
	return ok, nil
}

// String renders the value with JavaScript string conversion. Conversion
// failures are rendered inline.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.released.Load() {
		return "<released>"
	}
	if v.IsSymbol() {
		return "Symbol()"
	}
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return s
}

// released returns a Value that reports itself released, for constructors
// called on a closed context.
func (c *Context) released() *Value {
	v := &Value{ctx: c}
	v.released.Store(true)
	return v
}

func (c *Context) make(fn func(sys.ContextRef) sys.ValueRef) *Value {
	if c.enter(jserrors.PhaseConvert) != nil {
		return c.released()
	}
	return c.wrap(fn(c.cref()))
}

// Undefined returns the undefined value.
func (c *Context) Undefined() *Value {
	return c.make(sys.ValueMakeUndefined)
}

// Null returns the null value.
func (c *Context) Null() *Value {
	return c.make(sys.ValueMakeNull)
}

// Bool returns a boolean value.
func (c *Context) Bool(b bool) *Value {
	return c.make(func(ctx sys.ContextRef) sys.ValueRef {
		return sys.ValueMakeBoolean(ctx, b)
	})
}

// Number returns a number value.
func (c *Context) Number(n float64) *Value {
	return c.make(func(ctx sys.ContextRef) sys.ValueRef {
		return sys.ValueMakeNumber(ctx, n)
	})
}

// NewStringValue returns a string value.
func (c *Context) NewStringValue(s string) *Value {
	return c.make(func(ctx sys.ContextRef) sys.ValueRef {
		str := sys.StringCreate(s)
		defer sys.StringRelease(str)
		return sys.ValueMakeString(ctx, str)
	})
}

// NewSymbol returns a new symbol with the given description.
func (c *Context) NewSymbol(description string) *Value {
	return c.make(func(ctx sys.ContextRef) sys.ValueRef {
		str := sys.StringCreate(description)
		defer sys.StringRelease(str)
		return sys.ValueMakeSymbol(ctx, str)
	})
}

// ParseJSON parses a JSON document into a value.
func (c *Context) ParseJSON(doc string) (*Value, error) {
	if err := c.enter(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	str := sys.StringCreate(doc)
	defer sys.StringRelease(str)
	ref := sys.ValueMakeFromJSONString(c.cref(), str)
	if ref.IsNil() {
		return nil, jserrors.InvalidInput(jserrors.PhaseConvert, "invalid JSON document")
	}
	return c.wrap(ref), nil
}
