package javascriptcore

import (
	"math"
	"time"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// PropertyAttributes control how a property set from Go behaves.
type PropertyAttributes = sys.PropertyAttributes

const (
	PropertyNone       = sys.PropertyNone
	PropertyReadOnly   = sys.PropertyReadOnly
	PropertyDontEnum   = sys.PropertyDontEnum
	PropertyDontDelete = sys.PropertyDontDelete
)

// Object is a Value known to be an object.
type Object struct {
	*Value
}

func (o *Object) oref() sys.ObjectRef {
	return o.ref.Object()
}

func (o *Object) check(phase jserrors.Phase) error {
	if o == nil {
		return jserrors.NilHandle(phase, "object")
	}
	return o.Value.check(phase)
}

// Get reads a property. Missing properties are undefined.
func (o *Object) Get(name string) (*Value, error) {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return nil, err
	}
	key := sys.StringCreate(name)
	defer sys.StringRelease(key)

	v, exc := sys.ObjectGetProperty(o.ctx.cref(), o.oref(), key)
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseProperty, exc)
	}
	return o.ctx.wrap(v), nil
}

// GetObject reads a property that must hold an object.
func (o *Object) GetObject(name string) (*Object, error) {
	v, err := o.Get(name)
	if err != nil {
		return nil, err
	}
	obj, ok := v.AsObject()
	if !ok {
		jsType := v.Type().String()
		v.Release()
		return nil, jserrors.TypeMismatch(jserrors.PhaseProperty, []string{name}, "*Object", jsType)
	}
	return obj, nil
}

// Set converts v with ValueOf and stores it. attrs defaults to
// PropertyNone; several attributes are combined.
func (o *Object) Set(name string, v any, attrs ...PropertyAttributes) error {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return err
	}
	val, err := o.ctx.ValueOf(v)
	if err != nil {
		if e, ok := err.(*jserrors.Error); ok {
			return e.WithPath(name)
		}
		return err
	}
	defer releaseConverted(v, val)

	var a PropertyAttributes
	for _, attr := range attrs {
		a |= attr
	}

	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	if exc := sys.ObjectSetProperty(o.ctx.cref(), o.oref(), key, val.ref, a); !exc.IsNil() {
		return o.ctx.newException(jserrors.PhaseProperty, exc)
	}
	return nil
}

// Has reports whether the object or its prototype chain has name.
func (o *Object) Has(name string) bool {
	if !o.usable() {
		return false
	}
	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	return sys.ObjectHasProperty(o.ctx.cref(), o.oref(), key)
}

// Delete removes a property. It returns false for non-configurable
// properties.
func (o *Object) Delete(name string) (bool, error) {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return false, err
	}
	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	ok, exc := sys.ObjectDeleteProperty(o.ctx.cref(), o.oref(), key)
	if !exc.IsNil() {
		return false, o.ctx.newException(jserrors.PhaseProperty, exc)
	}
	return ok, nil
}

// GetIndex reads an indexed element.
func (o *Object) GetIndex(i uint32) (*Value, error) {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return nil, err
	}
	v, exc := sys.ObjectGetPropertyAtIndex(o.ctx.cref(), o.oref(), i)
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseProperty, exc)
	}
	return o.ctx.wrap(v), nil
}

// SetIndex converts v with ValueOf and stores it at index i.
func (o *Object) SetIndex(i uint32, v any) error {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return err
	}
	val, err := o.ctx.ValueOf(v)
	if err != nil {
		return err
	}
	defer releaseConverted(v, val)
	if exc := sys.ObjectSetPropertyAtIndex(o.ctx.cref(), o.oref(), i, val.ref); !exc.IsNil() {
		return o.ctx.newException(jserrors.PhaseProperty, exc)
	}
	return nil
}

// Keys returns the enumerable own and inherited property names, in
// engine order.
func (o *Object) Keys() ([]string, error) {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return nil, err
	}
	return sys.ObjectCopyPropertyNames(o.ctx.cref(), o.oref()), nil
}

// Len returns the value of the length property, or 0 when it is not a
// non-negative integer.
func (o *Object) Len() (int, error) {
	v, err := o.Get("length")
	if err != nil {
		return 0, err
	}
	defer v.Release()
	if !v.IsNumber() {
		return 0, nil
	}
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
		return 0, nil
	}
	return int(n), nil
}

// Call invokes the object as a function. this may be nil for undefined;
// args are converted with ValueOf.
func (o *Object) Call(this *Object, args ...any) (*Value, error) {
	if err := o.check(jserrors.PhaseCall); err != nil {
		return nil, err
	}
	if !sys.ObjectIsFunction(o.ctx.cref(), o.oref()) {
		return nil, jserrors.TypeMismatch(jserrors.PhaseCall, nil, "func", "object")
	}

	var thisRef sys.ObjectRef
	if this != nil {
		if err := o.ctx.owns(this.Value, jserrors.PhaseCall); err != nil {
			return nil, err
		}
		thisRef = this.oref()
	}

	refs, release, err := o.ctx.convertArgs(args)
	if err != nil {
		return nil, err
	}
	defer release()

	r, exc := sys.ObjectCallAsFunction(o.ctx.cref(), o.oref(), thisRef, refs)
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseCall, exc)
	}
	return o.ctx.wrap(r), nil
}

// Construct invokes the object as a constructor, like new.
func (o *Object) Construct(args ...any) (*Object, error) {
	if err := o.check(jserrors.PhaseCall); err != nil {
		return nil, err
	}
	if !sys.ObjectIsConstructor(o.ctx.cref(), o.oref()) {
		return nil, jserrors.Unsupported(jserrors.PhaseCall, "object is not a constructor")
	}

	refs, release, err := o.ctx.convertArgs(args)
	if err != nil {
		return nil, err
	}
	defer release()

	r, exc := sys.ObjectCallAsConstructor(o.ctx.cref(), o.oref(), refs)
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseCall, exc)
	}
	return o.ctx.wrapObject(r), nil
}

// CallMethod reads the function stored at name and calls it with o as this.
func (o *Object) CallMethod(name string, args ...any) (*Value, error) {
	fn, err := o.GetObject(name)
	if err != nil {
		return nil, err
	}
	defer fn.Release()
	return fn.Call(o, args...)
}

// IsConstructor reports whether the object can be used with new.
func (o *Object) IsConstructor() bool {
	if !o.usable() {
		return false
	}
	return sys.ObjectIsConstructor(o.ctx.cref(), o.oref())
}

// Prototype returns the object's prototype, which may be null.
func (o *Object) Prototype() (*Value, error) {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return nil, err
	}
	return o.ctx.wrap(sys.ObjectGetPrototype(o.ctx.cref(), o.oref())), nil
}

// SetPrototype replaces the prototype. proto must be an object or null.
func (o *Object) SetPrototype(proto *Value) error {
	if err := o.check(jserrors.PhaseProperty); err != nil {
		return err
	}
	if err := o.ctx.owns(proto, jserrors.PhaseProperty); err != nil {
		return err
	}
	if !proto.IsObject() && !proto.IsNull() {
		return jserrors.TypeMismatch(jserrors.PhaseProperty, []string{"prototype"}, "", proto.Type().String())
	}
	sys.ObjectSetPrototype(o.ctx.cref(), o.oref(), proto.ref)
	return nil
}

// Bytes returns a copy of the bytes viewed by a typed array or held by an
// ArrayBuffer.
func (o *Object) Bytes() ([]byte, error) {
	if err := o.check(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	kind, exc := sys.ValueGetTypedArrayType(o.ctx.cref(), o.ref)
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseConvert, exc)
	}
	if kind == sys.TypedArrayNone {
		return nil, jserrors.TypeMismatch(jserrors.PhaseConvert, nil, "[]byte", "object")
	}
	view, exc := sys.ObjectTypedArrayBytes(o.ctx.cref(), o.oref())
	if !exc.IsNil() {
		return nil, o.ctx.newException(jserrors.PhaseConvert, exc)
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// NewObject creates an empty plain object.
func (c *Context) NewObject() (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	return c.wrapObject(sys.ObjectMake(c.cref())), nil
}

// NewArray creates an array from Go values converted with ValueOf.
func (c *Context) NewArray(elems ...any) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	refs, release, err := c.convertArgs(elems)
	if err != nil {
		return nil, err
	}
	defer release()

	arr, exc := sys.ObjectMakeArray(c.cref(), refs)
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseClass, exc)
	}
	return c.wrapObject(arr), nil
}

// NewError creates an Error object with the given message.
func (c *Context) NewError(message string) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	ref, exc := c.makeError("Error", message)
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseClass, exc)
	}
	return c.wrapObject(ref.Object()), nil
}

// NewDate creates a Date for t, with millisecond precision.
func (c *Context) NewDate(t time.Time) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	ms := sys.ValueMakeNumber(c.cref(), float64(t.UnixMilli()))
	d, exc := sys.ObjectMakeDate(c.cref(), []sys.ValueRef{ms})
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseClass, exc)
	}
	return c.wrapObject(d), nil
}

// NewUint8Array creates a Uint8Array holding a copy of b.
func (c *Context) NewUint8Array(b []byte) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	arr, exc := sys.ObjectMakeTypedArray(c.cref(), sys.TypedArrayUint8, len(b))
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseClass, exc)
	}
	if len(b) > 0 {
		view, exc := sys.ObjectTypedArrayBytes(c.cref(), arr)
		if !exc.IsNil() {
			return nil, c.newException(jserrors.PhaseClass, exc)
		}
		copy(view, b)
	}
	return c.wrapObject(arr), nil
}

// makeError constructs an instance of the named global error constructor,
// falling back to a plain Error.
func (c *Context) makeError(ctorName, message string) (sys.ValueRef, sys.ValueRef) {
	cref := c.cref()
	msg := sys.StringCreate(message)
	defer sys.StringRelease(msg)
	args := []sys.ValueRef{sys.ValueMakeString(cref, msg)}

	if ctorName != "" && ctorName != "Error" {
		name := sys.StringCreate(ctorName)
		defer sys.StringRelease(name)
		ctor, exc := sys.ObjectGetProperty(cref, sys.ContextGetGlobalObject(cref), name)
		if exc.IsNil() && sys.ValueIsObject(cref, ctor) && sys.ObjectIsConstructor(cref, ctor.Object()) {
			obj, exc := sys.ObjectCallAsConstructor(cref, ctor.Object(), args)
			if exc.IsNil() {
				return obj.Value(), sys.ValueRef{}
			}
		}
	}

	obj, exc := sys.ObjectMakeError(cref, args)
	return obj.Value(), exc
}
