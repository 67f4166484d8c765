package javascriptcore

import (
	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// HostObject serves property access for a JavaScript object backed by Go.
// Values passed in are released when the method returns.
type HostObject interface {
	// GetProperty returns nil to fall back to the prototype chain.
	GetProperty(ctx *Context, name string) (*Value, error)

	// SetProperty returns false to store the value on the object normally.
	SetProperty(ctx *Context, name string, value *Value) (bool, error)

	HasProperty(ctx *Context, name string) bool

	// DeleteProperty returns false to delete the property normally.
	DeleteProperty(ctx *Context, name string) (bool, error)
}

// PropertyLister is implemented by host objects that enumerate properties,
// as seen by for-in and Object.keys.
type PropertyLister interface {
	PropertyNames(ctx *Context) []string
}

// Finalizer is implemented by host objects that want to know when the
// engine collected their JavaScript object. Finalize runs on the engine's
// collector and must not use any Context.
type Finalizer interface {
	Finalize()
}

// hostObject adapts a HostObject to the native callbacks.
type hostObject struct {
	owner *Context
	obj   HostObject
}

// NewHostObject creates an object whose properties are served by obj.
func (c *Context) NewHostObject(obj HostObject) (*Object, error) {
	if err := c.enter(jserrors.PhaseClass); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, jserrors.InvalidInput(jserrors.PhaseClass, "host object is nil")
	}
	ref := sys.MakeHostObject(c.cref(), &hostObject{owner: c, obj: obj})
	if ref.IsNil() {
		return nil, jserrors.NilHandle(jserrors.PhaseClass, "host object")
	}
	return c.wrapObject(ref), nil
}

// HostObjectOf returns the Go value behind a host object.
func HostObjectOf(v *Value) (HostObject, bool) {
	if !v.usable() {
		return nil, false
	}
	hv, ok := sys.HostValue(v.ctx.cref(), v.ref)
	if !ok {
		return nil, false
	}
	h, ok := hv.(*hostObject)
	if !ok {
		return nil, false
	}
	return h.obj, true
}

func (h *hostObject) GetProperty(cref sys.ContextRef, name string) (value, exception sys.ValueRef) {
	ctx := contextFor(cref, h.owner)
	v, err := h.guard(func() (*Value, error) {
		return h.obj.GetProperty(ctx, name)
	})
	if err != nil {
		return sys.ValueRef{}, ctx.throwable(err)
	}
	if v == nil {
		return sys.ValueRef{}, sys.ValueRef{}
	}
	if err := ctx.owns(v, jserrors.PhaseProperty); err != nil {
		return sys.ValueRef{}, ctx.throwable(err)
	}
	return v.ref, sys.ValueRef{}
}

func (h *hostObject) SetProperty(cref sys.ContextRef, name string, value sys.ValueRef) (handled bool, exception sys.ValueRef) {
	ctx := contextFor(cref, h.owner)
	val := ctx.wrap(value)
	defer val.Release()

	var done bool
	_, err := h.guard(func() (*Value, error) {
		var err error
		done, err = h.obj.SetProperty(ctx, name, val)
		return nil, err
	})
	if err != nil {
		return true, ctx.throwable(err)
	}
	return done, sys.ValueRef{}
}

func (h *hostObject) HasProperty(cref sys.ContextRef, name string) bool {
	return h.obj.HasProperty(contextFor(cref, h.owner), name)
}

func (h *hostObject) DeleteProperty(cref sys.ContextRef, name string) (handled bool, exception sys.ValueRef) {
	ctx := contextFor(cref, h.owner)
	var done bool
	_, err := h.guard(func() (*Value, error) {
		var err error
		done, err = h.obj.DeleteProperty(ctx, name)
		return nil, err
	})
	if err != nil {
		return true, ctx.throwable(err)
	}
	return done, sys.ValueRef{}
}

func (h *hostObject) PropertyNames(cref sys.ContextRef) []string {
	if l, ok := h.obj.(PropertyLister); ok {
		return l.PropertyNames(contextFor(cref, h.owner))
	}
	return nil
}

func (h *hostObject) Finalize() {
	if f, ok := h.obj.(Finalizer); ok {
		f.Finalize()
	}
}

// guard turns a panic in host code into an error.
func (h *hostObject) guard(fn func() (*Value, error)) (v *Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = jserrors.Panic(jserrors.PhaseProperty, r)
		}
	}()
	return fn()
}
