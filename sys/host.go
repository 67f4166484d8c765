package sys

// #include "jscore.h"
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"
)

// HostFunction implements a JavaScript function in Go. It returns either a
// result or an exception; a nil result is undefined.
type HostFunction func(ctx ContextRef, function, this ObjectRef, args []ValueRef) (result, exception ValueRef)

// HostObject serves property access for an object backed by Go.
type HostObject interface {
	// GetProperty returns a nil ValueRef to defer to the prototype chain.
	GetProperty(ctx ContextRef, name string) (value, exception ValueRef)

	// SetProperty returns false to let the engine store the value normally.
	SetProperty(ctx ContextRef, name string, value ValueRef) (handled bool, exception ValueRef)

	HasProperty(ctx ContextRef, name string) bool

	// DeleteProperty returns false to let the engine delete normally.
	DeleteProperty(ctx ContextRef, name string) (handled bool, exception ValueRef)

	PropertyNames(ctx ContextRef) []string
}

// Finalizer is implemented by host values that want to know when their
// JavaScript object was collected. Finalize must not call into the engine.
type Finalizer interface {
	Finalize()
}

var classesOnce sync.Once

func initClasses() {
	classesOnce.Do(func() {
		C.jscore_function_class()
		C.jscore_host_object_class()
	})
}

// MakeHostFunction creates a callable object that dispatches to fn. The
// object keeps fn alive until the engine finalizes it.
func MakeHostFunction(ctx ContextRef, fn HostFunction) ObjectRef {
	initClasses()
	h := cgo.NewHandle(fn)
	return ObjectRef{C.jscore_make_function(ctx.p, C.uintptr_t(h))}
}

// MakeHostObject creates an object whose properties are served by obj.
func MakeHostObject(ctx ContextRef, obj HostObject) ObjectRef {
	initClasses()
	h := cgo.NewHandle(obj)
	return ObjectRef{C.jscore_make_host_object(ctx.p, C.uintptr_t(h))}
}

// HostValue returns the Go value behind a host function or host object.
func HostValue(ctx ContextRef, v ValueRef) (any, bool) {
	initClasses()
	if !bool(C.JSValueIsObjectOfClass(ctx.p, v.p, C.jscore_function_class())) &&
		!bool(C.JSValueIsObjectOfClass(ctx.p, v.p, C.jscore_host_object_class())) {
		return nil, false
	}
	return handleValue(C.jscore_object_handle(C.JSObjectRef(v.p)))
}

func handleValue(h C.uintptr_t) (any, bool) {
	if h == 0 {
		return nil, false
	}
	return cgo.Handle(h).Value(), true
}

// errorValue creates an Error object for failures inside the trampolines.
func errorValue(ctx ContextRef, msg string) ValueRef {
	s := StringCreate(msg)
	defer StringRelease(s)
	obj, exc := ObjectMakeError(ctx, []ValueRef{ValueMakeString(ctx, s)})
	if !exc.IsNil() {
		return exc
	}
	return obj.Value()
}

func hostObject(object C.JSObjectRef) (HostObject, bool) {
	v, ok := handleValue(C.jscore_object_handle(object))
	if !ok {
		return nil, false
	}
	obj, ok := v.(HostObject)
	return obj, ok
}

//export jscoreCallAsFunction
func jscoreCallAsFunction(
	ctx C.JSContextRef,
	function C.JSObjectRef,
	this C.JSObjectRef,
	argc C.size_t,
	argv *C.JSValueRef,
	exception *C.JSValueRef,
) (result C.JSValueRef) {
	c := ContextRef{ctx}
	defer func() {
		if r := recover(); r != nil {
			*exception = errorValue(c, fmt.Sprintf("go panic: %v", r)).p
			result = nil
		}
	}()

	v, ok := handleValue(C.jscore_object_handle(function))
	fn, isFn := v.(HostFunction)
	if !ok || !isFn {
		*exception = errorValue(c, "host function is not available").p
		return nil
	}

	args := make([]ValueRef, int(argc))
	if argc > 0 {
		for i, a := range unsafe.Slice(argv, int(argc)) {
			args[i] = ValueRef{a}
		}
	}

	r, exc := fn(c, ObjectRef{function}, ObjectRef{this}, args)
	if !exc.IsNil() {
		*exception = exc.p
		return nil
	}
	if r.IsNil() {
		return C.JSValueMakeUndefined(ctx)
	}
	return r.p
}

//export jscoreFinalize
func jscoreFinalize(h C.uintptr_t) {
	if h == 0 {
		return
	}
	handle := cgo.Handle(h)
	if f, ok := handle.Value().(Finalizer); ok {
		f.Finalize()
	}
	handle.Delete()
}

//export jscoreGetProperty
func jscoreGetProperty(
	ctx C.JSContextRef,
	object C.JSObjectRef,
	name C.JSStringRef,
	exception *C.JSValueRef,
) (result C.JSValueRef) {
	c := ContextRef{ctx}
	defer func() {
		if r := recover(); r != nil {
			*exception = errorValue(c, fmt.Sprintf("go panic: %v", r)).p
			result = nil
		}
	}()

	obj, ok := hostObject(object)
	if !ok {
		return nil
	}
	v, exc := obj.GetProperty(c, StringGetUTF8(StringRef{name}))
	if !exc.IsNil() {
		*exception = exc.p
		return nil
	}
	return v.p
}

//export jscoreSetProperty
func jscoreSetProperty(
	ctx C.JSContextRef,
	object C.JSObjectRef,
	name C.JSStringRef,
	value C.JSValueRef,
	exception *C.JSValueRef,
) (handled C.bool) {
	c := ContextRef{ctx}
	defer func() {
		if r := recover(); r != nil {
			*exception = errorValue(c, fmt.Sprintf("go panic: %v", r)).p
			handled = true
		}
	}()

	obj, ok := hostObject(object)
	if !ok {
		return false
	}
	done, exc := obj.SetProperty(c, StringGetUTF8(StringRef{name}), ValueRef{value})
	if !exc.IsNil() {
		*exception = exc.p
		return true
	}
	return C.bool(done)
}

//export jscoreHasProperty
func jscoreHasProperty(ctx C.JSContextRef, object C.JSObjectRef, name C.JSStringRef) (has C.bool) {
	defer func() {
		if r := recover(); r != nil {
			has = false
		}
	}()

	obj, ok := hostObject(object)
	if !ok {
		return false
	}
	return C.bool(obj.HasProperty(ContextRef{ctx}, StringGetUTF8(StringRef{name})))
}

//export jscoreDeleteProperty
func jscoreDeleteProperty(
	ctx C.JSContextRef,
	object C.JSObjectRef,
	name C.JSStringRef,
	exception *C.JSValueRef,
) (handled C.bool) {
	c := ContextRef{ctx}
	defer func() {
		if r := recover(); r != nil {
			*exception = errorValue(c, fmt.Sprintf("go panic: %v", r)).p
			handled = true
		}
	}()

	obj, ok := hostObject(object)
	if !ok {
		return false
	}
	done, exc := obj.DeleteProperty(c, StringGetUTF8(StringRef{name}))
	if !exc.IsNil() {
		*exception = exc.p
		return true
	}
	return C.bool(done)
}

//export jscoreGetPropertyNames
func jscoreGetPropertyNames(ctx C.JSContextRef, object C.JSObjectRef, names C.JSPropertyNameAccumulatorRef) {
	defer func() {
		_ = recover()
	}()

	obj, ok := hostObject(object)
	if !ok {
		return
	}
	for _, name := range obj.PropertyNames(ContextRef{ctx}) {
		s := StringCreate(name)
		C.JSPropertyNameAccumulatorAddName(names, s.p)
		StringRelease(s)
	}
}
