package sys

// #include "jscore.h"
import "C"

import "unsafe"

func cValues(args []ValueRef) (C.size_t, *C.JSValueRef) {
	if len(args) == 0 {
		return 0, nil
	}
	cargs := make([]C.JSValueRef, len(args))
	for i, a := range args {
		cargs[i] = a.p
	}
	return C.size_t(len(cargs)), &cargs[0]
}

// ObjectMake creates a plain object.
func ObjectMake(ctx ContextRef) ObjectRef {
	return ObjectRef{C.JSObjectMake(ctx.p, nil, nil)}
}

func ObjectMakeArray(ctx ContextRef, elems []ValueRef) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	n, argv := cValues(elems)
	o := C.JSObjectMakeArray(ctx.p, n, argv, &exc)
	return ObjectRef{o}, ValueRef{exc}
}

// ObjectMakeError behaves like new Error(args...).
func ObjectMakeError(ctx ContextRef, args []ValueRef) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	n, argv := cValues(args)
	o := C.JSObjectMakeError(ctx.p, n, argv, &exc)
	return ObjectRef{o}, ValueRef{exc}
}

// ObjectMakeDate behaves like new Date(args...).
func ObjectMakeDate(ctx ContextRef, args []ValueRef) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	n, argv := cValues(args)
	o := C.JSObjectMakeDate(ctx.p, n, argv, &exc)
	return ObjectRef{o}, ValueRef{exc}
}

// ObjectMakeTypedArray creates a zero-filled typed array of length elements.
func ObjectMakeTypedArray(ctx ContextRef, kind TypedArrayType, length int) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	o := C.JSObjectMakeTypedArray(ctx.p, C.JSTypedArrayType(kind), C.size_t(length), &exc)
	return ObjectRef{o}, ValueRef{exc}
}

// ObjectTypedArrayBytes returns a view of the typed array's bytes. The view
// points into JavaScript memory and must be copied before the object can be
// collected.
func ObjectTypedArrayBytes(ctx ContextRef, obj ObjectRef) ([]byte, ValueRef) {
	var exc C.JSValueRef
	ptr := C.JSObjectGetTypedArrayBytesPtr(ctx.p, obj.p, &exc)
	if exc != nil {
		return nil, ValueRef{exc}
	}
	length := C.JSObjectGetTypedArrayByteLength(ctx.p, obj.p, &exc)
	if exc != nil {
		return nil, ValueRef{exc}
	}
	offset := C.JSObjectGetTypedArrayByteOffset(ctx.p, obj.p, &exc)
	if exc != nil {
		return nil, ValueRef{exc}
	}
	if ptr == nil || length == 0 {
		return []byte{}, ValueRef{}
	}
	base := unsafe.Add(ptr, int(offset))
	return unsafe.Slice((*byte)(base), int(length)), ValueRef{}
}

func ObjectGetProperty(ctx ContextRef, obj ObjectRef, name StringRef) (ValueRef, ValueRef) {
	var exc C.JSValueRef
	v := C.JSObjectGetProperty(ctx.p, obj.p, name.p, &exc)
	return ValueRef{v}, ValueRef{exc}
}

func ObjectSetProperty(ctx ContextRef, obj ObjectRef, name StringRef, v ValueRef, attrs PropertyAttributes) ValueRef {
	var exc C.JSValueRef
	C.JSObjectSetProperty(ctx.p, obj.p, name.p, v.p, C.JSPropertyAttributes(attrs), &exc)
	return ValueRef{exc}
}

func ObjectHasProperty(ctx ContextRef, obj ObjectRef, name StringRef) bool {
	return bool(C.JSObjectHasProperty(ctx.p, obj.p, name.p))
}

func ObjectDeleteProperty(ctx ContextRef, obj ObjectRef, name StringRef) (bool, ValueRef) {
	var exc C.JSValueRef
	ok := C.JSObjectDeleteProperty(ctx.p, obj.p, name.p, &exc)
	return bool(ok), ValueRef{exc}
}

func ObjectGetPropertyAtIndex(ctx ContextRef, obj ObjectRef, index uint32) (ValueRef, ValueRef) {
	var exc C.JSValueRef
	v := C.JSObjectGetPropertyAtIndex(ctx.p, obj.p, C.uint(index), &exc)
	return ValueRef{v}, ValueRef{exc}
}

func ObjectSetPropertyAtIndex(ctx ContextRef, obj ObjectRef, index uint32, v ValueRef) ValueRef {
	var exc C.JSValueRef
	C.JSObjectSetPropertyAtIndex(ctx.p, obj.p, C.uint(index), v.p, &exc)
	return ValueRef{exc}
}

// ObjectCopyPropertyNames returns the enumerable property names of obj.
func ObjectCopyPropertyNames(ctx ContextRef, obj ObjectRef) []string {
	arr := C.JSObjectCopyPropertyNames(ctx.p, obj.p)
	defer C.JSPropertyNameArrayRelease(arr)

	n := int(C.JSPropertyNameArrayGetCount(arr))
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := C.JSPropertyNameArrayGetNameAtIndex(arr, C.size_t(i))
		names = append(names, StringGetUTF8(StringRef{name}))
	}
	return names
}

// ObjectCallAsFunction calls fn. this may be nil for the global object.
func ObjectCallAsFunction(ctx ContextRef, fn ObjectRef, this ObjectRef, args []ValueRef) (ValueRef, ValueRef) {
	var exc C.JSValueRef
	n, argv := cValues(args)
	v := C.JSObjectCallAsFunction(ctx.p, fn.p, this.p, n, argv, &exc)
	return ValueRef{v}, ValueRef{exc}
}

func ObjectCallAsConstructor(ctx ContextRef, ctor ObjectRef, args []ValueRef) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	n, argv := cValues(args)
	o := C.JSObjectCallAsConstructor(ctx.p, ctor.p, n, argv, &exc)
	return ObjectRef{o}, ValueRef{exc}
}

func ObjectIsFunction(ctx ContextRef, obj ObjectRef) bool {
	return bool(C.JSObjectIsFunction(ctx.p, obj.p))
}

func ObjectIsConstructor(ctx ContextRef, obj ObjectRef) bool {
	return bool(C.JSObjectIsConstructor(ctx.p, obj.p))
}

func ObjectGetPrototype(ctx ContextRef, obj ObjectRef) ValueRef {
	return ValueRef{C.JSObjectGetPrototype(ctx.p, obj.p)}
}

func ObjectSetPrototype(ctx ContextRef, obj ObjectRef, proto ValueRef) {
	C.JSObjectSetPrototype(ctx.p, obj.p, proto.p)
}
