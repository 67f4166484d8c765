package sys

// #include "jscore.h"
import "C"

func ValueGetType(ctx ContextRef, v ValueRef) Type {
	return Type(C.JSValueGetType(ctx.p, v.p))
}

func ValueIsUndefined(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsUndefined(ctx.p, v.p))
}

func ValueIsNull(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsNull(ctx.p, v.p))
}

func ValueIsBoolean(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsBoolean(ctx.p, v.p))
}

func ValueIsNumber(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsNumber(ctx.p, v.p))
}

func ValueIsString(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsString(ctx.p, v.p))
}

func ValueIsSymbol(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsSymbol(ctx.p, v.p))
}

func ValueIsObject(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsObject(ctx.p, v.p))
}

func ValueIsArray(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsArray(ctx.p, v.p))
}

func ValueIsDate(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueIsDate(ctx.p, v.p))
}

// ValueIsEqual is the == operator.
func ValueIsEqual(ctx ContextRef, a, b ValueRef) (bool, ValueRef) {
	var exc C.JSValueRef
	eq := C.JSValueIsEqual(ctx.p, a.p, b.p, &exc)
	return bool(eq), ValueRef{exc}
}

// ValueIsStrictEqual is the === operator.
func ValueIsStrictEqual(ctx ContextRef, a, b ValueRef) bool {
	return bool(C.JSValueIsStrictEqual(ctx.p, a.p, b.p))
}

// ValueIsInstanceOfConstructor is the instanceof operator.
func ValueIsInstanceOfConstructor(ctx ContextRef, v ValueRef, ctor ObjectRef) (bool, ValueRef) {
	var exc C.JSValueRef
	ok := C.JSValueIsInstanceOfConstructor(ctx.p, v.p, ctor.p, &exc)
	return bool(ok), ValueRef{exc}
}

func ValueMakeUndefined(ctx ContextRef) ValueRef {
	return ValueRef{C.JSValueMakeUndefined(ctx.p)}
}

func ValueMakeNull(ctx ContextRef) ValueRef {
	return ValueRef{C.JSValueMakeNull(ctx.p)}
}

func ValueMakeBoolean(ctx ContextRef, b bool) ValueRef {
	return ValueRef{C.JSValueMakeBoolean(ctx.p, C.bool(b))}
}

func ValueMakeNumber(ctx ContextRef, n float64) ValueRef {
	return ValueRef{C.JSValueMakeNumber(ctx.p, C.double(n))}
}

// ValueMakeString creates a string value. s is copied; the caller keeps
// ownership of it.
func ValueMakeString(ctx ContextRef, s StringRef) ValueRef {
	return ValueRef{C.JSValueMakeString(ctx.p, s.p)}
}

func ValueMakeSymbol(ctx ContextRef, description StringRef) ValueRef {
	return ValueRef{C.JSValueMakeSymbol(ctx.p, description.p)}
}

// ValueMakeFromJSONString parses JSON. The result is nil when s is not valid
// JSON.
func ValueMakeFromJSONString(ctx ContextRef, s StringRef) ValueRef {
	return ValueRef{C.JSValueMakeFromJSONString(ctx.p, s.p)}
}

// ValueCreateJSONString serializes v. The caller owns the returned string,
// which is nil when v serializes to undefined or an exception was thrown.
func ValueCreateJSONString(ctx ContextRef, v ValueRef, indent uint) (StringRef, ValueRef) {
	var exc C.JSValueRef
	s := C.JSValueCreateJSONString(ctx.p, v.p, C.uint(indent), &exc)
	return StringRef{s}, ValueRef{exc}
}

func ValueToBoolean(ctx ContextRef, v ValueRef) bool {
	return bool(C.JSValueToBoolean(ctx.p, v.p))
}

func ValueToNumber(ctx ContextRef, v ValueRef) (float64, ValueRef) {
	var exc C.JSValueRef
	n := C.JSValueToNumber(ctx.p, v.p, &exc)
	return float64(n), ValueRef{exc}
}

// ValueToStringCopy converts v with ToString. The caller owns the result.
func ValueToStringCopy(ctx ContextRef, v ValueRef) (StringRef, ValueRef) {
	var exc C.JSValueRef
	s := C.JSValueToStringCopy(ctx.p, v.p, &exc)
	return StringRef{s}, ValueRef{exc}
}

func ValueToObject(ctx ContextRef, v ValueRef) (ObjectRef, ValueRef) {
	var exc C.JSValueRef
	o := C.JSValueToObject(ctx.p, v.p, &exc)
	return ObjectRef{o}, ValueRef{exc}
}

// ValueProtect pins v against garbage collection. Calls nest.
func ValueProtect(ctx ContextRef, v ValueRef) {
	C.JSValueProtect(ctx.p, v.p)
}

func ValueUnprotect(ctx ContextRef, v ValueRef) {
	C.JSValueUnprotect(ctx.p, v.p)
}

func ValueGetTypedArrayType(ctx ContextRef, v ValueRef) (TypedArrayType, ValueRef) {
	var exc C.JSValueRef
	t := C.JSValueGetTypedArrayType(ctx.p, v.p, &exc)
	return TypedArrayType(t), ValueRef{exc}
}
