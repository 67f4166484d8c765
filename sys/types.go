package sys

// #include "jscore.h"
import "C"

// ContextGroupRef is a group of contexts that share a virtual machine.
type ContextGroupRef struct{ p C.JSContextGroupRef }

// ContextRef is an execution context.
type ContextRef struct{ p C.JSContextRef }

// GlobalContextRef is a retainable top-level context.
type GlobalContextRef struct{ p C.JSGlobalContextRef }

// StringRef is a reference-counted UTF-16 string.
type StringRef struct{ p C.JSStringRef }

// ValueRef is any JavaScript value.
type ValueRef struct{ p C.JSValueRef }

// ObjectRef is a JavaScript object. Every ObjectRef is also a ValueRef.
type ObjectRef struct{ p C.JSObjectRef }

func (r ContextGroupRef) IsNil() bool  { return r.p == nil }
func (r ContextRef) IsNil() bool       { return r.p == nil }
func (r GlobalContextRef) IsNil() bool { return r.p == nil }
func (r StringRef) IsNil() bool        { return r.p == nil }
func (r ValueRef) IsNil() bool         { return r.p == nil }
func (r ObjectRef) IsNil() bool        { return r.p == nil }

// Context returns the global context as a plain execution context.
func (r GlobalContextRef) Context() ContextRef {
	return ContextRef{C.JSContextRef(r.p)}
}

// Value returns the object as a value.
func (r ObjectRef) Value() ValueRef {
	return ValueRef{C.JSValueRef(r.p)}
}

// Object reinterprets the value as an object. Only valid when the value is
// known to be an object.
func (r ValueRef) Object() ObjectRef {
	return ObjectRef{C.JSObjectRef(r.p)}
}

// Type is the primitive type tag of a value.
type Type int

const (
	TypeUndefined Type = C.kJSTypeUndefined
	TypeNull      Type = C.kJSTypeNull
	TypeBoolean   Type = C.kJSTypeBoolean
	TypeNumber    Type = C.kJSTypeNumber
	TypeString    Type = C.kJSTypeString
	TypeObject    Type = C.kJSTypeObject
	TypeSymbol    Type = C.kJSTypeSymbol
)

func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// TypedArrayType identifies the kind of a typed array or ArrayBuffer.
type TypedArrayType int

const (
	TypedArrayInt8         TypedArrayType = C.kJSTypedArrayTypeInt8Array
	TypedArrayInt16        TypedArrayType = C.kJSTypedArrayTypeInt16Array
	TypedArrayInt32        TypedArrayType = C.kJSTypedArrayTypeInt32Array
	TypedArrayUint8        TypedArrayType = C.kJSTypedArrayTypeUint8Array
	TypedArrayUint8Clamped TypedArrayType = C.kJSTypedArrayTypeUint8ClampedArray
	TypedArrayUint16       TypedArrayType = C.kJSTypedArrayTypeUint16Array
	TypedArrayUint32       TypedArrayType = C.kJSTypedArrayTypeUint32Array
	TypedArrayFloat32      TypedArrayType = C.kJSTypedArrayTypeFloat32Array
	TypedArrayFloat64      TypedArrayType = C.kJSTypedArrayTypeFloat64Array
	TypedArrayArrayBuffer  TypedArrayType = C.kJSTypedArrayTypeArrayBuffer
	TypedArrayNone         TypedArrayType = C.kJSTypedArrayTypeNone
)

// PropertyAttributes control how a property set from Go behaves.
type PropertyAttributes uint

const (
	PropertyNone       PropertyAttributes = C.kJSPropertyAttributeNone
	PropertyReadOnly   PropertyAttributes = C.kJSPropertyAttributeReadOnly
	PropertyDontEnum   PropertyAttributes = C.kJSPropertyAttributeDontEnum
	PropertyDontDelete PropertyAttributes = C.kJSPropertyAttributeDontDelete
)
