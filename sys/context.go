package sys

// #include "jscore.h"
import "C"

func ContextGroupCreate() ContextGroupRef {
	return ContextGroupRef{C.JSContextGroupCreate()}
}

func ContextGroupRelease(group ContextGroupRef) {
	C.JSContextGroupRelease(group.p)
}

// GlobalContextCreate creates a global context in its own group.
func GlobalContextCreate() GlobalContextRef {
	return GlobalContextRef{C.JSGlobalContextCreate(nil)}
}

// GlobalContextCreateInGroup creates a global context sharing group's VM.
func GlobalContextCreateInGroup(group ContextGroupRef) GlobalContextRef {
	return GlobalContextRef{C.JSGlobalContextCreateInGroup(group.p, nil)}
}

func GlobalContextRetain(ctx GlobalContextRef) GlobalContextRef {
	return GlobalContextRef{C.JSGlobalContextRetain(ctx.p)}
}

func GlobalContextRelease(ctx GlobalContextRef) {
	C.JSGlobalContextRelease(ctx.p)
}

func GlobalContextSetName(ctx GlobalContextRef, name StringRef) {
	C.JSGlobalContextSetName(ctx.p, name.p)
}

// GlobalContextCopyName returns the context name. The caller owns the
// returned string, which is nil when no name was set.
func GlobalContextCopyName(ctx GlobalContextRef) StringRef {
	return StringRef{C.JSGlobalContextCopyName(ctx.p)}
}

func ContextGetGlobalObject(ctx ContextRef) ObjectRef {
	return ObjectRef{C.JSContextGetGlobalObject(ctx.p)}
}

func ContextGetGlobalContext(ctx ContextRef) GlobalContextRef {
	return GlobalContextRef{C.JSContextGetGlobalContext(ctx.p)}
}

func ContextGetGroup(ctx ContextRef) ContextGroupRef {
	return ContextGroupRef{C.JSContextGetGroup(ctx.p)}
}

func GarbageCollect(ctx ContextRef) {
	C.JSGarbageCollect(ctx.p)
}

// EvaluateScript runs script. this may be nil to use the global object,
// sourceURL may be nil.
func EvaluateScript(ctx ContextRef, script StringRef, this ObjectRef, sourceURL StringRef, line int) (ValueRef, ValueRef) {
	var exc C.JSValueRef
	r := C.JSEvaluateScript(ctx.p, script.p, this.p, sourceURL.p, C.int(line), &exc)
	return ValueRef{r}, ValueRef{exc}
}

// CheckScriptSyntax reports whether script parses. On failure the second
// result holds the SyntaxError.
func CheckScriptSyntax(ctx ContextRef, script StringRef, sourceURL StringRef, line int) (bool, ValueRef) {
	var exc C.JSValueRef
	ok := C.JSCheckScriptSyntax(ctx.p, script.p, sourceURL.p, C.int(line), &exc)
	return bool(ok), ValueRef{exc}
}
