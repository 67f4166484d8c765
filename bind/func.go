package bind

import (
	"github.com/robbyt/go-jscore/javascriptcore"
)

// Func adapts any Go function to a javascriptcore.HostFunc.
//
// JavaScript arguments are decoded into the parameters in order. Parameters
// of type *javascriptcore.Call, *javascriptcore.Context and context.Context
// are injected instead. Missing arguments become zero values and a variadic
// final parameter takes the rest. The function may return nothing, a value,
// an error, or a value and an error.
func Func(fn any) (javascriptcore.HostFunc, error) {
	return javascriptcore.FuncOf(fn)
}

// Register sets fn as the property name of target. A nil target registers
// on the global object.
func Register(ctx *javascriptcore.Context, target *javascriptcore.Object, name string, fn any) error {
	if name == "" {
		return invalid("function name is empty")
	}
	obj, err := ctx.WrapFunc(name, fn)
	if err != nil {
		return withName(err, name)
	}
	defer obj.Release()

	if target == nil {
		return ctx.SetGlobal(name, obj)
	}
	return target.Set(name, obj)
}
