// Package jscore embeds the JavaScriptCore engine in Go programs.
//
// It gathers the packages of the module behind one import:
//
//   - javascriptcore: contexts, values, objects, functions and host objects
//   - bind: modules of Go functions, constants and structs for scripts
//   - errors: the Phase and Kind classification of every failure
//   - the script evaluators below, which compile a script once and run it
//     many times with different input
//
// A context can be driven directly:
//
//	c, err := jscore.NewContext()
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	v, err := c.Evaluate(ctx, "[1, 2, 3].map(n => n * 2)")
//
// or a script can be wrapped in an evaluator, which reads its input from
// the ctx global:
//
//	eval, err := jscore.FromJavaScriptString("`Hello, ${ctx.name}!`", handler)
//	ctx, err = eval.AddDataToContext(ctx, map[string]any{"name": "World"})
//	result, err := eval.Eval(ctx)
package jscore

import (
	"github.com/robbyt/go-jscore/bind"
	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

type (
	Context        = javascriptcore.Context
	ContextGroup   = javascriptcore.ContextGroup
	ContextOption  = javascriptcore.ContextOption
	EvalOption     = javascriptcore.EvalOption
	Value          = javascriptcore.Value
	Object         = javascriptcore.Object
	String         = javascriptcore.String
	Exception      = javascriptcore.Exception
	HostFunc       = javascriptcore.HostFunc
	Call           = javascriptcore.Call
	HostObject     = javascriptcore.HostObject
	PropertyLister = javascriptcore.PropertyLister
	Finalizer      = javascriptcore.Finalizer
	Unmarshaler    = javascriptcore.Unmarshaler

	Module    = bind.Module
	Registrar = bind.Registrar

	Error = jserrors.Error
	Phase = jserrors.Phase
	Kind  = jserrors.Kind
)

var (
	NewContext         = javascriptcore.NewContext
	NewContextGroup    = javascriptcore.NewContextGroup
	NewContextInGroup  = javascriptcore.NewContextInGroup
	NewString          = javascriptcore.NewString
	NewStringFromUTF16 = javascriptcore.NewStringFromUTF16
	FuncOf             = javascriptcore.FuncOf
	HostObjectOf       = javascriptcore.HostObjectOf
	InstallConsole     = javascriptcore.InstallConsole
	Format             = javascriptcore.Format

	WithName       = javascriptcore.WithName
	WithLogHandler = javascriptcore.WithLogHandler
	WithLogger     = javascriptcore.WithLogger
	WithSourceURL  = javascriptcore.WithSourceURL
	WithStartLine  = javascriptcore.WithStartLine
	WithThis       = javascriptcore.WithThis

	NewModule = bind.NewModule
	Register  = bind.Register
	Struct    = bind.Struct
	StructOf  = bind.StructOf

	KindOf = jserrors.KindOf
)

// Error kinds, see package errors.
const (
	KindException       = jserrors.KindException
	KindSyntax          = jserrors.KindSyntax
	KindTypeMismatch    = jserrors.KindTypeMismatch
	KindReleased        = jserrors.KindReleased
	KindNilHandle       = jserrors.KindNilHandle
	KindContextMismatch = jserrors.KindContextMismatch
	KindUnsupported     = jserrors.KindUnsupported
	KindInvalidInput    = jserrors.KindInvalidInput
	KindNotFound        = jserrors.KindNotFound
	KindOverflow        = jserrors.KindOverflow
	KindCycle           = jserrors.KindCycle
	KindPanic           = jserrors.KindPanic
)

// Kind sentinels for errors.Is.
var (
	ErrException       = jserrors.ErrException
	ErrSyntax          = jserrors.ErrSyntax
	ErrTypeMismatch    = jserrors.ErrTypeMismatch
	ErrReleased        = jserrors.ErrReleased
	ErrNilHandle       = jserrors.ErrNilHandle
	ErrContextMismatch = jserrors.ErrContextMismatch
	ErrUnsupported     = jserrors.ErrUnsupported
	ErrInvalidInput    = jserrors.ErrInvalidInput
	ErrNotFound        = jserrors.ErrNotFound
	ErrOverflow        = jserrors.ErrOverflow
	ErrCycle           = jserrors.ErrCycle
	ErrPanic           = jserrors.ErrPanic
)
