package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the binding the error occurred
type Phase string

const (
	PhaseEvaluate  Phase = "evaluate"  // script evaluation
	PhaseSyntax    Phase = "syntax"    // syntax checking
	PhaseConvert   Phase = "convert"   // Go <-> JS value conversion
	PhaseCall      Phase = "call"      // function calls in either direction
	PhaseProperty  Phase = "property"  // property access
	PhaseClass     Phase = "class"     // host class and object creation
	PhaseLifecycle Phase = "lifecycle" // context and handle lifetime
	PhaseBind      Phase = "bind"      // registration of Go functions and structs
	PhaseLoad      Phase = "load"      // script loading
)

// Kind categorizes the error
type Kind string

const (
	KindException       Kind = "exception"
	KindSyntax          Kind = "syntax"
	KindTypeMismatch    Kind = "type_mismatch"
	KindReleased        Kind = "released"
	KindNilHandle       Kind = "nil_handle"
	KindContextMismatch Kind = "context_mismatch"
	KindUnsupported     Kind = "unsupported"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindOverflow        Kind = "overflow"
	KindCycle           Kind = "cycle"
	KindPanic           Kind = "panic"
)

// Kind-only sentinels. They match any *Error of the same Kind.
var (
	ErrException       = &Error{Kind: KindException}
	ErrSyntax          = &Error{Kind: KindSyntax}
	ErrTypeMismatch    = &Error{Kind: KindTypeMismatch}
	ErrReleased        = &Error{Kind: KindReleased}
	ErrNilHandle       = &Error{Kind: KindNilHandle}
	ErrContextMismatch = &Error{Kind: KindContextMismatch}
	ErrUnsupported     = &Error{Kind: KindUnsupported}
	ErrInvalidInput    = &Error{Kind: KindInvalidInput}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrOverflow        = &Error{Kind: KindOverflow}
	ErrCycle           = &Error{Kind: KindCycle}
	ErrPanic           = &Error{Kind: KindPanic}
)

// Error is the structured error type used throughout the binding
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	JSType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	hasTypes := e.GoType != "" || e.JSType != ""
	if hasTypes {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.JSType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", JS type ")
			b.WriteString(e.JSType)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("JS type ")
			b.WriteString(e.JSType)
		}
	}

	if e.Detail != "" {
		if hasTypes {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a Phase
// matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// WithPath returns a copy of the error with elems prepended to its path.
func (e *Error) WithPath(elems ...string) *Error {
	cp := *e
	cp.Path = append(append(make([]string, 0, len(elems)+len(e.Path)), elems...), e.Path...)
	return &cp
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the property path
func (b *Builder) Path(elems ...string) *Builder {
	b.err.Path = elems
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// JSType sets the JavaScript type name
func (b *Builder) JSType(t string) *Builder {
	b.err.JSType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, jsType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		JSType: jsType,
	}
}

// Released creates an error for use of a released context or handle
func Released(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Detail: what + " has been released",
	}
}

// NilHandle creates an error for a nil native handle
func NilHandle(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilHandle,
		Detail: what + " is nil",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not found error
func NotFound(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   path,
		Detail: what + " not found",
	}
}

// Overflow creates an error for a number that does not fit the target Go type
func Overflow(phase Phase, path []string, value any, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("value %v overflows %s", value, goType),
		Value:  value,
	}
}

// ContextMismatch creates an error for a value used with a foreign context
func ContextMismatch(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindContextMismatch,
		Detail: "value belongs to a different context group",
	}
}

// Panic wraps a recovered panic value
func Panic(phase Phase, recovered any) *Error {
	e := &Error{
		Phase:  phase,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("panic: %v", recovered),
		Value:  recovered,
	}
	if err, ok := recovered.(error); ok {
		e.Cause = err
	}
	return e
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
