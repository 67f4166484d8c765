package javascriptcore

import (
	"errors"
	"fmt"
	"math"
	"strings"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// Exception is a value thrown by JavaScript. Its fields are read when the
// exception is caught, so the error stays meaningful after the context
// is closed.
type Exception struct {
	Name      string
	Message   string
	Stack     string
	SourceURL string
	Line      int
	Column    int
	Phase     jserrors.Phase

	value *Value
}

// newException captures a thrown value.
func (c *Context) newException(phase jserrors.Phase, ref sys.ValueRef) *Exception {
	e := &Exception{Phase: phase, value: c.wrap(ref)}
	cref := c.cref()

	if !sys.ValueIsObject(cref, ref) {
		e.Message = valueString(cref, ref)
		return e
	}

	obj := ref.Object()
	e.Name = propertyString(cref, obj, "name")
	e.Message = propertyString(cref, obj, "message")
	e.Stack = propertyString(cref, obj, "stack")
	e.SourceURL = propertyString(cref, obj, "sourceURL")
	e.Line = propertyInt(cref, obj, "line")
	e.Column = propertyInt(cref, obj, "column")

	if e.Name == "" && e.Message == "" {
		e.Message = valueString(cref, ref)
	}
	return e
}

func (e *Exception) Error() string {
	var b strings.Builder
	switch {
	case e.Name != "" && e.Message != "":
		b.WriteString(e.Name)
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Name != "":
		b.WriteString(e.Name)
	default:
		b.WriteString(e.Message)
	}
	if e.Line > 0 {
		src := e.SourceURL
		if src == "" {
			src = "<anonymous>"
		}
		fmt.Fprintf(&b, " (at %s:%d:%d)", src, e.Line, e.Column)
	}
	return b.String()
}

// Kind classifies the exception.
func (e *Exception) Kind() jserrors.Kind {
	if e.Name == "SyntaxError" || e.Phase == jserrors.PhaseSyntax {
		return jserrors.KindSyntax
	}
	return jserrors.KindException
}

// Unwrap exposes the classification, so errors.Is(err, errors.ErrException)
// and errors.Is(err, errors.ErrSyntax) work.
func (e *Exception) Unwrap() error {
	return &jserrors.Error{
		Phase:  e.Phase,
		Kind:   e.Kind(),
		JSType: e.Name,
		Detail: e.Message,
	}
}

// Value returns the thrown value. It fails with a released error once the
// context is closed.
func (e *Exception) Value() (*Value, error) {
	if err := e.value.check(e.Phase); err != nil {
		return nil, err
	}
	return e.value, nil
}

func valueString(ctx sys.ContextRef, v sys.ValueRef) string {
	if sys.ValueIsSymbol(ctx, v) {
		return "Symbol()"
	}
	s, exc := sys.ValueToStringCopy(ctx, v)
	if !exc.IsNil() {
		return "<unprintable>"
	}
	defer sys.StringRelease(s)
	return sys.StringGetUTF8(s)
}

func propertyValue(ctx sys.ContextRef, obj sys.ObjectRef, name string) (sys.ValueRef, bool) {
	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	v, exc := sys.ObjectGetProperty(ctx, obj, key)
	if !exc.IsNil() || sys.ValueIsUndefined(ctx, v) || sys.ValueIsNull(ctx, v) {
		return sys.ValueRef{}, false
	}
	return v, true
}

func propertyString(ctx sys.ContextRef, obj sys.ObjectRef, name string) string {
	v, ok := propertyValue(ctx, obj, name)
	if !ok {
		return ""
	}
	return valueString(ctx, v)
}

func propertyInt(ctx sys.ContextRef, obj sys.ObjectRef, name string) int {
	v, ok := propertyValue(ctx, obj, name)
	if !ok || !sys.ValueIsNumber(ctx, v) {
		return 0
	}
	n, exc := sys.ValueToNumber(ctx, v)
	if !exc.IsNil() || math.IsNaN(n) || n < 0 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// throwable converts a Go error returned by a callback into the value to
// throw. An *Exception from a compatible context, wrapped or not, is
// rethrown as its original value.
func (c *Context) throwable(err error) sys.ValueRef {
	var exc *Exception
	if errors.As(err, &exc) && c.owns(exc.value, jserrors.PhaseCall) == nil {
		return exc.value.ref
	}

	ctor := "Error"
	switch jserrors.KindOf(err) {
	case jserrors.KindTypeMismatch, jserrors.KindInvalidInput:
		ctor = "TypeError"
	case jserrors.KindOverflow:
		ctor = "RangeError"
	}

	v, exc := c.makeError(ctor, err.Error())
	if !exc.IsNil() {
		return exc
	}
	return v
}
