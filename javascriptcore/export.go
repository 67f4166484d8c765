package javascriptcore

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/sys"
)

// Export converts the value to plain Go data:
//
//   - undefined and null become nil
//   - booleans become bool, numbers float64, strings string
//   - arrays become []any and plain objects map[string]any
//   - Uint8Array and ArrayBuffer become []byte; other typed arrays []any
//   - Date becomes time.Time
//   - functions become *Object; host objects return their Go value
//
// Symbols cannot be exported. Cyclic structures fail with errors.KindCycle.
func (v *Value) Export() (any, error) {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	return newExporter(v.ctx).export(v.ref, 0, nil)
}

type exporter struct {
	ctx  *Context
	seen map[sys.ValueRef]struct{}
}

func newExporter(c *Context) *exporter {
	return &exporter{ctx: c, seen: make(map[sys.ValueRef]struct{})}
}

func (ex *exporter) export(ref sys.ValueRef, depth int, path []string) (any, error) {
	c := ex.ctx
	cref := c.cref()

	switch sys.ValueGetType(cref, ref) {
	case sys.TypeUndefined, sys.TypeNull:
		return nil, nil
	case sys.TypeBoolean:
		return sys.ValueToBoolean(cref, ref), nil
	case sys.TypeNumber:
		n, _ := sys.ValueToNumber(cref, ref)
		return n, nil
	case sys.TypeString:
		return valueString(cref, ref), nil
	case sys.TypeSymbol:
		return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindUnsupported).
			Path(path...).
			JSType("symbol").
			Detail("symbols cannot be exported").
			Build()
	}

	if depth > maxDepth {
		return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindCycle).
			Path(path...).
			Detail("nesting exceeds %d levels", maxDepth).
			Build()
	}

	if hv, ok := sys.HostValue(cref, ref); ok {
		if h, ok := hv.(*hostObject); ok {
			return h.obj, nil
		}
	}

	obj := ref.Object()
	if sys.ObjectIsFunction(cref, obj) {
		return c.wrapObject(obj), nil
	}
	if sys.ValueIsDate(cref, ref) {
		return exportDate(c, ref, path)
	}

	kind, exc := sys.ValueGetTypedArrayType(cref, ref)
	if exc.IsNil() && kind != sys.TypedArrayNone {
		return ex.exportTypedArray(ref, kind, depth, path)
	}

	if _, ok := ex.seen[ref]; ok {
		return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindCycle).
			Path(path...).
			Detail("cyclic reference").
			Build()
	}
	ex.seen[ref] = struct{}{}
	defer delete(ex.seen, ref)

	if sys.ValueIsArray(cref, ref) {
		return ex.exportArray(ref, depth, path)
	}
	return ex.exportObject(ref, depth, path)
}

func exportDate(c *Context, ref sys.ValueRef, path []string) (time.Time, error) {
	ms, exc := sys.ValueToNumber(c.cref(), ref)
	if !exc.IsNil() {
		return time.Time{}, c.newException(jserrors.PhaseConvert, exc)
	}
	if math.IsNaN(ms) {
		return time.Time{}, jserrors.New(jserrors.PhaseConvert, jserrors.KindInvalidInput).
			Path(path...).
			JSType("Date").
			Detail("invalid date").
			Build()
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func (ex *exporter) length(ref sys.ValueRef) int {
	cref := ex.ctx.cref()
	n, ok := propertyValue(cref, ref.Object(), "length")
	if !ok {
		return 0
	}
	f, exc := sys.ValueToNumber(cref, n)
	if !exc.IsNil() || math.IsNaN(f) || f < 0 || f > math.MaxUint32 {
		return 0
	}
	return int(f)
}

func (ex *exporter) exportArray(ref sys.ValueRef, depth int, path []string) ([]any, error) {
	c := ex.ctx
	cref := c.cref()
	n := ex.length(ref)
	out := make([]any, 0, n)
	for i := range n {
		elem, exc := sys.ObjectGetPropertyAtIndex(cref, ref.Object(), uint32(i))
		if !exc.IsNil() {
			return nil, c.newException(jserrors.PhaseConvert, exc)
		}
		v, err := ex.child(elem, depth, append(slices.Clip(path), strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (ex *exporter) exportObject(ref sys.ValueRef, depth int, path []string) (map[string]any, error) {
	c := ex.ctx
	cref := c.cref()
	keys := sys.ObjectCopyPropertyNames(cref, ref.Object())
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		key := sys.StringCreate(k)
		prop, exc := sys.ObjectGetProperty(cref, ref.Object(), key)
		sys.StringRelease(key)
		if !exc.IsNil() {
			return nil, c.newException(jserrors.PhaseConvert, exc)
		}
		v, err := ex.child(prop, depth, append(slices.Clip(path), k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// child exports a nested value, keeping it protected while its own
// children are read.
func (ex *exporter) child(ref sys.ValueRef, depth int, path []string) (any, error) {
	cref := ex.ctx.cref()
	sys.ValueProtect(cref, ref)
	defer sys.ValueUnprotect(cref, ref)
	return ex.export(ref, depth+1, path)
}

func (ex *exporter) exportTypedArray(ref sys.ValueRef, kind sys.TypedArrayType, depth int, path []string) (any, error) {
	c := ex.ctx
	switch kind {
	case sys.TypedArrayUint8, sys.TypedArrayUint8Clamped, sys.TypedArrayArrayBuffer:
		if kind == sys.TypedArrayArrayBuffer {
			return exportArrayBuffer(c, ref)
		}
		view, exc := sys.ObjectTypedArrayBytes(c.cref(), ref.Object())
		if !exc.IsNil() {
			return nil, c.newException(jserrors.PhaseConvert, exc)
		}
		return slices.Clone(view), nil
	}
	return ex.exportArray(ref, depth, path)
}

func exportArrayBuffer(c *Context, ref sys.ValueRef) ([]byte, error) {
	// view the buffer through a temporary Uint8Array
	ctor, ok := propertyValue(c.cref(), sys.ContextGetGlobalObject(c.cref()), "Uint8Array")
	if !ok {
		return nil, jserrors.NotFound(jserrors.PhaseConvert, nil, "Uint8Array")
	}
	view, exc := sys.ObjectCallAsConstructor(c.cref(), ctor.Object(), []sys.ValueRef{ref})
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseConvert, exc)
	}
	b, exc := sys.ObjectTypedArrayBytes(c.cref(), view)
	if !exc.IsNil() {
		return nil, c.newException(jserrors.PhaseConvert, exc)
	}
	return slices.Clone(b), nil
}

// jsTypeName names a value's type for error messages.
func jsTypeName(ctx sys.ContextRef, ref sys.ValueRef) string {
	t := sys.ValueGetType(ctx, ref)
	if t != sys.TypeObject {
		return t.String()
	}
	switch {
	case sys.ValueIsArray(ctx, ref):
		return "array"
	case sys.ObjectIsFunction(ctx, ref.Object()):
		return "function"
	case sys.ValueIsDate(ctx, ref):
		return "Date"
	}
	if kind, exc := sys.ValueGetTypedArrayType(ctx, ref); exc.IsNil() && kind != sys.TypedArrayNone {
		return "TypedArray"
	}
	return "object"
}

// Unmarshaler is implemented by types that decode themselves from a value.
type Unmarshaler interface {
	UnmarshalJS(v *Value) error
}

var (
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
	valuePtrType    = reflect.TypeFor[*Value]()
	objectPtrType   = reflect.TypeFor[*Object]()
	timeType        = reflect.TypeFor[time.Time]()
)

// Decode stores the value in the Go value pointed to by target.
//
// Decoding is strict: strings decode only from strings, booleans only from
// booleans, and integers only from integral numbers within range. Struct
// fields are matched by the js tag or the lowerCamel field name, and
// missing properties leave fields untouched. null and undefined decode to
// the zero value of pointers, slices, maps and interfaces.
func (v *Value) Decode(target any) error {
	if err := v.check(jserrors.PhaseConvert); err != nil {
		return err
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return jserrors.New(jserrors.PhaseConvert, jserrors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", target)).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	return v.ctx.decode(v.ref, rv.Elem(), 0, nil)
}

func (c *Context) decode(ref sys.ValueRef, dst reflect.Value, depth int, path []string) error {
	cref := c.cref()
	t := dst.Type()

	if depth > maxDepth {
		return jserrors.New(jserrors.PhaseConvert, jserrors.KindCycle).
			Path(path...).
			Detail("nesting exceeds %d levels", maxDepth).
			Build()
	}

	mismatch := func() error {
		return jserrors.TypeMismatch(jserrors.PhaseConvert, path, t.String(), jsTypeName(cref, ref))
	}

	switch t {
	case valuePtrType:
		dst.Set(reflect.ValueOf(c.wrap(ref)))
		return nil
	case objectPtrType:
		if !sys.ValueIsObject(cref, ref) {
			if sys.ValueIsNull(cref, ref) || sys.ValueIsUndefined(cref, ref) {
				dst.SetZero()
				return nil
			}
			return mismatch()
		}
		dst.Set(reflect.ValueOf(c.wrapObject(ref.Object())))
		return nil
	case timeType:
		if !sys.ValueIsDate(cref, ref) {
			return mismatch()
		}
		tm, err := exportDate(c, ref, path)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(tm))
		return nil
	}

	if dst.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		u := dst.Addr().Interface().(Unmarshaler)
		val := c.wrap(ref)
		defer val.Release()
		if err := u.UnmarshalJS(val); err != nil {
			if e, ok := err.(*jserrors.Error); ok {
				return e.WithPath(path...)
			}
			return err
		}
		return nil
	}

	nullish := sys.ValueIsNull(cref, ref) || sys.ValueIsUndefined(cref, ref)

	switch t.Kind() {
	case reflect.Interface:
		if nullish {
			dst.SetZero()
			return nil
		}
		if t.NumMethod() != 0 {
			hv, ok := sys.HostValue(cref, ref)
			if h, isHost := hv.(*hostObject); ok && isHost && reflect.TypeOf(h.obj).Implements(t) {
				dst.Set(reflect.ValueOf(h.obj))
				return nil
			}
			return mismatch()
		}
		out, err := newExporter(c).export(ref, depth, path)
		if err != nil {
			return err
		}
		if out == nil {
			dst.SetZero()
		} else {
			dst.Set(reflect.ValueOf(out))
		}
		return nil

	case reflect.Pointer:
		if nullish {
			dst.SetZero()
			return nil
		}
		elem := reflect.New(t.Elem())
		if err := c.decode(ref, elem.Elem(), depth+1, path); err != nil {
			return err
		}
		dst.Set(elem)
		return nil

	case reflect.Bool:
		if !sys.ValueIsBoolean(cref, ref) {
			return mismatch()
		}
		dst.SetBool(sys.ValueToBoolean(cref, ref))
		return nil

	case reflect.String:
		if !sys.ValueIsString(cref, ref) {
			return mismatch()
		}
		dst.SetString(valueString(cref, ref))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := c.decodeInteger(ref, t, path)
		if err != nil {
			return err
		}
		if n < math.MinInt64 || n >= math.MaxInt64 || dst.OverflowInt(int64(n)) {
			return jserrors.Overflow(jserrors.PhaseConvert, path, n, t.String())
		}
		dst.SetInt(int64(n))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := c.decodeInteger(ref, t, path)
		if err != nil {
			return err
		}
		if n < 0 || n >= math.MaxUint64 || dst.OverflowUint(uint64(n)) {
			return jserrors.Overflow(jserrors.PhaseConvert, path, n, t.String())
		}
		dst.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		if !sys.ValueIsNumber(cref, ref) {
			return mismatch()
		}
		n, _ := sys.ValueToNumber(cref, ref)
		if t.Kind() == reflect.Float32 && !math.IsInf(n, 0) && !math.IsNaN(n) && dst.OverflowFloat(n) {
			return jserrors.Overflow(jserrors.PhaseConvert, path, n, t.String())
		}
		dst.SetFloat(n)
		return nil

	case reflect.Slice:
		if nullish {
			dst.SetZero()
			return nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			kind, exc := sys.ValueGetTypedArrayType(cref, ref)
			if exc.IsNil() && kind != sys.TypedArrayNone {
				b, err := newExporter(c).exportTypedArray(ref, kind, depth, path)
				if err != nil {
					return err
				}
				if raw, ok := b.([]byte); ok {
					dst.SetBytes(raw)
					return nil
				}
			}
		}
		if !sys.ValueIsArray(cref, ref) {
			return mismatch()
		}
		n := newExporter(c).length(ref)
		out := reflect.MakeSlice(t, n, n)
		for i := range n {
			if err := c.decodeIndex(ref, i, out.Index(i), depth, path); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil

	case reflect.Array:
		if !sys.ValueIsArray(cref, ref) {
			return mismatch()
		}
		n := newExporter(c).length(ref)
		if n > t.Len() {
			return jserrors.New(jserrors.PhaseConvert, jserrors.KindOverflow).
				Path(path...).
				GoType(t.String()).
				Detail("array of length %d does not fit", n).
				Build()
		}
		for i := range n {
			if err := c.decodeIndex(ref, i, dst.Index(i), depth, path); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if nullish {
			dst.SetZero()
			return nil
		}
		if t.Key().Kind() != reflect.String {
			return jserrors.New(jserrors.PhaseConvert, jserrors.KindUnsupported).
				Path(path...).
				GoType(t.String()).
				Detail("map keys must be strings").
				Build()
		}
		if !sys.ValueIsObject(cref, ref) || sys.ValueIsArray(cref, ref) {
			return mismatch()
		}
		out := reflect.MakeMap(t)
		for _, k := range sys.ObjectCopyPropertyNames(cref, ref.Object()) {
			prop, err := c.property(ref, k)
			if err != nil {
				return err
			}
			elem := reflect.New(t.Elem()).Elem()
			if err := c.decodeChild(prop, elem, depth, append(slices.Clip(path), k)); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
		}
		dst.Set(out)
		return nil

	case reflect.Struct:
		if !sys.ValueIsObject(cref, ref) {
			return mismatch()
		}
		for _, f := range cachedFields(t) {
			fv, err := dst.FieldByIndexErr(f.index)
			if err != nil {
				// allocate nil embedded pointers on the way down
				fv = fieldByIndexAlloc(dst, f.index)
			}
			key := sys.StringCreate(f.name)
			has := sys.ObjectHasProperty(cref, ref.Object(), key)
			sys.StringRelease(key)
			if !has {
				continue
			}
			prop, err := c.property(ref, f.name)
			if err != nil {
				return err
			}
			if sys.ValueIsUndefined(cref, prop) {
				continue
			}
			if err := c.decodeChild(prop, fv, depth, append(slices.Clip(path), f.name)); err != nil {
				return err
			}
		}
		return nil
	}

	return jserrors.New(jserrors.PhaseConvert, jserrors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("cannot decode into %s", t.Kind()).
		Build()
}

func (c *Context) decodeInteger(ref sys.ValueRef, t reflect.Type, path []string) (float64, error) {
	cref := c.cref()
	if !sys.ValueIsNumber(cref, ref) {
		return 0, jserrors.TypeMismatch(jserrors.PhaseConvert, path, t.String(), jsTypeName(cref, ref))
	}
	n, _ := sys.ValueToNumber(cref, ref)
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, jserrors.New(jserrors.PhaseConvert, jserrors.KindTypeMismatch).
			Path(path...).
			GoType(t.String()).
			JSType("number").
			Detail("%v is not an integer", n).
			Value(n).
			Build()
	}
	return n, nil
}

func (c *Context) property(ref sys.ValueRef, name string) (sys.ValueRef, error) {
	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	prop, exc := sys.ObjectGetProperty(c.cref(), ref.Object(), key)
	if !exc.IsNil() {
		return sys.ValueRef{}, c.newException(jserrors.PhaseConvert, exc)
	}
	return prop, nil
}

func (c *Context) decodeIndex(ref sys.ValueRef, i int, dst reflect.Value, depth int, path []string) error {
	elem, exc := sys.ObjectGetPropertyAtIndex(c.cref(), ref.Object(), uint32(i))
	if !exc.IsNil() {
		return c.newException(jserrors.PhaseConvert, exc)
	}
	return c.decodeChild(elem, dst, depth, append(slices.Clip(path), strconv.Itoa(i)))
}

func (c *Context) decodeChild(ref sys.ValueRef, dst reflect.Value, depth int, path []string) error {
	sys.ValueProtect(c.cref(), ref)
	defer sys.ValueUnprotect(c.cref(), ref)
	return c.decode(ref, dst, depth+1, path)
}

func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
