package javascriptcore

import (
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/sys"
)

// maxDepth bounds nesting during conversion in both directions.
const maxDepth = 64

// ValueOf converts a Go value to JavaScript.
//
//   - nil, nil pointers, nil maps and nil slices become null
//   - bool, string and all numeric kinds become primitives
//   - []byte becomes a Uint8Array; time.Time a Date; *url.URL a string
//   - error becomes an Error; an *Exception becomes its thrown value
//   - slices and arrays become arrays
//   - maps with string keys become objects; map[string]struct{} becomes a
//     sorted array of its keys
//   - structs become objects of their exported fields, named by the js tag
//     or the lowerCamel field name
//   - *Value and *Object pass through; functions are wrapped with WrapFunc
//   - HostObject becomes a host object
//
// Integers beyond 2^53 lose precision.
func (c *Context) ValueOf(v any) (*Value, error) {
	if err := c.enter(jserrors.PhaseConvert); err != nil {
		return nil, err
	}
	return c.toJS(v, 0, nil)
}

func (c *Context) toJS(v any, depth int, path []string) (*Value, error) {
	if depth > maxDepth {
		return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindCycle).
			Path(path...).
			Detail("nesting exceeds %d levels", maxDepth).
			Build()
	}

	switch x := v.(type) {
	case nil:
		return c.Null(), nil
	case *Value:
		if x == nil {
			return c.Null(), nil
		}
		if err := c.owns(x, jserrors.PhaseConvert); err != nil {
			return nil, err
		}
		return x, nil
	case *Object:
		if x == nil {
			return c.Null(), nil
		}
		if err := c.owns(x.Value, jserrors.PhaseConvert); err != nil {
			return nil, err
		}
		return x.Value, nil
	case *String:
		if x == nil {
			return c.Null(), nil
		}
		return c.wrap(sys.ValueMakeString(c.cref(), x.ref)), nil
	case *Exception:
		if x == nil {
			return c.Null(), nil
		}
		if c.owns(x.value, jserrors.PhaseConvert) == nil {
			return x.value, nil
		}
		e, err := c.NewError(x.Error())
		if err != nil {
			return nil, err
		}
		return e.Value, nil
	case bool:
		return c.Bool(x), nil
	case string:
		return c.NewStringValue(x), nil
	case float64:
		return c.Number(x), nil
	case int:
		return c.Number(float64(x)), nil
	case []byte:
		if x == nil {
			return c.Null(), nil
		}
		arr, err := c.NewUint8Array(x)
		if err != nil {
			return nil, err
		}
		return arr.Value, nil
	case time.Time:
		d, err := c.NewDate(x)
		if err != nil {
			return nil, err
		}
		return d.Value, nil
	case *url.URL:
		if x == nil {
			return c.Null(), nil
		}
		return c.NewStringValue(x.String()), nil
	case HostFunc:
		fn, err := c.NewFunction("", x)
		if err != nil {
			return nil, err
		}
		return fn.Value, nil
	case func(*Call) (*Value, error):
		fn, err := c.NewFunction("", x)
		if err != nil {
			return nil, err
		}
		return fn.Value, nil
	case HostObject:
		obj, err := c.NewHostObject(x)
		if err != nil {
			return nil, err
		}
		return obj.Value, nil
	case error:
		e, err := c.NewError(x.Error())
		if err != nil {
			return nil, err
		}
		return e.Value, nil
	}

	return c.reflectToJS(reflect.ValueOf(v), depth, path)
}

func (c *Context) reflectToJS(rv reflect.Value, depth int, path []string) (*Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return c.Bool(rv.Bool()), nil
	case reflect.String:
		return c.NewStringValue(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return c.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return c.Number(rv.Float()), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return c.Null(), nil
		}
		return c.toJS(rv.Elem().Interface(), depth+1, path)

	case reflect.Slice:
		if rv.IsNil() {
			return c.Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return c.toJS(rv.Bytes(), depth, path)
		}
		return c.sliceToJS(rv, depth, path)
	case reflect.Array:
		return c.sliceToJS(rv, depth, path)

	case reflect.Map:
		if rv.IsNil() {
			return c.Null(), nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindUnsupported).
				Path(path...).
				GoType(rv.Type().String()).
				Detail("map keys must be strings").
				Build()
		}
		if rv.Type().Elem().Kind() == reflect.Struct && rv.Type().Elem().NumField() == 0 {
			return c.setToJS(rv)
		}
		return c.mapToJS(rv, depth, path)

	case reflect.Struct:
		return c.structToJS(rv, depth, path)

	case reflect.Func:
		if rv.IsNil() {
			return c.Null(), nil
		}
		fn, err := c.WrapFunc("", rv.Interface())
		if err != nil {
			return nil, err
		}
		return fn.Value, nil
	}

	return nil, jserrors.New(jserrors.PhaseConvert, jserrors.KindUnsupported).
		Path(path...).
		GoType(rv.Type().String()).
		Detail("cannot convert %s to JavaScript", rv.Kind()).
		Build()
}

func (c *Context) sliceToJS(rv reflect.Value, depth int, path []string) (*Value, error) {
	arr, err := c.NewArray()
	if err != nil {
		return nil, err
	}
	for i := range rv.Len() {
		elemPath := append(slices.Clip(path), strconv.Itoa(i))
		elem, err := c.toJS(rv.Index(i).Interface(), depth+1, elemPath)
		if err != nil {
			arr.Release()
			return nil, err
		}
		exc := sys.ObjectSetPropertyAtIndex(c.cref(), arr.oref(), uint32(i), elem.ref)
		releaseConverted(rv.Index(i).Interface(), elem)
		if !exc.IsNil() {
			arr.Release()
			return nil, c.newException(jserrors.PhaseConvert, exc)
		}
	}
	return arr.Value, nil
}

func (c *Context) mapToJS(rv reflect.Value, depth int, path []string) (*Value, error) {
	obj, err := c.NewObject()
	if err != nil {
		return nil, err
	}
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if err := c.setField(obj, key, iter.Value().Interface(), depth, path); err != nil {
			obj.Release()
			return nil, err
		}
	}
	return obj.Value, nil
}

func (c *Context) setToJS(rv reflect.Value) (*Value, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)

	elems := make([]any, len(keys))
	for i, k := range keys {
		elems[i] = k
	}
	arr, err := c.NewArray(elems...)
	if err != nil {
		return nil, err
	}
	return arr.Value, nil
}

func (c *Context) structToJS(rv reflect.Value, depth int, path []string) (*Value, error) {
	obj, err := c.NewObject()
	if err != nil {
		return nil, err
	}
	for _, f := range cachedFields(rv.Type()) {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// field promoted through a nil embedded pointer
			continue
		}
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		if err := c.setField(obj, f.name, fv.Interface(), depth, path); err != nil {
			obj.Release()
			return nil, err
		}
	}
	return obj.Value, nil
}

func (c *Context) setField(obj *Object, name string, v any, depth int, path []string) error {
	fieldPath := append(slices.Clip(path), name)
	val, err := c.toJS(v, depth+1, fieldPath)
	if err != nil {
		return err
	}
	defer releaseConverted(v, val)

	key := sys.StringCreate(name)
	defer sys.StringRelease(key)
	if exc := sys.ObjectSetProperty(c.cref(), obj.oref(), key, val.ref, sys.PropertyNone); !exc.IsNil() {
		return c.newException(jserrors.PhaseConvert, exc)
	}
	return nil
}

// releaseConverted releases val unless it is the caller's own handle.
func releaseConverted(orig any, val *Value) {
	if !isHandle(orig, val) {
		val.Release()
	}
}

// convertArgs converts Go arguments for a call. release must be called
// once the call returns.
func (c *Context) convertArgs(args []any) ([]sys.ValueRef, func(), error) {
	refs := make([]sys.ValueRef, 0, len(args))
	vals := make([]*Value, 0, len(args))
	release := func() {
		for i, v := range vals {
			releaseConverted(args[i], v)
		}
	}
	for i, arg := range args {
		v, err := c.toJS(arg, 0, []string{strconv.Itoa(i)})
		if err != nil {
			release()
			return nil, nil, err
		}
		vals = append(vals, v)
		refs = append(refs, v.ref)
	}
	return refs, release, nil
}

// field describes how a struct field maps to a property.
type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // reflect.Type -> []field

func cachedFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]field)
	}
	f, _ := fieldCache.LoadOrStore(t, structFields(t))
	return f.([]field)
}

func structFields(t reflect.Type) []field {
	var fields []field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		tag, hasTag := sf.Tag.Lookup("js")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if sf.Anonymous && !hasTag {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				// promoted fields are listed separately
				continue
			}
		}
		if name == "" {
			name = LowerCamel(sf.Name)
		}
		fields = append(fields, field{
			name:      name,
			index:     sf.Index,
			omitEmpty: slices.Contains(strings.Split(opts, ","), "omitempty"),
		})
	}
	return fields
}

// LowerCamel converts an exported Go identifier to the JavaScript naming
// convention used for struct fields: "Name" to "name", "URLPath" to
// "urlPath", "ID" to "id".
func LowerCamel(s string) string {
	return helpers.LowerCamel(s)
}
