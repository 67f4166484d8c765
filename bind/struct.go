package bind

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

// Struct exposes the struct behind ptr as a JavaScript object. Exported
// fields are properties and exported methods are functions, both named in
// lowerCamelCase unless a field has a js tag:
//
//	type Counter struct {
//		Name  string `js:"label"`
//		Count int    `js:",readonly"`
//		cache map[string]int
//		Debug bool   `js:"-"`
//	}
//
// Property reads convert the current field value, so nested structs and
// slices are copies. Writes decode into the field and fail for read-only
// fields, methods and values of the wrong type. Other property names are
// stored on the JavaScript object as usual.
func Struct(ctx *javascriptcore.Context, ptr any) (*javascriptcore.Object, error) {
	h, err := newStructHost(ptr)
	if err != nil {
		return nil, err
	}
	return ctx.NewHostObject(h)
}

// StructOf returns the struct pointer behind an object created by Struct.
func StructOf(v *javascriptcore.Value) (any, bool) {
	hv, ok := javascriptcore.HostObjectOf(v)
	if !ok {
		return nil, false
	}
	h, ok := hv.(*structHost)
	if !ok {
		return nil, false
	}
	return h.ptr.Interface(), true
}

type structField struct {
	name     string
	index    []int
	readOnly bool
}

type structLayout struct {
	fields  map[string]structField
	methods map[string]int
	names   []string
}

var layouts sync.Map // reflect.Type -> *structLayout

func layoutOf(pt reflect.Type) *structLayout {
	if l, ok := layouts.Load(pt); ok {
		return l.(*structLayout)
	}
	l, _ := layouts.LoadOrStore(pt, newLayout(pt))
	return l.(*structLayout)
}

func newLayout(pt reflect.Type) *structLayout {
	l := &structLayout{
		fields:  make(map[string]structField),
		methods: make(map[string]int),
	}
	for _, sf := range reflect.VisibleFields(pt.Elem()) {
		if !sf.IsExported() {
			continue
		}
		tag, hasTag := sf.Tag.Lookup("js")
		if tag == "-" {
			continue
		}
		if sf.Anonymous && !hasTag && indirect(sf.Type).Kind() == reflect.Struct {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = javascriptcore.LowerCamel(sf.Name)
		}
		if _, dup := l.fields[name]; dup {
			continue
		}
		l.fields[name] = structField{
			name:     name,
			index:    sf.Index,
			readOnly: slices.Contains(strings.Split(opts, ","), "readonly"),
		}
		l.names = append(l.names, name)
	}

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		name := javascriptcore.LowerCamel(m.Name)
		if _, isField := l.fields[name]; isField || !callable(m.Type) {
			continue
		}
		l.methods[name] = i
		l.names = append(l.names, name)
	}
	return l
}

var errorType = reflect.TypeFor[error]()

// callable reports whether a method's results can be returned to
// JavaScript. The method type includes the receiver.
func callable(mt reflect.Type) bool {
	switch mt.NumOut() {
	case 0, 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	}
	return false
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// structHost serves property access for Struct.
type structHost struct {
	ptr    reflect.Value
	layout *structLayout

	mu    sync.Mutex
	funcs map[string]*javascriptcore.Object
}

func newStructHost(ptr any) (*structHost, error) {
	if _, err := structType(ptr); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(ptr)
	return &structHost{
		ptr:    rv,
		layout: layoutOf(rv.Type()),
		funcs:  make(map[string]*javascriptcore.Object),
	}, nil
}

func (h *structHost) GetProperty(ctx *javascriptcore.Context, name string) (*javascriptcore.Value, error) {
	if f, ok := h.layout.fields[name]; ok {
		fv, err := h.ptr.Elem().FieldByIndexErr(f.index)
		if err != nil {
			// nil embedded pointer
			return ctx.Undefined(), nil
		}
		v, err := ctx.ValueOf(fv.Interface())
		if err != nil {
			return nil, withName(err, name)
		}
		return v, nil
	}
	if i, ok := h.layout.methods[name]; ok {
		fn, err := h.method(ctx, name, i)
		if err != nil {
			return nil, err
		}
		return fn.Value, nil
	}
	return nil, nil
}

// method returns the function for method i, created once per host object.
func (h *structHost) method(ctx *javascriptcore.Context, name string, i int) (*javascriptcore.Object, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fn, ok := h.funcs[name]; ok {
		return fn, nil
	}
	fn, err := ctx.WrapFunc(name, h.ptr.Method(i).Interface())
	if err != nil {
		return nil, withName(err, name)
	}
	h.funcs[name] = fn
	return fn, nil
}

func (h *structHost) SetProperty(ctx *javascriptcore.Context, name string, value *javascriptcore.Value) (bool, error) {
	f, ok := h.layout.fields[name]
	if !ok {
		if _, isMethod := h.layout.methods[name]; isMethod {
			return true, readOnly(name)
		}
		return false, nil
	}
	if f.readOnly {
		return true, readOnly(name)
	}

	fv, err := h.ptr.Elem().FieldByIndexErr(f.index)
	if err != nil {
		return true, jserrors.New(jserrors.PhaseProperty, jserrors.KindNilHandle).
			Path(name).
			Detail("embedded struct pointer is nil").
			Build()
	}
	dst := reflect.New(fv.Type())
	if err := value.Decode(dst.Interface()); err != nil {
		return true, withName(err, name)
	}
	fv.Set(dst.Elem())
	return true, nil
}

func (h *structHost) HasProperty(_ *javascriptcore.Context, name string) bool {
	if _, ok := h.layout.fields[name]; ok {
		return true
	}
	_, ok := h.layout.methods[name]
	return ok
}

func (h *structHost) DeleteProperty(_ *javascriptcore.Context, name string) (bool, error) {
	if h.HasProperty(nil, name) {
		return true, jserrors.New(jserrors.PhaseProperty, jserrors.KindUnsupported).
			Path(name).
			Detail("struct members cannot be deleted").
			Build()
	}
	return false, nil
}

func (h *structHost) PropertyNames(*javascriptcore.Context) []string {
	return h.layout.names
}

// String returns a description of the host object.
func (h *structHost) String() string {
	return fmt.Sprintf("Struct{%s}", h.ptr.Type())
}

func readOnly(name string) error {
	return jserrors.New(jserrors.PhaseProperty, jserrors.KindInvalidInput).
		Path(name).
		Detail("property is read-only").
		Build()
}
