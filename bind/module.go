package bind

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

// Registrar adds its functions and objects to a Module. jscgen generates
// implementations of it.
type Registrar interface {
	RegisterJS(m *Module) error
}

type memberKind int

const (
	memberFunc memberKind = iota
	memberConst
	memberObject
)

type member struct {
	name  string
	kind  memberKind
	fn    javascriptcore.HostFunc
	value any
}

// Module is a named set of functions, constants and objects that can be
// installed into any number of contexts.
type Module struct {
	name string

	mu      sync.Mutex
	members []member
	index   map[string]int
}

// NewModule creates an empty module. Installing a module with an empty name
// puts its members directly on the global object.
func NewModule(name string) *Module {
	return &Module{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the global name the module is installed under.
func (m *Module) Name() string {
	return m.name
}

// String returns a description of the module.
func (m *Module) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := m.name
	if name == "" {
		name = "<global>"
	}
	return fmt.Sprintf("Module{name: %s, members: %d}", name, len(m.members))
}

// Names returns the member names in the order they were added.
func (m *Module) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.members))
	for i, mem := range m.members {
		names[i] = mem.name
	}
	return names
}

func (m *Module) add(mem member) error {
	if mem.name == "" {
		return invalid("member name is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.index[mem.name]; exists {
		return jserrors.New(jserrors.PhaseBind, jserrors.KindInvalidInput).
			Path(m.name, mem.name).
			Detail("member already registered").
			Build()
	}
	m.index[mem.name] = len(m.members)
	m.members = append(m.members, mem)
	return nil
}

// Func adds a function. fn is adapted with Func when it is added, so
// unsupported signatures fail here rather than at Install.
func (m *Module) Func(name string, fn any) error {
	hf, err := Func(fn)
	if err != nil {
		return withName(err, name)
	}
	return m.add(member{name: name, kind: memberFunc, fn: hf})
}

// Const adds a read-only property. v is converted on each Install.
func (m *Module) Const(name string, v any) error {
	return m.add(member{name: name, kind: memberConst, value: v})
}

// Object adds a struct pointer, exposed with Struct on each Install.
// Every context shares the same Go value.
func (m *Module) Object(name string, ptr any) error {
	if _, err := structType(ptr); err != nil {
		return withName(err, name)
	}
	return m.add(member{name: name, kind: memberObject, value: ptr})
}

// Use adds the members of r.
func (m *Module) Use(r Registrar) error {
	if r == nil {
		return invalid("registrar is nil")
	}
	return r.RegisterJS(m)
}

// Install creates the module's members in ctx. It returns the object the
// members were set on: a new object stored as the global m.Name(), or the
// global object for an unnamed module. Every member is attempted; the
// failures are joined.
func (m *Module) Install(ctx *javascriptcore.Context) (*javascriptcore.Object, error) {
	if ctx == nil {
		return nil, invalid("context is nil")
	}

	var target *javascriptcore.Object
	var err error
	if m.name == "" {
		target, err = ctx.Global()
	} else {
		target, err = ctx.NewObject()
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	members := make([]member, len(m.members))
	copy(members, m.members)
	m.mu.Unlock()

	var errs []error
	for _, mem := range members {
		if err := installMember(ctx, target, mem); err != nil {
			errs = append(errs, withName(err, mem.name))
		}
	}

	if m.name != "" {
		if err := ctx.SetGlobal(m.name, target); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		target.Release()
		return nil, err
	}

	ctx.Logger().Debug("Installed module", "module", m.name, "members", len(members))
	return target, nil
}

func installMember(ctx *javascriptcore.Context, target *javascriptcore.Object, mem member) error {
	switch mem.kind {
	case memberFunc:
		obj, err := ctx.NewFunction(mem.name, mem.fn)
		if err != nil {
			return err
		}
		defer obj.Release()
		return target.Set(mem.name, obj)
	case memberConst:
		return target.Set(mem.name, mem.value, javascriptcore.PropertyReadOnly|javascriptcore.PropertyDontDelete)
	case memberObject:
		obj, err := Struct(ctx, mem.value)
		if err != nil {
			return err
		}
		defer obj.Release()
		return target.Set(mem.name, obj, javascriptcore.PropertyDontDelete)
	}
	return jserrors.Unsupported(jserrors.PhaseBind, fmt.Sprintf("member kind %d", mem.kind))
}

// structType returns the struct type behind a non-nil struct pointer.
func structType(ptr any) (reflect.Type, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, jserrors.New(jserrors.PhaseBind, jserrors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", ptr)).
			Detail("expected a non-nil pointer to a struct").
			Build()
	}
	return rv.Elem().Type(), nil
}
