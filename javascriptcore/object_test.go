package javascriptcore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "github.com/robbyt/go-jscore/errors"
)

func evalObject(t *testing.T, c *Context, src string) *Object {
	t.Helper()
	obj, ok := evalValue(t, c, src).AsObject()
	require.True(t, ok, "%s is not an object", src)
	return obj
}

func TestObjectProperties(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	obj, err := c.NewObject()
	require.NoError(t, err)

	require.NoError(t, obj.Set("name", "widget"))
	require.NoError(t, obj.Set("count", 3))
	assert.True(t, obj.Has("name"))
	assert.True(t, obj.Has("toString"), "inherited properties are visible")
	assert.False(t, obj.Has("missing"))

	v, err := obj.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "widget", v.String())

	missing, err := obj.Get("missing")
	require.NoError(t, err)
	assert.True(t, missing.IsUndefined())

	keys, err := obj.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "count"}, keys)

	deleted, err := obj.Delete("count")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, obj.Has("count"))

	t.Run("attributes", func(t *testing.T) {
		require.NoError(t, obj.Set("fixed", 1, PropertyReadOnly, PropertyDontDelete))
		require.NoError(t, obj.Set("hidden", 2, PropertyDontEnum))
		require.NoError(t, c.SetGlobal("target", obj))

		v := evalValue(t, c, "target.fixed = 99; target.fixed")
		n, err := v.ToNumber()
		require.NoError(t, err)
		assert.Equal(t, 1.0, n)

		ok, err := obj.Delete("fixed")
		require.NoError(t, err)
		assert.False(t, ok)

		keys, err := obj.Keys()
		require.NoError(t, err)
		assert.NotContains(t, keys, "hidden")
		assert.True(t, obj.Has("hidden"))
	})

	t.Run("getter throws", func(t *testing.T) {
		o := evalObject(t, c, "({ get bad() { throw new RangeError('nope') } })")
		_, err := o.Get("bad")
		var exc *Exception
		require.ErrorAs(t, err, &exc)
		assert.Equal(t, "RangeError", exc.Name)
		assert.Equal(t, jserrors.PhaseProperty, exc.Phase)
	})

	t.Run("get object", func(t *testing.T) {
		o := evalObject(t, c, "({ inner: { x: 1 }, scalar: 5 })")
		inner, err := o.GetObject("inner")
		require.NoError(t, err)
		assert.True(t, inner.Has("x"))

		_, err = o.GetObject("scalar")
		require.ErrorIs(t, err, jserrors.ErrTypeMismatch)
		assert.Contains(t, err.Error(), "scalar")
	})

	t.Run("set conversion error has path", func(t *testing.T) {
		err := obj.Set("bad", map[int]string{1: "x"})
		require.ErrorIs(t, err, jserrors.ErrUnsupported)
		var e *jserrors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, []string{"bad"}, e.Path)
	})
}

func TestObjectArrays(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	arr, err := c.NewArray("a", 2, true)
	require.NoError(t, err)
	assert.True(t, arr.IsArray())

	n, err := arr.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, arr.SetIndex(3, "d"))
	n, err = arr.Len()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	v, err := arr.GetIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "a", v.String())

	out, err := arr.Export()
	require.NoError(t, err)
	assert.Equal(t, []any{"a", 2.0, true, "d"}, out)

	empty, err := c.NewArray()
	require.NoError(t, err)
	n, err = empty.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	plain, err := c.NewObject()
	require.NoError(t, err)
	n, err = plain.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestObjectCall(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	add := evalObject(t, c, "(function (a, b) { return a + b })")
	assert.True(t, add.IsFunction())

	v, err := add.Call(nil, 2, 3)
	require.NoError(t, err)
	n, err := v.ToNumber()
	require.NoError(t, err)
	assert.Equal(t, 5.0, n)

	t.Run("this binding", func(t *testing.T) {
		fn := evalObject(t, c, "(function () { return this.label })")
		recv, err := c.NewObject()
		require.NoError(t, err)
		require.NoError(t, recv.Set("label", "bound"))

		v, err := fn.Call(recv)
		require.NoError(t, err)
		assert.Equal(t, "bound", v.String())
	})

	t.Run("call method", func(t *testing.T) {
		o := evalObject(t, c, "({ base: 10, plus(x) { return this.base + x } })")
		v, err := o.CallMethod("plus", 5)
		require.NoError(t, err)
		n, err := v.ToNumber()
		require.NoError(t, err)
		assert.Equal(t, 15.0, n)

		_, err = o.CallMethod("base")
		require.ErrorIs(t, err, jserrors.ErrTypeMismatch)
	})

	t.Run("not a function", func(t *testing.T) {
		o, err := c.NewObject()
		require.NoError(t, err)
		_, err = o.Call(nil)
		require.ErrorIs(t, err, jserrors.ErrTypeMismatch)
	})

	t.Run("throws", func(t *testing.T) {
		fn := evalObject(t, c, "(function () { throw new Error('inside') })")
		_, err := fn.Call(nil)
		var exc *Exception
		require.ErrorAs(t, err, &exc)
		assert.Equal(t, "inside", exc.Message)
		assert.Equal(t, jserrors.PhaseCall, exc.Phase)
	})

	t.Run("construct", func(t *testing.T) {
		ctor := evalObject(t, c, "(class Point { constructor(x, y) { this.x = x; this.y = y } })")
		assert.True(t, ctor.IsConstructor())

		p, err := ctor.Construct(1, 2)
		require.NoError(t, err)
		out, err := p.Export()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, out)

		arrow := evalObject(t, c, "(() => 1)")
		assert.False(t, arrow.IsConstructor())
		_, err = arrow.Construct()
		require.ErrorIs(t, err, jserrors.ErrUnsupported)
	})
}

func TestObjectPrototype(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	proto := evalObject(t, c, "({ greet() { return 'hi ' + this.name } })")
	obj, err := c.NewObject()
	require.NoError(t, err)
	require.NoError(t, obj.Set("name", "go"))
	require.NoError(t, obj.SetPrototype(proto.Value))

	got, err := obj.Prototype()
	require.NoError(t, err)
	assert.True(t, got.StrictEqual(proto.Value))

	v, err := obj.CallMethod("greet")
	require.NoError(t, err)
	assert.Equal(t, "hi go", v.String())

	require.NoError(t, obj.SetPrototype(c.Null()))
	assert.False(t, obj.Has("toString"))

	err = obj.SetPrototype(c.Number(1))
	require.ErrorIs(t, err, jserrors.ErrTypeMismatch)
}

func TestObjectBuiltins(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	t.Run("error", func(t *testing.T) {
		e, err := c.NewError("went wrong")
		require.NoError(t, err)
		msg, err := e.Get("message")
		require.NoError(t, err)
		assert.Equal(t, "went wrong", msg.String())
		assert.Equal(t, "Error: went wrong", e.String())
	})

	t.Run("date", func(t *testing.T) {
		when := time.Date(2024, 2, 29, 12, 30, 0, 0, time.UTC)
		d, err := c.NewDate(when)
		require.NoError(t, err)
		assert.True(t, d.IsDate())

		require.NoError(t, c.SetGlobal("when", d))
		v := evalValue(t, c, "when.toISOString()")
		assert.Equal(t, "2024-02-29T12:30:00.000Z", v.String())

		out, err := d.Export()
		require.NoError(t, err)
		assert.True(t, when.Equal(out.(time.Time)))
	})

	t.Run("uint8 array", func(t *testing.T) {
		arr, err := c.NewUint8Array([]byte{1, 2, 255})
		require.NoError(t, err)
		b, err := arr.Bytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 255}, b)

		require.NoError(t, c.SetGlobal("bytes", arr))
		v := evalValue(t, c, "bytes[2] + bytes.length")
		n, err := v.ToNumber()
		require.NoError(t, err)
		assert.Equal(t, 258.0, n)
	})

	t.Run("subarray bytes respect offset", func(t *testing.T) {
		sub := evalObject(t, c, "new Uint8Array([9, 8, 7, 6]).subarray(1, 3)")
		b, err := sub.Bytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{8, 7}, b)
	})

	t.Run("bytes of plain object", func(t *testing.T) {
		o, err := c.NewObject()
		require.NoError(t, err)
		_, err = o.Bytes()
		require.ErrorIs(t, err, jserrors.ErrTypeMismatch)
	})
}
