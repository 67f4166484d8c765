package bind

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "github.com/robbyt/go-jscore/errors"
)

type greeter struct{ prefix string }

func (g greeter) RegisterJS(m *Module) error {
	return errors.Join(
		m.Func("greet", func(name string) string { return g.prefix + name }),
		m.Const("prefix", g.prefix),
	)
}

func TestModule(t *testing.T) {
	t.Parallel()

	m := NewModule("mathx")
	require.NoError(t, m.Func("add", func(a, b float64) float64 { return a + b }))
	require.NoError(t, m.Func("sqrt", func(x float64) (float64, error) {
		if x < 0 {
			return 0, fmt.Errorf("negative input %v", x)
		}
		return math.Sqrt(x), nil
	}))
	require.NoError(t, m.Const("pi", math.Pi))
	require.NoError(t, m.Const("limits", map[string]int{"max": 10}))

	assert.Equal(t, "mathx", m.Name())
	assert.Equal(t, []string{"add", "sqrt", "pi", "limits"}, m.Names())
	assert.Equal(t, "Module{name: mathx, members: 4}", m.String())

	t.Run("install", func(t *testing.T) {
		c := newTestContext(t)
		obj, err := m.Install(c)
		require.NoError(t, err)
		defer obj.Release()

		assert.Equal(t, "5", eval(t, c, "mathx.add(2, 3)"))
		assert.Equal(t, "3", eval(t, c, "mathx.sqrt(9)"))
		assert.Equal(t, "negative input -1", eval(t, c, "try { mathx.sqrt(-1) } catch (e) { e.message }"))
		assert.Equal(t, "10", eval(t, c, "mathx.limits.max"))
		assert.Equal(t, fmt.Sprint(math.Pi), eval(t, c, "mathx.pi = 3; mathx.pi"))
	})

	t.Run("install into several contexts", func(t *testing.T) {
		for range 3 {
			c := newTestContext(t)
			obj, err := m.Install(c)
			require.NoError(t, err)
			obj.Release()
			assert.Equal(t, "7", eval(t, c, "mathx.add(3, 4)"))
		}
	})
}

func TestModuleGlobal(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	m := NewModule("")
	require.NoError(t, m.Use(greeter{prefix: "hi "}))
	obj, err := m.Install(c)
	require.NoError(t, err)
	defer obj.Release()

	assert.Equal(t, "hi bob", eval(t, c, "greet('bob')"))
	assert.Equal(t, "hi ", eval(t, c, "prefix"))
	assert.Equal(t, "Module{name: <global>, members: 2}", m.String())
}

func TestModuleErrors(t *testing.T) {
	t.Parallel()

	m := NewModule("broken")
	require.NoError(t, m.Func("f", func() {}))

	err := m.Func("f", func() {})
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)

	err = m.Func("", func() {})
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)

	err = m.Func("g", func() (int, string) { return 0, "" })
	require.ErrorIs(t, err, jserrors.ErrUnsupported)

	err = m.Object("o", struct{}{})
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)

	err = m.Use(nil)
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)

	t.Run("install reports conversion failures", func(t *testing.T) {
		c := newTestContext(t)
		bad := NewModule("bad")
		require.NoError(t, bad.Const("ok", 1))
		require.NoError(t, bad.Const("ch", make(chan int)))

		_, err := bad.Install(c)
		require.ErrorIs(t, err, jserrors.ErrUnsupported)
		assert.Equal(t, "undefined", eval(t, c, "typeof bad"))
	})

	_, err = m.Install(nil)
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)
}
