package bind

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

func newTestContext(t *testing.T) *javascriptcore.Context {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	c, err := javascriptcore.NewContext(javascriptcore.WithLogHandler(handler))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, c.Close())
	})
	return c
}

func eval(t *testing.T, c *javascriptcore.Context, src string) string {
	t.Helper()
	v, err := c.Evaluate(t.Context(), src)
	require.NoError(t, err)
	defer v.Release()
	return v.String()
}

func TestFunc(t *testing.T) {
	t.Parallel()

	hf, err := Func(strings.ToUpper)
	require.NoError(t, err)
	require.NotNil(t, hf)

	_, err = Func("not a function")
	require.ErrorIs(t, err, jserrors.ErrInvalidInput)

	_, err = Func(func() (int, int) { return 1, 2 })
	require.ErrorIs(t, err, jserrors.ErrUnsupported)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	c := newTestContext(t)

	require.NoError(t, Register(c, nil, "upper", strings.ToUpper))
	assert.Equal(t, "HELLO", eval(t, c, "upper('hello')"))

	target, err := c.NewObject()
	require.NoError(t, err)
	defer target.Release()
	require.NoError(t, Register(c, target, "repeat", strings.Repeat))
	require.NoError(t, c.SetGlobal("strs", target))
	assert.Equal(t, "abab", eval(t, c, "strs.repeat('ab', 2)"))

	t.Run("errors", func(t *testing.T) {
		err := Register(c, nil, "", strings.ToUpper)
		require.ErrorIs(t, err, jserrors.ErrInvalidInput)

		err = Register(c, nil, "bad", 42)
		require.ErrorIs(t, err, jserrors.ErrInvalidInput)
		var e *jserrors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, []string{"bad"}, e.Path)
	})
}
