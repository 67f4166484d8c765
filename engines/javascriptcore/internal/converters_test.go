package internal

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/javascriptcore"
)

func newContext(t *testing.T) *javascriptcore.Context {
	t.Helper()
	c, err := javascriptcore.NewContext(javascriptcore.WithLogHandler(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConvertInput(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/items?page=2", nil)
	req.Header.Set("Accept", "application/json")

	got, err := ConvertInput(map[string]any{
		"request": req,
		"headers": http.Header{"X-Id": {"1", "2"}},
		"query":   url.Values{"q": {"go"}},
		"nested":  map[string]any{"list": []any{http.Header{"A": {"b"}}, 3}},
		"plain":   42,
		"nilReq":  (*http.Request)(nil),
	})
	require.NoError(t, err)

	request := got["request"].(map[string]any)
	assert.Equal(t, http.MethodGet, request["method"])
	assert.Equal(t, map[string]any{"page": []any{"2"}}, request["query"])
	assert.Equal(t, map[string]any{"X-Id": []any{"1", "2"}}, got["headers"])
	assert.Equal(t, map[string]any{"q": []any{"go"}}, got["query"])
	assert.Equal(t, map[string]any{"list": []any{map[string]any{"A": []any{"b"}}, 3}}, got["nested"])
	assert.Equal(t, 42, got["plain"])
	assert.Nil(t, got["nilReq"])
}

func TestSetGlobals(t *testing.T) {
	t.Parallel()
	c := newContext(t)

	input := map[string]any{"name": "ada", "request": map[string]any{"method": "GET"}}
	require.NoError(t, SetGlobals(c, "ctx", []string{"ctx", "request", "missing"}, input))

	v, err := c.Evaluate(t.Context(), "[ctx.name, request.method, typeof missing, typeof name].join(',')")
	require.NoError(t, err)
	s, err := v.ToString()
	require.NoError(t, err)
	assert.Equal(t, "ada,GET,undefined,undefined", s)
}

func TestDetach(t *testing.T) {
	t.Parallel()
	c := newContext(t)

	v, err := c.Evaluate(t.Context(), "({a: 1, fn() {}, list: [1, () => 2, {inner() {}}]})")
	require.NoError(t, err)
	defer v.Release()
	exported, err := v.Export()
	require.NoError(t, err)
	require.Equal(t, 4, c.LiveValues(), "the object and its three functions")

	assert.Equal(t, map[string]any{
		"a":    1.0,
		"list": []any{1.0, nil, map[string]any{}},
	}, Detach(exported))
	assert.Equal(t, 1, c.LiveValues())

	fn, err := c.Evaluate(t.Context(), "(function () {})")
	require.NoError(t, err)
	defer fn.Release()
	exported, err = fn.Export()
	require.NoError(t, err)
	obj, ok := exported.(*javascriptcore.Object)
	require.True(t, ok)
	assert.Nil(t, Detach(exported))
	_, err = obj.Call(nil)
	require.ErrorIs(t, err, jserrors.ErrReleased)
	assert.Equal(t, 2, c.LiveValues())
}

func TestSetGlobalsReleasesTemporaries(t *testing.T) {
	t.Parallel()
	c := newContext(t)

	input := map[string]any{"user": map[string]any{"name": "ada"}}
	require.NoError(t, SetGlobals(c, "ctx", []string{"ctx", "user", "missing"}, input))
	assert.Zero(t, c.LiveValues())

	v, err := c.Evaluate(t.Context(), "[ctx.user.name, user.name, typeof missing].join()")
	require.NoError(t, err)
	defer v.Release()
	assert.Equal(t, "ada,ada,undefined", v.String())
}
