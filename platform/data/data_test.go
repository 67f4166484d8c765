package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-jscore/platform/constants"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(map[string]any)
	return d, args.Error(1)
}

func (m *mockProvider) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(context.Context), args.Error(1)
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	t.Run("nil data is empty", func(t *testing.T) {
		got, err := NewStaticProvider(nil).GetData(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("returns a copy", func(t *testing.T) {
		p := NewStaticProvider(map[string]any{"name": "static"})
		got, err := p.GetData(t.Context())
		require.NoError(t, err)
		got["name"] = "changed"

		again, err := p.GetData(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "static", again["name"])
	})

	t.Run("rejects runtime data", func(t *testing.T) {
		p := NewStaticProvider(nil)
		ctx := t.Context()

		got, err := p.AddDataToContext(ctx, map[string]any{"k": "v"})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, got)

		_, err = p.AddDataToContext(ctx, nil, map[string]any{})
		assert.NoError(t, err, "nothing to add is not an error")
	})
}

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("empty key", func(t *testing.T) {
		p := NewContextProvider("")
		_, err := p.GetData(t.Context())
		require.Error(t, err)
		_, err = p.AddDataToContext(t.Context(), map[string]any{"a": 1})
		require.Error(t, err)
	})

	t.Run("no data stored", func(t *testing.T) {
		got, err := NewContextProvider(constants.EvalData).GetData(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("wrong type stored", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), constants.EvalData, "not a map")
		_, err := NewContextProvider(constants.EvalData).GetData(ctx)
		require.ErrorContains(t, err, "expected map[string]any, got string")
	})

	t.Run("merges across calls", func(t *testing.T) {
		p := NewContextProvider(constants.EvalData)
		ctx, err := p.AddDataToContext(t.Context(),
			map[string]any{"user": map[string]any{"name": "ada", "role": "admin"}},
			map[string]any{"count": 1},
		)
		require.NoError(t, err)

		ctx, err = p.AddDataToContext(ctx,
			map[string]any{"user": map[string]any{"role": "owner"}, "count": 2},
		)
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"user":  map[string]any{"name": "ada", "role": "owner"},
			"count": 2,
		}, got)
	})

	t.Run("earlier context is unchanged", func(t *testing.T) {
		p := NewContextProvider(constants.EvalData)
		first, err := p.AddDataToContext(t.Context(), map[string]any{"cfg": map[string]any{"a": 1}})
		require.NoError(t, err)
		_, err = p.AddDataToContext(first, map[string]any{"cfg": map[string]any{"b": 2}})
		require.NoError(t, err)

		got, err := p.GetData(first)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"cfg": map[string]any{"a": 1}}, got)
	})

	t.Run("http request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/hook?id=7", strings.NewReader("payload"))
		p := NewContextProvider(constants.EvalData)
		ctx, err := p.AddDataToContext(t.Context(), map[string]any{"request": req})
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		request, ok := got["request"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, http.MethodPost, request["method"])
		assert.Equal(t, "payload", request["body"])
		assert.Equal(t, "/hook", request["path"])
	})

	t.Run("bad keys are reported and skipped", func(t *testing.T) {
		p := NewContextProvider(constants.EvalData)
		ctx, err := p.AddDataToContext(t.Context(),
			map[string]any{"": "empty", "good": 1, "nested": map[string]any{"": 2}},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty keys are not allowed")

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"good": 1}, got)
	})
}

func TestCompositeProvider(t *testing.T) {
	t.Parallel()

	t.Run("later providers win", func(t *testing.T) {
		static := NewStaticProvider(map[string]any{
			"config": map[string]any{"mode": "prod", "retries": 3},
			"tags":   []any{"a"},
		})
		runtime := NewContextProvider(constants.EvalData)
		p := NewCompositeProvider(static, nil, runtime)

		ctx, err := p.AddDataToContext(t.Context(), map[string]any{
			"config": map[string]any{"mode": "test"},
			"tags":   []any{"b"},
		})
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"config": map[string]any{"mode": "test", "retries": 3},
			"tags":   []any{"b"},
		}, got)
	})

	t.Run("only static providers", func(t *testing.T) {
		p := NewCompositeProvider(NewStaticProvider(nil))
		ctx := t.Context()
		got, err := p.AddDataToContext(ctx, map[string]any{"k": "v"})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, got)
	})

	t.Run("getter error", func(t *testing.T) {
		failing := &mockProvider{}
		failing.On("GetData", mock.Anything).Return(nil, assert.AnError)

		_, err := NewCompositeProvider(NewStaticProvider(nil), failing).GetData(t.Context())
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "provider 1")
		failing.AssertExpectations(t)
	})

	t.Run("one dynamic provider succeeding is enough", func(t *testing.T) {
		ctx := t.Context()
		failing := &mockProvider{}
		failing.On("AddDataToContext", ctx, mock.Anything).Return(ctx, assert.AnError)

		p := NewCompositeProvider(failing, NewContextProvider(constants.EvalData))
		got, err := p.AddDataToContext(ctx, map[string]any{"k": "v"})
		require.NoError(t, err)
		assert.NotNil(t, got.Value(constants.EvalData))
		failing.AssertExpectations(t)
	})

	t.Run("all dynamic providers failing", func(t *testing.T) {
		ctx := t.Context()
		failing := &mockProvider{}
		failing.On("AddDataToContext", ctx, mock.Anything).Return(ctx, assert.AnError)

		_, err := NewCompositeProvider(NewStaticProvider(nil), failing).
			AddDataToContext(ctx, map[string]any{"k": "v"})
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestAddDataToContextHelper(t *testing.T) {
	t.Parallel()

	t.Run("nil provider", func(t *testing.T) {
		ctx := t.Context()
		got, err := AddDataToContextHelper(ctx, nil, nil, map[string]any{"k": "v"})
		require.ErrorIs(t, err, ErrNoProvider)
		assert.Equal(t, ctx, got)
	})

	t.Run("provider error keeps the context", func(t *testing.T) {
		ctx := t.Context()
		got, err := AddDataToContextHelper(ctx, nil, NewStaticProvider(nil), map[string]any{"k": "v"})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, got)
	})

	t.Run("adds data", func(t *testing.T) {
		p := NewContextProvider(constants.EvalData)
		ctx, err := AddDataToContextHelper(t.Context(), nil, p, map[string]any{"k": "v"})
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"k": "v"}, got)
	})
}
