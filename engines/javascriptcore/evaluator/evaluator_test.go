package evaluator

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-jscore/engines/javascriptcore/compiler"
	"github.com/robbyt/go-jscore/engines/types"
	jserrors "github.com/robbyt/go-jscore/errors"
	"github.com/robbyt/go-jscore/platform/constants"
	"github.com/robbyt/go-jscore/platform/data"
	"github.com/robbyt/go-jscore/platform/script"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if d, ok := args.Get(0).(map[string]any); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(context.Context), args.Error(1)
}

type foreignContent struct{}

func (foreignContent) GetSource() string         { return "1" }
func (foreignContent) GetByteCode() any          { return nil }
func (foreignContent) GetEngineType() types.Type { return "other" }

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

// newTestEvaluator compiles src and wraps it in an Evaluator reading from
// provider.
func newTestEvaluator(t *testing.T, handler slog.Handler, src string, provider data.Provider, opts ...compiler.FunctionalOption) *Evaluator {
	t.Helper()
	opts = append([]compiler.FunctionalOption{
		compiler.WithLogHandler(handler),
		compiler.WithCtxGlobal(),
		compiler.WithSourceURL("string://inline/test"),
	}, opts...)
	c, err := compiler.New(opts...)
	require.NoError(t, err)

	content, err := c.Compile(io.NopCloser(strings.NewReader(src)))
	require.NoError(t, err)

	e := New(handler, &script.ExecutableUnit{
		ID:           "test-id",
		Content:      content,
		DataProvider: provider,
	})
	t.Cleanup(func() { e.Close() })
	return e
}

func evalWith(t *testing.T, e *Evaluator, input map[string]any) (any, error) {
	t.Helper()
	ctx := t.Context()
	if input != nil {
		var err error
		ctx, err = e.AddDataToContext(ctx, input)
		require.NoError(t, err)
	}
	resp, err := e.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Interface(), nil
}

func TestEvaluator_Eval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		input map[string]any
		want  any
		typ   data.Types
	}{
		{"last expression", "const x = 20; x + 22", nil, 42.0, data.NUMBER},
		{"input data", "`hello ${ctx.name}`", map[string]any{"name": "world"}, "hello world", data.STRING},
		{"result global", "var result = {ok: true}; undefined", nil, map[string]any{"ok": true}, data.OBJECT},
		{"function result", "(function () { return [1, 'two'] })", nil, []any{1.0, "two"}, data.ARRAY},
		{"undefined", "void 0", nil, nil, data.UNDEFINED},
		{"null", "null", nil, nil, data.NULL},
		{"boolean", "ctx.flag === true", map[string]any{"flag": true}, true, data.BOOL},
		{"bytes", "new Uint8Array([1, 2, 3])", nil, []byte{1, 2, 3}, data.BYTES},
		{"date", "new Date(0)", nil, time.UnixMilli(0).UTC(), data.DATE},
		{"functions dropped", "({n: 1, f() {}})", nil, map[string]any{"n": 1.0}, data.OBJECT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEvaluator(t, discardHandler(), tt.src, data.NewContextProvider(constants.EvalData))
			ctx := t.Context()
			if tt.input != nil {
				var err error
				ctx, err = e.AddDataToContext(ctx, tt.input)
				require.NoError(t, err)
			}

			resp, err := e.Eval(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Interface())
			assert.Equal(t, tt.typ, resp.Type())
			assert.Equal(t, "test-id", resp.GetScriptExeID())
			assert.NotEmpty(t, resp.GetExecTime())
		})
	}
}

func TestEvaluator_ReleasesValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"object with functions", "({n: 1, f() {}, list: [1, () => 2], nested: {g() {}}})", false},
		{"result global", "var result = {fn: function () {}}; undefined", false},
		{"function result", "(function () { return {made: [function () {}]} })", false},
		{"console and missing global", "console.info('hi', {a: 1}); typeof user", false},
		{"thenable", "({then() {}})", true},
		{"function returned by function", "(function () { return function () {} })", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			e := newTestEvaluator(t, handler, tt.src,
				data.NewContextProvider(constants.EvalData),
				compiler.WithGlobals([]string{"ctx", "user"}),
			)

			const runs = 5
			for range runs {
				_, err := e.Eval(t.Context())
				if tt.wantErr {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
			}

			var closed int
			for line := range strings.Lines(buf.String()) {
				if !strings.Contains(line, `msg="context closed"`) {
					continue
				}
				closed++
				assert.True(t, strings.HasSuffix(strings.TrimSpace(line), "released=0"), line)
			}
			assert.Equal(t, runs, closed)
		})
	}
}

func TestEvaluator_Request(t *testing.T) {
	t.Parallel()

	src := `
		function handle(request) {
			if (request.method === "POST") {
				return { status: 201, echo: JSON.parse(request.body).msg };
			}
			return { status: 200, page: request.query.page[0] };
		}
		handle(ctx.request)
	`
	e := newTestEvaluator(t, discardHandler(), src, data.NewContextProvider(constants.EvalData))

	get := httptest.NewRequest(http.MethodGet, "/list?page=3", nil)
	got, err := evalWith(t, e, map[string]any{"request": get})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": 200.0, "page": "3"}, got)

	post := httptest.NewRequest(http.MethodPost, "/list", strings.NewReader(`{"msg":"hi"}`))
	got, err = evalWith(t, e, map[string]any{"request": post})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": 201.0, "echo": "hi"}, got)
}

func TestEvaluator_DeclaredGlobals(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator(t, discardHandler(),
		"typeof user === 'undefined' ? 'anonymous' : user.name",
		data.NewContextProvider(constants.EvalData),
		compiler.WithGlobals([]string{"user"}),
	)

	got, err := evalWith(t, e, map[string]any{"user": map[string]any{"name": "ada"}})
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	got, err = evalWith(t, e, nil)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", got)
}

func TestEvaluator_Isolation(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator(t, discardHandler(),
		"globalThis.counter = (globalThis.counter || 0) + 1; counter",
		data.NewContextProvider(constants.EvalData),
	)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			got, err := evalWith(t, e, nil)
			assert.NoError(t, err)
			assert.Equal(t, 1.0, got, "each Eval starts from a fresh context")
		})
	}
	wg.Wait()
}

func TestEvaluator_Errors(t *testing.T) {
	t.Parallel()
	provider := data.NewContextProvider(constants.EvalData)

	t.Run("exception", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "throw new RangeError('too far')", provider)
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, jserrors.ErrException)
		assert.Contains(t, err.Error(), "RangeError: too far")
		assert.Contains(t, err.Error(), "string://inline/test")
	})

	t.Run("promise", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "Promise.resolve(1)", provider)
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, jserrors.ErrUnsupported)
	})

	t.Run("function returning function", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "() => () => 1", provider)
		_, err := e.Eval(t.Context())
		require.ErrorContains(t, err, "function object returned")
	})

	t.Run("symbol", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "Symbol('s')", provider)
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, jserrors.ErrUnsupported)
	})

	t.Run("cancelled context", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "1", provider)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := e.Eval(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("provider error", func(t *testing.T) {
		failing := &mockProvider{}
		failing.On("GetData", mock.Anything).Return(nil, assert.AnError)
		e := newTestEvaluator(t, discardHandler(), "1", failing)
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, assert.AnError)
		failing.AssertExpectations(t)
	})

	t.Run("nil unit", func(t *testing.T) {
		e := New(discardHandler(), nil)
		defer e.Close()
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, ErrExecUnitNil)
	})

	t.Run("nil content", func(t *testing.T) {
		e := New(discardHandler(), &script.ExecutableUnit{ID: "x"})
		defer e.Close()
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, ErrContentNil)
	})

	t.Run("foreign content", func(t *testing.T) {
		e := New(discardHandler(), &script.ExecutableUnit{ID: "x", Content: foreignContent{}})
		defer e.Close()
		_, err := e.Eval(t.Context())
		require.ErrorContains(t, err, "unable to type assert")
	})

	t.Run("closed", func(t *testing.T) {
		e := newTestEvaluator(t, discardHandler(), "1", provider)
		require.NoError(t, e.Close())
		require.NoError(t, e.Close())
		_, err := e.Eval(t.Context())
		require.ErrorIs(t, err, ErrClosed)
	})
}

func TestEvaluator_NoProvider(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator(t, discardHandler(), "typeof ctx === 'object' && Object.keys(ctx).length", nil)
	got, err := evalWith(t, e, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = e.AddDataToContext(t.Context(), map[string]any{"k": "v"})
	require.ErrorIs(t, err, data.ErrNoProvider)
}

func TestEvaluator_StaticAndRuntimeData(t *testing.T) {
	t.Parallel()

	provider := data.NewCompositeProvider(
		data.NewStaticProvider(map[string]any{"greeting": "hello", "name": "static"}),
		data.NewContextProvider(constants.EvalData),
	)
	e := newTestEvaluator(t, discardHandler(), "ctx.greeting + ' ' + ctx.name", provider)

	got, err := evalWith(t, e, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello static", got)

	got, err = evalWith(t, e, map[string]any{"name": "runtime"})
	require.NoError(t, err)
	assert.Equal(t, "hello runtime", got)
}

func TestEvaluator_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	e := newTestEvaluator(t, handler, "console.warn('careful', ctx.n); ctx.n", data.NewContextProvider(constants.EvalData))

	got, err := evalWith(t, e, map[string]any{"n": 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="careful 3"`)
	assert.Contains(t, out, "exeID=test-id")
}

func TestExecResult(t *testing.T) {
	t.Parallel()

	e := newTestEvaluator(t, discardHandler(), "({a: [1, 2]})", nil)
	resp, err := e.Eval(t.Context())
	require.NoError(t, err)

	assert.Equal(t, `{"a":[1,2]}`, resp.Inspect())
	assert.Contains(t, resp.(*execResult).String(), "Type: object")
	assert.Equal(t, "javascriptcore.Evaluator", e.String())
}
