package script

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-jscore/engines/types"
	"github.com/robbyt/go-jscore/internal/helpers"
	"github.com/robbyt/go-jscore/platform/constants"
	"github.com/robbyt/go-jscore/platform/data"
	"github.com/robbyt/go-jscore/platform/script/loader"
)

type mockCompiler struct {
	mock.Mock
}

func (m *mockCompiler) Compile(scriptReader io.ReadCloser) (ExecutableContent, error) {
	args := m.Called(scriptReader)
	content, ok := args.Get(0).(ExecutableContent)
	if !ok {
		return nil, args.Error(1)
	}
	return content, args.Error(1)
}

type mockContent struct {
	mock.Mock
}

func (m *mockContent) GetSource() string {
	return m.Called().String(0)
}

func (m *mockContent) GetByteCode() any {
	return m.Called().Get(0)
}

func (m *mockContent) GetEngineType() types.Type {
	return m.Called().Get(0).(types.Type)
}

type failingLoader struct{ loader.Loader }

func (failingLoader) GetReader() (io.ReadCloser, error) {
	return nil, errors.New("unreadable")
}

func TestNewExecutableUnit(t *testing.T) {
	t.Parallel()
	const source = "ctx.name + '!'"

	ldr, err := loader.NewFromString(source)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		content := &mockContent{}
		content.On("GetSource").Return(source)
		content.On("GetEngineType").Return(types.JavaScriptCore)

		comp := &mockCompiler{}
		comp.On("Compile", mock.Anything).Return(content, nil)

		provider := data.NewContextProvider(constants.EvalData)
		exe, err := NewExecutableUnit(nil, "", ldr, comp, provider)
		require.NoError(t, err)

		assert.Equal(t, helpers.SHA256(source)[:checksumLength], exe.GetID())
		assert.Equal(t, types.JavaScriptCore, exe.GetEngineType())
		assert.Same(t, content, exe.GetContent())
		assert.Same(t, comp, exe.GetCompiler())
		assert.Same(t, ldr, exe.GetLoader())
		assert.Same(t, provider, exe.GetDataProvider())
		assert.False(t, exe.GetCreatedAt().IsZero())
		assert.Contains(t, exe.String(), exe.GetID())
		comp.AssertExpectations(t)
	})

	t.Run("explicit version", func(t *testing.T) {
		content := &mockContent{}
		comp := &mockCompiler{}
		comp.On("Compile", mock.Anything).Return(content, nil)

		exe, err := NewExecutableUnit(nil, "v2", ldr, comp, nil)
		require.NoError(t, err)
		assert.Equal(t, "v2", exe.GetID())
		assert.Nil(t, exe.GetDataProvider())
		content.AssertNotCalled(t, "GetSource")
	})

	t.Run("nil compiler", func(t *testing.T) {
		_, err := NewExecutableUnit(nil, "", ldr, nil, nil)
		require.ErrorIs(t, err, ErrCompilerNil)
	})

	t.Run("nil loader", func(t *testing.T) {
		_, err := NewExecutableUnit(nil, "", nil, &mockCompiler{}, nil)
		require.ErrorIs(t, err, loader.ErrLoaderNil)
	})

	t.Run("loader error", func(t *testing.T) {
		_, err := NewExecutableUnit(nil, "", failingLoader{ldr}, &mockCompiler{}, nil)
		require.ErrorContains(t, err, "unreadable")
	})

	t.Run("compile error", func(t *testing.T) {
		comp := &mockCompiler{}
		comp.On("Compile", mock.Anything).Return(nil, assert.AnError)

		_, err := NewExecutableUnit(nil, "", ldr, comp, nil)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "compiler failed")
	})
}
