package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-jscore/platform"
	"github.com/robbyt/go-jscore/platform/data"
)

var _ platform.EvaluatorResponse = (*EvaluatorResponse)(nil)

// EvaluatorResponse is a mock platform.EvaluatorResponse.
type EvaluatorResponse struct {
	mock.Mock
}

// Type returns the mocked type. The mock may return a data.Types, or a Go
// value whose JavaScript type is reported.
func (m *EvaluatorResponse) Type() data.Types {
	switch v := m.Called().Get(0).(type) {
	case data.Types:
		return v
	case nil:
		return data.NULL
	case bool:
		return data.BOOL
	case int, int64, float64:
		return data.NUMBER
	case string:
		return data.STRING
	case []any:
		return data.ARRAY
	case map[string]any:
		return data.OBJECT
	case []byte:
		return data.BYTES
	case time.Time:
		return data.DATE
	default:
		panic("unknown type")
	}
}

// Inspect returns the mocked string.
func (m *EvaluatorResponse) Inspect() string {
	return m.Called().String(0)
}

// Interface returns the mocked value.
func (m *EvaluatorResponse) Interface() any {
	return m.Called().Get(0)
}

// GetScriptExeID returns the mocked script ID.
func (m *EvaluatorResponse) GetScriptExeID() string {
	return m.Called().String(0)
}

// GetExecTime returns the mocked execution time.
func (m *EvaluatorResponse) GetExecTime() string {
	return m.Called().String(0)
}
