package evaluator

import (
	"fmt"
	"time"

	"github.com/robbyt/go-jscore/engines/javascriptcore/internal"
	"github.com/robbyt/go-jscore/javascriptcore"
	"github.com/robbyt/go-jscore/platform/data"
)

// execResult is the exported result of one evaluation. It holds only Go
// data, so it stays valid after the evaluation context is closed.
type execResult struct {
	value       any
	jsType      data.Types
	inspect     string
	execTime    time.Duration
	scriptExeID string
}

// newEvalResult exports v while its context is still open.
func newEvalResult(v *javascriptcore.Value, execTime time.Duration, versionID string) (*execResult, error) {
	exported, err := v.Export()
	if err != nil {
		return nil, fmt.Errorf("exporting result: %w", err)
	}
	return &execResult{
		value:       internal.Detach(exported),
		jsType:      typeOf(v, exported),
		inspect:     javascriptcore.Format(v),
		execTime:    execTime,
		scriptExeID: versionID,
	}, nil
}

func typeOf(v *javascriptcore.Value, exported any) data.Types {
	switch {
	case v.IsUndefined():
		return data.UNDEFINED
	case v.IsNull():
		return data.NULL
	case v.IsBoolean():
		return data.BOOL
	case v.IsNumber():
		return data.NUMBER
	case v.IsString():
		return data.STRING
	case v.IsSymbol():
		return data.SYMBOL
	case v.IsFunction():
		return data.FUNCTION
	case v.IsArray():
		return data.ARRAY
	case v.IsDate():
		return data.DATE
	}
	if _, ok := exported.([]byte); ok {
		return data.BYTES
	}
	return data.OBJECT
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Type: %s, Value: %s, ExecTime: %s, ScriptExeID: %s}",
		r.Type(), r.Inspect(), r.GetExecTime(), r.GetScriptExeID())
}

// Type returns the JavaScript type of the result.
func (r *execResult) Type() data.Types {
	return r.jsType
}

// Inspect returns the result formatted like console.log output.
func (r *execResult) Inspect() string {
	return r.inspect
}

// Interface returns the exported Go value.
func (r *execResult) Interface() any {
	return r.value
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}
